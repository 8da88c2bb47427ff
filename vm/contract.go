package vm

import "github.com/eth2030/evmcore/types"

// Contract is the execution context for a single call frame: the code being
// run, its caller/owner addresses, the value and calldata it was invoked
// with, and its remaining gas.
type Contract struct {
	CallerAddress types.Address
	Address       types.Address
	Code          *types.Bytecode
	CodeHash      types.Hash
	Input         []byte
	Value         *types.Word
	Gas           uint64
}

// NewContract builds a Contract for running code at address on behalf of
// caller, with the given calldata, value, and gas budget.
func NewContract(caller, address types.Address, value *types.Word, gas uint64, code *types.Bytecode, codeHash types.Hash, input []byte) *Contract {
	return &Contract{
		CallerAddress: caller,
		Address:       address,
		Code:          code,
		CodeHash:      codeHash,
		Input:         input,
		Value:         value,
		Gas:           gas,
	}
}

// GetOp returns the opcode at pc, or STOP if pc runs past the end of code.
func (c *Contract) GetOp(pc uint64) OpCode {
	if c.Code == nil {
		return STOP
	}
	return OpCode(c.Code.At(pc))
}

// UseGas deducts gas from the contract's remaining budget, returning false
// (without mutating Gas) if the budget is insufficient.
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// validJumpdest reports whether dest is a valid, in-range JUMPDEST.
func (c *Contract) validJumpdest(dest *types.Word) bool {
	if !dest.IsUint64() {
		return false
	}
	udest := dest.Uint64()
	if c.Code == nil {
		return false
	}
	return c.Code.ValidJumpdest(udest)
}
