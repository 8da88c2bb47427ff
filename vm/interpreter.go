package vm

import (
	"github.com/eth2030/evmcore/types"
)

// ScopeContext is the mutable state local to one running contract: its
// stack and memory. It is threaded through every instruction's execute
// func instead of being fields on Interpreter, so nested calls (which run
// their own Interpreter.Run) never see an outer frame's scratch space.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
}

// Interpreter runs one contract's bytecode to completion against a Host.
type Interpreter struct {
	evm *EVM
}

func newInterpreter(evm *EVM) *Interpreter {
	return &Interpreter{evm: evm}
}

// run is EVM's entry point for executing one contract's code, used by both
// Call and Create once the frame bookkeeping (snapshot, value transfer,
// depth increment) is done.
func (e *EVM) run(contract *Contract) ([]byte, error) {
	in := newInterpreter(e)
	return in.Run(contract)
}

// Run executes contract.Code from pc=0 until it halts, errors, or runs out
// of gas. The loop mirrors the teacher's structure exactly: fetch opcode,
// validate stack bounds, charge constant gas, compute the touched memory
// size, charge dynamic gas (before growing memory — EVM semantics require
// the gas check to happen first), grow memory, execute, advance pc.
func (in *Interpreter) Run(contract *Contract) ([]byte, error) {
	var (
		pc     uint64
		op     OpCode
		mem    = newMemory()
		stack  = newStack()
		scope  = &ScopeContext{Memory: mem, Stack: stack, Contract: contract}
		result []byte
		err    error
	)

	for {
		op = contract.GetOp(pc)
		operationPtr := in.evm.jumpTable[op]
		if operationPtr == nil {
			return nil, ErrInvalidOpcode
		}
		o := operationPtr

		if stack.len() < o.minStack {
			return nil, ErrStackUnderflow
		}
		if stack.len() > o.maxStack {
			return nil, ErrStackOverflow
		}
		if o.writes && in.evm.readOnly {
			return nil, ErrWriteProtection
		}

		if !contract.UseGas(o.constantGas) {
			return nil, ErrOutOfGas
		}

		var memSize uint64
		if o.memorySize != nil {
			size, overflow := o.memorySize(stack)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			wordSize := toWordSize(size)
			memSize = wordSize * 32
		}

		if o.dynamicGas != nil {
			dynGas, gasErr := o.dynamicGas(in, scope, memSize)
			if gasErr != nil {
				return nil, gasErr
			}
			if !contract.UseGas(dynGas) {
				return nil, ErrOutOfGas
			}
		}

		if memSize > 0 {
			mem.resize(memSize)
		}

		if op.IsPush() {
			n := op.PushSize()
			if op == PUSH0 {
				stack.push(types.ZeroWord())
			} else {
				start := pc + 1
				stack.push(types.WordFromBytes(contract.Code.Slice(start, uint64(n))))
			}
			pc += uint64(n) + 1
			continue
		}

		result, err = o.execute(&pc, in, scope)
		if err != nil {
			if err == errJumped {
				continue
			}
			if o.halts {
				return result, haltAsNil(err)
			}
			return nil, err
		}
		if o.halts {
			return result, nil
		}
		if !o.jumps {
			pc++
		}
	}
}

// errJumped is a private sentinel: JUMP/JUMPI's execute func already set
// *pc to the destination and returns this so Run's dispatch loop knows not
// to increment pc again, without making "did this instruction jump" part
// of every other instruction's return contract.
var errJumped = &jumpedError{}

type jumpedError struct{}

func (*jumpedError) Error() string { return "jumped" }

func haltAsNil(err error) error {
	if err == ErrExecutionReverted {
		return err
	}
	return nil
}

// PreWarmAccessList marks the sender, the recipient (if any), and the
// precompile addresses as warm before execution begins, per EIP-2929 (and
// EIP-2930 for any addresses/slots the transaction's access list names).
func (e *EVM) PreWarmAccessList(sender types.Address, recipient *types.Address, accessList []AccessTuple) {
	e.AddAddressToAccessList(sender)
	if recipient != nil {
		e.AddAddressToAccessList(*recipient)
	}
	for addr := range e.precompiles {
		e.AddAddressToAccessList(addr)
	}
	for _, tuple := range accessList {
		e.AddAddressToAccessList(tuple.Address)
		for _, slot := range tuple.StorageKeys {
			e.AddSlotToAccessList(tuple.Address, slot)
		}
	}
}

// AccessTuple is one entry of an EIP-2930 transaction access list.
type AccessTuple struct {
	Address     types.Address
	StorageKeys []types.Hash
}
