package vm

import (
	"github.com/eth2030/evmcore/params"
)

// executionFunc runs one instruction. pc is advanced by the caller unless
// the instruction itself is a jump (in which case it sets *pc and returns
// the errJumped sentinel).
type executionFunc func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error)

// dynamicGasFunc computes an instruction's variable gas component, given
// the stack (already validated against minStack/maxStack) and the memory
// size (in bytes) the instruction is about to touch.
type dynamicGasFunc func(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error)

// memorySizeFunc computes the memory size (in bytes) an instruction needs,
// from its stack operands, before dynamicGas and execute run.
type memorySizeFunc func(stack *Stack) (uint64, bool)

type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  dynamicGasFunc
	minStack    int
	maxStack    int
	memorySize  memorySizeFunc
	halts       bool
	jumps       bool
	writes      bool // a STATICCALL context rejects this instruction
}

// JumpTable maps every possible opcode byte to its operation, nil for
// opcodes not yet introduced at (or ever present in) the active fork.
type JumpTable [256]*operation

func minStack(pops, pushes int) int { return pops }
func maxStack(pops, pushes int) int { return maxStackSize - pushes + pops }

// NewFrontierJumpTable builds the table for the original Ethereum opcode
// set. Later forks build on top of this by copying the table and patching
// in the opcodes/costs that changed, mirroring the historical order they
// were introduced in.
func NewFrontierJumpTable() *JumpTable {
	tbl := &JumpTable{}

	set := func(op OpCode, o operation) { tbl[op] = &o }

	set(STOP, operation{execute: opStop, constantGas: params.GasZero, minStack: minStack(0, 0), maxStack: maxStack(0, 0), halts: true})
	set(ADD, operation{execute: opAdd, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(MUL, operation{execute: opMul, constantGas: params.GasLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SUB, operation{execute: opSub, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(DIV, operation{execute: opDiv, constantGas: params.GasLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SDIV, operation{execute: opSdiv, constantGas: params.GasLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(MOD, operation{execute: opMod, constantGas: params.GasLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SMOD, operation{execute: opSmod, constantGas: params.GasLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(ADDMOD, operation{execute: opAddmod, constantGas: params.GasMid, minStack: minStack(3, 1), maxStack: maxStack(3, 1)})
	set(MULMOD, operation{execute: opMulmod, constantGas: params.GasMid, minStack: minStack(3, 1), maxStack: maxStack(3, 1)})
	set(EXP, operation{execute: opExp, constantGas: params.GasHigh, dynamicGas: gasExp, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SIGNEXTEND, operation{execute: opSignExtend, constantGas: params.GasLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})

	set(LT, operation{execute: opLt, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(GT, operation{execute: opGt, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SLT, operation{execute: opSlt, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SGT, operation{execute: opSgt, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(EQ, operation{execute: opEq, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(ISZERO, operation{execute: opIszero, constantGas: params.GasVeryLow, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(AND, operation{execute: opAnd, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(OR, operation{execute: opOr, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(XOR, operation{execute: opXor, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(NOT, operation{execute: opNot, constantGas: params.GasVeryLow, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(BYTE, operation{execute: opByte, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})

	set(KECCAK256, operation{execute: opKeccak256, constantGas: params.Keccak256Gas, dynamicGas: gasKeccak256, memorySize: memorySizeKeccak256, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})

	set(ADDRESS, operation{execute: opAddress, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(BALANCE, operation{execute: opBalance, constantGas: params.GasExt, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(ORIGIN, operation{execute: opOrigin, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLER, operation{execute: opCaller, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLVALUE, operation{execute: opCallValue, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLDATALOAD, operation{execute: opCallDataLoad, constantGas: params.GasVeryLow, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(CALLDATASIZE, operation{execute: opCallDataSize, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLDATACOPY, operation{execute: opCallDataCopy, constantGas: params.GasVeryLow, dynamicGas: gasCallDataCopy, memorySize: memorySizeCallDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0)})
	set(CODESIZE, operation{execute: opCodeSize, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CODECOPY, operation{execute: opCodeCopy, constantGas: params.GasVeryLow, dynamicGas: gasCodeCopy, memorySize: memorySizeCodeCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0)})
	set(GASPRICE, operation{execute: opGasprice, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(EXTCODESIZE, operation{execute: opExtCodeSize, constantGas: params.GasExt, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(EXTCODECOPY, operation{execute: opExtCodeCopy, constantGas: params.GasExt, dynamicGas: gasExtCodeCopy, memorySize: memorySizeExtCodeCopy, minStack: minStack(4, 0), maxStack: maxStack(4, 0)})
	set(BLOCKHASH, operation{execute: opBlockhash, constantGas: params.GasExt, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(COINBASE, operation{execute: opCoinbase, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(TIMESTAMP, operation{execute: opTimestamp, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(NUMBER, operation{execute: opNumber, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(DIFFICULTY, operation{execute: opDifficulty, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(GASLIMIT, operation{execute: opGasLimit, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})

	set(POP, operation{execute: opPop, constantGas: params.GasBase, minStack: minStack(1, 0), maxStack: maxStack(1, 0)})
	set(MLOAD, operation{execute: opMload, constantGas: params.GasVeryLow, dynamicGas: gasMemExpansion, memorySize: memorySizeMload, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(MSTORE, operation{execute: opMstore, constantGas: params.GasVeryLow, dynamicGas: gasMemExpansion, memorySize: memorySizeMstore, minStack: minStack(2, 0), maxStack: maxStack(2, 0)})
	set(MSTORE8, operation{execute: opMstore8, constantGas: params.GasVeryLow, dynamicGas: gasMemExpansion, memorySize: memorySizeMstore8, minStack: minStack(2, 0), maxStack: maxStack(2, 0)})
	set(SLOAD, operation{execute: opSload, constantGas: params.SloadGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(SSTORE, operation{execute: opSstore, dynamicGas: gasSstoreFrontier, minStack: minStack(2, 0), maxStack: maxStack(2, 0), writes: true})
	set(JUMP, operation{execute: opJump, constantGas: params.GasMid, minStack: minStack(1, 0), maxStack: maxStack(1, 0), jumps: true})
	set(JUMPI, operation{execute: opJumpi, constantGas: params.GasHigh, minStack: minStack(2, 0), maxStack: maxStack(2, 0), jumps: true})
	set(PC, operation{execute: opPc, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(MSIZE, operation{execute: opMsize, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(GAS, operation{execute: opGas, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(JUMPDEST, operation{execute: opJumpdest, constantGas: 1, minStack: minStack(0, 0), maxStack: maxStack(0, 0)})

	for i := 0; i < 32; i++ {
		op := PUSH1 + OpCode(i)
		n := i + 1
		set(op, operation{execute: makePush(n), constantGas: params.GasVeryLow, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	}
	for i := 0; i < 16; i++ {
		op := DUP1 + OpCode(i)
		n := i + 1
		set(op, operation{execute: makeDup(n), constantGas: params.GasVeryLow, minStack: minStack(n, n+1), maxStack: maxStack(n, n+1)})
	}
	for i := 0; i < 16; i++ {
		op := SWAP1 + OpCode(i)
		n := i + 1
		set(op, operation{execute: makeSwap(n), constantGas: params.GasVeryLow, minStack: minStack(n+1, n+1), maxStack: maxStack(n+1, n+1)})
	}
	for i := 0; i < 5; i++ {
		op := LOG0 + OpCode(i)
		n := i
		set(op, operation{execute: makeLog(n), constantGas: params.LogGas, dynamicGas: makeGasLog(n), memorySize: memorySizeLog, minStack: minStack(2+n, 0), maxStack: maxStack(2+n, 0), writes: true})
	}

	set(CREATE, operation{execute: opCreate, constantGas: params.CreateGas, dynamicGas: gasCreate, memorySize: memorySizeCreate, minStack: minStack(3, 1), maxStack: maxStack(3, 1), writes: true})
	set(CALL, operation{execute: opCall, constantGas: params.CallGasFrontier, dynamicGas: gasCall, memorySize: memorySizeCall, minStack: minStack(7, 1), maxStack: maxStack(7, 1)})
	set(CALLCODE, operation{execute: opCallCode, constantGas: params.CallGasFrontier, dynamicGas: gasCallCode, memorySize: memorySizeCall, minStack: minStack(7, 1), maxStack: maxStack(7, 1)})
	set(RETURN, operation{execute: opReturn, dynamicGas: gasMemExpansion, memorySize: memorySizeReturn, minStack: minStack(2, 0), maxStack: maxStack(2, 0), halts: true})
	set(INVALID, operation{execute: opInvalid, minStack: minStack(0, 0), maxStack: maxStack(0, 0)})
	set(SELFDESTRUCT, operation{execute: opSelfdestruct, constantGas: params.SelfdestructGas, dynamicGas: gasSelfdestruct, minStack: minStack(1, 0), maxStack: maxStack(1, 0), halts: true, writes: true})

	return tbl
}

func copyTable(src *JumpTable) *JumpTable {
	var dst JumpTable
	dst = *src
	return &dst
}

// NewHomesteadJumpTable adds DELEGATECALL.
func NewHomesteadJumpTable() *JumpTable {
	tbl := copyTable(NewFrontierJumpTable())
	tbl[DELEGATECALL] = &operation{execute: opDelegateCall, constantGas: params.CallGasFrontier, dynamicGas: gasDelegateCall, memorySize: memorySizeCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1)}
	return tbl
}

// NewTangerineWhistleJumpTable repricess EXT* ops per EIP-150; costs are
// applied dynamically via the EIP-2929 path from Berlin onward, so this
// fork only bumps the flat constantGas for the pre-Berlin schedule.
func NewTangerineWhistleJumpTable() *JumpTable {
	tbl := copyTable(NewHomesteadJumpTable())
	bump := func(op OpCode, gas uint64) {
		o := *tbl[op]
		o.constantGas = gas
		tbl[op] = &o
	}
	bump(BALANCE, 400)
	bump(EXTCODESIZE, params.CallGasEIP150)
	bump(EXTCODECOPY, params.CallGasEIP150)
	bump(SLOAD, params.SloadGasTangerineWhistle)
	bump(CALL, params.CallGasEIP150)
	bump(CALLCODE, params.CallGasEIP150)
	bump(DELEGATECALL, params.CallGasEIP150)
	bump(SELFDESTRUCT, 5000)
	return tbl
}

// NewSpuriousDragonJumpTable has no opcode changes (EIP-161/170 are state
// and deploy-time rules, enforced outside the jump table).
func NewSpuriousDragonJumpTable() *JumpTable {
	return copyTable(NewTangerineWhistleJumpTable())
}

// NewByzantiumJumpTable adds REVERT, STATICCALL, RETURNDATASIZE,
// RETURNDATACOPY.
func NewByzantiumJumpTable() *JumpTable {
	tbl := copyTable(NewSpuriousDragonJumpTable())
	tbl[REVERT] = &operation{execute: opRevert, dynamicGas: gasMemExpansion, memorySize: memorySizeReturn, minStack: minStack(2, 0), maxStack: maxStack(2, 0), halts: true}
	tbl[STATICCALL] = &operation{execute: opStaticCall, constantGas: params.CallGasEIP150, dynamicGas: gasStaticCall, memorySize: memorySizeCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1)}
	tbl[RETURNDATASIZE] = &operation{execute: opReturnDataSize, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: params.GasVeryLow, dynamicGas: gasReturnDataCopy, memorySize: memorySizeReturnDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0)}
	return tbl
}

// NewConstantinopleJumpTable adds SHL/SHR/SAR, CREATE2, and EXTCODEHASH
// (EIP-1052).
func NewConstantinopleJumpTable() *JumpTable {
	tbl := copyTable(NewByzantiumJumpTable())
	tbl[SHL] = &operation{execute: opShl, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SHR] = &operation{execute: opShr, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SAR] = &operation{execute: opSar, constantGas: params.GasVeryLow, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[CREATE2] = &operation{execute: opCreate2, constantGas: params.CreateGas, dynamicGas: gasCreate2, memorySize: memorySizeCreate, minStack: minStack(4, 1), maxStack: maxStack(4, 1), writes: true}
	tbl[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: params.ExtcodeHashGasConstantinople, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	return tbl
}

// NewIstanbulJumpTable adds CHAINID, SELFBALANCE, the EIP-2200 SSTORE
// net-gas metering, and EIP-1884's SLOAD/BALANCE/EXTCODEHASH repricing.
func NewIstanbulJumpTable() *JumpTable {
	tbl := copyTable(NewConstantinopleJumpTable())
	tbl[CHAINID] = &operation{execute: opChainID, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SELFBALANCE] = &operation{execute: opSelfBalance, constantGas: params.GasLow, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SSTORE] = &operation{execute: opSstore, dynamicGas: gasSstoreEIP2200, minStack: minStack(2, 0), maxStack: maxStack(2, 0), writes: true}
	bump := func(op OpCode, gas uint64) {
		o := *tbl[op]
		o.constantGas = gas
		tbl[op] = &o
	}
	bump(SLOAD, params.SloadGasEIP1884)
	bump(BALANCE, params.ExtcodeHashGasEIP1884)
	bump(EXTCODEHASH, params.ExtcodeHashGasEIP1884)
	return tbl
}

// NewBerlinJumpTable removes SLOAD/BALANCE/EXTCODE*/CALL-family constant
// gas (replaced with dynamic EIP-2929 warm/cold accounting) without adding
// new opcodes.
func NewBerlinJumpTable() *JumpTable {
	tbl := copyTable(NewIstanbulJumpTable())
	zeroConst := func(op OpCode) {
		o := *tbl[op]
		o.constantGas = 0
		tbl[op] = &o
	}
	tbl[SLOAD] = &operation{execute: opSload, dynamicGas: gasSloadEIP2929, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[SSTORE] = &operation{execute: opSstore, dynamicGas: gasSstoreEIP2929, minStack: minStack(2, 0), maxStack: maxStack(2, 0), writes: true}
	zeroConst(BALANCE)
	tbl[BALANCE] = &operation{execute: opBalance, dynamicGas: gasEIP2929AccountCheck(0), minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	zeroConst(EXTCODESIZE)
	tbl[EXTCODESIZE] = &operation{execute: opExtCodeSize, dynamicGas: gasEIP2929AccountCheck(0), minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	zeroConst(EXTCODECOPY)
	zeroConst(EXTCODEHASH)
	zeroConst(CALL)
	tbl[CALL] = &operation{execute: opCall, dynamicGas: gasCall, memorySize: memorySizeCall, minStack: minStack(7, 1), maxStack: maxStack(7, 1)}
	zeroConst(CALLCODE)
	tbl[CALLCODE] = &operation{execute: opCallCode, dynamicGas: gasCallCode, memorySize: memorySizeCall, minStack: minStack(7, 1), maxStack: maxStack(7, 1)}
	zeroConst(DELEGATECALL)
	tbl[DELEGATECALL] = &operation{execute: opDelegateCall, dynamicGas: gasDelegateCall, memorySize: memorySizeCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1)}
	zeroConst(STATICCALL)
	tbl[STATICCALL] = &operation{execute: opStaticCall, dynamicGas: gasStaticCall, memorySize: memorySizeCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1)}
	tbl[EXTCODEHASH] = &operation{execute: opExtCodeHash, dynamicGas: gasEIP2929AccountCheck(0), minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	return tbl
}

// NewLondonJumpTable adds BASEFEE.
func NewLondonJumpTable() *JumpTable {
	tbl := copyTable(NewBerlinJumpTable())
	tbl[BASEFEE] = &operation{execute: opBaseFee, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	return tbl
}

// NewMergeJumpTable has no opcode changes; DIFFICULTY's return value
// changes meaning to PREVRANDAO (opDifficulty pushes BlockContext.Difficulty,
// which carries PREVRANDAO post-Merge).
func NewMergeJumpTable() *JumpTable { return copyTable(NewLondonJumpTable()) }

// NewShanghaiJumpTable adds PUSH0.
func NewShanghaiJumpTable() *JumpTable {
	tbl := copyTable(NewMergeJumpTable())
	tbl[PUSH0] = &operation{execute: opPush0, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	return tbl
}

// NewCancunJumpTable adds TLOAD/TSTORE (EIP-1153), MCOPY (EIP-5656),
// BLOBHASH (EIP-4844), and BLOBBASEFEE (EIP-7516).
func NewCancunJumpTable() *JumpTable {
	tbl := copyTable(NewShanghaiJumpTable())
	tbl[TLOAD] = &operation{execute: opTload, constantGas: params.TloadGas, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[TSTORE] = &operation{execute: opTstore, constantGas: params.TstoreGas, minStack: minStack(2, 0), maxStack: maxStack(2, 0), writes: true}
	tbl[MCOPY] = &operation{execute: opMcopy, constantGas: params.GasVeryLow, dynamicGas: gasMcopy, memorySize: memorySizeMcopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0)}
	tbl[BLOBHASH] = &operation{execute: opBlobHash, constantGas: params.GasVeryLow, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[BLOBBASEFEE] = &operation{execute: opBlobBaseFee, constantGas: params.GasBase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	return tbl
}

// SelectJumpTable returns the jump table for the given fork.
func SelectJumpTable(f params.Fork) *JumpTable {
	switch {
	case f >= params.Cancun:
		return NewCancunJumpTable()
	case f >= params.Shanghai:
		return NewShanghaiJumpTable()
	case f >= params.Merge:
		return NewMergeJumpTable()
	case f >= params.London:
		return NewLondonJumpTable()
	case f >= params.Berlin:
		return NewBerlinJumpTable()
	case f >= params.Istanbul:
		return NewIstanbulJumpTable()
	case f >= params.Constantinople:
		return NewConstantinopleJumpTable()
	case f >= params.Byzantium:
		return NewByzantiumJumpTable()
	case f >= params.SpuriousDragon:
		return NewSpuriousDragonJumpTable()
	case f >= params.TangerineWhistle:
		return NewTangerineWhistleJumpTable()
	case f >= params.Homestead:
		return NewHomesteadJumpTable()
	default:
		return NewFrontierJumpTable()
	}
}
