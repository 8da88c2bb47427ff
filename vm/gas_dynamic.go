package vm

import (
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
)

// memorySizeForRange returns the byte offset+size an instruction's
// (offset, size) stack operands touch, rounded to a word below by the
// caller. overflow is true if the computation cannot fit in a uint64.
func memorySizeForRange(off, size *types.Word) (uint64, bool) {
	if size.IsZero() {
		return 0, false
	}
	if !off.IsUint64() || !size.IsUint64() {
		return 0, true
	}
	end, overflow := addUint64Overflow(off.Uint64(), size.Uint64())
	return end, overflow
}

func addUint64Overflow(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

func gasMemExpansion(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	return MemoryExpansionGas(uint64(scope.Memory.Len()), memSize), nil
}

func memorySizeMload(s *Stack) (uint64, bool) {
	off := s.back(0)
	if !off.IsUint64() {
		return 0, true
	}
	return addUint64Overflow(off.Uint64(), 32)
}

func memorySizeMstore(s *Stack) (uint64, bool) { return memorySizeMload(s) }

func memorySizeMstore8(s *Stack) (uint64, bool) {
	off := s.back(0)
	if !off.IsUint64() {
		return 0, true
	}
	return addUint64Overflow(off.Uint64(), 1)
}

func memorySizeKeccak256(s *Stack) (uint64, bool) {
	return memorySizeForRange(s.back(0), s.back(1))
}

func gasKeccak256(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	size := scope.Stack.back(1)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return safeAdd(Sha3Gas(size.Uint64()), MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)), nil
}

func memorySizeCallDataCopy(s *Stack) (uint64, bool) { return memorySizeForRange(s.back(0), s.back(2)) }

func gasCallDataCopy(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	size := scope.Stack.back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return safeAdd(CopyGas(size.Uint64()), MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)), nil
}

func memorySizeCodeCopy(s *Stack) (uint64, bool) { return memorySizeForRange(s.back(0), s.back(2)) }

func gasCodeCopy(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	return gasCallDataCopy(in, scope, memSize)
}

func memorySizeExtCodeCopy(s *Stack) (uint64, bool) { return memorySizeForRange(s.back(1), s.back(3)) }

func gasExtCodeCopy(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	size := scope.Stack.back(3)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	memGas := MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)
	addrWord := scope.Stack.back(0)
	addr := types.WordToAddress(addrWord)
	accessGas := coldOrWarmAccountGas(in.evm, addr)
	return safeAdd(safeAdd(CopyGas(size.Uint64()), memGas), accessGas), nil
}

func memorySizeReturn(s *Stack) (uint64, bool) { return memorySizeForRange(s.back(0), s.back(1)) }

func memorySizeReturnDataCopy(s *Stack) (uint64, bool) { return memorySizeForRange(s.back(0), s.back(2)) }

func gasReturnDataCopy(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	return gasCallDataCopy(in, scope, memSize)
}

func memorySizeLog(s *Stack) (uint64, bool) { return memorySizeForRange(s.back(0), s.back(1)) }

func makeGasLog(n int) dynamicGasFunc {
	return func(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
		size := scope.Stack.back(1)
		if !size.IsUint64() {
			return 0, ErrGasUintOverflow
		}
		return safeAdd(LogGasCost(n, size.Uint64()), MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)), nil
	}
}

func gasExp(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	exponent := scope.Stack.back(1)
	return ExpGas(byteLen(exponent)), nil
}

func byteLen(w *types.Word) int {
	bits := w.BitLen()
	return (bits + 7) / 8
}

func memorySizeCreate(s *Stack) (uint64, bool) { return memorySizeForRange(s.back(1), s.back(2)) }

func gasCreate(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	size := scope.Stack.back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	memGas := MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)
	var initGas uint64
	if in.evm.rules.IsShanghai {
		initGas = InitCodeWordGas(size.Uint64())
	}
	return safeAdd(memGas, initGas), nil
}

func gasCreate2(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	size := scope.Stack.back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	memGas := MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)
	hashGas := Sha3Gas(size.Uint64())
	var initGas uint64
	if in.evm.rules.IsShanghai {
		initGas = InitCodeWordGas(size.Uint64())
	}
	return safeAdd(safeAdd(memGas, hashGas), initGas), nil
}

func memorySizeCall(s *Stack) (uint64, bool) {
	// CALL-family: stack layout (top-first) varies by opcode, but the two
	// memory ranges (args, ret) are always the 3rd/4th and 5th/6th operands
	// for CALL/CALLCODE and the 2nd/3rd and 4th/5th for DELEGATECALL/
	// STATICCALL. The execute funcs normalize operand positions before
	// calling memorySizeForRange directly where needed; this generic
	// estimator is only used for CALL/CALLCODE's 7-operand layout.
	inOff, inSize := s.back(3), s.back(4)
	outOff, outSize := s.back(5), s.back(6)
	inEnd, ovIn := memorySizeForRange(inOff, inSize)
	outEnd, ovOut := memorySizeForRange(outOff, outSize)
	if ovIn || ovOut {
		return 0, true
	}
	if outEnd > inEnd {
		return outEnd, false
	}
	return inEnd, false
}

func coldOrWarmAccountGas(evm *EVM, addr types.Address) uint64 {
	if !evm.rules.IsBerlin {
		return 0
	}
	if evm.AddressInAccessList(addr) {
		return params.WarmStorageReadCost
	}
	evm.AddAddressToAccessList(addr)
	return params.ColdAccountAccessCost
}

func gasEIP2929AccountCheck(stackIdx int) dynamicGasFunc {
	return func(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
		addr := types.WordToAddress(scope.Stack.back(stackIdx))
		if !in.evm.rules.IsBerlin {
			return 0, nil
		}
		if in.evm.AddressInAccessList(addr) {
			return params.WarmStorageReadCost, nil
		}
		in.evm.AddAddressToAccessList(addr)
		return params.ColdAccountAccessCost, nil
	}
}

func gasSloadEIP2929(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	addr := scope.Contract.Address
	slot := types.WordToHash(scope.Stack.back(0))
	_, slotWarm := in.evm.SlotInAccessList(addr, slot)
	if slotWarm {
		return params.WarmStorageReadCost, nil
	}
	in.evm.AddSlotToAccessList(addr, slot)
	return params.ColdSloadCost, nil
}

func gasSstoreFrontier(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	current := in.evm.GetState(scope.Contract.Address, types.WordToHash(scope.Stack.back(0)))
	newVal := scope.Stack.back(1)
	if current.IsZero() && !newVal.IsZero() {
		return params.SstoreSetGas, nil
	}
	if !current.IsZero() && newVal.IsZero() {
		in.evm.AddRefund(params.SstoreClearsScheduleRefundEIP2200)
	}
	return params.SstoreResetGas, nil
}

func gasSstoreEIP2200(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	if scope.Contract.Gas <= params.CallStipend {
		return 0, ErrOutOfGas
	}
	addr := scope.Contract.Address
	key := types.WordToHash(scope.Stack.back(0))
	current := in.evm.GetState(addr, key)
	original := in.evm.GetCommittedState(addr, key)
	gas, refund := SstoreGas(&original, &current, scope.Stack.back(1), params.SstoreClearsScheduleRefundEIP2200)
	if refund > 0 {
		in.evm.AddRefund(uint64(refund))
	} else if refund < 0 {
		in.evm.SubRefund(uint64(-refund))
	}
	return gas, nil
}

func gasSstoreEIP2929(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	if scope.Contract.Gas <= params.CallStipend {
		return 0, ErrOutOfGas
	}
	addr := scope.Contract.Address
	key := types.WordToHash(scope.Stack.back(0))
	var coldGas uint64
	if _, slotWarm := in.evm.SlotInAccessList(addr, key); !slotWarm {
		in.evm.AddSlotToAccessList(addr, key)
		coldGas = params.ColdSloadCost
	}
	current := in.evm.GetState(addr, key)
	original := in.evm.GetCommittedState(addr, key)
	clearsRefund := params.SstoreClearsScheduleRefundEIP2200
	if in.evm.rules.IsLondon {
		clearsRefund = params.SstoreClearsScheduleRefund
	}
	gas, refund := SstoreGas(&original, &current, scope.Stack.back(1), clearsRefund)
	if refund > 0 {
		in.evm.AddRefund(uint64(refund))
	} else if refund < 0 {
		in.evm.SubRefund(uint64(-refund))
	}
	return safeAdd(gas, coldGas), nil
}

func gasSelfdestruct(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	beneficiary := types.WordToAddress(scope.Stack.back(0))
	var gas uint64
	if in.evm.rules.IsBerlin && !in.evm.AddressInAccessList(beneficiary) {
		in.evm.AddAddressToAccessList(beneficiary)
		gas = params.ColdAccountAccessCost
	}
	if in.evm.rules.IsSpuriousDragon {
		balance := in.evm.GetBalance(scope.Contract.Address)
		if !balance.IsZero() && in.evm.Empty(beneficiary) {
			gas = safeAdd(gas, params.CreateBySelfdestructGas)
		}
	}
	if !in.evm.rules.IsLondon && !in.evm.HasSelfDestructed(scope.Contract.Address) {
		in.evm.AddRefund(params.SelfdestructRefundGas)
	}
	return gas, nil
}

func memorySizeMcopy(s *Stack) (uint64, bool) {
	dstEnd, ov1 := memorySizeForRange(s.back(0), s.back(2))
	srcEnd, ov2 := memorySizeForRange(s.back(1), s.back(2))
	if ov1 || ov2 {
		return 0, true
	}
	if srcEnd > dstEnd {
		return srcEnd, false
	}
	return dstEnd, false
}

func gasMcopy(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	size := scope.Stack.back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return safeAdd(McopyGas(size.Uint64()), MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)), nil
}
