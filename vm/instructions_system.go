package vm

import (
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
)

func opSload(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	key := scope.Stack.peek()
	val := in.evm.GetState(scope.Contract.Address, types.WordToHash(key))
	key.Set(&val)
	return nil, nil
}

func opSstore(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	key, val := scope.Stack.pop(), scope.Stack.pop()
	in.evm.SetState(scope.Contract.Address, types.WordToHash(key), *val)
	return nil, nil
}

func makeLog(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
		off, size := scope.Stack.pop(), scope.Stack.pop()
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			topics[i] = types.WordToHash(scope.Stack.pop())
		}
		data := scope.Memory.Get(off.Uint64(), size.Uint64())
		in.evm.AddLog(&types.Log{Address: scope.Contract.Address, Topics: topics, Data: data})
		return nil, nil
	}
}

func opReturn(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	off, size := scope.Stack.pop(), scope.Stack.pop()
	return scope.Memory.Get(off.Uint64(), size.Uint64()), nil
}

func opRevert(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	off, size := scope.Stack.pop(), scope.Stack.pop()
	return scope.Memory.Get(off.Uint64(), size.Uint64()), ErrExecutionReverted
}

func opInvalid(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, ErrInvalidOpcode
}

func opSelfdestruct(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	beneficiary := scope.Stack.pop()
	balance := new(types.Word).Set(in.evm.GetBalance(scope.Contract.Address))
	in.evm.SubBalance(scope.Contract.Address, balance)
	in.evm.AddBalance(types.WordToAddress(beneficiary), balance)
	in.evm.SelfDestruct(scope.Contract.Address)
	return nil, nil
}

func opCreate(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	value, off, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	code := scope.Memory.Get(off.Uint64(), size.Uint64())
	gas := CallGasCapped(scope.Contract.Gas, scope.Contract.Gas)
	scope.Contract.Gas -= gas
	ret, addr, leftOver, err := in.evm.Create(scope.Contract, CallKindCreate, code, gas, value, nil)
	scope.Contract.Gas += leftOver
	if err != nil && err != ErrExecutionReverted {
		scope.Stack.push(types.ZeroWord())
	} else {
		scope.Stack.push(types.AddressToWord(addr))
	}
	if err == ErrExecutionReverted {
		in.evm.returnData = ret
	}
	return nil, nil
}

func opCreate2(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	value, off, size, salt := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	code := scope.Memory.Get(off.Uint64(), size.Uint64())
	gas := CallGasCapped(scope.Contract.Gas, scope.Contract.Gas)
	scope.Contract.Gas -= gas
	ret, addr, leftOver, err := in.evm.Create(scope.Contract, CallKindCreate2, code, gas, value, salt)
	scope.Contract.Gas += leftOver
	if err != nil && err != ErrExecutionReverted {
		scope.Stack.push(types.ZeroWord())
	} else {
		scope.Stack.push(types.AddressToWord(addr))
	}
	if err == ErrExecutionReverted {
		in.evm.returnData = ret
	}
	return nil, nil
}

func pushCallResult(scope *ScopeContext, err error) {
	if err != nil {
		scope.Stack.push(types.ZeroWord())
	} else {
		scope.Stack.push(types.WordFromUint64(1))
	}
}

func opCall(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	gasArg, addrW, value, argOff, argSize, retOff, retSize :=
		scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	addr := types.WordToAddress(addrW)
	args := scope.Memory.Get(argOff.Uint64(), argSize.Uint64())

	gas := callGasFor(in, scope, addr, gasArg, !value.IsZero())
	scope.Contract.Gas -= gas
	if !value.IsZero() {
		gas += params.CallStipend
	}
	ret, leftOver, err := in.evm.Call(scope.Contract, CallKindCall, addr, args, gas, value)
	scope.Contract.Gas += leftOver
	scope.Memory.Set(retOff.Uint64(), minUint64(retSize.Uint64(), uint64(len(ret))), ret)
	pushCallResult(scope, err)
	return nil, nil
}

func opCallCode(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	gasArg, addrW, value, argOff, argSize, retOff, retSize :=
		scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	addr := types.WordToAddress(addrW)
	args := scope.Memory.Get(argOff.Uint64(), argSize.Uint64())

	gas := callGasFor(in, scope, addr, gasArg, !value.IsZero())
	scope.Contract.Gas -= gas
	if !value.IsZero() {
		gas += params.CallStipend
	}
	ret, leftOver, err := in.evm.Call(scope.Contract, CallKindCallCode, addr, args, gas, value)
	scope.Contract.Gas += leftOver
	scope.Memory.Set(retOff.Uint64(), minUint64(retSize.Uint64(), uint64(len(ret))), ret)
	pushCallResult(scope, err)
	return nil, nil
}

func opDelegateCall(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	gasArg, addrW, argOff, argSize, retOff, retSize :=
		scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	addr := types.WordToAddress(addrW)
	args := scope.Memory.Get(argOff.Uint64(), argSize.Uint64())

	gas := callGasFor(in, scope, addr, gasArg, false)
	scope.Contract.Gas -= gas
	ret, leftOver, err := in.evm.Call(scope.Contract, CallKindDelegateCall, addr, args, gas, nil)
	scope.Contract.Gas += leftOver
	scope.Memory.Set(retOff.Uint64(), minUint64(retSize.Uint64(), uint64(len(ret))), ret)
	pushCallResult(scope, err)
	return nil, nil
}

func opStaticCall(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	gasArg, addrW, argOff, argSize, retOff, retSize :=
		scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	addr := types.WordToAddress(addrW)
	args := scope.Memory.Get(argOff.Uint64(), argSize.Uint64())

	gas := callGasFor(in, scope, addr, gasArg, false)
	scope.Contract.Gas -= gas
	ret, leftOver, err := in.evm.Call(scope.Contract, CallKindStaticCall, addr, args, gas, types.ZeroWord())
	scope.Contract.Gas += leftOver
	scope.Memory.Set(retOff.Uint64(), minUint64(retSize.Uint64(), uint64(len(ret))), ret)
	pushCallResult(scope, err)
	return nil, nil
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// callGasFor computes the gas actually forwarded to a CALL-family
// instruction's callee: the EIP-2929 cold/warm surcharge is deducted from
// the caller's remaining gas first, then the 63/64 rule caps what is left
// against the explicitly requested amount.
func callGasFor(in *Interpreter, scope *ScopeContext, addr types.Address, gasArg *types.Word, hasValue bool) uint64 {
	accessGas := coldOrWarmAccountGas(in.evm, addr)
	available := scope.Contract.Gas
	if available > accessGas {
		available -= accessGas
	} else {
		available = 0
	}
	requested := available
	if gasArg.IsUint64() {
		requested = gasArg.Uint64()
	}
	capped := CallGasCapped(available, requested)
	if scope.Contract.Gas > accessGas {
		scope.Contract.Gas -= accessGas
	} else {
		scope.Contract.Gas = 0
	}
	return capped
}

func gasCall(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	addr := types.WordToAddress(scope.Stack.back(1))
	value := scope.Stack.back(2)
	memGas := MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)
	var transferGas, newAccountGas uint64
	if !value.IsZero() {
		transferGas = params.CallValueTransferGas
		if !in.evm.Exist(addr) && in.evm.rules.IsSpuriousDragon {
			newAccountGas = params.CallNewAccountGas
		} else if !in.evm.rules.IsSpuriousDragon && !in.evm.Exist(addr) {
			newAccountGas = params.CallNewAccountGas
		}
	}
	return safeAdd(safeAdd(memGas, transferGas), newAccountGas), nil
}

func gasCallCode(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	value := scope.Stack.back(2)
	memGas := MemoryExpansionGas(uint64(scope.Memory.Len()), memSize)
	var transferGas uint64
	if !value.IsZero() {
		transferGas = params.CallValueTransferGas
	}
	return safeAdd(memGas, transferGas), nil
}

func gasDelegateCall(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	return MemoryExpansionGas(uint64(scope.Memory.Len()), memSize), nil
}

func gasStaticCall(in *Interpreter, scope *ScopeContext, memSize uint64) (uint64, error) {
	return MemoryExpansionGas(uint64(scope.Memory.Len()), memSize), nil
}
