package vm

import "github.com/eth2030/evmcore/types"

func opStop(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPop(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pop()
	return nil, nil
}

func makePush(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
		// handled directly in Run's dispatch loop to avoid re-slicing code
		// twice; never actually invoked (kept only so the jump table's
		// generic dispatch path has a non-nil execute func to validate
		// against in isolation, e.g. in tests that call it directly).
		start := *pc + 1
		scope.Stack.push(types.WordFromBytes(scope.Contract.Code.Slice(start, uint64(n))))
		*pc += uint64(n)
		return nil, nil
	}
}

func opPush0(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.ZeroWord())
	return nil, nil
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.swap(n)
		return nil, nil
	}
}

func opMload(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	off := scope.Stack.peek()
	offset := off.Uint64()
	off.SetBytes(scope.Memory.Get(offset, 32))
	return nil, nil
}

func opMstore(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.Set32(off.Uint64(), val)
	return nil, nil
}

func opMstore8(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.Set(off.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opMsize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(uint64(scope.Memory.Len())))
	return nil, nil
}

func opMcopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	dst, src, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	if !size.IsZero() {
		copy(scope.Memory.GetPtr(dst.Uint64(), size.Uint64()), scope.Memory.GetPtr(src.Uint64(), size.Uint64()))
	}
	return nil, nil
}

func opPc(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(*pc))
	return nil, nil
}

func opGas(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(scope.Contract.Gas))
	return nil, nil
}

func opJumpdest(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opJump(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	dest := scope.Stack.pop()
	if !scope.Contract.validJumpdest(dest) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, errJumped
}

func opJumpi(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	dest, cond := scope.Stack.pop(), scope.Stack.pop()
	if cond.IsZero() {
		*pc++
		return nil, errJumped
	}
	if !scope.Contract.validJumpdest(dest) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, errJumped
}
