package vm

import "github.com/eth2030/evmcore/types"

func opAddress(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.AddressToWord(scope.Contract.Address))
	return nil, nil
}

func opBalance(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	addr := scope.Stack.peek()
	bal := in.evm.GetBalance(types.WordToAddress(addr))
	addr.Set(bal)
	return nil, nil
}

func opOrigin(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.AddressToWord(in.evm.txCtx.Origin))
	return nil, nil
}

func opCaller(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.AddressToWord(scope.Contract.CallerAddress))
	return nil, nil
}

func opCallValue(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(types.Word).Set(scope.Contract.Value))
	return nil, nil
}

func opCallDataLoad(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if !x.IsUint64() {
		x.Clear()
		return nil, nil
	}
	off := x.Uint64()
	x.SetBytes(sliceWithPad(scope.Contract.Input, off, 32))
	return nil, nil
}

func sliceWithPad(data []byte, start, size uint64) []byte {
	out := make([]byte, size)
	if start >= uint64(len(data)) {
		return out
	}
	end := start + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	copy(out, data[start:end])
	return out
}

func opCallDataSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(uint64(len(scope.Contract.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOff, dataOff, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	if size.IsZero() {
		return nil, nil
	}
	var off uint64
	if dataOff.IsUint64() {
		off = dataOff.Uint64()
	} else {
		off = uint64(len(scope.Contract.Input))
	}
	scope.Memory.Set(memOff.Uint64(), size.Uint64(), sliceWithPad(scope.Contract.Input, off, size.Uint64()))
	return nil, nil
}

func opCodeSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(uint64(scope.Contract.Code.Len())))
	return nil, nil
}

func opCodeCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOff, codeOff, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	if size.IsZero() {
		return nil, nil
	}
	var off uint64
	if codeOff.IsUint64() {
		off = codeOff.Uint64()
	} else {
		off = uint64(scope.Contract.Code.Len())
	}
	scope.Memory.Set(memOff.Uint64(), size.Uint64(), scope.Contract.Code.Slice(off, size.Uint64()))
	return nil, nil
}

func opGasprice(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(types.Word).Set(in.evm.txCtx.GasPrice))
	return nil, nil
}

func opExtCodeSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	addr := scope.Stack.peek()
	size := in.evm.GetCodeSize(types.WordToAddress(addr))
	addr.SetUint64(uint64(size))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	addrWord, memOff, codeOff, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	if size.IsZero() {
		return nil, nil
	}
	code := in.evm.GetCode(types.WordToAddress(addrWord))
	var off uint64
	if codeOff.IsUint64() {
		off = codeOff.Uint64()
	} else {
		off = uint64(len(code))
	}
	scope.Memory.Set(memOff.Uint64(), size.Uint64(), sliceWithPad(code, off, size.Uint64()))
	return nil, nil
}

func opExtCodeHash(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	addr := scope.Stack.peek()
	a := types.WordToAddress(addr)
	if !in.evm.Exist(a) || in.evm.Empty(a) {
		addr.Clear()
		return nil, nil
	}
	addr.SetBytes(in.evm.GetCodeHash(a).Bytes())
	return nil, nil
}

func opReturnDataSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(uint64(len(in.evm.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOff, dataOff, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	if !dataOff.IsUint64() || !size.IsUint64() {
		return nil, ErrReturnDataOutOfBounds
	}
	off, sz := dataOff.Uint64(), size.Uint64()
	if off+sz > uint64(len(in.evm.returnData)) || off+sz < off {
		return nil, ErrReturnDataOutOfBounds
	}
	scope.Memory.Set(memOff.Uint64(), sz, in.evm.returnData[off:off+sz])
	return nil, nil
}

func opBlockhash(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	num := scope.Stack.peek()
	if !num.IsUint64() {
		num.Clear()
		return nil, nil
	}
	h := in.evm.blockCtx.GetHash(num.Uint64())
	num.SetBytes(h.Bytes())
	return nil, nil
}

func opCoinbase(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.AddressToWord(in.evm.blockCtx.Coinbase))
	return nil, nil
}

func opTimestamp(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(in.evm.blockCtx.Timestamp))
	return nil, nil
}

func opNumber(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(in.evm.blockCtx.Number))
	return nil, nil
}

func opDifficulty(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(types.Word).Set(in.evm.blockCtx.Difficulty))
	return nil, nil
}

func opGasLimit(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(in.evm.blockCtx.GasLimit))
	return nil, nil
}

func opChainID(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(types.WordFromUint64(chainID))
	return nil, nil
}

// chainID is the value CHAINID pushes. It is an unexported package
// variable fixed at 1; nothing outside package vm can change it.
var chainID uint64 = 1

func opSelfBalance(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(in.evm.GetBalance(scope.Contract.Address))
	return nil, nil
}

func opBaseFee(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(types.Word).Set(in.evm.blockCtx.BaseFee))
	return nil, nil
}

func opBlobHash(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	idx := scope.Stack.peek()
	if !idx.IsUint64() || idx.Uint64() >= uint64(len(in.evm.txCtx.BlobHashes)) {
		idx.Clear()
		return nil, nil
	}
	idx.SetBytes(in.evm.txCtx.BlobHashes[idx.Uint64()].Bytes())
	return nil, nil
}

func opBlobBaseFee(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(types.Word).Set(in.evm.blockCtx.BlobBaseFee))
	return nil, nil
}

func opTload(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	key := scope.Stack.peek()
	val := in.evm.GetTransientState(scope.Contract.Address, types.WordToHash(key))
	key.Set(&val)
	return nil, nil
}

func opTstore(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	key, val := scope.Stack.pop(), scope.Stack.pop()
	in.evm.SetTransientState(scope.Contract.Address, types.WordToHash(key), *val)
	return nil, nil
}
