package vm

import (
	"errors"

	"github.com/eth2030/evmcore/crypto"
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/rlp"
	"github.com/eth2030/evmcore/types"
)

// CallKind distinguishes the six ways one frame can invoke another. The
// teacher keeps six near-duplicate methods (Call/CallCode/DelegateCall/
// StaticCall/Create/Create2); this module routes all of them through one
// EVM.Call and one EVM.Create parameterized on CallKind instead, since the
// control flow differs only in a handful of places (see the switches below).
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
	CallKindStaticCall
	CallKindCreate
	CallKindCreate2
)

// Config bundles the EVM's interpreter-wide, fork-independent knobs.
type Config struct {
	NoRecursion bool // for tracer-driven single-step debugging; unused by driver
}

// EVM is the top-level handle for one transaction's execution: it owns the
// journaled state, the active call depth, and the fork-selected jump table
// and precompile set, and implements Host for the interpreter.
type EVM struct {
	stateDB     StateDB
	blockCtx    BlockContext
	txCtx       TxContext
	rules       params.Rules
	jumpTable   *JumpTable
	precompiles PrecompiledContracts
	config      Config
	depth       int

	// readOnly becomes true for the duration of a STATICCALL subtree.
	readOnly bool
	// returnData is the last subcall's return data, read by RETURNDATACOPY.
	returnData []byte
}

// NewEVM builds an EVM ready to execute transactions under the given
// fork rules.
func NewEVM(stateDB StateDB, blockCtx BlockContext, txCtx TxContext, fork params.Fork, cfg Config) *EVM {
	rules := params.RulesForFork(fork)
	return &EVM{
		stateDB:     stateDB,
		blockCtx:    blockCtx,
		txCtx:       txCtx,
		rules:       rules,
		jumpTable:   SelectJumpTable(fork),
		precompiles: SelectPrecompiles(fork),
		config:      cfg,
	}
}

func (e *EVM) BlockContext() *BlockContext { return &e.blockCtx }
func (e *EVM) TxContext() *TxContext       { return &e.txCtx }
func (e *EVM) Rules() params.Rules         { return e.rules }
func (e *EVM) Depth() int                  { return e.depth }

func (e *EVM) GetBalance(a types.Address) *types.Word { return e.stateDB.GetBalance(a) }
func (e *EVM) SubBalance(a types.Address, v *types.Word) { e.stateDB.SubBalance(a, v) }
func (e *EVM) AddBalance(a types.Address, v *types.Word) { e.stateDB.AddBalance(a, v) }
func (e *EVM) GetNonce(a types.Address) uint64           { return e.stateDB.GetNonce(a) }
func (e *EVM) SetNonce(a types.Address, n uint64)        { e.stateDB.SetNonce(a, n) }
func (e *EVM) GetCodeHash(a types.Address) types.Hash    { return e.stateDB.GetCodeHash(a) }
func (e *EVM) GetCode(a types.Address) []byte            { return e.stateDB.GetCode(a) }
func (e *EVM) SetCode(a types.Address, code []byte)      { e.stateDB.SetCode(a, code) }
func (e *EVM) GetCodeSize(a types.Address) int            { return e.stateDB.GetCodeSize(a) }
func (e *EVM) GetState(a types.Address, k types.Hash) types.Word { return e.stateDB.GetState(a, k) }
func (e *EVM) SetState(a types.Address, k types.Hash, v types.Word) { e.stateDB.SetState(a, k, v) }
func (e *EVM) GetCommittedState(a types.Address, k types.Hash) types.Word {
	return e.stateDB.GetCommittedState(a, k)
}
func (e *EVM) GetTransientState(a types.Address, k types.Hash) types.Word {
	return e.stateDB.GetTransientState(a, k)
}
func (e *EVM) SetTransientState(a types.Address, k types.Hash, v types.Word) {
	e.stateDB.SetTransientState(a, k, v)
}
func (e *EVM) GetStorageRoot(a types.Address) types.Hash { return e.stateDB.GetStorageRoot(a) }
func (e *EVM) AddRefund(g uint64)                        { e.stateDB.AddRefund(g) }
func (e *EVM) SubRefund(g uint64)                        { e.stateDB.SubRefund(g) }
func (e *EVM) GetRefund() uint64                         { return e.stateDB.GetRefund() }
func (e *EVM) Exist(a types.Address) bool                { return e.stateDB.Exist(a) }
func (e *EVM) Empty(a types.Address) bool                { return e.stateDB.Empty(a) }
func (e *EVM) Touch(a types.Address)                     { e.stateDB.Touch(a) }
func (e *EVM) CreateAccount(a types.Address)              { e.stateDB.CreateAccount(a) }
func (e *EVM) SelfDestruct(a types.Address) uint64        { return e.stateDB.SelfDestruct(a) }
func (e *EVM) HasSelfDestructed(a types.Address) bool     { return e.stateDB.HasSelfDestructed(a) }
func (e *EVM) AddressInAccessList(a types.Address) bool   { return e.stateDB.AddressInAccessList(a) }
func (e *EVM) SlotInAccessList(a types.Address, s types.Hash) (bool, bool) {
	return e.stateDB.SlotInAccessList(a, s)
}
func (e *EVM) AddAddressToAccessList(a types.Address) { e.stateDB.AddAddressToAccessList(a) }
func (e *EVM) AddSlotToAccessList(a types.Address, s types.Hash) {
	e.stateDB.AddSlotToAccessList(a, s)
}
func (e *EVM) AddLog(l *types.Log)    { e.stateDB.AddLog(l) }
func (e *EVM) Snapshot() int          { return e.stateDB.Snapshot() }
func (e *EVM) RevertToSnapshot(id int) { e.stateDB.RevertToSnapshot(id) }

// Call executes a nested CALL/CALLCODE/DELEGATECALL/STATICCALL. caller is
// the contract initiating the call (its Address/CallerAddress determine the
// effective caller/storage-owner per kind).
func (e *EVM) Call(caller *Contract, kind CallKind, addr types.Address, input []byte, gas uint64, value *types.Word) (ret []byte, leftOverGas uint64, err error) {
	if e.depth > params.MaxCallDepth {
		return nil, gas, ErrDepth
	}
	if kind == CallKindCall && value != nil && !value.IsZero() {
		if e.readOnly {
			return nil, gas, ErrWriteProtection
		}
		if e.GetBalance(caller.Address).Cmp(value) < 0 {
			return nil, gas, ErrInsufficientBalance
		}
	}

	_, isPrecompile := e.precompiles[addr]
	if kind == CallKindCall && !e.Exist(addr) && !isPrecompile &&
		e.rules.IsSpuriousDragon && (value == nil || value.IsZero()) {
		// EIP-161: a CALL to a non-existent address carrying no value does
		// not resurrect it — ping it as touched (so an already-empty entry
		// stays correctly absent/pruned) and do nothing else.
		e.Touch(addr)
		return nil, gas, nil
	}

	snapshot := e.Snapshot()

	var codeOwner, storageOwner, executingCaller types.Address
	switch kind {
	case CallKindCall:
		codeOwner, storageOwner, executingCaller = addr, addr, caller.Address
	case CallKindCallCode:
		codeOwner, storageOwner, executingCaller = addr, caller.Address, caller.Address
	case CallKindDelegateCall:
		codeOwner, storageOwner, executingCaller = addr, caller.Address, caller.CallerAddress
	case CallKindStaticCall:
		codeOwner, storageOwner, executingCaller = addr, addr, caller.Address
	}

	if kind == CallKindCall || kind == CallKindCallCode {
		if value != nil && !value.IsZero() {
			e.SubBalance(caller.Address, value)
			e.AddBalance(addr, value)
		}
	}
	if (kind == CallKindCall) && !e.Exist(addr) {
		e.CreateAccount(addr)
	}

	prevReadOnly := e.readOnly
	if kind == CallKindStaticCall {
		e.readOnly = true
	}
	e.depth++

	code := e.GetCode(codeOwner)
	codeHash := e.GetCodeHash(codeOwner)

	var frameValue *types.Word
	if value != nil {
		frameValue = value
	} else {
		frameValue = types.ZeroWord()
	}

	if pc, ok := e.precompiles[codeOwner]; ok {
		ret, gas, err = RunPrecompile(pc, input, gas)
	} else {
		contract := NewContract(executingCaller, storageOwner, frameValue, gas, types.NewBytecode(code), codeHash, input)
		if kind == CallKindDelegateCall {
			contract.Value = caller.Value
		}
		ret, err = e.run(contract)
		gas = contract.Gas
	}

	e.depth--
	e.readOnly = prevReadOnly
	e.returnData = ret

	if err != nil {
		e.RevertToSnapshot(snapshot)
		if !errors.Is(err, ErrExecutionReverted) {
			gas = 0
		}
	}
	return ret, gas, err
}

// Create executes a nested CREATE/CREATE2. code is the init code to run;
// the returned address is where the resulting contract is deployed.
func (e *EVM) Create(caller *Contract, kind CallKind, code []byte, gas uint64, value *types.Word, salt *types.Word) (ret []byte, addr types.Address, leftOverGas uint64, err error) {
	if e.depth > params.MaxCallDepth {
		return nil, types.Address{}, gas, ErrDepth
	}
	if e.GetBalance(caller.Address).Cmp(value) < 0 {
		return nil, types.Address{}, gas, ErrInsufficientBalance
	}

	nonce := e.GetNonce(caller.Address)
	if nonce+1 < nonce {
		return nil, types.Address{}, gas, ErrNonceUintOverflow
	}
	e.SetNonce(caller.Address, nonce+1)

	if uint64(len(code)) > params.MaxInitCodeSize && e.rules.IsShanghai {
		return nil, types.Address{}, gas, ErrMaxInitCodeSizeExceeded
	}

	if kind == CallKindCreate {
		addr = createAddress(caller.Address, nonce)
	} else {
		addr = create2Address(caller.Address, salt, code)
	}

	if e.Exist(addr) && (e.GetNonce(addr) != 0 || len(e.GetCode(addr)) != 0) {
		return nil, addr, 0, ErrContractAddressCollision
	}

	snapshot := e.Snapshot()
	e.CreateAccount(addr)
	e.SetNonce(addr, 1)
	e.SubBalance(caller.Address, value)
	e.AddBalance(addr, value)

	e.depth++
	contract := NewContract(caller.Address, addr, value, gas, types.NewBytecode(code), types.Hash{}, nil)
	ret, err = e.run(contract)
	gas = contract.Gas
	e.depth--

	if err == nil && e.rules.IsLondon && len(ret) > 0 && ret[0] == 0xEF {
		err = ErrInvalidCodePrefix
	}
	if err == nil && e.rules.IsSpuriousDragon && uint64(len(ret)) > params.MaxCodeSize {
		err = ErrMaxCodeSizeExceeded
	}
	if err == nil {
		createDataGas := uint64(len(ret)) * params.CreateDataGas
		if !contract.UseGas(createDataGas) {
			err = ErrOutOfGas
		} else {
			e.SetCode(addr, ret)
			gas = contract.Gas
		}
	}

	if err != nil {
		e.RevertToSnapshot(snapshot)
		if !errors.Is(err, ErrExecutionReverted) {
			gas = 0
		}
		return ret, addr, gas, err
	}
	return ret, addr, gas, nil
}


// createAddress derives the CREATE contract address: the low 20 bytes of
// Keccak256(RLP([sender, nonce])).
func createAddress(sender types.Address, nonce uint64) types.Address {
	enc := rlp.EncodeAddressNonce(sender, nonce)
	return types.BytesToAddress(crypto.Keccak256(enc)[12:])
}

// create2Address derives the CREATE2 contract address: the low 20 bytes of
// Keccak256(0xff ++ sender ++ salt ++ Keccak256(init_code)).
func create2Address(sender types.Address, salt *types.Word, initCode []byte) types.Address {
	codeHash := crypto.Keccak256(initCode)
	var saltBytes [32]byte
	salt.WriteToSlice(saltBytes[:])
	data := append([]byte{0xff}, sender.Bytes()...)
	data = append(data, saltBytes[:]...)
	data = append(data, codeHash...)
	return types.BytesToAddress(crypto.Keccak256(data)[12:])
}
