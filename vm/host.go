package vm

import (
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
)

// BlockContext carries the block-level values available to opcodes like
// COINBASE, TIMESTAMP, and BLOCKHASH. It is constant for the lifetime of one
// transaction's execution.
type BlockContext struct {
	Coinbase    types.Address
	GasLimit    uint64
	Number      uint64
	Timestamp   uint64
	Difficulty  *types.Word // PREVRANDAO post-Merge, raw difficulty before
	BaseFee     *types.Word
	BlobBaseFee *types.Word
	GetHash     func(blockNumber uint64) types.Hash
}

// TxContext carries the transaction-level values available to ORIGIN,
// GASPRICE, and BLOBHASH.
type TxContext struct {
	Origin     types.Address
	GasPrice   *types.Word
	BlobHashes []types.Hash
}

// StateDB is everything the interpreter needs from the journaled state
// layer. It is satisfied by *state.StateDB; defined here (rather than
// imported from state/) so vm/ never depends on state/ directly, keeping
// the interpreter testable against a fake.
type StateDB interface {
	GetBalance(types.Address) *types.Word
	SubBalance(types.Address, *types.Word)
	AddBalance(types.Address, *types.Word)
	GetNonce(types.Address) uint64
	SetNonce(types.Address, uint64)
	GetCodeHash(types.Address) types.Hash
	GetCode(types.Address) []byte
	SetCode(types.Address, []byte)
	GetCodeSize(types.Address) int
	GetState(types.Address, types.Hash) types.Word
	SetState(types.Address, types.Hash, types.Word)
	// GetCommittedState returns the slot's value as of the start of the
	// current transaction, ignoring any SSTOREs this transaction has
	// already made — the "original" value EIP-2200/3529 gas accounting
	// needs.
	GetCommittedState(types.Address, types.Hash) types.Word
	GetTransientState(types.Address, types.Hash) types.Word
	SetTransientState(types.Address, types.Hash, types.Word)
	GetStorageRoot(types.Address) types.Hash
	AddRefund(uint64)
	SubRefund(uint64)
	GetRefund() uint64
	Exist(types.Address) bool
	Empty(types.Address) bool
	Touch(types.Address)
	CreateAccount(types.Address)
	SelfDestruct(types.Address) uint64
	HasSelfDestructed(types.Address) bool
	AddressInAccessList(types.Address) bool
	SlotInAccessList(types.Address, types.Hash) (addrOK, slotOK bool)
	AddAddressToAccessList(types.Address)
	AddSlotToAccessList(types.Address, types.Hash)
	AddLog(*types.Log)
	Snapshot() int
	RevertToSnapshot(int)
}

// Host is the full set of services an instruction implementation may call
// into: state access plus the ability to recurse into a nested call/create.
type Host interface {
	StateDB
	BlockContext() *BlockContext
	TxContext() *TxContext
	Rules() params.Rules
	Call(caller *Contract, kind CallKind, addr types.Address, input []byte, gas uint64, value *types.Word) (ret []byte, leftOverGas uint64, err error)
	Create(caller *Contract, kind CallKind, code []byte, gas uint64, value *types.Word, salt *types.Word) (ret []byte, addr types.Address, leftOverGas uint64, err error)
	Depth() int
}
