package txn

import "github.com/eth2030/evmcore/types"

// Status discriminates ExecutionResult's three shapes. Go has no tagged
// union, so the result carries one Status plus the fields that apply to it;
// callers switch on Status rather than type-asserting.
type Status int

const (
	StatusSuccess Status = iota
	StatusRevert
	StatusHalt
)

// HaltReason names why a frame burned all of its remaining gas instead of
// returning normally. Every opcode-level error in package vm maps to one of
// these at the top level.
type HaltReason int

const (
	HaltOutOfGas HaltReason = iota
	HaltStackOverflow
	HaltStackUnderflow
	HaltInvalidJump
	HaltInvalidOpcode
	HaltCreateCollision
	HaltCreateContractSizeLimit
	HaltInvalidContractPrefix
	HaltCallTooDeep
	HaltWriteInStaticContext
	HaltOutOfFund
	HaltNonceOverflow
	HaltOther
)

// ExecutionResult is the top-level outcome of one transaction: exactly one
// of Success, Revert, or Halt applies, selected by Status.
type ExecutionResult struct {
	Status Status

	GasUsed     uint64
	GasRefunded uint64 // StatusSuccess only

	Logs   []*types.Log // StatusSuccess only
	Output []byte       // StatusSuccess or StatusRevert

	HaltReason HaltReason // StatusHalt only

	StateDiff StateDiff // every account the transaction's StateDB cache touched
}

// AccountDelta is one address's change set within a StateDiff.
type AccountDelta struct {
	InfoChanged    bool
	Nonce          uint64
	Balance        *types.Word
	CodeHash       types.Hash
	StorageChanges map[types.Hash]types.Word
	IsDestroyed    bool
	IsCreated      bool
}

// StateDiff is the set of accounts a transaction actually touched, for
// callers that want a change feed rather than re-reading the whole backing
// store.
type StateDiff map[types.Address]*AccountDelta
