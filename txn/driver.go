package txn

import (
	"errors"

	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/state"
	"github.com/eth2030/evmcore/types"
	"github.com/eth2030/evmcore/vm"
)

// BlockInfo carries the block-level values the driver needs; Execute copies
// every field into vm.BlockContext (GasLimit/BaseFee are read twice: once
// for validation, once when building the EVM's BlockContext).
type BlockInfo struct {
	Coinbase    types.Address
	GasLimit    uint64
	Number      uint64
	Timestamp   uint64
	Difficulty  *types.Word
	BaseFee     *types.Word
	BlobBaseFee *types.Word
	GetHash     func(blockNumber uint64) types.Hash
}

// Driver runs one transaction end to end against a StateDB: validate,
// charge intrinsic gas, enter the top frame through vm.EVM, then settle
// refunds and the beneficiary reward. One Driver is reused across many
// transactions in the same block; it carries no per-transaction state.
type Driver struct {
	Fork    params.Fork
	Options ValidationOptions
	Config  vm.Config
}

// NewDriver builds a Driver for the given active fork.
func NewDriver(fork params.Fork) *Driver {
	return &Driver{Fork: fork}
}

// Execute runs m against db under block, per SPEC_FULL §4.10:
// validate → deduct upfront cost → charge intrinsic gas → run top frame →
// cap refund → reimburse caller → reward beneficiary → finalize.
//
// A non-nil error here is an *InvalidTransactionError, or the
// vm.ErrGasUintOverflow IntrinsicGas can return: the transaction never
// touched state.
// Once Execute returns a nil error, the ExecutionResult's Status (Success/
// Revert/Halt) carries the outcome — none of those are themselves errors.
func (d *Driver) Execute(db *state.StateDB, block BlockInfo, m *Message) (*ExecutionResult, error) {
	rules := params.RulesForFork(d.Fork)

	if err := ValidateEnv(m, block.GasLimit, block.BaseFee, rules, d.Options); err != nil {
		return nil, err
	}

	intrinsicGas, err := IntrinsicGas(m, rules)
	if err != nil {
		return nil, err
	}

	if err := ValidateAgainstState(m, db, rules, intrinsicGas, d.Options); err != nil {
		return nil, err
	}

	effectiveGasPrice := effectiveGasPrice(m, block.BaseFee, rules)

	// Deduct the full upfront cost (gas*price + value is checked, but only
	// gas*price + blob fees are actually withdrawn here; value moves during
	// the call/create itself).
	upfrontGasCost := new(types.Word).Mul(types.WordFromUint64(m.GasLimit), effectiveGasPrice)
	if m.BlobGasFeeCap != nil && len(m.BlobHashes) > 0 {
		blobGas := types.WordFromUint64(uint64(len(m.BlobHashes)) * params.BlobGasPerBlob)
		upfrontGasCost.Add(upfrontGasCost, new(types.Word).Mul(blobGas, m.BlobGasFeeCap))
	}
	db.SubBalance(m.From, upfrontGasCost)
	// Regular calls bump the sender's nonce here; contract-creation
	// transactions leave it to vm.EVM.Create, which must read the
	// pre-transaction nonce to derive the new contract's address and bumps
	// it exactly once as part of that same operation (see vm/frame.go).
	if !m.IsContractCreation() {
		db.SetNonce(m.From, m.Nonce+1)
	}

	gasRemaining := m.GasLimit - intrinsicGas

	blockCtx := vm.BlockContext{
		Coinbase:    block.Coinbase,
		GasLimit:    block.GasLimit,
		Number:      block.Number,
		Timestamp:   block.Timestamp,
		Difficulty:  block.Difficulty,
		BaseFee:     block.BaseFee,
		BlobBaseFee: block.BlobBaseFee,
		GetHash:     block.GetHash,
	}
	txCtx := vm.TxContext{
		Origin:     m.From,
		GasPrice:   effectiveGasPrice,
		BlobHashes: m.BlobHashes,
	}
	evm := vm.NewEVM(db, blockCtx, txCtx, d.Fork, d.Config)

	accessList := make([]vm.AccessTuple, len(m.AccessList))
	for i, e := range m.AccessList {
		accessList[i] = vm.AccessTuple{Address: e.Address, StorageKeys: e.Keys}
	}
	evm.PreWarmAccessList(m.From, m.To, accessList)

	caller := vm.NewContract(m.From, m.From, m.Value, gasRemaining, nil, types.Hash{}, nil)

	var (
		output      []byte
		execErr     error
		gasLeftover uint64
	)
	if m.IsContractCreation() {
		output, _, gasLeftover, execErr = evm.Create(caller, vm.CallKindCreate, m.Data, gasRemaining, m.Value, nil)
	} else {
		output, gasLeftover, execErr = evm.Call(caller, vm.CallKindCall, *m.To, m.Data, gasRemaining, m.Value)
	}

	gasUsedByFrame := gasRemaining - gasLeftover
	gasUsed := intrinsicGas + gasUsedByFrame

	result := buildResult(execErr, output, gasUsed, db.GetRefund(), rules)

	refund := uint64(0)
	if result.Status == StatusSuccess {
		refund = result.GasRefunded
	}

	// Reimburse the caller for unspent gas (including the capped refund),
	// then reward the beneficiary for the gas actually spent.
	totalUnspentGas := m.GasLimit - gasUsed + refund
	reimbursement := new(types.Word).Mul(types.WordFromUint64(totalUnspentGas), effectiveGasPrice)
	db.AddBalance(m.From, reimbursement)

	spentAfterRefund := gasUsed - refund
	var rewardPrice *types.Word
	if rules.IsLondon {
		rewardPrice = new(types.Word).Sub(effectiveGasPrice, block.BaseFee)
	} else {
		rewardPrice = effectiveGasPrice
	}
	reward := new(types.Word).Mul(types.WordFromUint64(spentAfterRefund), rewardPrice)
	db.AddBalance(block.Coinbase, reward)

	db.ClearTransientStorage()
	db.Finalize(rules.IsSpuriousDragon)

	if result.Status == StatusSuccess {
		result.Logs = db.Logs()
	}
	result.StateDiff = convertStateDiff(db.StateDiff())

	return result, nil
}

// convertStateDiff adapts state.StateDB's internal diff representation to
// the package's public StateDiff/AccountDelta shape.
func convertStateDiff(diffs map[types.Address]*state.AccountDiff) StateDiff {
	out := make(StateDiff, len(diffs))
	for addr, d := range diffs {
		out[addr] = &AccountDelta{
			InfoChanged:    true,
			Nonce:          d.Nonce,
			Balance:        d.Balance,
			CodeHash:       d.CodeHash,
			StorageChanges: d.StorageChanges,
			IsDestroyed:    d.IsDestroyed,
			IsCreated:      d.IsCreated,
		}
	}
	return out
}

// effectiveGasPrice resolves the per-gas price the caller actually pays:
// for legacy/pre-London transactions this is GasPrice verbatim; from London
// on it is min(GasFeeCap, BaseFee+GasTipCap) per EIP-1559.
func effectiveGasPrice(m *Message, baseFee *types.Word, rules params.Rules) *types.Word {
	if !rules.IsLondon || m.GasFeeCap == nil || m.GasTipCap == nil {
		return new(types.Word).Set(m.GasPrice)
	}
	priorityFee := new(types.Word).Add(baseFee, m.GasTipCap)
	if priorityFee.Cmp(m.GasFeeCap) > 0 {
		return new(types.Word).Set(m.GasFeeCap)
	}
	return priorityFee
}

// buildResult classifies a completed top frame's outcome into the
// Success/Revert/Halt shape the spec's ExecutionResult uses, capping the
// gas refund per EIP-3529 only on the success path (revert and halt never
// carry a refund).
func buildResult(execErr error, output []byte, gasUsed, rawRefund uint64, rules params.Rules) *ExecutionResult {
	if execErr == nil {
		quotient := params.MaxRefundQuotientLegacy
		if rules.IsLondon {
			quotient = params.MaxRefundQuotient
		}
		capped := rawRefund
		if max := gasUsed / quotient; capped > max {
			capped = max
		}
		return &ExecutionResult{
			Status:      StatusSuccess,
			GasUsed:     gasUsed,
			GasRefunded: capped,
			Output:      output,
		}
	}
	if errors.Is(execErr, vm.ErrExecutionReverted) {
		return &ExecutionResult{Status: StatusRevert, GasUsed: gasUsed, Output: output}
	}
	return &ExecutionResult{Status: StatusHalt, GasUsed: gasUsed, HaltReason: haltReasonFor(execErr)}
}

// haltReasonFor maps a frame-engine/interpreter sentinel error onto the
// spec's discrete HaltReason taxonomy (§4.11). Errors without a case of
// their own (ErrReturnDataOutOfBounds, precompile errors) map to HaltOther.
func haltReasonFor(err error) HaltReason {
	switch {
	case errors.Is(err, vm.ErrOutOfGas), errors.Is(err, vm.ErrGasUintOverflow):
		return HaltOutOfGas
	case errors.Is(err, vm.ErrStackOverflow):
		return HaltStackOverflow
	case errors.Is(err, vm.ErrStackUnderflow):
		return HaltStackUnderflow
	case errors.Is(err, vm.ErrInvalidJump):
		return HaltInvalidJump
	case errors.Is(err, vm.ErrInvalidOpcode):
		return HaltInvalidOpcode
	case errors.Is(err, vm.ErrContractAddressCollision):
		return HaltCreateCollision
	case errors.Is(err, vm.ErrInvalidCodePrefix):
		return HaltInvalidContractPrefix
	case errors.Is(err, vm.ErrMaxCodeSizeExceeded), errors.Is(err, vm.ErrMaxInitCodeSizeExceeded):
		return HaltCreateContractSizeLimit
	case errors.Is(err, vm.ErrDepth):
		return HaltCallTooDeep
	case errors.Is(err, vm.ErrWriteProtection):
		return HaltWriteInStaticContext
	case errors.Is(err, vm.ErrInsufficientBalance):
		return HaltOutOfFund
	case errors.Is(err, vm.ErrNonceUintOverflow):
		return HaltNonceOverflow
	default:
		return HaltOther
	}
}
