package txn

import (
	"fmt"

	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/state"
	"github.com/eth2030/evmcore/types"
)

// InvalidReason enumerates why a transaction was rejected before any state
// was touched. Each is a distinct, deterministic check — no two reasons can
// both apply without one masking the other, matching the validation order
// below.
type InvalidReason int

const (
	ReasonGasLimitExceedsBlock InvalidReason = iota
	ReasonPriorityFeeExceedsMaxFee
	ReasonGasPriceBelowBaseFee
	ReasonNonceMismatch
	ReasonCallerHasCode
	ReasonInsufficientFunds
	ReasonGasLimitBelowIntrinsic
)

func (r InvalidReason) String() string {
	switch r {
	case ReasonGasLimitExceedsBlock:
		return "gas limit exceeds block gas limit"
	case ReasonPriorityFeeExceedsMaxFee:
		return "max priority fee per gas exceeds max fee per gas"
	case ReasonGasPriceBelowBaseFee:
		return "max fee per gas below block base fee"
	case ReasonNonceMismatch:
		return "nonce mismatch"
	case ReasonCallerHasCode:
		return "sender is not an EOA"
	case ReasonInsufficientFunds:
		return "insufficient funds for gas * price + value"
	case ReasonGasLimitBelowIntrinsic:
		return "gas limit below intrinsic gas"
	default:
		return "invalid transaction"
	}
}

// InvalidTransactionError rejects a transaction before execution: no gas is
// charged and no state changes, unlike an in-execution Halt.
type InvalidTransactionError struct {
	Reason InvalidReason
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction: %s", e.Reason)
}

// ValidationOptions turns off individual checks, mirroring the hardfork
// selector's optional feature flags (balance check off, block gas-limit off,
// EIP-3607 off) rather than inventing a separate config surface.
type ValidationOptions struct {
	DisableBlockGasLimitCheck bool
	DisableBalanceCheck       bool
	DisableEIP3607            bool
}

// ValidateEnv checks the parts of the message that depend only on the block
// context, before any state is read.
func ValidateEnv(m *Message, blockGasLimit uint64, baseFee *types.Word, rules params.Rules, opts ValidationOptions) error {
	if !opts.DisableBlockGasLimitCheck && m.GasLimit > blockGasLimit {
		return &InvalidTransactionError{Reason: ReasonGasLimitExceedsBlock}
	}
	if rules.IsLondon && m.GasTipCap != nil && m.GasFeeCap != nil {
		if m.GasTipCap.Cmp(m.GasFeeCap) > 0 {
			return &InvalidTransactionError{Reason: ReasonPriorityFeeExceedsMaxFee}
		}
		if m.GasFeeCap.Cmp(baseFee) < 0 {
			return &InvalidTransactionError{Reason: ReasonGasPriceBelowBaseFee}
		}
	}
	return nil
}

// ValidateAgainstState checks the message against the caller's current
// account, per EIP-3607 and ordinary nonce/balance rules.
func ValidateAgainstState(m *Message, db *state.StateDB, rules params.Rules, intrinsicGas uint64, opts ValidationOptions) error {
	if m.GasLimit < intrinsicGas {
		return &InvalidTransactionError{Reason: ReasonGasLimitBelowIntrinsic}
	}
	if !opts.DisableEIP3607 {
		codeHash := db.GetCodeHash(m.From)
		if codeHash != types.EmptyCodeHash && codeHash != (types.Hash{}) {
			return &InvalidTransactionError{Reason: ReasonCallerHasCode}
		}
	}
	if db.GetNonce(m.From) != m.Nonce {
		return &InvalidTransactionError{Reason: ReasonNonceMismatch}
	}
	if !opts.DisableBalanceCheck {
		required := upfrontCost(m)
		if db.GetBalance(m.From).Cmp(required) < 0 {
			return &InvalidTransactionError{Reason: ReasonInsufficientFunds}
		}
	}
	return nil
}

// upfrontCost is gas_limit*gas_price + value (+ blob gas fees, if any),
// the amount ValidateAgainstState requires the caller to afford. Driver.Execute
// withdraws only the gas and blob-fee part up front; value moves during the
// call/create itself.
func upfrontCost(m *Message) *types.Word {
	cost := new(types.Word).Mul(types.WordFromUint64(m.GasLimit), m.GasPrice)
	cost.Add(cost, m.Value)
	if m.BlobGasFeeCap != nil && len(m.BlobHashes) > 0 {
		blobGas := types.WordFromUint64(uint64(len(m.BlobHashes)) * params.BlobGasPerBlob)
		cost.Add(cost, new(types.Word).Mul(blobGas, m.BlobGasFeeCap))
	}
	return cost
}
