package vm

import (
	"math"

	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
)

// safeAdd adds a and b, capping at math.MaxUint64 instead of wrapping, so a
// gas computation overflow always reads as "too expensive" rather than as
// a small, wrapped-around number that would let an attacker buy cheap gas.
func safeAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

func safeMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	product := a * b
	if product/a != b {
		return math.MaxUint64
	}
	return product
}

// toWordSize rounds a byte size up to a whole number of 32-byte words.
func toWordSize(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64 / 32
	}
	return (size + 31) / 32
}

// MemoryGasCost returns the total (not incremental) cost of having memory
// sized to wordCount words: 3*words + words^2/512, per the quadratic memory
// expansion formula.
func MemoryGasCost(words uint64) uint64 {
	linear := safeMul(words, params.MemoryGasCostPerWord)
	quad := safeMul(words, words) / params.MemoryGasCostQuadDiv
	return safeAdd(linear, quad)
}

// MemoryExpansionGas returns the incremental gas to grow memory from
// oldSize to newSize bytes (newSize is rounded up to a word boundary by the
// caller before this is invoked); it is zero if newSize does not exceed
// oldSize.
func MemoryExpansionGas(oldSize, newSize uint64) uint64 {
	if newSize <= oldSize {
		return 0
	}
	oldWords := toWordSize(oldSize)
	newWords := toWordSize(newSize)
	return MemoryGasCost(newWords) - MemoryGasCost(oldWords)
}

// SstoreGas implements the EIP-2200 / EIP-3529 SSTORE gas and refund table.
// original is the slot's value at the start of the transaction, current is
// its value right before this SSTORE, and newVal is the value being written;
// any EIP-2929 cold-slot surcharge is not part of the result and is added
// by the caller (gasSstoreEIP2929).
// clearsRefund is the fork-appropriate clear-slot refund: EIP-2200's 15000
// (Istanbul through pre-London) or EIP-3529's reduced 4800 (London+) —
// callers pass params.SstoreClearsScheduleRefundEIP2200 or
// params.SstoreClearsScheduleRefund respectively.
func SstoreGas(original, current, newVal *types.Word, clearsRefund uint64) (gas uint64, refund int64) {
	if current.Eq(newVal) {
		return params.WarmStorageReadCost, 0
	}
	if original.Eq(current) {
		if original.IsZero() {
			return params.SstoreSetGas, 0
		}
		if newVal.IsZero() {
			return params.SstoreResetGas, int64(clearsRefund)
		}
		return params.SstoreResetGas, 0
	}
	// Dirty slot: current already diverges from original within this tx.
	refund = 0
	if !original.IsZero() {
		if current.IsZero() {
			refund -= int64(clearsRefund)
		}
		if newVal.IsZero() {
			refund += int64(clearsRefund)
		}
	}
	if original.Eq(newVal) {
		if original.IsZero() {
			refund += int64(params.SstoreSetGas - params.WarmStorageReadCost)
		} else {
			refund += int64(params.SstoreResetGas - params.WarmStorageReadCost)
		}
	}
	return params.WarmStorageReadCost, refund
}

// Sha3Gas returns the dynamic gas for KECCAK256 over the given byte size.
func Sha3Gas(size uint64) uint64 {
	return safeMul(toWordSize(size), params.Keccak256WordGas)
}

// CopyGas returns the dynamic gas for a copy of size bytes (CALLDATACOPY,
// CODECOPY, EXTCODECOPY, RETURNDATACOPY).
func CopyGas(size uint64) uint64 {
	return safeMul(toWordSize(size), params.CopyGasPerWord)
}

// McopyGas returns the dynamic gas for MCOPY over size bytes.
func McopyGas(size uint64) uint64 {
	return safeMul(toWordSize(size), params.McopyWordGas)
}

// ExpGas returns the dynamic gas for EXP given the byte length of the
// exponent: 50 gas per exponent byte (post-Spurious-Dragon).
func ExpGas(expByteLen int) uint64 {
	return safeMul(uint64(expByteLen), 50)
}

// LogGasCost returns the dynamic gas for LOGn: a flat per-topic cost plus a
// per-byte data cost.
func LogGasCost(numTopics int, dataSize uint64) uint64 {
	gas := safeMul(uint64(numTopics), params.LogTopicGas)
	gas = safeAdd(gas, safeMul(dataSize, params.LogDataGas))
	return gas
}

// InitCodeWordGas returns the EIP-3860 init-code word cost for a CREATE or
// CREATE2 whose init code is initCodeLen bytes long.
func InitCodeWordGas(initCodeLen uint64) uint64 {
	return safeMul(toWordSize(initCodeLen), params.InitCodeWordGas)
}

// CallGasCapped implements the EIP-150 63/64 rule: the most gas a CALL-family
// instruction may forward to the callee is availableGas - availableGas/64,
// capped further by requestedGas if that is smaller.
func CallGasCapped(availableGas, requestedGas uint64) uint64 {
	capped := availableGas - availableGas/params.CallGasFraction
	if requestedGas < capped {
		return requestedGas
	}
	return capped
}
