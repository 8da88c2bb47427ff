package vm

import (
	"testing"

	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
)

func TestMemoryExpansionGasQuadratic(t *testing.T) {
	// g(a) = 3a + floor(a^2/512); at 1 word the formula gives 3 + 0 = 3.
	got := MemoryExpansionGas(0, 32)
	if got != 3 {
		t.Fatalf("expected 3 gas for first word, got %d", got)
	}
	// Charging only the difference: growing from 1 word to 2 words costs
	// MemoryGasCost(2) - MemoryGasCost(1).
	full2 := MemoryGasCost(2)
	full1 := MemoryGasCost(1)
	got = MemoryExpansionGas(32, 64)
	if got != full2-full1 {
		t.Fatalf("expected incremental cost %d, got %d", full2-full1, got)
	}
}

func TestMemoryExpansionGasNoShrinkCharge(t *testing.T) {
	if got := MemoryExpansionGas(64, 32); got != 0 {
		t.Fatalf("shrinking memory must never charge gas, got %d", got)
	}
}

func TestSstoreGasCleanSetAndReset(t *testing.T) {
	zero, one, two := types.ZeroWord(), types.WordFromUint64(1), types.WordFromUint64(2)

	gas, refund := SstoreGas(zero, zero, one, params.SstoreClearsScheduleRefund)
	if gas != params.SstoreSetGas || refund != 0 {
		t.Fatalf("clean 0->1 should cost SstoreSetGas with no refund, got gas=%d refund=%d", gas, refund)
	}

	gas, refund = SstoreGas(one, one, zero, params.SstoreClearsScheduleRefund)
	if gas != params.SstoreResetGas || refund != int64(params.SstoreClearsScheduleRefund) {
		t.Fatalf("clean 1->0 should cost SstoreResetGas and refund the clear, got gas=%d refund=%d", gas, refund)
	}

	gas, refund = SstoreGas(one, one, two, params.SstoreClearsScheduleRefund)
	if gas != params.SstoreResetGas || refund != 0 {
		t.Fatalf("clean 1->2 should cost SstoreResetGas with no refund, got gas=%d refund=%d", gas, refund)
	}
}

func TestSstoreGasNoopIsWarmRead(t *testing.T) {
	one := types.WordFromUint64(1)
	gas, refund := SstoreGas(one, one, one, params.SstoreClearsScheduleRefund)
	if gas != params.WarmStorageReadCost || refund != 0 {
		t.Fatalf("a no-op SSTORE should only cost a warm read, got gas=%d refund=%d", gas, refund)
	}
}

func TestSstoreGasPreLondonUsesEIP2200ClearsRefund(t *testing.T) {
	one, zero := types.WordFromUint64(1), types.ZeroWord()
	_, refund := SstoreGas(one, one, zero, params.SstoreClearsScheduleRefundEIP2200)
	if refund != int64(params.SstoreClearsScheduleRefundEIP2200) {
		t.Fatalf("pre-London clear should refund the EIP-2200 15000, got %d", refund)
	}
}

func TestCallGasCapped63of64Rule(t *testing.T) {
	available := uint64(6400)
	requested := available // request everything
	got := CallGasCapped(available, requested)
	want := available - available/64
	if got != want {
		t.Fatalf("expected 63/64 cap %d, got %d", want, got)
	}

	// Requesting less than the cap is honored verbatim.
	got = CallGasCapped(available, 10)
	if got != 10 {
		t.Fatalf("a request below the cap should pass through unchanged, got %d", got)
	}
}
