package txn

import (
	"testing"

	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
)

func TestIntrinsicGasPlainCall(t *testing.T) {
	to := types.HexToAddress("0x0000000000000000000000000000000000000002")
	m := &Message{To: &to}
	gas, err := IntrinsicGas(m, params.RulesForFork(params.Cancun))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gas != params.TxGas {
		t.Fatalf("expected base TxGas %d for an empty-data call, got %d", params.TxGas, gas)
	}
}

func TestIntrinsicGasContractCreation(t *testing.T) {
	m := &Message{}
	gas, err := IntrinsicGas(m, params.RulesForFork(params.Cancun))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gas != params.TxGasContractCreation {
		t.Fatalf("expected TxGasContractCreation %d, got %d", params.TxGasContractCreation, gas)
	}
}

func TestIntrinsicGasCalldataZeroAndNonZeroBytes(t *testing.T) {
	to := types.HexToAddress("0x0000000000000000000000000000000000000002")
	m := &Message{To: &to, Data: []byte{0x00, 0x00, 0x01}}
	gas, err := IntrinsicGas(m, params.RulesForFork(params.Cancun))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := params.TxGas + 2*params.TxDataZeroGas + params.TxDataNonZeroGasEIP2028
	if gas != want {
		t.Fatalf("expected %d, got %d", want, gas)
	}
}

func TestIntrinsicGasPreIstanbulNonZeroByteCost(t *testing.T) {
	to := types.HexToAddress("0x0000000000000000000000000000000000000002")
	m := &Message{To: &to, Data: []byte{0x01}}
	gas, err := IntrinsicGas(m, params.RulesForFork(params.Byzantium))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := params.TxGas + params.TxDataNonZeroGasFrontier
	if gas != want {
		t.Fatalf("expected %d, got %d", want, gas)
	}
}

func TestIntrinsicGasAccessListBerlin(t *testing.T) {
	to := types.HexToAddress("0x0000000000000000000000000000000000000002")
	m := &Message{
		To: &to,
		AccessList: []AccessListEntry{
			{Address: types.HexToAddress("0x03"), Keys: []types.Hash{types.HexToHash("0x01"), types.HexToHash("0x02")}},
		},
	}
	gas, err := IntrinsicGas(m, params.RulesForFork(params.Berlin))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := params.TxGas + params.TxAccessListAddressGas + 2*params.TxAccessListStorageKeyGas
	if gas != want {
		t.Fatalf("expected %d, got %d", want, gas)
	}
}
