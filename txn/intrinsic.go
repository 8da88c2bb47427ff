// Package txn drives one transaction end to end: validates it, runs it
// through the frame engine, and settles gas/refunds/beneficiary reward.
package txn

import (
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
	"github.com/eth2030/evmcore/vm"
)

// AccessListEntry mirrors an EIP-2930 access-list tuple: an address plus
// the storage keys to pre-warm alongside it.
type AccessListEntry struct {
	Address types.Address
	Keys    []types.Hash
}

// Message is the normalized transaction the driver consumes — already
// decoded from whatever wire envelope produced it (legacy, EIP-1559,
// EIP-4844), so the driver never branches on tx type itself.
type Message struct {
	From       types.Address
	To         *types.Address // nil for contract creation
	Nonce      uint64
	GasLimit   uint64
	GasPrice   *types.Word // legacy gas price; from London the driver derives the effective price from GasFeeCap/GasTipCap when both are set
	GasFeeCap  *types.Word // max_fee_per_gas, for the priority-fee cap check
	GasTipCap  *types.Word // max_priority_fee_per_gas
	Value      *types.Word
	Data       []byte
	AccessList []AccessListEntry

	BlobGasFeeCap *types.Word
	BlobHashes    []types.Hash
}

// IsContractCreation reports whether the message deploys new code.
func (m *Message) IsContractCreation() bool { return m.To == nil }

// IntrinsicGas computes the up-front gas charge for a transaction: the base
// cost plus a per-byte calldata cost plus, from Berlin on, a per-entry
// access-list cost. This never depends on execution — it's computed before
// the frame engine ever runs.
func IntrinsicGas(m *Message, rules params.Rules) (uint64, error) {
	var gas uint64
	if m.IsContractCreation() {
		gas = params.TxGasContractCreation
	} else {
		gas = params.TxGas
	}

	if len(m.Data) > 0 {
		var zeros, nonZeros uint64
		for _, b := range m.Data {
			if b == 0 {
				zeros++
			} else {
				nonZeros++
			}
		}
		nonZeroGas := uint64(params.TxDataNonZeroGasFrontier)
		if rules.IsIstanbul {
			nonZeroGas = params.TxDataNonZeroGasEIP2028
		}
		if (gas+zeros*params.TxDataZeroGas)/params.TxDataZeroGas < zeros {
			return 0, vm.ErrGasUintOverflow
		}
		gas += zeros * params.TxDataZeroGas

		if (gas+nonZeros*nonZeroGas)/nonZeroGas < nonZeros {
			return 0, vm.ErrGasUintOverflow
		}
		gas += nonZeros * nonZeroGas

		if m.IsContractCreation() && rules.IsShanghai {
			words := (uint64(len(m.Data)) + 31) / 32
			gas += words * params.InitCodeWordGas
		}
	}

	if rules.IsBerlin {
		gas += uint64(len(m.AccessList)) * params.TxAccessListAddressGas
		for _, entry := range m.AccessList {
			gas += uint64(len(entry.Keys)) * params.TxAccessListStorageKeyGas
		}
	}

	return gas, nil
}
