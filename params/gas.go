package params

// Base opcode gas tiers (unconditional, fork-independent "constant gas").
const (
	GasZero    uint64 = 0
	GasBase    uint64 = 2
	GasVeryLow uint64 = 3
	GasLow     uint64 = 5
	GasMid     uint64 = 8
	GasHigh    uint64 = 10
	GasExt     uint64 = 20
)

// Pre-Berlin per-opcode gas costs that diverge from the generic tiers above
// across their own fork history, prior to being replaced by EIP-2929
// warm/cold dynamic accounting.
const (
	SloadGasFrontier             uint64 = 50  // pre-Tangerine-Whistle
	SloadGasTangerineWhistle     uint64 = 200 // EIP-150
	SloadGasEIP1884              uint64 = 800 // Istanbul
	CallGasFrontier              uint64 = 40  // pre-Tangerine-Whistle CALL/CALLCODE
	CallGasEIP150                uint64 = 700 // EIP-150, also STATICCALL's introduction cost
	ExtcodeHashGasConstantinople uint64 = 400 // EIP-1052
	ExtcodeHashGasEIP1884        uint64 = 700 // Istanbul repricing
)

// EIP-2929 access-list costs (Berlin).
const (
	ColdAccountAccessCost uint64 = 2600
	ColdSloadCost         uint64 = 2100
	WarmStorageReadCost   uint64 = 100
)

// EIP-2200 / EIP-3529 SSTORE and refund accounting.
const (
	SstoreSetGas   uint64 = 20000
	SstoreResetGas uint64 = 5000
	// SstoreClearsScheduleRefundEIP2200 is the original yellow-paper Rsclear
	// clear-slot refund, in effect Frontier through pre-London (formalized,
	// not introduced, by EIP-2200's net-gas metering at Istanbul).
	SstoreClearsScheduleRefundEIP2200 uint64 = 15000
	// SstoreClearsScheduleRefund is EIP-3529's reduced clear refund, in
	// effect London onward.
	SstoreClearsScheduleRefund uint64 = 4800
	MaxRefundQuotient          uint64 = 5 // post-London: gasUsed/5
	MaxRefundQuotientLegacy    uint64 = 2 // pre-London: gasUsed/2
	// SelfdestructRefundGas is the flat pre-London first-time-destruct
	// refund (removed entirely by EIP-3529 from London onward).
	SelfdestructRefundGas uint64 = 24000
)

// Call and create costs.
const (
	CallStipend          uint64 = 2300
	CallValueTransferGas uint64 = 9000
	CallNewAccountGas    uint64 = 25000
	CallGasFraction      uint64 = 64 // EIP-150 63/64 forwarding rule
	CreateGas            uint64 = 32000
	CreateDataGas        uint64 = 200
	SelfdestructGas      uint64 = 5000
	CreateBySelfdestructGas uint64 = 25000
)

// Memory and copy costs.
const (
	MemoryGasCostPerWord uint64 = 3
	MemoryGasCostQuadDiv uint64 = 512
	CopyGasPerWord       uint64 = 3
	Keccak256Gas         uint64 = 30
	Keccak256WordGas     uint64 = 6
	LogGas               uint64 = 375
	LogTopicGas          uint64 = 375
	LogDataGas           uint64 = 8
)

// Code-size and init-code limits.
const (
	MaxCodeSize     = 24576          // EIP-170
	MaxInitCodeSize = 2 * MaxCodeSize // EIP-3860
	InitCodeWordGas uint64 = 2
)

// EIP-1153 transient storage (Cancun).
const (
	TloadGas  uint64 = 100
	TstoreGas uint64 = 100
)

// EIP-5656 MCOPY (Cancun).
const McopyWordGas uint64 = 3

// Transaction intrinsic gas.
const (
	TxGas                 uint64 = 21000
	TxGasContractCreation uint64 = 53000
	TxDataZeroGas         uint64 = 4
	TxDataNonZeroGasFrontier uint64 = 68
	TxDataNonZeroGasEIP2028  uint64 = 16 // Istanbul
	TxAccessListAddressGas  uint64 = 2400
	TxAccessListStorageKeyGas uint64 = 1900
)

// MaxCallDepth is the hard limit on nested CALL/CREATE frames.
const MaxCallDepth = 1024

// EIP-4844 blob gas accounting.
const (
	BlobGasPerBlob       uint64 = 131072 // 2^17
	MaxBlobGasPerBlock   uint64 = 786432 // 6 blobs
	TargetBlobGasPerBlock uint64 = 393216 // 3 blobs
	MinBlobBaseFee       uint64 = 1
	BlobBaseFeeUpdateFraction uint64 = 3338477
)
