package txn

import (
	"testing"

	"github.com/eth2030/evmcore/crypto"
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/state"
	"github.com/eth2030/evmcore/types"
)

// fixtureDatabase is a tiny in-memory state.Database for driver tests.
type fixtureDatabase struct {
	accounts map[types.Address]types.AccountInfo
	code     map[types.Hash][]byte
}

func newFixtureDatabase() *fixtureDatabase {
	return &fixtureDatabase{
		accounts: make(map[types.Address]types.AccountInfo),
		code:     make(map[types.Hash][]byte),
	}
}

func (d *fixtureDatabase) GetAccount(addr types.Address) (types.AccountInfo, bool) {
	info, ok := d.accounts[addr]
	return info, ok
}
func (d *fixtureDatabase) GetCode(hash types.Hash) []byte { return d.code[hash] }
func (d *fixtureDatabase) GetStorage(types.Address, types.Hash) types.Word {
	return *types.ZeroWord()
}

func (d *fixtureDatabase) setAccount(addr types.Address, balance uint64, nonce uint64, code []byte) {
	info := types.AccountInfo{Nonce: nonce, Balance: types.WordFromUint64(balance), CodeHash: types.EmptyCodeHash}
	if len(code) > 0 {
		info.CodeHash = crypto.Keccak256Hash(code)
		d.code[info.CodeHash] = code
	}
	d.accounts[addr] = info
}

var (
	callerAddr      = types.HexToAddress("0x0000000000000000000000000000000000000001")
	toAddr          = types.HexToAddress("0x0000000000000000000000000000000000000002")
	beneficiaryAddr = types.HexToAddress("0x0000000000000000000000000000000000000009")
)

func baseBlock() BlockInfo {
	return BlockInfo{
		Coinbase:    beneficiaryAddr,
		GasLimit:    30_000_000,
		Number:      1,
		Timestamp:   1,
		Difficulty:  types.ZeroWord(),
		BaseFee:     types.ZeroWord(),
		BlobBaseFee: types.ZeroWord(),
		GetHash:     func(uint64) types.Hash { return types.Hash{} },
	}
}

// TestPureTransferNoCode is scenario 1 from the spec's end-to-end suite:
// a plain value transfer to an account with no code.
func TestPureTransferNoCode(t *testing.T) {
	db := newFixtureDatabase()
	db.setAccount(callerAddr, 100_000, 0, nil)
	db.setAccount(toAddr, 0, 0, nil)

	sdb := state.New(db)
	driver := NewDriver(params.London)

	m := &Message{
		From:     callerAddr,
		To:       &toAddr,
		Nonce:    0,
		GasLimit: 21000,
		GasPrice: types.WordFromUint64(1),
		Value:    types.WordFromUint64(10),
	}

	result, err := driver.Execute(sdb, baseBlock(), m)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got status %v halt %v", result.Status, result.HaltReason)
	}
	if result.GasUsed != 21000 {
		t.Fatalf("expected gas_used=21000, got %d", result.GasUsed)
	}

	wantCaller := int64(100_000 - 21000 - 10)
	if got := sdb.GetBalance(callerAddr).Uint64(); int64(got) != wantCaller {
		t.Fatalf("caller balance: got %d want %d", got, wantCaller)
	}
	if got := sdb.GetBalance(toAddr).Uint64(); got != 10 {
		t.Fatalf("to balance: got %d want 10", got)
	}
	if got := sdb.GetBalance(beneficiaryAddr).Uint64(); got != 21000 {
		t.Fatalf("beneficiary balance: got %d want 21000", got)
	}
}

// TestJumpiSkipsDeadCode is scenario 2 from the spec's end-to-end suite:
// PUSH1 1; PUSH1 11; JUMPI; PUSH1 1; PUSH1 1; PUSH1 1; JUMPDEST; STOP.
func TestJumpiSkipsDeadCode(t *testing.T) {
	code := []byte{
		0x60, 0x01, // PUSH1 1   (cond)
		0x60, 0x0B, // PUSH1 11  (dest)
		0x57,       // JUMPI
		0x60, 0x01, // dead PUSH1 1
		0x60, 0x01, // dead PUSH1 1
		0x60, 0x01, // dead PUSH1 1
		0x5B, // JUMPDEST (index 11)
		0x00, // STOP
	}

	db := newFixtureDatabase()
	db.setAccount(callerAddr, 1_000_000, 0, nil)
	db.setAccount(toAddr, 0, 0, code)

	sdb := state.New(db)
	driver := NewDriver(params.London)

	m := &Message{
		From:     callerAddr,
		To:       &toAddr,
		Nonce:    0,
		GasLimit: 21100,
		GasPrice: types.WordFromUint64(1),
		Value:    types.ZeroWord(),
	}

	result, err := driver.Execute(sdb, baseBlock(), m)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got status %v halt %v", result.Status, result.HaltReason)
	}
	want := uint64(21000 + 3 + 3 + 10 + 1)
	if result.GasUsed != want {
		t.Fatalf("gas_used: got %d want %d", result.GasUsed, want)
	}
}

// TestEIP2929WarmColdAcrossRevert is scenario 6: the same address accessed
// twice costs cold once, warm thereafter, and a revert between the two
// accesses makes the second access cold again.
func TestEIP2929WarmColdAcrossRevert(t *testing.T) {
	db := newFixtureDatabase()
	db.setAccount(callerAddr, 1_000_000, 0, nil)
	db.setAccount(toAddr, 0, 0, nil)
	other := types.HexToAddress("0x0000000000000000000000000000000000000003")
	db.setAccount(other, 5, 0, nil)

	sdb := state.New(db)

	firstCost := coldOrWarmCostForTest(sdb, other)
	if firstCost != params.ColdAccountAccessCost {
		t.Fatalf("first BALANCE access should be cold (%d), got %d", params.ColdAccountAccessCost, firstCost)
	}
	secondCost := coldOrWarmCostForTest(sdb, other)
	if secondCost != params.WarmStorageReadCost {
		t.Fatalf("second BALANCE access should be warm (%d), got %d", params.WarmStorageReadCost, secondCost)
	}

	cp := sdb.Snapshot()
	sdb.AddAddressToAccessList(other)
	sdb.RevertToSnapshot(cp)

	thirdCost := coldOrWarmCostForTest(sdb, other)
	if thirdCost != params.ColdAccountAccessCost {
		t.Fatalf("access after a full revert should be cold again (%d), got %d", params.ColdAccountAccessCost, thirdCost)
	}
}

// coldOrWarmCostForTest mirrors the EIP-2929 account-access charge: cold on
// first touch this transaction, warm on every subsequent touch.
func coldOrWarmCostForTest(sdb *state.StateDB, addr types.Address) uint64 {
	if sdb.AddressInAccessList(addr) {
		return params.WarmStorageReadCost
	}
	sdb.AddAddressToAccessList(addr)
	return params.ColdAccountAccessCost
}
