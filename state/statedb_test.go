package state

import (
	"testing"

	"github.com/eth2030/evmcore/types"
)

// fakeDatabase is a minimal in-memory Database for tests: it never changes
// once constructed, mirroring the spec's read-only backing-store contract.
type fakeDatabase struct {
	accounts map[types.Address]types.AccountInfo
	storage  map[types.Address]map[types.Hash]types.Word
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{
		accounts: make(map[types.Address]types.AccountInfo),
		storage:  make(map[types.Address]map[types.Hash]types.Word),
	}
}

func (d *fakeDatabase) GetAccount(addr types.Address) (types.AccountInfo, bool) {
	info, ok := d.accounts[addr]
	return info, ok
}

func (d *fakeDatabase) GetCode(types.Hash) []byte { return nil }

func (d *fakeDatabase) GetStorage(addr types.Address, key types.Hash) types.Word {
	slots, ok := d.storage[addr]
	if !ok {
		return *types.ZeroWord()
	}
	return slots[key]
}

var addr1 = types.HexToAddress("0x0000000000000000000000000000000000000001")
var slot1 = types.HexToHash("0x01")

func TestSstoreThenRevertRestoresPriorValue(t *testing.T) {
	db := New(newFakeDatabase())

	cp := db.Snapshot()
	db.SetState(addr1, slot1, *types.WordFromUint64(42))
	if got := db.GetState(addr1, slot1); got.Uint64() != 42 {
		t.Fatalf("expected 42 immediately after SSTORE, got %d", got.Uint64())
	}

	db.RevertToSnapshot(cp)
	if got := db.GetState(addr1, slot1); !got.IsZero() {
		t.Fatalf("expected reverted slot to read as zero, got %d", got.Uint64())
	}
}

func TestNestedCheckpointRevertRestoresOuterWrite(t *testing.T) {
	db := New(newFakeDatabase())

	db.SetState(addr1, slot1, *types.WordFromUint64(1))
	inner := db.Snapshot()
	db.SetState(addr1, slot1, *types.WordFromUint64(2))
	if got := db.GetState(addr1, slot1); got.Uint64() != 2 {
		t.Fatalf("expected inner write to be visible, got %d", got.Uint64())
	}

	db.RevertToSnapshot(inner)
	if got := db.GetState(addr1, slot1); got.Uint64() != 1 {
		t.Fatalf("revert should restore the outer frame's write, got %d", got.Uint64())
	}
}

func TestBalanceChangeRevert(t *testing.T) {
	db := New(newFakeDatabase())
	cp := db.Snapshot()
	db.AddBalance(addr1, types.WordFromUint64(100))
	db.RevertToSnapshot(cp)
	if got := db.GetBalance(addr1); !got.IsZero() {
		t.Fatalf("expected reverted balance to be zero, got %s", got.Hex())
	}
}

func TestAccessListWarmColdAcrossRevert(t *testing.T) {
	db := New(newFakeDatabase())

	if db.AddressInAccessList(addr1) {
		t.Fatalf("addr1 should start cold")
	}
	cp := db.Snapshot()
	db.AddAddressToAccessList(addr1)
	if !db.AddressInAccessList(addr1) {
		t.Fatalf("addr1 should be warm after AddAddressToAccessList")
	}
	db.RevertToSnapshot(cp)
	if db.AddressInAccessList(addr1) {
		t.Fatalf("a full revert must turn a warm access back to cold")
	}
}

func TestOriginalStorageValueNeverChangesWithinTransaction(t *testing.T) {
	backing := newFakeDatabase()
	backing.storage[addr1] = map[types.Hash]types.Word{slot1: *types.WordFromUint64(7)}
	db := New(backing)

	// First read freezes "original" at the backing-store value.
	if got := db.GetCommittedState(addr1, slot1); got.Uint64() != 7 {
		t.Fatalf("expected original value 7, got %d", got.Uint64())
	}
	db.SetState(addr1, slot1, *types.WordFromUint64(99))
	if got := db.GetCommittedState(addr1, slot1); got.Uint64() != 7 {
		t.Fatalf("GetCommittedState must stay pinned to the original value, got %d", got.Uint64())
	}
}

func TestLogRevertTruncatesLogBuffer(t *testing.T) {
	db := New(newFakeDatabase())
	db.AddLog(&types.Log{Address: addr1})
	cp := db.Snapshot()
	db.AddLog(&types.Log{Address: addr1})
	if len(db.Logs()) != 2 {
		t.Fatalf("expected 2 logs before revert, got %d", len(db.Logs()))
	}
	db.RevertToSnapshot(cp)
	if len(db.Logs()) != 1 {
		t.Fatalf("expected log buffer truncated back to 1, got %d", len(db.Logs()))
	}
}
