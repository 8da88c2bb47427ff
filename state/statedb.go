package state

import (
	"github.com/eth2030/evmcore/crypto"
	"github.com/eth2030/evmcore/types"
)

// Database is the pluggable backing store the journaled cache falls back
// to on a cache miss. A production caller backs it with a trie/DB; tests
// back it with an in-memory map. All methods are infallible reads because
// a missing account/slot is itself meaningful (zero value), not exceptional;
// GetAccount's bool reports whether the account exists in the store.
type Database interface {
	GetAccount(addr types.Address) (types.AccountInfo, bool)
	GetCode(codeHash types.Hash) []byte
	GetStorage(addr types.Address, key types.Hash) types.Word
}

// stateObject is the journaled cache's per-address working copy: it starts
// as a read from Database (or a fresh empty account) and accumulates
// mutations that the journal can unwind.
type stateObject struct {
	nonce    uint64
	balance  *types.Word
	codeHash types.Hash
	code     []byte
	codeSet  bool // code has been read or set at least once this tx

	storage         map[types.Hash]types.Word // dirty-or-read slots, current values
	committedStorage map[types.Hash]types.Word // values as of tx start, for SSTORE gas metering

	created        bool // true if this account did not exist before this tx
	touched        bool // true if this account participated in this tx, independent of created
	selfDestructed bool
}

func newStateObject(info types.AccountInfo) *stateObject {
	return &stateObject{
		nonce:            info.Nonce,
		balance:          new(types.Word).Set(info.Balance),
		codeHash:         info.CodeHash,
		storage:          make(map[types.Hash]types.Word),
		committedStorage: make(map[types.Hash]types.Word),
	}
}

// StateDB is the journaled world-state cache consumed by the interpreter
// through vm.StateDB / vm.Host. It wraps a Database with an
// append-only journal of every mutation so Snapshot/RevertToSnapshot can
// undo exactly what happened since the snapshot, in O(entries since then).
type StateDB struct {
	db       Database
	journal  *journal
	accounts map[types.Address]*stateObject

	transient map[types.Address]map[types.Hash]types.Word

	accessListAddrs map[types.Address]struct{}
	accessListSlots map[types.Address]map[types.Hash]struct{}

	refund uint64
	logs   []*types.Log
}

// New builds a StateDB backed by db.
func New(db Database) *StateDB {
	return &StateDB{
		db:              db,
		journal:         newJournal(),
		accounts:        make(map[types.Address]*stateObject),
		transient:       make(map[types.Address]map[types.Hash]types.Word),
		accessListAddrs: make(map[types.Address]struct{}),
		accessListSlots: make(map[types.Address]map[types.Hash]struct{}),
	}
}

func (s *StateDB) getStateObject(addr types.Address) *stateObject {
	if obj, ok := s.accounts[addr]; ok {
		obj.touched = true
		return obj
	}
	info, ok := s.db.GetAccount(addr)
	var obj *stateObject
	if ok {
		obj = newStateObject(info)
	} else {
		obj = newStateObject(types.NewEmptyAccount())
		obj.created = true
	}
	obj.touched = true
	s.accounts[addr] = obj
	return obj
}

func (s *StateDB) getOrNewStateObject(addr types.Address) *stateObject {
	return s.getStateObject(addr)
}

// Touch marks addr as having participated in this transaction, independent
// of whether any value/nonce/code actually changed. Per EIP-161, an account
// touched-and-left-empty is pruned at Finalize even if it pre-existed in
// Database with a nonzero balance that this transaction drained to zero.
func (s *StateDB) Touch(addr types.Address) {
	s.getStateObject(addr)
}

// CreateAccount ensures addr has a fresh, empty working copy, journaling
// its prior absence so a revert removes it from the cache entirely (the
// next read will re-consult Database, exactly as if CreateAccount never
// ran).
func (s *StateDB) CreateAccount(addr types.Address) {
	_, existed := s.accounts[addr]
	s.journal.append(createAccountChange{addr: addr})
	obj := newStateObject(types.NewEmptyAccount())
	obj.created = true
	if existed {
		// Preserve balance across CreateAccount per EIP-161 CREATE/CREATE2
		// semantics: a prefunded address keeps its balance when code lands.
		obj.balance.Set(s.accounts[addr].balance)
	}
	s.accounts[addr] = obj
}

func (s *StateDB) GetBalance(addr types.Address) *types.Word {
	return new(types.Word).Set(s.getStateObject(addr).balance)
}

func (s *StateDB) AddBalance(addr types.Address, amount *types.Word) {
	if amount.IsZero() {
		s.getStateObject(addr) // touch, so EIP-161 pruning sees the account even for a zero-value transfer
		return
	}
	obj := s.getStateObject(addr)
	s.journal.append(balanceChange{addr: addr, prev: new(types.Word).Set(obj.balance)})
	obj.balance = new(types.Word).Add(obj.balance, amount)
}

func (s *StateDB) SubBalance(addr types.Address, amount *types.Word) {
	if amount.IsZero() {
		return
	}
	obj := s.getStateObject(addr)
	s.journal.append(balanceChange{addr: addr, prev: new(types.Word).Set(obj.balance)})
	obj.balance = new(types.Word).Sub(obj.balance, amount)
}

func (s *StateDB) GetNonce(addr types.Address) uint64 {
	return s.getStateObject(addr).nonce
}

func (s *StateDB) SetNonce(addr types.Address, nonce uint64) {
	obj := s.getStateObject(addr)
	s.journal.append(nonceChange{addr: addr, prev: obj.nonce})
	obj.nonce = nonce
}

func (s *StateDB) GetCodeHash(addr types.Address) types.Hash {
	return s.getStateObject(addr).codeHash
}

func (s *StateDB) GetCode(addr types.Address) []byte {
	obj := s.getStateObject(addr)
	if obj.codeSet {
		return obj.code
	}
	if obj.codeHash == types.EmptyCodeHash || obj.codeHash == (types.Hash{}) {
		return nil
	}
	return s.db.GetCode(obj.codeHash)
}

func (s *StateDB) GetCodeSize(addr types.Address) int {
	return len(s.GetCode(addr))
}

func (s *StateDB) SetCode(addr types.Address, code []byte) {
	obj := s.getStateObject(addr)
	s.journal.append(codeChange{addr: addr, prevCode: obj.code, prevCodeHash: obj.codeHash})
	obj.code = code
	obj.codeSet = true
	obj.codeHash = codeHashOf(code)
}

// codeHashOf is overridden in tests that don't want a real keccak
// dependency in the loop; production always uses the real hash.
var codeHashOf = func(code []byte) types.Hash {
	if len(code) == 0 {
		return types.EmptyCodeHash
	}
	return crypto.Keccak256Hash(code)
}

func (s *StateDB) GetState(addr types.Address, key types.Hash) types.Word {
	obj := s.getStateObject(addr)
	if v, ok := obj.storage[key]; ok {
		return v
	}
	v := s.db.GetStorage(addr, key)
	obj.storage[key] = v
	obj.committedStorage[key] = v
	return v
}

func (s *StateDB) GetCommittedState(addr types.Address, key types.Hash) types.Word {
	obj := s.getStateObject(addr)
	if v, ok := obj.committedStorage[key]; ok {
		return v
	}
	v := s.db.GetStorage(addr, key)
	obj.committedStorage[key] = v
	return v
}

func (s *StateDB) SetState(addr types.Address, key types.Hash, value types.Word) {
	obj := s.getStateObject(addr)
	prev, had := obj.storage[key]
	s.journal.append(storageChange{addr: addr, key: key, prev: prev, had: had})
	obj.storage[key] = value
}

func (s *StateDB) GetStorageRoot(addr types.Address) types.Hash {
	return types.Hash{}
}

func (s *StateDB) GetTransientState(addr types.Address, key types.Hash) types.Word {
	slots, ok := s.transient[addr]
	if !ok {
		return *types.ZeroWord()
	}
	return slots[key]
}

func (s *StateDB) SetTransientState(addr types.Address, key types.Hash, value types.Word) {
	slots, ok := s.transient[addr]
	if !ok {
		slots = make(map[types.Hash]types.Word)
		s.transient[addr] = slots
	}
	prev, had := slots[key]
	s.journal.append(transientStorageChange{addr: addr, key: key, prev: prev, had: had})
	slots[key] = value
}

// ClearTransientStorage wipes all EIP-1153 transient storage; the driver
// calls this once at transaction end (transient storage never persists
// across transactions; within a transaction each SetTransientState is
// journaled and reverted like permanent storage).
func (s *StateDB) ClearTransientStorage() {
	s.transient = make(map[types.Address]map[types.Hash]types.Word)
}

func (s *StateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

func (s *StateDB) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		s.refund = 0
		return
	}
	s.refund -= gas
}

func (s *StateDB) GetRefund() uint64 { return s.refund }

func (s *StateDB) Exist(addr types.Address) bool {
	if obj, ok := s.accounts[addr]; ok {
		return !obj.created || obj.nonce != 0 || !obj.balance.IsZero() || obj.codeSet || obj.codeHash != types.EmptyCodeHash
	}
	_, ok := s.db.GetAccount(addr)
	return ok
}

func (s *StateDB) Empty(addr types.Address) bool {
	obj := s.getStateObject(addr)
	return obj.nonce == 0 && obj.balance.IsZero() && (obj.codeHash == types.EmptyCodeHash || obj.codeHash == (types.Hash{}))
}

func (s *StateDB) SelfDestruct(addr types.Address) uint64 {
	obj := s.getStateObject(addr)
	bal := new(types.Word).Set(obj.balance)
	s.journal.append(selfDestructChange{addr: addr, prev: obj.selfDestructed})
	obj.selfDestructed = true
	return bal.Uint64()
}

func (s *StateDB) HasSelfDestructed(addr types.Address) bool {
	return s.getStateObject(addr).selfDestructed
}

func (s *StateDB) AddressInAccessList(addr types.Address) bool {
	_, ok := s.accessListAddrs[addr]
	return ok
}

func (s *StateDB) SlotInAccessList(addr types.Address, slot types.Hash) (addrOK, slotOK bool) {
	if _, ok := s.accessListAddrs[addr]; !ok {
		return false, false
	}
	slots, ok := s.accessListSlots[addr]
	if !ok {
		return true, false
	}
	_, slotOK = slots[slot]
	return true, slotOK
}

func (s *StateDB) AddAddressToAccessList(addr types.Address) {
	if _, ok := s.accessListAddrs[addr]; ok {
		return
	}
	s.journal.append(accessListAddrChange{addr: addr})
	s.accessListAddrs[addr] = struct{}{}
}

func (s *StateDB) AddSlotToAccessList(addr types.Address, slot types.Hash) {
	s.AddAddressToAccessList(addr)
	slots, ok := s.accessListSlots[addr]
	if !ok {
		slots = make(map[types.Hash]struct{})
		s.accessListSlots[addr] = slots
	}
	if _, ok := slots[slot]; ok {
		return
	}
	s.journal.append(accessListSlotChange{addr: addr, slot: slot})
	slots[slot] = struct{}{}
}

func (s *StateDB) AddLog(l *types.Log) {
	s.journal.append(logChange{})
	s.logs = append(s.logs, l)
}

// Logs returns every log recorded so far (survivors of any reverts).
func (s *StateDB) Logs() []*types.Log { return s.logs }

// Snapshot records a checkpoint: (journal length). Reverting to it is
// O(entries since the checkpoint) and restores every mutated field exactly,
// including ones the journal doesn't special-case (balance/nonce/code/
// storage/access-list/refund/logs/self-destruct flags) since each has its
// own journalEntry type.
func (s *StateDB) Snapshot() int {
	return s.journal.length()
}

func (s *StateDB) RevertToSnapshot(id int) {
	s.journal.revertTo(id, s)
}

// Finalize applies EIP-161 empty-account pruning and EIP-6780 restricted
// self-destruct: accounts touched-and-left-empty are deleted (touched is
// tracked independently of created, so a pre-existing account drained to
// zero balance/nonce/code by a plain value transfer is pruned too), and
// self-destructed accounts not created in this same transaction keep their
// code/storage (only their balance was already zeroed by SELFDESTRUCT's
// transfer) per EIP-6780, while ones created-and-destructed in the same
// transaction are deleted outright, matching Cancun's semantics.
func (s *StateDB) Finalize(pruneEmpty bool) {
	for addr, obj := range s.accounts {
		if obj.selfDestructed && obj.created {
			delete(s.accounts, addr)
			continue
		}
		if obj.selfDestructed {
			obj.code = nil
			obj.codeSet = true
			obj.codeHash = types.EmptyCodeHash
			obj.storage = make(map[types.Hash]types.Word)
			continue
		}
		if pruneEmpty && obj.touched && obj.nonce == 0 && obj.balance.IsZero() &&
			(obj.codeHash == types.EmptyCodeHash || obj.codeHash == (types.Hash{})) {
			delete(s.accounts, addr)
		}
	}
}

// AccountDiff is one address's net change set, for callers that want a
// change feed instead of re-reading the whole backing store. Call after
// Finalize so destruction/pruning has already settled.
type AccountDiff struct {
	Nonce          uint64
	Balance        *types.Word
	CodeHash       types.Hash
	Code           []byte
	StorageChanges map[types.Hash]types.Word
	IsDestroyed    bool
	IsCreated      bool
}

// StateDiff returns every account this StateDB's cache touched, each
// reduced to its net nonce/balance/code/storage change versus what
// Database held at the start of the transaction.
func (s *StateDB) StateDiff() map[types.Address]*AccountDiff {
	out := make(map[types.Address]*AccountDiff, len(s.accounts))
	for addr, obj := range s.accounts {
		storage := make(map[types.Hash]types.Word)
		for k, v := range obj.storage {
			if committed, ok := obj.committedStorage[k]; !ok || committed != v {
				storage[k] = v
			}
		}
		out[addr] = &AccountDiff{
			Nonce:          obj.nonce,
			Balance:        new(types.Word).Set(obj.balance),
			CodeHash:       obj.codeHash,
			Code:           obj.code,
			StorageChanges: storage,
			IsDestroyed:    obj.selfDestructed,
			IsCreated:      obj.created,
		}
	}
	return out
}
