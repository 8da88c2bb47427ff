// Package state implements the journaled, checkpointable world-state cache
// that sits between the interpreter and a pluggable backing Database.
package state

import "github.com/eth2030/evmcore/types"

// journalEntry is one reversible state mutation. Each concrete entry type
// knows how to undo exactly the one thing it recorded.
type journalEntry interface {
	revert(s *StateDB)
}

// journal is an append-only log of journalEntry values; a snapshot is just
// a recorded length into the log, kept by the caller. Checkpoint is O(1)
// (record the current length); revert is O(entries since the checkpoint),
// applied in reverse order so entries undo in the opposite order they were
// made, matching nested mutation semantics exactly.
type journal struct {
	entries []journalEntry
}

func newJournal() *journal {
	return &journal{}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

func (j *journal) length() int { return len(j.entries) }

// revertTo undoes every entry recorded after snapshot index id, in reverse
// order, then truncates the log back to that length.
func (j *journal) revertTo(id int, s *StateDB) {
	for i := len(j.entries) - 1; i >= id; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:id]
}

type createAccountChange struct {
	addr types.Address
}

func (c createAccountChange) revert(s *StateDB) {
	delete(s.accounts, c.addr)
}

type balanceChange struct {
	addr types.Address
	prev *types.Word
}

func (c balanceChange) revert(s *StateDB) {
	s.getOrNewStateObject(c.addr).balance = c.prev
}

type nonceChange struct {
	addr types.Address
	prev uint64
}

func (c nonceChange) revert(s *StateDB) {
	s.getOrNewStateObject(c.addr).nonce = c.prev
}

type codeChange struct {
	addr             types.Address
	prevCode         []byte
	prevCodeHash     types.Hash
}

func (c codeChange) revert(s *StateDB) {
	obj := s.getOrNewStateObject(c.addr)
	obj.code = c.prevCode
	obj.codeHash = c.prevCodeHash
}

type storageChange struct {
	addr types.Address
	key  types.Hash
	prev types.Word
	had  bool
}

func (c storageChange) revert(s *StateDB) {
	obj := s.getOrNewStateObject(c.addr)
	if c.had {
		obj.storage[c.key] = c.prev
	} else {
		delete(obj.storage, c.key)
	}
}

type transientStorageChange struct {
	addr types.Address
	key  types.Hash
	prev types.Word
	had  bool
}

func (c transientStorageChange) revert(s *StateDB) {
	slots := s.transient[c.addr]
	if c.had {
		slots[c.key] = c.prev
	} else {
		delete(slots, c.key)
	}
}

type refundChange struct {
	prev uint64
}

func (c refundChange) revert(s *StateDB) { s.refund = c.prev }

type accessListAddrChange struct {
	addr types.Address
}

func (c accessListAddrChange) revert(s *StateDB) { delete(s.accessListAddrs, c.addr) }

type accessListSlotChange struct {
	addr types.Address
	slot types.Hash
}

func (c accessListSlotChange) revert(s *StateDB) {
	slots := s.accessListSlots[c.addr]
	delete(slots, c.slot)
}

type selfDestructChange struct {
	addr types.Address
	prev bool
}

func (c selfDestructChange) revert(s *StateDB) {
	s.getOrNewStateObject(c.addr).selfDestructed = c.prev
}

type logChange struct{}

func (c logChange) revert(s *StateDB) {
	s.logs = s.logs[:len(s.logs)-1]
}

type createdAccountChange struct {
	addr types.Address
	prev bool
}

func (c createdAccountChange) revert(s *StateDB) {
	s.getOrNewStateObject(c.addr).created = c.prev
}
