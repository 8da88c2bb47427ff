package vm

import "github.com/eth2030/evmcore/types"

// Memory is the EVM's byte-addressable, word-growable scratch space. It
// only ever grows (never shrinks) within a single call frame and is always
// sized to a whole number of 32-byte words.
type Memory struct {
	store []byte
}

func newMemory() *Memory {
	return &Memory{}
}

// Len returns the current size of memory in bytes.
func (m *Memory) Len() int { return len(m.store) }

// resize grows memory to size bytes if it is currently smaller. size must
// already be rounded up to a whole word by the caller (the gas-charging
// code computes and charges for the rounded size before calling this).
func (m *Memory) resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	grown := make([]byte, size)
	copy(grown, m.store)
	m.store = grown
}

// Set writes value into memory at offset.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a 256-bit word into memory at offset, big-endian, exactly 32
// bytes (used by MSTORE).
func (m *Memory) Set32(offset uint64, w *types.Word) {
	var b [32]byte
	w.WriteToSlice(b[:])
	copy(m.store[offset:offset+32], b[:])
}

// Get returns a copy of size bytes starting at offset.
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// GetPtr returns a slice aliasing memory directly (no copy), for callers
// that consume it immediately (e.g. as CALL input) without retaining it
// past the next mutation.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Data returns the entire backing buffer.
func (m *Memory) Data() []byte { return m.store }
