package vm

import (
	"bytes"
	"testing"

	"github.com/eth2030/evmcore/types"
)

func TestMemoryResizeGrowsButNeverShrinks(t *testing.T) {
	m := newMemory()
	m.resize(32)
	if m.Len() != 32 {
		t.Fatalf("expected 32 bytes after first resize, got %d", m.Len())
	}
	m.resize(16)
	if m.Len() != 32 {
		t.Fatalf("resize to a smaller size must not shrink memory, got %d", m.Len())
	}
	m.resize(64)
	if m.Len() != 64 {
		t.Fatalf("expected 64 bytes after growing, got %d", m.Len())
	}
}

func TestMemorySetAndGetRoundTrip(t *testing.T) {
	m := newMemory()
	m.resize(32)
	m.Set(4, 3, []byte{0xAA, 0xBB, 0xCC})
	got := m.Get(4, 3)
	if !bytes.Equal(got, []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("got %x", got)
	}
	// Bytes outside the written range stay zero.
	if got := m.Get(0, 4); !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Fatalf("expected zeros before the write, got %x", got)
	}
}

func TestMemorySet32WritesBigEndianWord(t *testing.T) {
	m := newMemory()
	m.resize(32)
	m.Set32(0, types.WordFromUint64(1))
	got := m.Get(0, 32)
	want := make([]byte, 32)
	want[31] = 1
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x want %x", got, want)
	}
}

func TestMemoryGetPtrAliasesUnderlyingStore(t *testing.T) {
	m := newMemory()
	m.resize(32)
	m.Set(0, 1, []byte{0x01})
	ptr := m.GetPtr(0, 1)
	ptr[0] = 0xFF
	if got := m.Get(0, 1)[0]; got != 0xFF {
		t.Fatalf("GetPtr should alias the backing store, got %x", got)
	}
}

func TestMemoryGetZeroSizeReturnsNil(t *testing.T) {
	m := newMemory()
	if got := m.Get(0, 0); got != nil {
		t.Fatalf("zero-size Get should return nil, got %v", got)
	}
}
