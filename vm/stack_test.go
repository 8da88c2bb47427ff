package vm

import (
	"testing"

	"github.com/eth2030/evmcore/types"
)

func TestStackPushPopOrder(t *testing.T) {
	st := newStack()
	st.push(types.WordFromUint64(1))
	st.push(types.WordFromUint64(2))
	if got := st.pop().Uint64(); got != 2 {
		t.Fatalf("expected LIFO order, got %d", got)
	}
	if got := st.pop().Uint64(); got != 1 {
		t.Fatalf("expected LIFO order, got %d", got)
	}
	if st.len() != 0 {
		t.Fatalf("stack should be empty, len=%d", st.len())
	}
}

func TestStackDupAndSwap(t *testing.T) {
	st := newStack()
	st.push(types.WordFromUint64(10))
	st.push(types.WordFromUint64(20))
	st.dup(2) // dup the 2nd-from-top (10)
	if got := st.pop().Uint64(); got != 10 {
		t.Fatalf("dup(2) should duplicate the value below top, got %d", got)
	}
	st.swap(1)
	if got := st.peek().Uint64(); got != 10 {
		t.Fatalf("swap(1) should bring the value below top to the top, got %d", got)
	}
}

func TestStackFitsExactlyMaxStackSize(t *testing.T) {
	st := newStack()
	for i := 0; i < maxStackSize; i++ {
		st.push(types.WordFromUint64(uint64(i)))
	}
	if st.len() != maxStackSize {
		t.Fatalf("expected %d entries, got %d", maxStackSize, st.len())
	}
}
