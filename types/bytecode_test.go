package types

import "testing"

func TestValidJumpdestSkipsPushImmediates(t *testing.T) {
	// PUSH1 0x5B; JUMPDEST; STOP
	// The 0x5B at index 1 is PUSH1's immediate data, not a real JUMPDEST.
	code := []byte{0x60, 0x5B, 0x5B, 0x00}
	bc := NewBytecode(code)

	if bc.ValidJumpdest(1) {
		t.Fatalf("index 1 is PUSH1 immediate data, must not be a valid jumpdest")
	}
	if !bc.ValidJumpdest(2) {
		t.Fatalf("index 2 is a real JUMPDEST, must be valid")
	}
}

func TestValidJumpdestRejectsNonJumpdestOpcode(t *testing.T) {
	code := []byte{0x00, 0x01}
	bc := NewBytecode(code)
	if bc.ValidJumpdest(0) || bc.ValidJumpdest(1) {
		t.Fatalf("neither position is a JUMPDEST byte")
	}
}

func TestValidJumpdestOutOfRange(t *testing.T) {
	bc := NewBytecode([]byte{0x5B})
	if bc.ValidJumpdest(100) {
		t.Fatalf("out-of-range pc must never be a valid jumpdest")
	}
}

func TestSliceZeroPadsPastEnd(t *testing.T) {
	bc := NewBytecode([]byte{0x01, 0x02})
	got := bc.Slice(1, 4)
	want := []byte{0x02, 0x00, 0x00, 0x00}
	if string(got) != string(want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestAtPastEndReturnsStop(t *testing.T) {
	bc := NewBytecode([]byte{0x01})
	if bc.At(5) != 0x00 {
		t.Fatalf("reading past code end must behave as implicit STOP")
	}
}

// TestPush32AtTailNeverPanics checks that reading a PUSH32 immediate that
// runs off the end of the code through Slice resolves (zero-padded) rather
// than indexing out of bounds.
func TestPush32AtTailNeverPanics(t *testing.T) {
	code := []byte{0x7F} // PUSH32 with no immediate bytes at all
	bc := NewBytecode(code)
	got := bc.Slice(1, 32)
	if len(got) != 32 {
		t.Fatalf("expected 32 zero-padded bytes, got %d", len(got))
	}
	for _, b := range got {
		if b != 0 {
			t.Fatalf("expected all-zero padding, got %x", got)
		}
	}
}
