package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/eth2030/evmcore/types"
)

// TestKeccak256EmptyInput checks the well-known Keccak256("") vector that
// also backs types.EmptyCodeHash.
func TestKeccak256EmptyInput(t *testing.T) {
	got := Keccak256()
	want, _ := hex.DecodeString("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	if hex.EncodeToString(got) != hex.EncodeToString(want) {
		t.Fatalf("got %x want %x", got, want)
	}
}

func TestKeccak256HashMatchesEmptyCodeHash(t *testing.T) {
	if Keccak256Hash() != types.EmptyCodeHash {
		t.Fatalf("Keccak256Hash() of no input should equal types.EmptyCodeHash")
	}
}

func TestKeccak256VariesWithInput(t *testing.T) {
	a := Keccak256([]byte("a"))
	b := Keccak256([]byte("b"))
	if hex.EncodeToString(a) == hex.EncodeToString(b) {
		t.Fatalf("different inputs must hash differently")
	}
}
