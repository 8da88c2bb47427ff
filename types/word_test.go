package types

import "testing"

func TestAddSubInverse(t *testing.T) {
	a := WordFromUint64(12345)
	b := WordFromUint64(999)
	sum := new(Word).Add(a, b)
	back := new(Word).Sub(sum, b)
	if !back.Eq(a) {
		t.Fatalf("(a+b)-b should equal a, got %s want %s", back.Hex(), a.Hex())
	}
}

func TestAddressWordRoundTrip(t *testing.T) {
	addr := HexToAddress("0x00000000000000000000000000000000000001")
	w := AddressToWord(addr)
	back := WordToAddress(w)
	if back != addr {
		t.Fatalf("address round-trip mismatch: got %s want %s", back.Hex(), addr.Hex())
	}
}

func TestHexToWordInvalidDefaultsToZero(t *testing.T) {
	w := HexToWord("")
	if !w.IsZero() {
		t.Fatalf("empty hex string should decode to zero")
	}
}

func TestEmptyCodeHashIsWellKnown(t *testing.T) {
	// Keccak256("") == c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470
	if EmptyCodeHash.Hex() != "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470" {
		t.Fatalf("unexpected EmptyCodeHash: %s", EmptyCodeHash.Hex())
	}
}
