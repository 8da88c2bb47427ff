package rlp

import (
	"bytes"
	"testing"
)

// TestEncodeAddressNonceZeroAddressZeroNonce checks the two-element list
// [address, nonce] encoding byte-for-byte against the RLP spec's rules: a
// 20-byte string gets an 0x80+20 prefix, and zero is the empty string 0x80,
// so [zero_address, 0] is an RLP list of total payload length 22.
func TestEncodeAddressNonceZeroAddressZeroNonce(t *testing.T) {
	var addr [20]byte
	got := EncodeAddressNonce(addr, 0)

	want := append([]byte{0xD6, 0x94}, addr[:]...)
	want = append(want, 0x80)

	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}
}

// TestEncodeAddressNonceSmallNonce checks that a nonce below 0x80 is encoded
// as its single raw byte, per RLP's "single byte < 0x80 encodes as itself".
func TestEncodeAddressNonceSmallNonce(t *testing.T) {
	var addr [20]byte
	addr[19] = 0x01
	got := EncodeAddressNonce(addr, 5)

	want := append([]byte{0xD6, 0x94}, addr[:]...)
	want = append(want, 0x05)

	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}
}

// TestEncodeAddressNonceLargeNonceGetsLengthPrefixed checks that a nonce
// >= 0x80 is encoded as a length-prefixed big-endian string, not a raw byte.
func TestEncodeAddressNonceLargeNonceGetsLengthPrefixed(t *testing.T) {
	var addr [20]byte
	got := EncodeAddressNonce(addr, 0x80)

	want := append([]byte{0xD7, 0x94}, addr[:]...)
	want = append(want, 0x81, 0x80)

	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}
}
