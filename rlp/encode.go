// Package rlp provides the one RLP encoding this module needs: the
// [sender, nonce] list used to derive a CREATE (not CREATE2) contract
// address. A full RLP codec is out of scope; see DESIGN.md.
package rlp

// EncodeAddressNonce returns the RLP encoding of the two-element list
// [address, nonce], as consumed by Keccak256 when deriving a CREATE address.
func EncodeAddressNonce(addr [20]byte, nonce uint64) []byte {
	addrEnc := encodeBytes(addr[:])
	nonceEnc := encodeUint(nonce)
	return wrapList(append(append([]byte{}, addrEnc...), nonceEnc...))
}

func encodeUint(n uint64) []byte {
	if n == 0 {
		return []byte{0x80}
	}
	return encodeBytes(minBytes(n))
}

func minBytes(n uint64) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte(n)}, b...)
		n >>= 8
	}
	return b
}

func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	if len(b) < 56 {
		return append([]byte{0x80 + byte(len(b))}, b...)
	}
	lenBytes := minBytes(uint64(len(b)))
	head := append([]byte{0xB7 + byte(len(lenBytes))}, lenBytes...)
	return append(head, b...)
}

func wrapList(payload []byte) []byte {
	if len(payload) < 56 {
		return append([]byte{0xC0 + byte(len(payload))}, payload...)
	}
	lenBytes := minBytes(uint64(len(payload)))
	head := append([]byte{0xF7 + byte(len(lenBytes))}, lenBytes...)
	return append(head, payload...)
}
