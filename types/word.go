package types

import (
	"strings"

	"github.com/holiman/uint256"
)

// Word is the EVM's native 256-bit machine word: the stack, memory words,
// and storage slots are all expressed in terms of it. Arithmetic on Word
// wraps modulo 2^256, matching EVM semantics exactly.
type Word = uint256.Int

// ZeroWord returns a fresh zero-valued Word.
func ZeroWord() *Word { return new(uint256.Int) }

// WordFromUint64 returns a Word holding the given uint64 value.
func WordFromUint64(v uint64) *Word { return new(uint256.Int).SetUint64(v) }

// WordFromBytes interprets b as a big-endian integer, left-padding /
// truncating to 32 bytes exactly like ABI word decoding.
func WordFromBytes(b []byte) *Word { return new(uint256.Int).SetBytes(b) }

// HexToWord parses a "0x"-prefixed (or bare) hex string as a big-endian
// 256-bit integer, for decoding fixture/JSON-RPC style values.
func HexToWord(s string) *Word {
	h := strings.TrimLeft(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), "0")
	if h == "" {
		return ZeroWord()
	}
	w, err := uint256.FromHex("0x" + h)
	if err != nil {
		return ZeroWord()
	}
	return w
}

// WordToAddress truncates a Word to its low 20 bytes, the representation
// used when a stack value is consumed as an address operand.
func WordToAddress(w *Word) Address {
	var b [32]byte
	w.WriteToSlice(b[:])
	return BytesToAddress(b[12:])
}

// AddressToWord left-pads an address into a 256-bit word.
func AddressToWord(a Address) *Word {
	return new(uint256.Int).SetBytes(a[:])
}

// WordToHash renders a Word as a 32-byte Hash (big-endian).
func WordToHash(w *Word) Hash {
	var h Hash
	w.WriteToSlice(h[:])
	return h
}

// HashToWord interprets a Hash as a big-endian 256-bit integer.
func HashToWord(h Hash) *Word { return new(uint256.Int).SetBytes(h[:]) }
