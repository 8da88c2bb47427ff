// Package crypto wraps the cryptographic primitives the interpreter and its
// precompiles need. Every primitive here is backed by a real third-party
// library rather than a hand-rolled implementation; see DESIGN.md for the
// one exception (BLAKE2F's raw compression function, which no published Go
// library exposes) and its justification.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/eth2030/evmcore/types"
)

// Keccak256 hashes the concatenation of data with Keccak-256 (the
// pre-standardization variant Ethereum uses, not NIST SHA3-256).
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Hash is Keccak256 with the result wrapped as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
