package crypto

import (
	gethkzg "github.com/ethereum/go-ethereum/crypto/kzg4844"
)

// VerifyKZGProof implements the POINT_EVALUATION precompile's (address
// 0x0A) core check: that commitment opens to claim at point z under proof.
// Wraps go-ethereum's kzg4844, which in turn wraps crate-crypto/go-eth-kzg
// (both already direct dependencies of this module's dependency graph).
func VerifyKZGProof(commitment [48]byte, z, claim [32]byte, proof [48]byte) error {
	var c gethkzg.Commitment
	copy(c[:], commitment[:])
	var pt gethkzg.Point
	copy(pt[:], z[:])
	var cl gethkzg.Claim
	copy(cl[:], claim[:])
	var pf gethkzg.Proof
	copy(pf[:], proof[:])
	return gethkzg.VerifyProof(c, pt, cl, pf)
}

// BlobToCommitment derives the KZG commitment for a full blob, used by
// callers that need to validate a blob-carrying transaction's sidecar
// before it reaches the interpreter.
func BlobToCommitment(blob *gethkzg.Blob) (gethkzg.Commitment, error) {
	return gethkzg.BlobToCommitment(blob)
}
