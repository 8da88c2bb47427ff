package crypto

import (
	"math/big"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/eth2030/evmcore/types"
)

var secp256k1N, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
var secp256k1halfN = new(big.Int).Rsh(secp256k1N, 1)

// Ecrecover recovers the 20-byte signer address from a 32-byte message
// hash and a 65-byte [R || S || V] signature, where V is 0 or 1. It returns
// false if the signature is malformed or does not recover.
func Ecrecover(hash [32]byte, sig [65]byte) (types.Address, bool) {
	pub, err := gethcrypto.SigToPub(hash[:], sig[:])
	if err != nil {
		return types.Address{}, false
	}
	return types.BytesToAddress(Keccak256(gethcrypto.FromECDSAPub(pub)[1:])[12:]), true
}

// ValidateSignatureValues checks r, s, v for validity per Homestead's
// low-S rule (EIP-2). v must already be normalized to 0/1.
func ValidateSignatureValues(v byte, r, s *big.Int, homestead bool) bool {
	if r == nil || s == nil {
		return false
	}
	if v > 1 {
		return false
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	if homestead && s.Cmp(secp256k1halfN) > 0 {
		return false
	}
	return true
}
