package crypto

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

var errInvalidBN254Point = errors.New("crypto: invalid bn254 curve point")

func bn254FieldElement(b []byte) (fp.Element, error) {
	var e fp.Element
	if new(big.Int).SetBytes(b).Cmp(fp.Modulus()) >= 0 {
		return e, errInvalidBN254Point
	}
	e.SetBytes(b)
	return e, nil
}

func bn254DecodePoint(b []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	x, err := bn254FieldElement(b[0:32])
	if err != nil {
		return p, err
	}
	y, err := bn254FieldElement(b[32:64])
	if err != nil {
		return p, err
	}
	p.X, p.Y = x, y
	if p.X.IsZero() && p.Y.IsZero() {
		return p, nil // point at infinity
	}
	if !p.IsOnCurve() {
		return p, errInvalidBN254Point
	}
	return p, nil
}

func bn254EncodePoint(p *bn254.G1Affine) []byte {
	out := make([]byte, 64)
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	copy(out[0:32], xb[:])
	copy(out[32:64], yb[:])
	return out
}

// BN254Add implements the ECADD precompile (address 0x06): point addition
// on the alt_bn128 curve.
func BN254Add(input []byte) ([]byte, error) {
	a, err := bn254DecodePoint(input[0:64])
	if err != nil {
		return nil, err
	}
	b, err := bn254DecodePoint(input[64:128])
	if err != nil {
		return nil, err
	}
	var res bn254.G1Affine
	res.Add(&a, &b)
	return bn254EncodePoint(&res), nil
}

// BN254ScalarMul implements the ECMUL precompile (address 0x07).
func BN254ScalarMul(input []byte) ([]byte, error) {
	p, err := bn254DecodePoint(input[0:64])
	if err != nil {
		return nil, err
	}
	scalar := new(big.Int).SetBytes(input[64:96])
	var res bn254.G1Affine
	res.ScalarMultiplication(&p, scalar)
	return bn254EncodePoint(&res), nil
}

// BN254Pairing implements the ECPAIRING precompile (address 0x08): it
// checks whether the product of pairings of the given G1/G2 point pairs
// equals 1 in GT.
func BN254Pairing(input []byte) (bool, error) {
	if len(input)%192 != 0 {
		return false, errors.New("crypto: invalid bn254 pairing input length")
	}
	n := len(input) / 192
	g1s := make([]bn254.G1Affine, 0, n)
	g2s := make([]bn254.G2Affine, 0, n)
	for i := 0; i < n; i++ {
		chunk := input[i*192 : (i+1)*192]
		g1, err := bn254DecodePoint(chunk[0:64])
		if err != nil {
			return false, err
		}

		var xIm, xRe, yIm, yRe fp.Element
		var err2 error
		if xIm, err2 = bn254FieldElement(chunk[64:96]); err2 != nil {
			return false, errInvalidBN254Point
		}
		if xRe, err2 = bn254FieldElement(chunk[96:128]); err2 != nil {
			return false, errInvalidBN254Point
		}
		if yIm, err2 = bn254FieldElement(chunk[128:160]); err2 != nil {
			return false, errInvalidBN254Point
		}
		if yRe, err2 = bn254FieldElement(chunk[160:192]); err2 != nil {
			return false, errInvalidBN254Point
		}
		var g2 bn254.G2Affine
		g2.X.A0, g2.X.A1 = xRe, xIm
		g2.Y.A0, g2.Y.A1 = yRe, yIm
		if !(g2.X.IsZero() && g2.Y.IsZero()) && !g2.IsOnCurve() {
			return false, errInvalidBN254Point
		}

		g1s = append(g1s, g1)
		g2s = append(g2s, g2)
	}
	if n == 0 {
		return true, nil
	}
	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return false, err
	}
	return ok, nil
}
