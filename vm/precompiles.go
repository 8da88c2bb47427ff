package vm

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"

	"golang.org/x/crypto/ripemd160"

	evmcrypto "github.com/eth2030/evmcore/crypto"
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/types"
)

// PrecompiledContract is a native contract invoked via CALL/STATICCALL at a
// reserved low address instead of running interpreted bytecode.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// PrecompiledContracts maps a precompile's reserved address to its
// implementation.
type PrecompiledContracts map[types.Address]PrecompiledContract

func precompileAddress(n byte) types.Address {
	var a types.Address
	a[19] = n
	return a
}

// SelectPrecompiles returns the precompile set active at the given fork.
// Addresses 0x01-0x04 have been present since Frontier; 0x05-0x08 since
// Byzantium; 0x09 since Istanbul; 0x0A since Cancun (EIP-4844).
func SelectPrecompiles(f params.Fork) PrecompiledContracts {
	m := PrecompiledContracts{
		precompileAddress(1): ecrecoverContract{},
		precompileAddress(2): sha256Contract{},
		precompileAddress(3): ripemd160Contract{},
		precompileAddress(4): identityContract{},
	}
	if f >= params.Byzantium {
		m[precompileAddress(5)] = modexpContract{}
		m[precompileAddress(6)] = bn254AddContract{}
		m[precompileAddress(7)] = bn254MulContract{}
		m[precompileAddress(8)] = bn254PairingContract{}
	}
	if f >= params.Istanbul {
		m[precompileAddress(9)] = blake2FContract{}
	}
	if f >= params.Cancun {
		m[precompileAddress(10)] = kzgPointEvaluationContract{}
	}
	return m
}

// RunPrecompile charges for and executes a precompile call, returning its
// output and the gas left over.
func RunPrecompile(p PrecompiledContract, input []byte, gas uint64) ([]byte, uint64, error) {
	required := p.RequiredGas(input)
	if gas < required {
		return nil, 0, ErrOutOfGas
	}
	gas -= required
	out, err := p.Run(input)
	if err != nil {
		return nil, gas, err
	}
	return out, gas, nil
}

func padRight(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size]
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}

func getDataSlice(data []byte, start, size uint64) []byte {
	if start >= uint64(len(data)) {
		return make([]byte, size)
	}
	end := start + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	return padRight(data[start:end], int(size))
}

// --- 0x01 ECRECOVER ---

type ecrecoverContract struct{}

func (ecrecoverContract) RequiredGas([]byte) uint64 { return 3000 }

func (ecrecoverContract) Run(input []byte) ([]byte, error) {
	input = padRight(input, 128)
	var hash [32]byte
	copy(hash[:], input[0:32])
	v := input[63]
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])
	if !evmcrypto.ValidateSignatureValues(v-27, r, s, false) || (v != 27 && v != 28) {
		return nil, nil
	}
	var sig [65]byte
	copy(sig[0:32], input[64:96])
	copy(sig[32:64], input[96:128])
	sig[64] = v - 27
	addr, ok := evmcrypto.Ecrecover(hash, sig)
	if !ok {
		return nil, nil
	}
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return out, nil
}

// --- 0x02 SHA256 ---

type sha256Contract struct{}

func (sha256Contract) RequiredGas(input []byte) uint64 {
	return 60 + 12*uint64((len(input)+31)/32)
}

func (sha256Contract) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// --- 0x03 RIPEMD160 ---

type ripemd160Contract struct{}

func (ripemd160Contract) RequiredGas(input []byte) uint64 {
	return 600 + 120*uint64((len(input)+31)/32)
}

func (ripemd160Contract) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	sum := h.Sum(nil)
	return padRight(append(make([]byte, 12), sum...), 32), nil
}

// --- 0x04 IDENTITY ---

type identityContract struct{}

func (identityContract) RequiredGas(input []byte) uint64 {
	return 15 + 3*uint64((len(input)+31)/32)
}

func (identityContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// --- 0x05 MODEXP (EIP-198) ---

type modexpContract struct{}

func (modexpContract) RequiredGas(input []byte) uint64 {
	input = padRight(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32]).Uint64()
	expLen := new(big.Int).SetBytes(input[32:64]).Uint64()
	modLen := new(big.Int).SetBytes(input[64:96]).Uint64()

	expStart := uint64(96) + baseLen
	expBytes := getDataSlice(input, expStart, minUint64(expLen, 32))
	adjExpLen := adjustedExpLen(expLen, new(big.Int).SetBytes(expBytes))

	maxLen := baseLen
	if modLen > maxLen {
		maxLen = modLen
	}
	words := (maxLen + 7) / 8
	gas := words * words * maxUint64(adjExpLen, 1) / 3
	if gas < 200 {
		gas = 200
	}
	return gas
}

func adjustedExpLen(expLen uint64, exp *big.Int) uint64 {
	var adj uint64
	if expLen <= 32 {
		if exp.BitLen() == 0 {
			return 0
		}
		return uint64(exp.BitLen() - 1)
	}
	bitLen := exp.BitLen()
	if bitLen > 0 {
		adj = uint64(bitLen - 1)
	}
	return 8*(expLen-32) + adj
}

func maxUint64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func (modexpContract) Run(input []byte) ([]byte, error) {
	input = padRight(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32]).Uint64()
	expLen := new(big.Int).SetBytes(input[32:64]).Uint64()
	modLen := new(big.Int).SetBytes(input[64:96]).Uint64()

	base := new(big.Int).SetBytes(getDataSlice(input, 96, baseLen))
	exp := new(big.Int).SetBytes(getDataSlice(input, 96+baseLen, expLen))
	mod := new(big.Int).SetBytes(getDataSlice(input, 96+baseLen+expLen, modLen))

	if mod.Sign() == 0 {
		return make([]byte, modLen), nil
	}
	result := new(big.Int).Exp(base, exp, mod)
	return padRight(append(make([]byte, int(modLen)-len(result.Bytes())), result.Bytes()...), int(modLen)), nil
}

// --- 0x06/07/08 BN254 (EIP-196/197) ---

type bn254AddContract struct{}

func (bn254AddContract) RequiredGas([]byte) uint64 { return 150 }
func (bn254AddContract) Run(input []byte) ([]byte, error) {
	return evmcrypto.BN254Add(padRight(input, 128))
}

type bn254MulContract struct{}

func (bn254MulContract) RequiredGas([]byte) uint64 { return 6000 }
func (bn254MulContract) Run(input []byte) ([]byte, error) {
	return evmcrypto.BN254ScalarMul(padRight(input, 96))
}

type bn254PairingContract struct{}

func (bn254PairingContract) RequiredGas(input []byte) uint64 {
	return 45000 + 34000*uint64(len(input)/192)
}
func (bn254PairingContract) Run(input []byte) ([]byte, error) {
	ok, err := evmcrypto.BN254Pairing(input)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 32)
	if ok {
		out[31] = 1
	}
	return out, nil
}

// --- 0x09 BLAKE2F (EIP-152) ---

type blake2FContract struct{}

var errBlake2FInvalidInputLength = errors.New("vm: invalid blake2f input length, must be 213 bytes")
var errBlake2FInvalidFinalFlag = errors.New("vm: invalid blake2f final flag, must be 0 or 1")

func (blake2FContract) RequiredGas(input []byte) uint64 {
	if len(input) != 213 {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(input[0:4]))
}

func (blake2FContract) Run(input []byte) ([]byte, error) {
	if len(input) != 213 {
		return nil, errBlake2FInvalidInputLength
	}
	rounds := binary.BigEndian.Uint32(input[0:4])
	var h [8]uint64
	for i := 0; i < 8; i++ {
		h[i] = binary.LittleEndian.Uint64(input[4+i*8:])
	}
	var m [16]uint64
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint64(input[68+i*8:])
	}
	t := [2]uint64{binary.LittleEndian.Uint64(input[196:204]), binary.LittleEndian.Uint64(input[204:212])}
	final := input[212]
	if final != 0 && final != 1 {
		return nil, errBlake2FInvalidFinalFlag
	}
	out := evmcrypto.BLAKE2F(rounds, h, m, t, final == 1)
	result := make([]byte, 64)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(result[i*8:], out[i])
	}
	return result, nil
}

// --- 0x0A KZG point evaluation (EIP-4844) ---

type kzgPointEvaluationContract struct{}

var kzgModulus, _ = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

func (kzgPointEvaluationContract) RequiredGas([]byte) uint64 { return 50000 }

func (kzgPointEvaluationContract) Run(input []byte) ([]byte, error) {
	if len(input) != 192 {
		return nil, errors.New("vm: invalid point evaluation input length")
	}
	var versionedHash types.Hash
	copy(versionedHash[:], input[0:32])
	if versionedHash[0] != 0x01 {
		return nil, errors.New("vm: invalid blob versioned hash version")
	}
	var commitment [48]byte
	copy(commitment[:], input[96:144])
	computedHash := types.BytesToHash(append([]byte{0x01}, evmcrypto.Keccak256(commitment[:])[1:]...))
	if computedHash != versionedHash {
		return nil, errors.New("vm: commitment does not match versioned hash")
	}
	var z, y [32]byte
	copy(z[:], input[32:64])
	copy(y[:], input[64:96])
	var proof [48]byte
	copy(proof[:], input[144:192])

	if err := evmcrypto.VerifyKZGProof(commitment, z, y, proof); err != nil {
		return nil, err
	}

	out := make([]byte, 64)
	copy(out[0:32], big32(2))
	copy(out[32:64], kzgModulus.Bytes())
	return out, nil
}

func big32(v uint64) []byte {
	var b [32]byte
	binary.BigEndian.PutUint64(b[24:], v)
	return b[:]
}
