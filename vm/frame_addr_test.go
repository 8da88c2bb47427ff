package vm

import (
	"testing"

	"github.com/eth2030/evmcore/types"
)

func TestCreateAddressVariesBySender(t *testing.T) {
	a := createAddress(types.HexToAddress("0x0000000000000000000000000000000000000001"), 0)
	b := createAddress(types.HexToAddress("0x0000000000000000000000000000000000000002"), 0)
	if a == b {
		t.Fatalf("different senders must derive different addresses")
	}
}

func TestCreateAddressVariesByNonce(t *testing.T) {
	sender := types.HexToAddress("0x0000000000000000000000000000000000000001")
	a0 := createAddress(sender, 0)
	a1 := createAddress(sender, 1)
	if a0 == a1 {
		t.Fatalf("different nonces must derive different addresses")
	}
}

// TestCreate2AddressKnownVector checks create2Address against the EIP-1014
// reference vector: sender 0x0000000000000000000000000000000000000000,
// salt 0, init code 0x00 -> 0x4d1a2e2bb4f88f0250f26ffff098b0b30b26bf38.
func TestCreate2AddressKnownVector(t *testing.T) {
	sender := types.Address{}
	salt := types.ZeroWord()
	want := types.HexToAddress("0x4d1a2e2bb4f88f0250f26ffff098b0b30b26bf38")
	if got := create2Address(sender, salt, []byte{0x00}); got != want {
		t.Fatalf("create2Address(init code 0x00): got %s want %s", got.Hex(), want.Hex())
	}
}

func TestCreate2AddressVariesBySalt(t *testing.T) {
	sender := types.HexToAddress("0x0000000000000000000000000000000000000001")
	initCode := []byte{0x60, 0x00}
	a0 := create2Address(sender, types.WordFromUint64(0), initCode)
	a1 := create2Address(sender, types.WordFromUint64(1), initCode)
	if a0 == a1 {
		t.Fatalf("different salts must derive different addresses")
	}
}
