package vm_test

import (
	"errors"
	"testing"

	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/state"
	"github.com/eth2030/evmcore/types"
	"github.com/eth2030/evmcore/vm"
)

type fakeDatabase struct {
	accounts map[types.Address]types.AccountInfo
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{accounts: make(map[types.Address]types.AccountInfo)}
}

func (d *fakeDatabase) GetAccount(addr types.Address) (types.AccountInfo, bool) {
	info, ok := d.accounts[addr]
	return info, ok
}
func (d *fakeDatabase) GetCode(types.Hash) []byte { return nil }
func (d *fakeDatabase) GetStorage(types.Address, types.Hash) types.Word {
	return *types.ZeroWord()
}

func newTestEVM(t *testing.T, fork params.Fork) (*vm.EVM, *state.StateDB) {
	t.Helper()
	db := state.New(newFakeDatabase())
	evm := vm.NewEVM(db, vm.BlockContext{
		GasLimit: 30_000_000,
		GetHash:  func(uint64) types.Hash { return types.Hash{} },
	}, vm.TxContext{}, fork, vm.Config{})
	return evm, db
}

// TestCreateRejectsCodeStartingWithEF is scenario 4: CREATE returning
// 0xEF-prefixed code is rejected post-London (EIP-3541).
func TestCreateRejectsCodeStartingWithEF(t *testing.T) {
	evm, db := newTestEVM(t, params.London)
	caller := types.HexToAddress("0x0000000000000000000000000000000000000001")
	db.AddBalance(caller, types.WordFromUint64(1_000_000))

	// PUSH32 0xEF00...00; PUSH1 0; MSTORE; PUSH1 1; PUSH1 0; RETURN
	initCode := []byte{
		0x7F, 0xEF, // PUSH32 followed by 32 bytes, high byte 0xEF
	}
	initCode = append(initCode, make([]byte, 31)...)
	initCode = append(initCode,
		0x60, 0x00, // PUSH1 0 (mstore offset)
		0x52,       // MSTORE
		0x60, 0x01, // PUSH1 1 (return size)
		0x60, 0x00, // PUSH1 0 (return offset)
		0xF3, // RETURN
	)

	contract := vm.NewContract(caller, caller, types.ZeroWord(), 1_000_000, nil, types.Hash{}, nil)
	_, _, _, err := evm.Create(contract, vm.CallKindCreate, initCode, 1_000_000, types.ZeroWord(), nil)
	if !errors.Is(err, vm.ErrInvalidCodePrefix) {
		t.Fatalf("expected ErrInvalidCodePrefix, got %v", err)
	}
}

// TestCreateRejectsCodeOverMaxSize is a variant of scenario 4: returned
// code bigger than EIP-170's 24576-byte cap is rejected regardless of
// content.
func TestCreateRejectsCodeOverMaxSize(t *testing.T) {
	evm, db := newTestEVM(t, params.London)
	caller := types.HexToAddress("0x0000000000000000000000000000000000000002")
	db.AddBalance(caller, types.WordFromUint64(1_000_000))

	// PUSH2 0x6001 (24577); PUSH1 0; RETURN -- returns 24577 zero bytes,
	// one over the EIP-170 cap, straight out of auto-zeroed memory.
	initCode := []byte{
		0x61, 0x60, 0x01, // PUSH2 24577
		0x60, 0x00, // PUSH1 0
		0xF3, // RETURN
	}

	contract := vm.NewContract(caller, caller, types.ZeroWord(), 10_000_000, nil, types.Hash{}, nil)
	_, _, _, err := evm.Create(contract, vm.CallKindCreate, initCode, 10_000_000, types.ZeroWord(), nil)
	if !errors.Is(err, vm.ErrMaxCodeSizeExceeded) {
		t.Fatalf("expected ErrMaxCodeSizeExceeded, got %v", err)
	}
}

// TestCallWithInsufficientBalanceFails is scenario 5: a CALL that sends
// more value than the caller holds fails without touching state.
func TestCallWithInsufficientBalanceFails(t *testing.T) {
	evm, db := newTestEVM(t, params.London)
	caller := types.HexToAddress("0x0000000000000000000000000000000000000003")
	to := types.HexToAddress("0x0000000000000000000000000000000000000004")
	db.AddBalance(caller, types.WordFromUint64(10))

	contract := vm.NewContract(caller, caller, types.ZeroWord(), 100_000, nil, types.Hash{}, nil)
	_, _, err := evm.Call(contract, vm.CallKindCall, to, nil, 100_000, types.WordFromUint64(11))
	if !errors.Is(err, vm.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := db.GetBalance(caller).Uint64(); got != 10 {
		t.Fatalf("a failed call must not move any balance, got %d", got)
	}
}

// TestCreateCollisionWithExistingContract is scenario 3: CREATE2 to an
// address that already holds code is rejected as a collision.
func TestCreateCollisionWithExistingContract(t *testing.T) {
	evm, db := newTestEVM(t, params.London)
	caller := types.HexToAddress("0x0000000000000000000000000000000000000005")
	db.AddBalance(caller, types.WordFromUint64(1_000_000))

	salt := types.WordFromUint64(42)
	initCode := []byte{0x60, 0x00, 0x60, 0x00, 0xF3} // PUSH1 0; PUSH1 0; RETURN -> empty code

	contract := vm.NewContract(caller, caller, types.ZeroWord(), 1_000_000, nil, types.Hash{}, nil)
	_, addr, _, err := evm.Create(contract, vm.CallKindCreate2, initCode, 1_000_000, types.ZeroWord(), salt)
	if err != nil {
		t.Fatalf("first CREATE2 should succeed, got %v", err)
	}

	// Plant code directly at the derived address to simulate a prior
	// deployment, then attempt the identical CREATE2 again.
	db.SetNonce(addr, 1)
	db.SetCode(addr, []byte{0x00})

	contract2 := vm.NewContract(caller, caller, types.ZeroWord(), 1_000_000, nil, types.Hash{}, nil)
	_, _, _, err = evm.Create(contract2, vm.CallKindCreate2, initCode, 1_000_000, types.ZeroWord(), salt)
	if !errors.Is(err, vm.ErrContractAddressCollision) {
		t.Fatalf("expected ErrContractAddressCollision, got %v", err)
	}
}
