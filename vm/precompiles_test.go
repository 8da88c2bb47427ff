package vm

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/eth2030/evmcore/params"
)

func TestSelectPrecompilesAddsSetsPerFork(t *testing.T) {
	frontier := SelectPrecompiles(params.Frontier)
	if len(frontier) != 4 {
		t.Fatalf("expected 4 precompiles at Frontier, got %d", len(frontier))
	}
	if _, ok := frontier[precompileAddress(5)]; ok {
		t.Fatalf("MODEXP must not be active before Byzantium")
	}

	byzantium := SelectPrecompiles(params.Byzantium)
	if len(byzantium) != 8 {
		t.Fatalf("expected 8 precompiles at Byzantium, got %d", len(byzantium))
	}

	cancun := SelectPrecompiles(params.Cancun)
	if _, ok := cancun[precompileAddress(10)]; !ok {
		t.Fatalf("KZG point evaluation must be active at Cancun")
	}
}

func TestIdentityPrecompileCopiesInput(t *testing.T) {
	c := identityContract{}
	in := []byte{1, 2, 3, 4}
	out, err := c.Run(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("identity should echo its input verbatim, got %x want %x", out, in)
	}
	if got := c.RequiredGas(in); got != 15+3 {
		t.Fatalf("expected gas %d, got %d", 15+3, got)
	}
}

func TestSha256PrecompileMatchesStdlib(t *testing.T) {
	c := sha256Contract{}
	in := []byte("the quick brown fox")
	out, err := c.Run(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := sha256.Sum256(in)
	if !bytes.Equal(out, want[:]) {
		t.Fatalf("sha256 precompile output mismatch")
	}
}

func TestRunPrecompileChargesGasAndErrorsWhenInsufficient(t *testing.T) {
	c := identityContract{}
	in := make([]byte, 32)
	required := c.RequiredGas(in)

	out, left, err := RunPrecompile(c, in, required+100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left != 100 {
		t.Fatalf("expected %d gas left over, got %d", 100, left)
	}
	if len(out) != len(in) {
		t.Fatalf("expected identity output length %d, got %d", len(in), len(out))
	}

	if _, _, err := RunPrecompile(c, in, required-1); err != ErrOutOfGas {
		t.Fatalf("expected ErrOutOfGas when gas is short, got %v", err)
	}
}
