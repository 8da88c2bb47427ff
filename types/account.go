package types

// AccountInfo is the consensus-relevant snapshot of an account: the fields
// that participate in state root computation minus storage, which the
// journaled state layer tracks separately as individual slots.
type AccountInfo struct {
	Nonce    uint64
	Balance  *Word
	CodeHash Hash
}

// NewEmptyAccount returns the account snapshot of a brand-new,
// never-before-touched address: zero nonce, zero balance, no code.
func NewEmptyAccount() AccountInfo {
	return AccountInfo{Balance: ZeroWord(), CodeHash: EmptyCodeHash}
}

// IsEmpty reports whether the account meets the EIP-161 definition of an
// empty account: zero nonce, zero balance, and no code.
func (a AccountInfo) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && (a.CodeHash == EmptyCodeHash || a.CodeHash == (Hash{}))
}

// HasCode reports whether the account has deployed contract code.
func (a AccountInfo) HasCode() bool {
	return a.CodeHash != (Hash{}) && a.CodeHash != EmptyCodeHash
}
