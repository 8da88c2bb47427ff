package types

// Log is a contract event emitted by LOG0..LOG4, recorded against the
// journal so it can be discarded on revert along with everything else a
// call frame did.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}
