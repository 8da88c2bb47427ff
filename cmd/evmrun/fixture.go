package main

import (
	"github.com/eth2030/evmcore/crypto"
	"github.com/eth2030/evmcore/txn"
	"github.com/eth2030/evmcore/types"
)

// Fixture is the on-disk JSON shape evmrun consumes: a genesis allocation,
// a block context, and the one message to execute against it. It mirrors
// the state-test fixture format used across the Ethereum execution-client
// ecosystem, trimmed to what this core's narrow Database interface needs.
type Fixture struct {
	Alloc map[string]FixtureAccount `json:"alloc"`
	Block FixtureBlock              `json:"block"`
	Tx    FixtureTx                 `json:"transaction"`
}

// FixtureAccount is one genesis account's starting balance/nonce/code/
// storage, all hex-encoded the way state-test fixtures encode them.
type FixtureAccount struct {
	Balance string            `json:"balance"`
	Nonce   uint64            `json:"nonce"`
	Code    string            `json:"code"`
	Storage map[string]string `json:"storage"`
}

// FixtureBlock is the subset of block-level context the driver reads.
type FixtureBlock struct {
	Coinbase    string `json:"coinbase"`
	GasLimit    uint64 `json:"gasLimit"`
	Number      uint64 `json:"number"`
	Timestamp   uint64 `json:"timestamp"`
	BaseFee     string `json:"baseFee"`
	Difficulty  string `json:"difficulty"`
	BlobBaseFee string `json:"blobBaseFee"`
}

// FixtureAccessListEntry mirrors txn.AccessListEntry in the JSON shape.
type FixtureAccessListEntry struct {
	Address string   `json:"address"`
	Keys    []string `json:"storageKeys"`
}

// FixtureTx is the message to execute; To is empty for contract creation.
type FixtureTx struct {
	From       string                   `json:"from"`
	To         string                   `json:"to"`
	Nonce      uint64                   `json:"nonce"`
	GasLimit   uint64                   `json:"gasLimit"`
	GasPrice   string                   `json:"gasPrice"`
	GasFeeCap  string                   `json:"gasFeeCap"`
	GasTipCap  string                   `json:"gasTipCap"`
	Value      string                   `json:"value"`
	Data       string                   `json:"data"`
	AccessList []FixtureAccessListEntry `json:"accessList"`
}

// memDatabase is an in-memory state.Database backing the genesis
// allocation; it never sees any writes (the journaled StateDB caches those
// itself), so it needs no mutation methods.
type memDatabase struct {
	accounts map[types.Address]types.AccountInfo
	code     map[types.Hash][]byte
	storage  map[types.Address]map[types.Hash]types.Word
}

func (d *memDatabase) GetAccount(addr types.Address) (types.AccountInfo, bool) {
	info, ok := d.accounts[addr]
	return info, ok
}

func (d *memDatabase) GetCode(hash types.Hash) []byte { return d.code[hash] }

func (d *memDatabase) GetStorage(addr types.Address, key types.Hash) types.Word {
	slots, ok := d.storage[addr]
	if !ok {
		return *types.ZeroWord()
	}
	return slots[key]
}

func (fx *Fixture) toDatabase() *memDatabase {
	db := &memDatabase{
		accounts: make(map[types.Address]types.AccountInfo),
		code:     make(map[types.Hash][]byte),
		storage:  make(map[types.Address]map[types.Hash]types.Word),
	}
	for addrHex, acct := range fx.Alloc {
		addr := types.HexToAddress(addrHex)
		info := types.AccountInfo{
			Nonce:    acct.Nonce,
			Balance:  types.HexToWord(acct.Balance),
			CodeHash: types.EmptyCodeHash,
		}
		if code := hexDecode(acct.Code); len(code) > 0 {
			info.CodeHash = crypto.Keccak256Hash(code)
			db.code[info.CodeHash] = code
		}
		db.accounts[addr] = info
	}
	return db
}

func (fx *Fixture) toBlockInfo() txn.BlockInfo {
	return txn.BlockInfo{
		Coinbase:    types.HexToAddress(fx.Block.Coinbase),
		GasLimit:    fx.Block.GasLimit,
		Number:      fx.Block.Number,
		Timestamp:   fx.Block.Timestamp,
		Difficulty:  types.HexToWord(fx.Block.Difficulty),
		BaseFee:     types.HexToWord(fx.Block.BaseFee),
		BlobBaseFee: types.HexToWord(fx.Block.BlobBaseFee),
		GetHash:     func(uint64) types.Hash { return types.Hash{} },
	}
}

func (fx *Fixture) toMessage() (*txn.Message, error) {
	m := &txn.Message{
		From:      types.HexToAddress(fx.Tx.From),
		Nonce:     fx.Tx.Nonce,
		GasLimit:  fx.Tx.GasLimit,
		GasPrice:  types.HexToWord(fx.Tx.GasPrice),
		GasFeeCap: types.HexToWord(fx.Tx.GasFeeCap),
		GasTipCap: types.HexToWord(fx.Tx.GasTipCap),
		Value:     types.HexToWord(fx.Tx.Value),
		Data:      hexDecode(fx.Tx.Data),
	}
	if fx.Tx.To != "" {
		to := types.HexToAddress(fx.Tx.To)
		m.To = &to
	}
	for _, e := range fx.Tx.AccessList {
		entry := txn.AccessListEntry{Address: types.HexToAddress(e.Address)}
		for _, k := range e.Keys {
			entry.Keys = append(entry.Keys, types.HexToHash(k))
		}
		m.AccessList = append(m.AccessList, entry)
	}
	return m, nil
}

func hexDecode(s string) []byte { return types.HexToBytes(s) }
