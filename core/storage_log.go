package core

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type StorageKey struct {
	Address common.Address
	Key     common.Hash
}

// HashedKey is the key under which the slot lives in the state tree.
func (k StorageKey) HashedKey() common.Hash {
	return crypto.Keccak256Hash(common.LeftPadBytes(k.Address.Bytes(), common.HashLength), k.Key.Bytes())
}

// StorageLogQuery is a single storage access performed while executing a transaction.
type StorageLogQuery struct {
	Key          StorageKey
	ReadValue    common.Hash
	WrittenValue common.Hash
	IsWrite      bool
	// InitialWrite marks the first write to the slot since genesis.
	InitialWrite bool
	// Rollback is set when the access was reverted by the VM.
	Rollback  bool
	IsService bool
}
