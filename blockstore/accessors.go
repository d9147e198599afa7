package blockstore

import (
	"bytes"
	"encoding/binary"

	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/db"
	"github.com/NethermindEth/statekeeper/encoder"
	"github.com/ethereum/go-ethereum/common"
)

func miniblockKey(bucket db.Bucket, number core.MiniblockNumber) []byte {
	return bucket.Key(db.Uint32Key(uint32(number)))
}

func miniblockIndexKey(bucket db.Bucket, number core.MiniblockNumber, index int) []byte {
	return bucket.Key(db.Uint32Key(uint32(number)), db.Uint32Key(uint32(index)))
}

func l1BatchMiniblockKey(batch core.L1BatchNumber, number core.MiniblockNumber) []byte {
	return db.L1BatchMiniblocks.Key(db.Uint32Key(uint32(batch)), db.Uint32Key(uint32(number)))
}

func put(txn db.Transaction, key []byte, v any) error {
	encoded, err := encoder.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, encoded)
}

func get(txn db.Transaction, key []byte, v any) error {
	return txn.Get(key, func(val []byte) error {
		return encoder.Unmarshal(val, v)
	})
}

func getChainHeight(txn db.Transaction) (core.MiniblockNumber, error) {
	var height core.MiniblockNumber
	return height, txn.Get(db.ChainHeight.Key(), func(val []byte) error {
		height = core.MiniblockNumber(binary.BigEndian.Uint32(val))
		return nil
	})
}

func setChainHeight(txn db.Transaction, height core.MiniblockNumber) error {
	return txn.Set(db.ChainHeight.Key(), db.Uint32Key(uint32(height)))
}

func getMiniblockHeader(txn db.Transaction, number core.MiniblockNumber) (*MiniblockHeader, error) {
	header := new(MiniblockHeader)
	if err := get(txn, miniblockKey(db.MiniblockHeadersByNumber, number), header); err != nil {
		return nil, err
	}
	return header, nil
}

func getMiniblockNumberByHash(txn db.Transaction, hash common.Hash) (core.MiniblockNumber, error) {
	var number core.MiniblockNumber
	return number, txn.Get(db.MiniblockNumbersByHash.Key(hash.Bytes()), func(val []byte) error {
		number = core.MiniblockNumber(binary.BigEndian.Uint32(val))
		return nil
	})
}

// iteratePrefix calls fn for every key under prefix in key order
func iteratePrefix(txn db.Transaction, prefix []byte, fn func(key, val []byte) error) (err error) {
	it, err := txn.NewIterator()
	if err != nil {
		return err
	}
	defer db.CloseAndWrapOnError(it.Close, &err)

	for it.Seek(prefix); it.Valid(); it.Next() {
		key := it.Key()
		if !bytes.HasPrefix(key, prefix) {
			break
		}
		val, err := it.Value()
		if err != nil {
			return err
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}
