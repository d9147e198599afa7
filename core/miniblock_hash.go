package core

import (
	"encoding/binary"
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// MiniblockHasher accumulates the transactions of a miniblock and produces
// keccak256(number || timestamp || prevHash || txsRollingHash), every field as a 32-byte word.
// The rolling hash starts at zero and is updated as keccak256(rolling || txHash).
type MiniblockHasher struct {
	number         MiniblockNumber
	timestamp      uint64
	prevHash       common.Hash
	txsRollingHash common.Hash
	keccak         hash.Hash
}

func NewMiniblockHasher(number MiniblockNumber, timestamp uint64, prevHash common.Hash) *MiniblockHasher {
	return &MiniblockHasher{
		number:    number,
		timestamp: timestamp,
		prevHash:  prevHash,
		keccak:    sha3.NewLegacyKeccak256(),
	}
}

func (h *MiniblockHasher) PushTxHash(txHash common.Hash) {
	h.txsRollingHash = h.sum(h.txsRollingHash[:], txHash[:])
}

func (h *MiniblockHasher) Finalize() common.Hash {
	var number, timestamp common.Hash
	binary.BigEndian.PutUint64(number[common.HashLength-8:], uint64(h.number))
	binary.BigEndian.PutUint64(timestamp[common.HashLength-8:], h.timestamp)
	return h.sum(number[:], timestamp[:], h.prevHash[:], h.txsRollingHash[:])
}

func (h *MiniblockHasher) sum(words ...[]byte) common.Hash {
	h.keccak.Reset()
	for _, w := range words {
		h.keccak.Write(w) //nolint:errcheck
	}
	var out common.Hash
	h.keccak.Sum(out[:0])
	return out
}
