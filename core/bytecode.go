package core

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	bytecodeWordSize       = 32
	bytecodeHashVersion    = 1
	knownCodesStorageAddr  = "0x0000000000000000000000000000000000008004"
	markedAsKnownSignature = "MarkedAsKnown(bytes32,bool)"
)

var (
	ErrBytecodeLength = errors.New("bytecode length is not a multiple of 32")
	ErrBytecodeWords  = errors.New("bytecode length in words must be odd")

	KnownCodesStorageAddress = common.HexToAddress(knownCodesStorageAddr)
	markedAsKnownTopic       = crypto.Keccak256Hash([]byte(markedAsKnownSignature))
)

// CompressedBytecodeInfo pairs a published bytecode with its compressed form.
type CompressedBytecodeInfo struct {
	Original   []byte
	Compressed []byte
}

// HashBytecode returns the versioned bytecode hash: sha256 of the code with the first four
// bytes replaced by the version and the length in 32-byte words.
func HashBytecode(code []byte) (common.Hash, error) {
	if len(code)%bytecodeWordSize != 0 {
		return common.Hash{}, ErrBytecodeLength
	}
	words := len(code) / bytecodeWordSize
	if words%2 == 0 {
		return common.Hash{}, ErrBytecodeWords
	}
	hash := common.Hash(sha256.Sum256(code))
	hash[0] = bytecodeHashVersion
	hash[1] = 0
	binary.BigEndian.PutUint16(hash[2:4], uint16(words))
	return hash, nil
}

// ExtractBytecodesMarkedAsKnown returns the hashes of bytecodes the known codes storage
// contract marked as known, in emission order.
func ExtractBytecodesMarkedAsKnown(events []VMEvent) []common.Hash {
	var hashes []common.Hash
	for i := range events {
		ev := &events[i]
		if ev.Address != KnownCodesStorageAddress || len(ev.IndexedTopics) < 2 {
			continue
		}
		if ev.IndexedTopics[0] == markedAsKnownTopic {
			hashes = append(hashes, ev.IndexedTopics[1])
		}
	}
	return hashes
}

// MarkedAsKnownEvent builds the event the known codes storage emits for hash.
func MarkedAsKnownEvent(hash common.Hash) VMEvent {
	return VMEvent{
		Address:       KnownCodesStorageAddress,
		IndexedTopics: []common.Hash{markedAsKnownTopic, hash},
	}
}
