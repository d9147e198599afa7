package db

import (
	"encoding/binary"
	"fmt"
	"slices"
)

type Bucket byte

// Pebble does not support buckets to differentiate between groups of
// keys like Bolt or MDBX does. We use a global prefix list as a poor
// man's bucket alternative.
const (
	ChainHeight                       Bucket = iota // number of the last sealed miniblock
	MiniblockHeadersByNumber                        // miniblock number -> MiniblockHeader
	MiniblockNumbersByHash                          // miniblock hash -> miniblock number
	TransactionsByMiniblockNumberAndIndex           // miniblock number + index -> Transaction
	ReceiptsByMiniblockNumberAndIndex               // miniblock number + index -> Receipt
	TransactionLocationsByHash                      // tx hash -> miniblock number + index
	EventsByMiniblockNumber                         // miniblock number -> events
	StorageLogsByMiniblockNumber                    // miniblock number -> storage logs
	L2ToL1LogsByMiniblockNumber                     // miniblock number -> user and system L2 to L1 logs
	FactoryDeps                                     // bytecode hash -> bytecode
	L1BatchMiniblocks                               // L1 batch number + miniblock number -> nothing
)

var bucketNames = [...]string{
	ChainHeight:                           "ChainHeight",
	MiniblockHeadersByNumber:              "MiniblockHeadersByNumber",
	MiniblockNumbersByHash:                "MiniblockNumbersByHash",
	TransactionsByMiniblockNumberAndIndex: "TransactionsByMiniblockNumberAndIndex",
	ReceiptsByMiniblockNumberAndIndex:     "ReceiptsByMiniblockNumberAndIndex",
	TransactionLocationsByHash:            "TransactionLocationsByHash",
	EventsByMiniblockNumber:               "EventsByMiniblockNumber",
	StorageLogsByMiniblockNumber:          "StorageLogsByMiniblockNumber",
	L2ToL1LogsByMiniblockNumber:           "L2ToL1LogsByMiniblockNumber",
	FactoryDeps:                           "FactoryDeps",
	L1BatchMiniblocks:                     "L1BatchMiniblocks",
}

// BucketValues returns all buckets in prefix order.
func BucketValues() []Bucket {
	buckets := make([]Bucket, len(bucketNames))
	for i := range buckets {
		buckets[i] = Bucket(i)
	}
	return buckets
}

func (b Bucket) String() string {
	if int(b) < len(bucketNames) {
		return bucketNames[b]
	}
	return fmt.Sprintf("Bucket(%d)", byte(b))
}

// Key flattens a prefix and series of byte arrays into a single []byte.
func (b Bucket) Key(key ...[]byte) []byte {
	return append([]byte{byte(b)}, slices.Concat(key...)...)
}

// Uint32Key returns the big endian encoding of n so that keys sort by number
func Uint32Key(n uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, n)
}
