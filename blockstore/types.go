package blockstore

import (
	"github.com/NethermindEth/statekeeper/core"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/ethereum/go-ethereum/common"
)

const (
	eventsBloomLength    = 8192
	eventsBloomHashFuncs = 6
)

type MiniblockHeader struct {
	// The number (height) of this miniblock
	Number core.MiniblockNumber `cbor:"1,keyasint"`
	// The L1 batch this miniblock belongs to
	L1BatchNumber core.L1BatchNumber `cbor:"2,keyasint"`
	// The hash of this miniblock
	Hash common.Hash `cbor:"3,keyasint"`
	// The hash of this miniblock's parent
	PrevHash common.Hash `cbor:"4,keyasint"`
	// The time the sequencer opened this miniblock
	Timestamp uint64 `cbor:"5,keyasint"`
	// Amount of transactions, fictive ones excluded
	L1TxCount uint16 `cbor:"6,keyasint"`
	L2TxCount uint16 `cbor:"7,keyasint"`
	// The amount of events emitted in this miniblock
	EventCount uint64 `cbor:"8,keyasint"`
	// Index of the first transaction of this miniblock in its L1 batch
	FirstTxIndexInL1Batch uint32 `cbor:"9,keyasint"`

	BaseFeePerGas      uint64             `cbor:"10,keyasint"`
	GasPerPubdataLimit uint64             `cbor:"11,keyasint"`
	FeeAccountAddress  common.Address     `cbor:"12,keyasint"`
	FeeInput           core.BatchFeeInput `cbor:"13,keyasint"`
	// Amount of L1 gas the miniblock is expected to cost
	L1GasCount       core.BlockGasCount    `cbor:"14,keyasint"`
	ExecutionMetrics core.ExecutionMetrics `cbor:"15,keyasint"`

	BaseSystemContractsHashes core.BaseSystemContractsHashes `cbor:"16,keyasint"`
	ProtocolVersion           *core.ProtocolVersionID        `cbor:"17,keyasint,omitempty"`
	VirtualBlocks             uint32                         `cbor:"18,keyasint"`
	L2Erc20BridgeAddr         common.Address                 `cbor:"19,keyasint"`
	// Bloom filter on the addresses and topics of the events emitted in this miniblock
	EventsBloom *bloom.BloomFilter `cbor:"20,keyasint,omitempty"`
}

// MayEmit reports whether an event from address with the given topic could have been
// emitted in this miniblock. False positives are possible, false negatives are not.
func (h *MiniblockHeader) MayEmit(address common.Address, topic *common.Hash) bool {
	if h.EventsBloom == nil {
		return true
	}
	if !h.EventsBloom.Test(address.Bytes()) {
		return false
	}
	return topic == nil || h.EventsBloom.Test(topic.Bytes())
}

func eventsBloom(events []core.VMEvent) *bloom.BloomFilter {
	filter := bloom.New(eventsBloomLength, eventsBloomHashFuncs)
	for i := range events {
		filter.Add(events[i].Address.Bytes())
		for _, topic := range events[i].IndexedTopics {
			filter.Add(topic.Bytes())
		}
	}
	return filter
}

// Receipt is the persisted outcome of one transaction. Fictive transactions get no receipt.
type Receipt struct {
	TransactionHash common.Hash          `cbor:"1,keyasint"`
	Status          core.ExecutionStatus `cbor:"2,keyasint"`
	RevertReason    string               `cbor:"3,keyasint,omitempty"`
	Location        TransactionLocation  `cbor:"4,keyasint"`

	GasRefunded             uint64                `cbor:"5,keyasint"`
	OperatorSuggestedRefund uint64                `cbor:"6,keyasint"`
	L1GasCount              core.BlockGasCount    `cbor:"7,keyasint"`
	ExecutionMetrics        core.ExecutionMetrics `cbor:"8,keyasint"`
	Events                  []core.VMEvent        `cbor:"9,keyasint,omitempty"`
	CompressedBytecodes     int                   `cbor:"10,keyasint,omitempty"`
}

// TransactionLocation places a transaction both in its miniblock and in its L1 batch.
type TransactionLocation struct {
	Miniblock      core.MiniblockNumber `cbor:"1,keyasint"`
	IndexInBlock   uint32               `cbor:"2,keyasint"`
	L1Batch        core.L1BatchNumber   `cbor:"3,keyasint"`
	IndexInL1Batch uint32               `cbor:"4,keyasint"`
}

type L2ToL1Logs struct {
	User   []core.L2ToL1Log `cbor:"1,keyasint,omitempty"`
	System []core.L2ToL1Log `cbor:"2,keyasint,omitempty"`
}
