package core

import "github.com/ethereum/go-ethereum/common"

// L2BlockEnv describes the miniblock the VM starts executing in.
type L2BlockEnv struct {
	Number                   MiniblockNumber
	Timestamp                uint64
	PrevBlockHash            common.Hash
	MaxVirtualBlocksToCreate uint32
}

// L1BatchEnv holds the parameters an L1 batch is opened with.
type L1BatchEnv struct {
	PreviousBatchHash *common.Hash
	Number            L1BatchNumber
	Timestamp         uint64
	FeeInput          BatchFeeInput
	FeeAccount        common.Address
	// EnforcedBaseFee overrides the base fee derived from FeeInput, used when re-executing
	// batches produced by another node.
	EnforcedBaseFee *uint64
	FirstL2Block    L2BlockEnv
}

type SystemEnv struct {
	Version                                ProtocolVersionID
	BaseSystemContracts                    BaseSystemContractsHashes
	BootloaderGasLimit                     uint32
	DefaultValidationComputationalGasLimit uint32
	ChainID                                uint64
}
