package updates

import (
	"github.com/NethermindEth/statekeeper/core"
	"github.com/ethereum/go-ethereum/common"
)

// MiniblockSealCommand carries everything needed to persist a miniblock, independent of
// the Manager it was taken from.
type MiniblockSealCommand struct {
	L1BatchNumber core.L1BatchNumber
	Miniblock     MiniblockUpdates
	// FirstTxIndex is the index of the first transaction of the miniblock within the batch.
	FirstTxIndex              int
	FeeAccountAddress         common.Address
	FeeInput                  core.BatchFeeInput
	BaseFeePerGas             uint64
	BaseSystemContractsHashes core.BaseSystemContractsHashes
	ProtocolVersion           *core.ProtocolVersionID
	L2Erc20BridgeAddr         common.Address
	// PreInsertTxs is set when the transactions were never stored before being included,
	// e.g. when re-executing blocks received from the main node.
	PreInsertTxs bool
}

// TxIndexInL1Batch converts an index within the miniblock to an index within the batch.
func (c *MiniblockSealCommand) TxIndexInL1Batch(indexInMiniblock int) int {
	return c.FirstTxIndex + indexInMiniblock
}

func (c *MiniblockSealCommand) MiniblockHash() common.Hash {
	return c.Miniblock.Hash()
}

// IsEmpty is true for miniblocks without any transaction, fictive ones included.
func (c *MiniblockSealCommand) IsEmpty() bool {
	return len(c.Miniblock.ExecutedTransactions) == 0
}
