package updates

import (
	"fmt"

	"github.com/NethermindEth/statekeeper/core"
)

// L1BatchUpdates accumulates the miniblocks already sealed into the open L1 batch.
type L1BatchUpdates struct {
	Number               core.L1BatchNumber
	ExecutedTransactions []ExecutedTransaction

	L1GasCount            core.BlockGasCount
	BlockExecutionMetrics core.ExecutionMetrics
	TxsEncodingSize       int

	miniblocksSealed    int
	lastSealedMiniblock core.MiniblockNumber
}

func NewL1BatchUpdates(number core.L1BatchNumber) *L1BatchUpdates {
	return &L1BatchUpdates{Number: number}
}

// ExtendFromSealedMiniblock folds a sealed miniblock into the batch. Miniblocks must be
// folded exactly once and in number order.
func (b *L1BatchUpdates) ExtendFromSealedMiniblock(miniblock *MiniblockUpdates) {
	if b.miniblocksSealed > 0 && miniblock.Number != b.lastSealedMiniblock+1 {
		panic(fmt.Sprintf("miniblock %s folded into L1 batch %s after miniblock %s",
			miniblock.Number, b.Number, b.lastSealedMiniblock))
	}

	b.ExecutedTransactions = append(b.ExecutedTransactions, miniblock.ExecutedTransactions...)
	b.L1GasCount = b.L1GasCount.Add(miniblock.L1GasCount)
	b.BlockExecutionMetrics = b.BlockExecutionMetrics.Add(miniblock.BlockExecutionMetrics)
	b.TxsEncodingSize += miniblock.TxsEncodingSize

	b.miniblocksSealed++
	b.lastSealedMiniblock = miniblock.Number
}

func (b *L1BatchUpdates) Len() int {
	return len(b.ExecutedTransactions)
}

// MiniblocksSealed is the number of miniblocks folded into the batch so far.
func (b *L1BatchUpdates) MiniblocksSealed() int {
	return b.miniblocksSealed
}
