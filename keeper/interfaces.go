package keeper

import (
	"context"
	"time"

	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/updates"
)

//go:generate mockgen -destination=../mocks/mock_keeper.go -package=mocks github.com/NethermindEth/statekeeper/keeper TxSource,Executor,SealPolicy,BatchEnvSource

// TxSource hands out transactions to include, typically from a mempool.
type TxSource interface {
	// WaitForNextTx returns the next transaction, or nil if none arrived within maxWait.
	WaitForNextTx(ctx context.Context, maxWait time.Duration) (*core.Transaction, error)
	// Rollback gives back a transaction that was executed but not included.
	Rollback(ctx context.Context, tx *core.Transaction) error
	// Reject drops a transaction that can never be included.
	Reject(ctx context.Context, tx *core.Transaction, reason string) error
}

type TxResultKind uint8

const (
	TxSuccess TxResultKind = iota
	// TxRejected is a transaction the VM refused to execute, e.g. failed validation.
	TxRejected
	// TxBootloaderOutOfGas is a transaction that does not fit in the batch any more.
	TxBootloaderOutOfGas
)

// TxExecutionResult is what executing one transaction on top of the open batch produced.
type TxExecutionResult struct {
	Kind                TxResultKind
	RejectReason        string
	Result              core.VMExecutionResultAndLogs
	CompressedBytecodes []core.CompressedBytecodeInfo
	CallTraces          []core.Call
	L1GasCount          core.BlockGasCount
	ExecutionMetrics    core.ExecutionMetrics
}

// FinishedBatch is the outcome of the fictive transaction that closes a batch.
type FinishedBatch struct {
	Result           core.VMExecutionResultAndLogs
	L1GasCount       core.BlockGasCount
	ExecutionMetrics core.ExecutionMetrics
}

// Executor runs transactions of one L1 batch.
type Executor interface {
	// StartBatch prepares the executor for a new batch.
	StartBatch(ctx context.Context, env *core.L1BatchEnv, systemEnv *core.SystemEnv) error
	ExecuteTx(ctx context.Context, tx *core.Transaction) (*TxExecutionResult, error)
	// RollbackLastTx reverts the effects of the last executed transaction.
	RollbackLastTx(ctx context.Context) error
	StartNextMiniblock(ctx context.Context, env core.L2BlockEnv) error
	FinishBatch(ctx context.Context) (*FinishedBatch, error)
}

type SealResolution uint8

const (
	NoSeal SealResolution = iota
	// IncludeAndSeal includes the transaction, then seals the batch.
	IncludeAndSeal
	// ExcludeAndSeal leaves the transaction for the next batch and seals this one.
	ExcludeAndSeal
	// Unexecutable rejects the transaction, it would not fit even in an empty batch.
	Unexecutable
)

func (r SealResolution) String() string {
	switch r {
	case NoSeal:
		return "NoSeal"
	case IncludeAndSeal:
		return "IncludeAndSeal"
	case ExcludeAndSeal:
		return "ExcludeAndSeal"
	case Unexecutable:
		return "Unexecutable"
	default:
		return "Unknown"
	}
}

// SealData are the resources either a single transaction or a whole batch consume.
type SealData struct {
	ExecutionMetrics core.ExecutionMetrics
	GasCount         core.BlockGasCount
	CumulativeSize   int
}

// SealPolicy decides when miniblocks and batches are sealed. The thresholds are chain
// configuration and live with the embedder.
type SealPolicy interface {
	// ShouldSealL1Batch is asked for every executed transaction with the batch totals
	// including that transaction. reason explains an Unexecutable resolution.
	ShouldSealL1Batch(
		l1Batch core.L1BatchNumber,
		batchOpenedAt time.Time,
		txCount int,
		batch, tx SealData,
		version core.ProtocolVersionID,
	) (resolution SealResolution, reason string)
	// ShouldSealL1BatchUnconditionally is asked before waiting for a transaction, e.g. to
	// close a batch that has been open for too long.
	ShouldSealL1BatchUnconditionally(manager *updates.Manager, batchOpenedAt time.Time) bool
	ShouldSealMiniblock(manager *updates.Manager, miniblockOpenedAt time.Time) bool
}

// BatchEnvSource provides the environment of every batch the keeper opens.
type BatchEnvSource interface {
	NextL1Batch(ctx context.Context, cursor updates.IoCursor) (*core.L1BatchEnv, *core.SystemEnv, error)
}
