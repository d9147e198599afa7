// Package keeper drives the sequencing of L1 batches: it pulls transactions, executes
// them, feeds the results into an updates.Manager and hands sealed miniblocks to the
// sealer.
package keeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/service"
	"github.com/NethermindEth/statekeeper/updates"
	"github.com/NethermindEth/statekeeper/utils"
	"github.com/ethereum/go-ethereum/common"
)

var ErrNoBatchEnvSource = errors.New("keeper has no L1 batch environment source")

// SealHandle accepts miniblock seal commands, see sealer.Handle.
type SealHandle interface {
	Submit(ctx context.Context, cmd *updates.MiniblockSealCommand) error
	WaitForAllCommands(ctx context.Context) error
}

type Config struct {
	// PollInterval is the longest the keeper waits for a transaction before it
	// re-evaluates the seal criteria.
	PollInterval      time.Duration
	L2Erc20BridgeAddr common.Address
	// PreInsertTxs makes the block store persist transaction bodies with the miniblock.
	PreInsertTxs bool
}

var _ service.Service = (*Keeper)(nil)

type Keeper struct {
	cfg      Config
	txSource TxSource
	executor Executor
	policy   SealPolicy
	sealer   SealHandle
	log      utils.SimpleLogger
	listener EventListener
	now      func() time.Time

	envSource BatchEnvSource
	cursor    updates.IoCursor
}

func New(
	cfg Config,
	txSource TxSource,
	executor Executor,
	policy SealPolicy,
	sealer SealHandle,
	log utils.SimpleLogger,
) *Keeper {
	return &Keeper{
		cfg:      cfg,
		txSource: txSource,
		executor: executor,
		policy:   policy,
		sealer:   sealer,
		log:      log,
		listener: &SelectiveListener{},
		now:      time.Now,
	}
}

// WithListener registers an EventListener
func (k *Keeper) WithListener(listener EventListener) *Keeper {
	k.listener = listener
	return k
}

// WithBatchEnvSource lets Run open batches one after the other, starting after cursor.
func (k *Keeper) WithBatchEnvSource(source BatchEnvSource, cursor updates.IoCursor) *Keeper {
	k.envSource = source
	k.cursor = cursor
	return k
}

// Run processes L1 batches back to back until the context is cancelled.
func (k *Keeper) Run(ctx context.Context) error {
	if k.envSource == nil {
		return ErrNoBatchEnvSource
	}

	for {
		env, systemEnv, err := k.envSource.NextL1Batch(ctx, k.cursor)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("get environment of L1 batch after %s: %w", k.cursor.L1Batch, err)
		}

		manager, err := k.ProcessL1Batch(ctx, env, systemEnv)
		if err != nil {
			if ctx.Err() != nil {
				k.log.Infow("Stopped processing L1 batch", "number", env.Number)
				return nil
			}
			return err
		}
		k.cursor = manager.IoCursor()
	}
}

// ProcessL1Batch opens the batch described by env, fills it until the seal policy closes
// it and seals all its miniblocks. It returns once every miniblock is persisted.
func (k *Keeper) ProcessL1Batch(ctx context.Context, env *core.L1BatchEnv, systemEnv *core.SystemEnv) (*updates.Manager, error) {
	if err := k.executor.StartBatch(ctx, env, systemEnv); err != nil {
		return nil, fmt.Errorf("start L1 batch %s: %w", env.Number, err)
	}
	manager := updates.New(env, systemEnv)
	batchOpenedAt := k.now()
	miniblockOpenedAt := batchOpenedAt
	k.log.Infow("Opened L1 batch",
		"number", env.Number,
		"firstMiniblock", env.FirstL2Block.Number,
		"protocolVersion", systemEnv.Version,
		"baseFee", manager.BaseFeePerGas(),
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if k.policy.ShouldSealL1BatchUnconditionally(manager, batchOpenedAt) {
			k.log.Debugw("L1 batch sealed unconditionally", "number", env.Number)
			break
		}
		if k.policy.ShouldSealMiniblock(manager, miniblockOpenedAt) {
			if err := k.sealMiniblockAndPush(ctx, manager, 1); err != nil {
				return nil, err
			}
			miniblockOpenedAt = k.now()
		}

		tx, err := k.txSource.WaitForNextTx(ctx, k.cfg.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("wait for next transaction: %w", err)
		}
		if tx == nil {
			continue
		}

		seal, err := k.processTx(ctx, manager, tx, batchOpenedAt)
		if err != nil {
			return nil, err
		}
		if seal {
			break
		}
	}

	if err := k.sealL1Batch(ctx, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

// processTx executes tx and applies the seal resolution. It reports whether the batch
// has to be sealed.
func (k *Keeper) processTx(ctx context.Context, manager *updates.Manager, tx *core.Transaction, batchOpenedAt time.Time) (bool, error) {
	result, err := k.executor.ExecuteTx(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("execute transaction %s: %w", tx.Hash().Hex(), err)
	}

	var (
		resolution SealResolution
		reason     string
	)
	switch result.Kind {
	case TxRejected:
		resolution, reason = Unexecutable, result.RejectReason
	case TxBootloaderOutOfGas:
		if manager.PendingExecutedTransactionsLen() == 0 {
			resolution, reason = Unexecutable, "bootloader out of gas in an empty L1 batch"
		} else {
			resolution = ExcludeAndSeal
		}
	default:
		txData := SealData{
			ExecutionMetrics: result.ExecutionMetrics,
			GasCount:         result.L1GasCount,
			CumulativeSize:   tx.EncodingSize(),
		}
		batchData := SealData{
			ExecutionMetrics: manager.PendingExecutionMetrics().Add(txData.ExecutionMetrics),
			GasCount:         manager.PendingL1GasCount().Add(txData.GasCount),
			CumulativeSize:   manager.PendingTxsEncodingSize() + txData.CumulativeSize,
		}
		resolution, reason = k.policy.ShouldSealL1Batch(
			manager.L1BatchNumber(),
			batchOpenedAt,
			manager.PendingExecutedTransactionsLen()+1,
			batchData,
			txData,
			manager.ProtocolVersion(),
		)
	}

	switch resolution {
	case NoSeal, IncludeAndSeal:
		manager.ExtendFromExecutedTransaction(
			tx,
			result.Result,
			result.CompressedBytecodes,
			result.L1GasCount,
			result.ExecutionMetrics,
			result.CallTraces,
		)
		k.listener.OnTxIncluded(tx.Kind)
	case ExcludeAndSeal:
		if err := k.executor.RollbackLastTx(ctx); err != nil {
			return false, fmt.Errorf("roll back transaction %s: %w", tx.Hash().Hex(), err)
		}
		if err := k.txSource.Rollback(ctx, tx); err != nil {
			return false, fmt.Errorf("return transaction %s: %w", tx.Hash().Hex(), err)
		}
		k.log.Debugw("Transaction does not fit, sealing L1 batch", "hash", tx.Hash().Hex())
	case Unexecutable:
		if err := k.executor.RollbackLastTx(ctx); err != nil {
			return false, fmt.Errorf("roll back transaction %s: %w", tx.Hash().Hex(), err)
		}
		if err := k.txSource.Reject(ctx, tx, reason); err != nil {
			return false, fmt.Errorf("reject transaction %s: %w", tx.Hash().Hex(), err)
		}
		k.listener.OnTxRejected(reason)
		k.log.Warnw("Rejected unexecutable transaction", "hash", tx.Hash().Hex(), "reason", reason)
	default:
		return false, fmt.Errorf("unknown seal resolution %s", resolution)
	}
	return resolution == IncludeAndSeal || resolution == ExcludeAndSeal, nil
}

func (k *Keeper) sealMiniblockAndPush(ctx context.Context, manager *updates.Manager, virtualBlocks uint32) error {
	if err := k.submit(ctx, manager); err != nil {
		return err
	}

	params := updates.MiniblockParams{
		Timestamp:     k.nextMiniblockTimestamp(manager),
		VirtualBlocks: virtualBlocks,
	}
	cursor := manager.IoCursor()
	if err := k.executor.StartNextMiniblock(ctx, core.L2BlockEnv{
		Number:                   cursor.NextMiniblock,
		Timestamp:                params.Timestamp,
		PrevBlockHash:            cursor.PrevMiniblockHash,
		MaxVirtualBlocksToCreate: params.VirtualBlocks,
	}); err != nil {
		return fmt.Errorf("start miniblock %s: %w", cursor.NextMiniblock, err)
	}
	manager.PushMiniblock(params)
	return nil
}

func (k *Keeper) submit(ctx context.Context, manager *updates.Manager) error {
	cmd := manager.SealMiniblockCommand(k.cfg.L2Erc20BridgeAddr, k.cfg.PreInsertTxs)
	if err := k.sealer.Submit(ctx, cmd); err != nil {
		return fmt.Errorf("submit miniblock %s: %w", cmd.Miniblock.Number, err)
	}
	k.listener.OnMiniblockSealed(cmd.Miniblock.Len())
	return nil
}

// sealL1Batch seals the open miniblock if it has transactions, then puts the fictive
// transaction in a miniblock of its own and waits until everything is persisted.
func (k *Keeper) sealL1Batch(ctx context.Context, manager *updates.Manager) error {
	if manager.Miniblock().Len() > 0 {
		// the miniblock holding the fictive transaction creates no virtual blocks
		if err := k.sealMiniblockAndPush(ctx, manager, 0); err != nil {
			return err
		}
	}

	finished, err := k.executor.FinishBatch(ctx)
	if err != nil {
		return fmt.Errorf("finish L1 batch %s: %w", manager.L1BatchNumber(), err)
	}
	manager.FinishBatch(finished.Result, finished.L1GasCount, finished.ExecutionMetrics)

	if err := k.submit(ctx, manager); err != nil {
		return err
	}
	if err := k.sealer.WaitForAllCommands(ctx); err != nil {
		return fmt.Errorf("persist L1 batch %s: %w", manager.L1BatchNumber(), err)
	}

	txCount := manager.PendingExecutedTransactionsLen()
	miniblockCount := manager.L1Batch().MiniblocksSealed() + 1
	k.listener.OnL1BatchSealed(txCount, miniblockCount)
	k.log.Infow("Sealed L1 batch",
		"number", manager.L1BatchNumber(),
		"txs", txCount,
		"miniblocks", miniblockCount,
		"l1Gas", manager.PendingL1GasCount(),
	)
	return nil
}

// nextMiniblockTimestamp never goes backwards, even if the clock does.
func (k *Keeper) nextMiniblockTimestamp(manager *updates.Manager) uint64 {
	return max(uint64(k.now().Unix()), manager.Miniblock().Timestamp)
}
