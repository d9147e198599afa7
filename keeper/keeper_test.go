package keeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NethermindEth/statekeeper/blockstore"
	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/db/pebble"
	"github.com/NethermindEth/statekeeper/keeper"
	"github.com/NethermindEth/statekeeper/mocks"
	"github.com/NethermindEth/statekeeper/sealer"
	"github.com/NethermindEth/statekeeper/updates"
	"github.com/NethermindEth/statekeeper/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingSealer struct {
	cmds  []*updates.MiniblockSealCommand
	waits int
}

func (r *recordingSealer) Submit(_ context.Context, cmd *updates.MiniblockSealCommand) error {
	r.cmds = append(r.cmds, cmd)
	return nil
}

func (r *recordingSealer) WaitForAllCommands(context.Context) error {
	r.waits++
	return nil
}

type env struct {
	txSource *mocks.MockTxSource
	executor *mocks.MockExecutor
	policy   *mocks.MockSealPolicy
	sealer   *recordingSealer
	keeper   *keeper.Keeper
}

var cfg = keeper.Config{
	PollInterval:      10 * time.Millisecond,
	L2Erc20BridgeAddr: common.HexToAddress("0xb1d9e"),
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mockCtrl := gomock.NewController(t)
	e := &env{
		txSource: mocks.NewMockTxSource(mockCtrl),
		executor: mocks.NewMockExecutor(mockCtrl),
		policy:   mocks.NewMockSealPolicy(mockCtrl),
		sealer:   &recordingSealer{},
	}
	e.keeper = keeper.New(cfg, e.txSource, e.executor, e.policy, e.sealer, utils.NewNopZapLogger())
	return e
}

// feed makes the tx source return txs in order and nothing afterwards
func (e *env) feed(txs ...*core.Transaction) {
	calls := 0
	e.txSource.EXPECT().WaitForNextTx(gomock.Any(), cfg.PollInterval).DoAndReturn(
		func(context.Context, time.Duration) (*core.Transaction, error) {
			if calls >= len(txs) {
				return nil, nil
			}
			calls++
			return txs[calls-1], nil
		}).AnyTimes()
}

func success() *keeper.TxExecutionResult {
	return &keeper.TxExecutionResult{
		Kind:             keeper.TxSuccess,
		Result:           updates.CreateExecutionResult(nil),
		L1GasCount:       core.BlockGasCount{Commit: 1},
		ExecutionMetrics: core.ExecutionMetrics{GasUsed: 100},
	}
}

func finished() *keeper.FinishedBatch {
	return &keeper.FinishedBatch{Result: updates.CreateExecutionResult(nil)}
}

func txs(n int) []*core.Transaction {
	result := make([]*core.Transaction, n)
	for i := range result {
		result[i] = updates.CreateTransaction(uint64(i), 1)
	}
	return result
}

func TestProcessL1Batch(t *testing.T) {
	e := newEnv(t)
	batchEnv := updates.DefaultL1BatchEnv(1, 1, common.HexToAddress("0xfee"))
	systemEnv := updates.DefaultSystemEnv()
	input := txs(3)

	var included, miniblocks, batches int
	e.keeper.WithListener(&keeper.SelectiveListener{
		OnTxIncludedCb:      func(core.TxKind) { included++ },
		OnMiniblockSealedCb: func(int) { miniblocks++ },
		OnL1BatchSealedCb: func(txCount, miniblockCount int) {
			batches++
			assert.Equal(t, 4, txCount)
			assert.Equal(t, 3, miniblockCount)
		},
	})

	e.feed(input...)
	e.executor.EXPECT().StartBatch(gomock.Any(), batchEnv, systemEnv).Return(nil)
	e.executor.EXPECT().ExecuteTx(gomock.Any(), gomock.Any()).Return(success(), nil).Times(len(input))
	var miniblockEnvs []core.L2BlockEnv
	e.executor.EXPECT().StartNextMiniblock(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, env core.L2BlockEnv) error {
			miniblockEnvs = append(miniblockEnvs, env)
			return nil
		}).Times(2)
	e.executor.EXPECT().FinishBatch(gomock.Any()).Return(finished(), nil)

	e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	e.policy.EXPECT().ShouldSealMiniblock(gomock.Any(), gomock.Any()).DoAndReturn(
		func(m *updates.Manager, _ time.Time) bool {
			return m.Miniblock().Len() >= 2
		}).AnyTimes()
	e.policy.EXPECT().ShouldSealL1Batch(batchEnv.Number, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		systemEnv.Version).DoAndReturn(
		func(_ core.L1BatchNumber, _ time.Time, txCount int, batch, tx keeper.SealData, _ core.ProtocolVersionID) (
			keeper.SealResolution, string,
		) {
			assert.Equal(t, uint64(100), tx.ExecutionMetrics.GasUsed)
			assert.Equal(t, uint64(100*txCount), batch.ExecutionMetrics.GasUsed)
			assert.Equal(t, uint32(txCount), batch.GasCount.Commit)
			if txCount == len(input) {
				return keeper.IncludeAndSeal, ""
			}
			return keeper.NoSeal, ""
		}).Times(len(input))

	m, err := e.keeper.ProcessL1Batch(context.Background(), batchEnv, systemEnv)
	require.NoError(t, err)

	assert.True(t, m.Finished())
	assert.Equal(t, 4, m.PendingExecutedTransactionsLen())
	require.Len(t, e.sealer.cmds, 3)
	assert.Equal(t, 2, e.sealer.cmds[0].Miniblock.Len())
	assert.Equal(t, 1, e.sealer.cmds[1].Miniblock.Len())
	assert.Equal(t, 1, e.sealer.cmds[2].Miniblock.Len())
	assert.True(t, e.sealer.cmds[2].Miniblock.ExecutedTransactions[0].IsFictive())
	assert.Equal(t, 3, e.sealer.cmds[2].FirstTxIndex)
	for i, cmd := range e.sealer.cmds {
		assert.Equal(t, batchEnv.FirstL2Block.Number+core.MiniblockNumber(i), cmd.Miniblock.Number)
		assert.Equal(t, cfg.L2Erc20BridgeAddr, cmd.L2Erc20BridgeAddr)
	}
	assert.Equal(t, 1, e.sealer.waits)

	require.Len(t, miniblockEnvs, 2)
	assert.Equal(t, e.sealer.cmds[0].MiniblockHash(), miniblockEnvs[0].PrevBlockHash)
	assert.Equal(t, uint32(1), miniblockEnvs[0].MaxVirtualBlocksToCreate)
	assert.Equal(t, uint32(0), miniblockEnvs[1].MaxVirtualBlocksToCreate, "fictive miniblock")

	assert.Equal(t, 3, included)
	assert.Equal(t, 3, miniblocks)
	assert.Equal(t, 1, batches)
}

func TestProcessL1BatchUnexecutable(t *testing.T) {
	e := newEnv(t)
	input := txs(2)
	var rejected []string
	e.keeper.WithListener(&keeper.SelectiveListener{
		OnTxRejectedCb: func(reason string) { rejected = append(rejected, reason) },
	})

	e.feed(input...)
	e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	e.executor.EXPECT().ExecuteTx(gomock.Any(), input[0]).Return(&keeper.TxExecutionResult{
		Kind:         keeper.TxRejected,
		RejectReason: "nonce too low",
	}, nil)
	e.executor.EXPECT().RollbackLastTx(gomock.Any()).Return(nil)
	e.txSource.EXPECT().Reject(gomock.Any(), input[0], "nonce too low").Return(nil)
	e.executor.EXPECT().ExecuteTx(gomock.Any(), input[1]).Return(success(), nil)
	e.executor.EXPECT().StartNextMiniblock(gomock.Any(), gomock.Any()).Return(nil)
	e.executor.EXPECT().FinishBatch(gomock.Any()).Return(finished(), nil)

	e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	e.policy.EXPECT().ShouldSealMiniblock(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	e.policy.EXPECT().ShouldSealL1Batch(gomock.Any(), gomock.Any(), 1, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(keeper.IncludeAndSeal, "")

	m, err := e.keeper.ProcessL1Batch(context.Background(), updates.DefaultL1BatchEnv(1, 1, common.Address{}),
		updates.DefaultSystemEnv())
	require.NoError(t, err)

	assert.Equal(t, []string{"nonce too low"}, rejected)
	assert.Equal(t, 2, m.PendingExecutedTransactionsLen())
	assert.Equal(t, input[1].Hash(), m.L1Batch().ExecutedTransactions[0].Hash)
}

func TestProcessL1BatchBootloaderOutOfGas(t *testing.T) {
	outOfGas := &keeper.TxExecutionResult{Kind: keeper.TxBootloaderOutOfGas}

	t.Run("non-empty batch excludes the transaction and seals", func(t *testing.T) {
		e := newEnv(t)
		input := txs(2)

		e.feed(input...)
		e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		e.executor.EXPECT().ExecuteTx(gomock.Any(), input[0]).Return(success(), nil)
		e.executor.EXPECT().ExecuteTx(gomock.Any(), input[1]).Return(outOfGas, nil)
		e.executor.EXPECT().RollbackLastTx(gomock.Any()).Return(nil)
		e.txSource.EXPECT().Rollback(gomock.Any(), input[1]).Return(nil)
		e.executor.EXPECT().StartNextMiniblock(gomock.Any(), gomock.Any()).Return(nil)
		e.executor.EXPECT().FinishBatch(gomock.Any()).Return(finished(), nil)

		e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
		e.policy.EXPECT().ShouldSealMiniblock(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
		e.policy.EXPECT().ShouldSealL1Batch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any()).Return(keeper.NoSeal, "")

		m, err := e.keeper.ProcessL1Batch(context.Background(), updates.DefaultL1BatchEnv(1, 1, common.Address{}),
			updates.DefaultSystemEnv())
		require.NoError(t, err)
		assert.Equal(t, 2, m.PendingExecutedTransactionsLen())
		require.Len(t, e.sealer.cmds, 2)
	})

	t.Run("empty batch rejects the transaction", func(t *testing.T) {
		e := newEnv(t)
		input := txs(1)

		e.feed(input...)
		e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		e.executor.EXPECT().ExecuteTx(gomock.Any(), input[0]).Return(outOfGas, nil)
		e.executor.EXPECT().RollbackLastTx(gomock.Any()).Return(nil)
		e.txSource.EXPECT().Reject(gomock.Any(), input[0], gomock.Any()).Return(nil)
		e.executor.EXPECT().FinishBatch(gomock.Any()).Return(finished(), nil)

		sealAfterReject := false
		e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).DoAndReturn(
			func(*updates.Manager, time.Time) bool {
				seal := sealAfterReject
				sealAfterReject = true
				return seal
			}).Times(2)
		e.policy.EXPECT().ShouldSealMiniblock(gomock.Any(), gomock.Any()).Return(false)

		m, err := e.keeper.ProcessL1Batch(context.Background(), updates.DefaultL1BatchEnv(1, 1, common.Address{}),
			updates.DefaultSystemEnv())
		require.NoError(t, err)
		assert.Equal(t, 1, m.PendingExecutedTransactionsLen(), "only the fictive transaction")
		require.Len(t, e.sealer.cmds, 1)
	})
}

func TestProcessL1BatchErrors(t *testing.T) {
	execErr := errors.New("vm crashed")

	t.Run("start batch", func(t *testing.T) {
		e := newEnv(t)
		e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(execErr)
		_, err := e.keeper.ProcessL1Batch(context.Background(), updates.DefaultL1BatchEnv(1, 1, common.Address{}),
			updates.DefaultSystemEnv())
		require.ErrorIs(t, err, execErr)
	})

	t.Run("execute tx", func(t *testing.T) {
		e := newEnv(t)
		e.feed(txs(1)...)
		e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		e.executor.EXPECT().ExecuteTx(gomock.Any(), gomock.Any()).Return(nil, execErr)
		e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).Return(false)
		e.policy.EXPECT().ShouldSealMiniblock(gomock.Any(), gomock.Any()).Return(false)

		_, err := e.keeper.ProcessL1Batch(context.Background(), updates.DefaultL1BatchEnv(1, 1, common.Address{}),
			updates.DefaultSystemEnv())
		require.ErrorIs(t, err, execErr)
		assert.Empty(t, e.sealer.cmds)
	})

	t.Run("cancelled context", func(t *testing.T) {
		e := newEnv(t)
		e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.keeper.ProcessL1Batch(ctx, updates.DefaultL1BatchEnv(1, 1, common.Address{}), updates.DefaultSystemEnv())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestMiniblockTimestampNeverGoesBackwards(t *testing.T) {
	e := newEnv(t)
	e.keeper.WithClock(func() time.Time { return time.Unix(50, 0) })
	input := txs(1)

	e.feed(input...)
	e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	e.executor.EXPECT().ExecuteTx(gomock.Any(), gomock.Any()).Return(success(), nil)
	e.executor.EXPECT().StartNextMiniblock(gomock.Any(), gomock.Any()).Return(nil)
	e.executor.EXPECT().FinishBatch(gomock.Any()).Return(finished(), nil)
	e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	e.policy.EXPECT().ShouldSealMiniblock(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	e.policy.EXPECT().ShouldSealL1Batch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any()).Return(keeper.IncludeAndSeal, "")

	// the batch was opened in the future of the keeper's clock
	m, err := e.keeper.ProcessL1Batch(context.Background(), updates.DefaultL1BatchEnv(1, 100, common.Address{}),
		updates.DefaultSystemEnv())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), m.Miniblock().Timestamp)
}

func TestRun(t *testing.T) {
	t.Run("without batch env source", func(t *testing.T) {
		e := newEnv(t)
		require.ErrorIs(t, e.keeper.Run(context.Background()), keeper.ErrNoBatchEnvSource)
	})

	t.Run("processes batches back to back", func(t *testing.T) {
		e := newEnv(t)
		mockCtrl := gomock.NewController(t)
		envSource := mocks.NewMockBatchEnvSource(mockCtrl)
		start := updates.IoCursor{NextMiniblock: 1, L1Batch: 0}
		e.keeper.WithBatchEnvSource(envSource, start)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		batchEnv := updates.DefaultL1BatchEnv(1, 1, common.Address{})
		gomock.InOrder(
			envSource.EXPECT().NextL1Batch(gomock.Any(), start).Return(batchEnv, updates.DefaultSystemEnv(), nil),
			envSource.EXPECT().NextL1Batch(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, cursor updates.IoCursor) (*core.L1BatchEnv, *core.SystemEnv, error) {
					assert.Equal(t, core.L1BatchNumber(1), cursor.L1Batch)
					assert.Equal(t, batchEnv.FirstL2Block.Number+1, cursor.NextMiniblock)
					require.Len(t, e.sealer.cmds, 1)
					assert.Equal(t, e.sealer.cmds[0].MiniblockHash(), cursor.PrevMiniblockHash)
					cancel()
					return nil, nil, ctx.Err()
				}),
		)
		e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		e.executor.EXPECT().FinishBatch(gomock.Any()).Return(finished(), nil)
		e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).Return(true)

		require.NoError(t, e.keeper.Run(ctx))
	})
}

func TestProcessL1BatchPersists(t *testing.T) {
	e := newEnv(t)
	store := blockstore.New(pebble.NewMemTest(t), utils.NewNopZapLogger())
	s, handle := sealer.New(store, 2, utils.NewNopZapLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = s.Run(ctx)
	}()
	k := keeper.New(cfg, e.txSource, e.executor, e.policy, handle, utils.NewNopZapLogger())

	input := txs(3)
	e.feed(input...)
	e.executor.EXPECT().StartBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	e.executor.EXPECT().ExecuteTx(gomock.Any(), gomock.Any()).Return(success(), nil).Times(len(input))
	e.executor.EXPECT().StartNextMiniblock(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	e.executor.EXPECT().FinishBatch(gomock.Any()).Return(finished(), nil)
	e.policy.EXPECT().ShouldSealL1BatchUnconditionally(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	e.policy.EXPECT().ShouldSealMiniblock(gomock.Any(), gomock.Any()).DoAndReturn(
		func(m *updates.Manager, _ time.Time) bool { return m.Miniblock().Len() > 0 }).AnyTimes()
	e.policy.EXPECT().ShouldSealL1Batch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any()).DoAndReturn(
		func(_ core.L1BatchNumber, _ time.Time, txCount int, _, _ keeper.SealData, _ core.ProtocolVersionID) (
			keeper.SealResolution, string,
		) {
			if txCount == len(input) {
				return keeper.IncludeAndSeal, ""
			}
			return keeper.NoSeal, ""
		}).AnyTimes()

	batchEnv := updates.DefaultL1BatchEnv(1, 1, common.Address{})
	m, err := k.ProcessL1Batch(ctx, batchEnv, updates.DefaultSystemEnv())
	require.NoError(t, err)

	numbers, err := store.L1BatchMiniblocks(batchEnv.Number)
	require.NoError(t, err)
	// one miniblock per transaction plus the fictive one
	require.Len(t, numbers, len(input)+1)

	head, err := store.Head()
	require.NoError(t, err)
	assert.Equal(t, m.Miniblock().Number, head.Number)
	assert.Equal(t, m.Miniblock().Hash(), head.Hash)
	assert.Equal(t, uint32(len(input)), head.FirstTxIndexInL1Batch)

	for _, tx := range input {
		location, err := store.TransactionLocation(tx.Hash())
		require.NoError(t, err)
		assert.Equal(t, batchEnv.Number, location.L1Batch)
	}
}
