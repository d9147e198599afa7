// Package updates accumulates the effects of executed transactions for the open miniblock
// and the open L1 batch. Nothing here performs I/O; a Manager is owned by a single
// sequencing goroutine and is not safe for concurrent use.
package updates

import (
	"fmt"

	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/feemodel"
	"github.com/NethermindEth/statekeeper/storagededup"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jinzhu/copier"
)

// StorageDeduplicator receives the storage logs of every transaction of the batch, in
// execution order, exactly once per transaction.
//
//go:generate mockgen -destination=../mocks/mock_deduplicator.go -package=mocks github.com/NethermindEth/statekeeper/updates StorageDeduplicator
type StorageDeduplicator interface {
	Apply(logs []core.StorageLogQuery)
}

// MiniblockParams are the parameters of the miniblock opened by PushMiniblock.
type MiniblockParams struct {
	Timestamp     uint64
	VirtualBlocks uint32
}

// IoCursor points at the miniblock that comes after the open one.
type IoCursor struct {
	NextMiniblock          core.MiniblockNumber
	PrevMiniblockHash      common.Hash
	PrevMiniblockTimestamp uint64
	L1Batch                core.L1BatchNumber
}

// Manager keeps the open miniblock and the miniblocks already sealed into the open L1 batch
// consistent with each other. One Manager lives for exactly one L1 batch.
type Manager struct {
	batchTimestamp           uint64
	feeAccountAddress        common.Address
	batchFeeInput            core.BatchFeeInput
	baseFeePerGas            uint64
	baseSystemContractHashes core.BaseSystemContractsHashes
	protocolVersion          core.ProtocolVersionID

	l1Batch      *L1BatchUpdates
	miniblock    *MiniblockUpdates
	deduplicator StorageDeduplicator
	finished     bool
}

func New(l1BatchEnv *core.L1BatchEnv, systemEnv *core.SystemEnv) *Manager {
	return NewWithDeduplicator(l1BatchEnv, systemEnv, storagededup.New())
}

// NewWithDeduplicator is New with a caller supplied deduplicator. The deduplicator must be
// empty.
func NewWithDeduplicator(
	l1BatchEnv *core.L1BatchEnv,
	systemEnv *core.SystemEnv,
	deduplicator StorageDeduplicator,
) *Manager {
	protocolVersion := systemEnv.Version
	firstMiniblock := l1BatchEnv.FirstL2Block
	return &Manager{
		batchTimestamp:           l1BatchEnv.Timestamp,
		feeAccountAddress:        l1BatchEnv.FeeAccount,
		batchFeeInput:            l1BatchEnv.FeeInput,
		baseFeePerGas:            feemodel.BatchBaseFee(l1BatchEnv, protocolVersion),
		baseSystemContractHashes: systemEnv.BaseSystemContracts,
		protocolVersion:          protocolVersion,
		l1Batch:                  NewL1BatchUpdates(l1BatchEnv.Number),
		miniblock: NewMiniblockUpdates(
			firstMiniblock.Timestamp,
			firstMiniblock.Number,
			firstMiniblock.PrevBlockHash,
			firstMiniblock.MaxVirtualBlocksToCreate,
			protocolVersion,
		),
		deduplicator: deduplicator,
	}
}

func (m *Manager) BatchTimestamp() uint64 {
	return m.batchTimestamp
}

func (m *Manager) BaseSystemContractHashes() core.BaseSystemContractsHashes {
	return m.baseSystemContractHashes
}

func (m *Manager) ProtocolVersion() core.ProtocolVersionID {
	return m.protocolVersion
}

func (m *Manager) BaseFeePerGas() uint64 {
	return m.baseFeePerGas
}

func (m *Manager) FeeAccountAddress() common.Address {
	return m.feeAccountAddress
}

func (m *Manager) FeeInput() core.BatchFeeInput {
	return m.batchFeeInput
}

func (m *Manager) L1BatchNumber() core.L1BatchNumber {
	return m.l1Batch.Number
}

// L1Batch returns the accumulator of the miniblocks sealed so far. It must not be modified.
func (m *Manager) L1Batch() *L1BatchUpdates {
	return m.l1Batch
}

// Miniblock returns the open miniblock. It must not be modified.
func (m *Manager) Miniblock() *MiniblockUpdates {
	return m.miniblock
}

// Finished reports whether FinishBatch was called.
func (m *Manager) Finished() bool {
	return m.finished
}

func (m *Manager) IoCursor() IoCursor {
	return IoCursor{
		NextMiniblock:          m.miniblock.Number + 1,
		PrevMiniblockHash:      m.miniblock.Hash(),
		PrevMiniblockTimestamp: m.miniblock.Timestamp,
		L1Batch:                m.l1Batch.Number,
	}
}

// SealMiniblockCommand snapshots the open miniblock. The returned command shares no memory
// with the manager, which is left unchanged.
func (m *Manager) SealMiniblockCommand(l2Erc20BridgeAddr common.Address, preInsertTxs bool) *MiniblockSealCommand {
	var miniblock MiniblockUpdates
	if err := copier.CopyWithOption(&miniblock, m.miniblock, copier.Option{DeepCopy: true}); err != nil {
		// both sides have the same type, copier cannot fail on them
		panic(fmt.Sprintf("copy miniblock %s: %v", m.miniblock.Number, err))
	}

	protocolVersion := m.protocolVersion
	return &MiniblockSealCommand{
		L1BatchNumber:             m.l1Batch.Number,
		Miniblock:                 miniblock,
		FirstTxIndex:              m.l1Batch.Len(),
		FeeAccountAddress:         m.feeAccountAddress,
		FeeInput:                  m.batchFeeInput,
		BaseFeePerGas:             m.baseFeePerGas,
		BaseSystemContractsHashes: m.baseSystemContractHashes,
		ProtocolVersion:           &protocolVersion,
		L2Erc20BridgeAddr:         l2Erc20BridgeAddr,
		PreInsertTxs:              preInsertTxs,
	}
}

func (m *Manager) ExtendFromExecutedTransaction(
	tx *core.Transaction,
	result core.VMExecutionResultAndLogs,
	compressedBytecodes []core.CompressedBytecodeInfo,
	l1GasCount core.BlockGasCount,
	metrics core.ExecutionMetrics,
	callTraces []core.Call,
) {
	m.mustBeOpen("extend from executed transaction")
	m.deduplicator.Apply(result.Logs.StorageLogs)
	m.miniblock.ExtendFromExecutedTransaction(tx, result, l1GasCount, metrics, compressedBytecodes, callTraces)
}

func (m *Manager) ExtendFromFictiveTransaction(
	result core.VMExecutionResultAndLogs,
	l1GasCount core.BlockGasCount,
	metrics core.ExecutionMetrics,
) {
	m.mustBeOpen("extend from fictive transaction")
	m.deduplicator.Apply(result.Logs.StorageLogs)
	m.miniblock.ExtendFromFictiveTransaction(result, l1GasCount, metrics)
}

// FinishBatch applies the fictive transaction that closes the batch. Afterwards only the
// seal command of the last miniblock may be taken.
func (m *Manager) FinishBatch(
	result core.VMExecutionResultAndLogs,
	l1GasCount core.BlockGasCount,
	metrics core.ExecutionMetrics,
) {
	m.ExtendFromFictiveTransaction(result, l1GasCount, metrics)
	m.finished = true
}

// PushMiniblock opens a new miniblock chained to the open one, which is considered sealed
// and is folded into the L1 batch.
func (m *Manager) PushMiniblock(params MiniblockParams) {
	m.mustBeOpen("push miniblock")
	if params.Timestamp < m.miniblock.Timestamp {
		panic(fmt.Sprintf("miniblock %s timestamp %d is before the timestamp %d of miniblock %s",
			m.miniblock.Number+1, params.Timestamp, m.miniblock.Timestamp, m.miniblock.Number))
	}

	next := NewMiniblockUpdates(
		params.Timestamp,
		m.miniblock.Number+1,
		m.miniblock.Hash(),
		params.VirtualBlocks,
		m.protocolVersion,
	)
	sealed := m.miniblock
	m.miniblock = next
	m.l1Batch.ExtendFromSealedMiniblock(sealed)
}

func (m *Manager) mustBeOpen(op string) {
	if m.finished {
		panic(fmt.Sprintf("%s: L1 batch %s is already finished", op, m.l1Batch.Number))
	}
}

func (m *Manager) PendingExecutedTransactionsLen() int {
	return m.l1Batch.Len() + m.miniblock.Len()
}

func (m *Manager) PendingL1GasCount() core.BlockGasCount {
	return m.l1Batch.L1GasCount.Add(m.miniblock.L1GasCount)
}

func (m *Manager) PendingExecutionMetrics() core.ExecutionMetrics {
	return m.l1Batch.BlockExecutionMetrics.Add(m.miniblock.BlockExecutionMetrics)
}

func (m *Manager) PendingTxsEncodingSize() int {
	return m.l1Batch.TxsEncodingSize + m.miniblock.TxsEncodingSize
}
