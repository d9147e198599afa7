package updates

import (
	"github.com/NethermindEth/statekeeper/core"
	"github.com/ethereum/go-ethereum/common"
)

// ExecutedTransaction is everything recorded about one transaction of a miniblock. Fictive
// transactions have no Transaction and a zero Hash.
type ExecutedTransaction struct {
	Transaction         *core.Transaction
	Hash                common.Hash
	Result              core.VMExecutionResultAndLogs
	CompressedBytecodes []core.CompressedBytecodeInfo
	CallTraces          []core.Call
	L1GasCount          core.BlockGasCount
	ExecutionMetrics    core.ExecutionMetrics
}

func (t *ExecutedTransaction) IsFictive() bool {
	return t.Transaction == nil
}

func (t *ExecutedTransaction) Status() core.ExecutionStatus {
	return t.Result.Result.Status
}

func (t *ExecutedTransaction) RevertReason() string {
	return t.Result.Result.Reason
}

// MiniblockUpdates accumulates the state of the open miniblock. All fields are exported so
// that a seal command can carry a full deep copy.
type MiniblockUpdates struct {
	Number          core.MiniblockNumber
	Timestamp       uint64
	PrevBlockHash   common.Hash
	VirtualBlocks   uint32
	ProtocolVersion core.ProtocolVersionID

	ExecutedTransactions []ExecutedTransaction
	Events               []core.VMEvent
	StorageLogs          []core.StorageLogQuery
	UserL2ToL1Logs       []core.L2ToL1Log
	SystemL2ToL1Logs     []core.L2ToL1Log
	// NewFactoryDeps are the factory deps whose bytecodes were marked as known, by bytecode hash.
	NewFactoryDeps map[common.Hash][]byte

	L1GasCount            core.BlockGasCount
	BlockExecutionMetrics core.ExecutionMetrics
	TxsEncodingSize       int
}

func NewMiniblockUpdates(
	timestamp uint64,
	number core.MiniblockNumber,
	prevBlockHash common.Hash,
	virtualBlocks uint32,
	protocolVersion core.ProtocolVersionID,
) *MiniblockUpdates {
	return &MiniblockUpdates{
		Number:          number,
		Timestamp:       timestamp,
		PrevBlockHash:   prevBlockHash,
		VirtualBlocks:   virtualBlocks,
		ProtocolVersion: protocolVersion,
		NewFactoryDeps:  make(map[common.Hash][]byte),
	}
}

func (m *MiniblockUpdates) ExtendFromExecutedTransaction(
	tx *core.Transaction,
	result core.VMExecutionResultAndLogs,
	l1GasCount core.BlockGasCount,
	metrics core.ExecutionMetrics,
	compressedBytecodes []core.CompressedBytecodeInfo,
	callTraces []core.Call,
) {
	m.collectFactoryDeps(tx, result.Logs.Events)
	m.extendLogs(&result.Logs)
	m.L1GasCount = m.L1GasCount.Add(l1GasCount)
	m.BlockExecutionMetrics = m.BlockExecutionMetrics.Add(metrics)
	m.TxsEncodingSize += tx.EncodingSize()

	m.ExecutedTransactions = append(m.ExecutedTransactions, ExecutedTransaction{
		Transaction:         tx,
		Hash:                tx.Hash(),
		Result:              result,
		CompressedBytecodes: compressedBytecodes,
		CallTraces:          callTraces,
		L1GasCount:          l1GasCount,
		ExecutionMetrics:    metrics,
	})
}

func (m *MiniblockUpdates) ExtendFromFictiveTransaction(
	result core.VMExecutionResultAndLogs,
	l1GasCount core.BlockGasCount,
	metrics core.ExecutionMetrics,
) {
	m.extendLogs(&result.Logs)
	m.L1GasCount = m.L1GasCount.Add(l1GasCount)
	m.BlockExecutionMetrics = m.BlockExecutionMetrics.Add(metrics)

	m.ExecutedTransactions = append(m.ExecutedTransactions, ExecutedTransaction{
		Result:           result,
		L1GasCount:       l1GasCount,
		ExecutionMetrics: metrics,
	})
}

func (m *MiniblockUpdates) extendLogs(logs *core.VMExecutionLogs) {
	m.Events = append(m.Events, logs.Events...)
	m.StorageLogs = append(m.StorageLogs, logs.StorageLogs...)
	m.UserL2ToL1Logs = append(m.UserL2ToL1Logs, logs.UserL2ToL1Logs...)
	m.SystemL2ToL1Logs = append(m.SystemL2ToL1Logs, logs.SystemL2ToL1Logs...)
}

func (m *MiniblockUpdates) collectFactoryDeps(tx *core.Transaction, events []core.VMEvent) {
	known := core.ExtractBytecodesMarkedAsKnown(events)
	if len(known) == 0 || len(tx.FactoryDeps) == 0 {
		return
	}
	byHash := make(map[common.Hash][]byte, len(tx.FactoryDeps))
	for _, dep := range tx.FactoryDeps {
		// malformed bytecodes cannot have been marked as known
		if hash, err := core.HashBytecode(dep); err == nil {
			byHash[hash] = dep
		}
	}
	for _, hash := range known {
		if dep, ok := byHash[hash]; ok {
			m.NewFactoryDeps[hash] = dep
		}
	}
}

func (m *MiniblockUpdates) Len() int {
	return len(m.ExecutedTransactions)
}

// Hash is a pure function of the number, timestamp, previous hash and the ordered
// transaction hashes of the miniblock.
func (m *MiniblockUpdates) Hash() common.Hash {
	hasher := core.NewMiniblockHasher(m.Number, m.Timestamp, m.PrevBlockHash)
	for i := range m.ExecutedTransactions {
		hasher.PushTxHash(m.ExecutedTransactions[i].Hash)
	}
	return hasher.Finalize()
}
