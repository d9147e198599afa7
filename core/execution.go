package core

import (
	"github.com/ethereum/go-ethereum/common"
)

type ExecutionStatus uint8

const (
	ExecutionSuccess ExecutionStatus = iota
	ExecutionRevert
	ExecutionHalt
)

func (s ExecutionStatus) String() string {
	switch s {
	case ExecutionSuccess:
		return "success"
	case ExecutionRevert:
		return "revert"
	case ExecutionHalt:
		return "halt"
	default:
		return "unknown"
	}
}

type ExecutionResult struct {
	Status ExecutionStatus
	// Output is the return data of a successful execution.
	Output []byte
	// Reason is set for reverted and halted executions.
	Reason string
}

func (r *ExecutionResult) IsFailed() bool {
	return r.Status != ExecutionSuccess
}

type VMEvent struct {
	Address       common.Address
	IndexedTopics []common.Hash
	Value         []byte
}

type L2ToL1Log struct {
	ShardID         uint8
	IsService       bool
	TxNumberInBlock uint16
	Sender          common.Address
	Key             common.Hash
	Value           common.Hash
}

type VMExecutionLogs struct {
	StorageLogs          []StorageLogQuery
	Events               []VMEvent
	UserL2ToL1Logs       []L2ToL1Log
	SystemL2ToL1Logs     []L2ToL1Log
	TotalLogQueriesCount int
}

type VMExecutionStatistics struct {
	ContractsUsed        int
	CyclesUsed           uint32
	GasUsed              uint64
	ComputationalGasUsed uint32
	TotalLogQueries      int
	PubdataPublished     uint32
}

type Refunds struct {
	GasRefunded             uint64
	OperatorSuggestedRefund uint64
}

// VMExecutionResultAndLogs is everything the execution engine reports about one transaction.
type VMExecutionResultAndLogs struct {
	Result     ExecutionResult
	Logs       VMExecutionLogs
	Statistics VMExecutionStatistics
	Refunds    Refunds
}
