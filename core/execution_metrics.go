package core

// ExecutionMetrics are the resources consumed by execution which count against batch limits.
type ExecutionMetrics struct {
	GasUsed                uint64
	PublishedBytecodeBytes int
	L2L1LongMessages       int
	L2ToL1Logs             int
	ContractsUsed          int
	ContractsDeployed      uint16
	VMEvents               int
	StorageLogs            int
	TotalLogQueries        int
	CyclesUsed             uint32
	ComputationalGasUsed   uint32
	PubdataPublished       uint32
}

func (m ExecutionMetrics) Add(other ExecutionMetrics) ExecutionMetrics {
	return ExecutionMetrics{
		GasUsed:                m.GasUsed + other.GasUsed,
		PublishedBytecodeBytes: m.PublishedBytecodeBytes + other.PublishedBytecodeBytes,
		L2L1LongMessages:       m.L2L1LongMessages + other.L2L1LongMessages,
		L2ToL1Logs:             m.L2ToL1Logs + other.L2ToL1Logs,
		ContractsUsed:          m.ContractsUsed + other.ContractsUsed,
		ContractsDeployed:      m.ContractsDeployed + other.ContractsDeployed,
		VMEvents:               m.VMEvents + other.VMEvents,
		StorageLogs:            m.StorageLogs + other.StorageLogs,
		TotalLogQueries:        m.TotalLogQueries + other.TotalLogQueries,
		CyclesUsed:             m.CyclesUsed + other.CyclesUsed,
		ComputationalGasUsed:   m.ComputationalGasUsed + other.ComputationalGasUsed,
		PubdataPublished:       m.PubdataPublished + other.PubdataPublished,
	}
}
