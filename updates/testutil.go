package updates

import (
	"github.com/NethermindEth/statekeeper/core"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Helpers shared by the tests of the packages built on top of the Manager.

func DefaultL1BatchEnv(number core.L1BatchNumber, timestamp uint64, feeAccount common.Address) *core.L1BatchEnv {
	return &core.L1BatchEnv{
		Number:     number,
		Timestamp:  timestamp,
		FeeInput:   core.NewL1PeggedFeeInput(1_000_000_000, 250_000_000),
		FeeAccount: feeAccount,
		FirstL2Block: core.L2BlockEnv{
			Number:                   core.MiniblockNumber(number),
			Timestamp:                timestamp,
			PrevBlockHash:            common.Hash{},
			MaxVirtualBlocksToCreate: 1,
		},
	}
}

func DefaultSystemEnv() *core.SystemEnv {
	return &core.SystemEnv{
		Version: core.LatestProtocolVersion,
		BaseSystemContracts: core.BaseSystemContractsHashes{
			Bootloader: common.HexToHash("0xb007"),
			DefaultAA:  common.HexToHash("0xaa"),
		},
		BootloaderGasLimit:                     4_000_000_000,
		DefaultValidationComputationalGasLimit: 300_000,
		ChainID:                                270,
	}
}

func CreateManager() *Manager {
	return New(DefaultL1BatchEnv(1, 1, common.HexToAddress("0xfee")), DefaultSystemEnv())
}

// CreateTransaction builds an L2 transaction unique for the given nonce.
func CreateTransaction(nonce, feePerGas uint64) *core.Transaction {
	return &core.Transaction{
		Kind:               core.L2Tx,
		Initiator:          common.HexToAddress("0xde03a0b5963f75f1c8485b355ff6d30f3093bde7"),
		Contract:           common.HexToAddress("0x0000000000000000000000000000000000008006"),
		Nonce:              nonce,
		Value:              uint256.NewInt(0),
		GasLimit:           10_000_000,
		MaxFeePerGas:       feePerGas,
		GasPerPubdataLimit: 800,
	}
}

func CreateExecutionResult(storageLogs []core.StorageLogQuery) core.VMExecutionResultAndLogs {
	return core.VMExecutionResultAndLogs{
		Result: core.ExecutionResult{Status: core.ExecutionSuccess},
		Logs: core.VMExecutionLogs{
			StorageLogs:          storageLogs,
			TotalLogQueriesCount: len(storageLogs),
		},
		Statistics: core.VMExecutionStatistics{TotalLogQueries: len(storageLogs)},
	}
}
