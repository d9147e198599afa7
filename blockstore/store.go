// Package blockstore persists sealed miniblocks and serves them back by number, hash and
// L1 batch.
package blockstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/db"
	"github.com/NethermindEth/statekeeper/encoder"
	"github.com/NethermindEth/statekeeper/feemodel"
	"github.com/NethermindEth/statekeeper/updates"
	"github.com/NethermindEth/statekeeper/utils"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNonSequentialMiniblock = errors.New("miniblock is not the next in the chain")
	ErrParentDoesNotMatchHead = errors.New("miniblock's parent hash does not match head miniblock hash")
	ErrL1BatchRegression      = errors.New("miniblock belongs to an L1 batch before the head's")
	ErrEmptyChain             = errors.New("no miniblock has been sealed")
)

type Store struct {
	database db.DB
	log      utils.SimpleLogger
}

func New(database db.DB, log utils.SimpleLogger) *Store {
	return &Store{database: database, log: log}
}

// SealMiniblock persists everything the command carries in a single database transaction.
// Miniblocks must be sealed in order and each must extend the head miniblock.
func (s *Store) SealMiniblock(ctx context.Context, cmd *updates.MiniblockSealCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	miniblock := &cmd.Miniblock
	header := newHeader(cmd)
	err := s.database.Update(func(txn db.Transaction) error {
		if err := verifyExtendsHead(txn, header); err != nil {
			return err
		}

		if err := storeTransactions(txn, cmd); err != nil {
			return err
		}
		if err := put(txn, miniblockKey(db.EventsByMiniblockNumber, miniblock.Number), miniblock.Events); err != nil {
			return err
		}
		if err := put(txn, miniblockKey(db.StorageLogsByMiniblockNumber, miniblock.Number), miniblock.StorageLogs); err != nil {
			return err
		}
		l2ToL1Logs := L2ToL1Logs{User: miniblock.UserL2ToL1Logs, System: miniblock.SystemL2ToL1Logs}
		if err := put(txn, miniblockKey(db.L2ToL1LogsByMiniblockNumber, miniblock.Number), l2ToL1Logs); err != nil {
			return err
		}
		for hash, bytecode := range miniblock.NewFactoryDeps {
			if err := txn.Set(db.FactoryDeps.Key(hash.Bytes()), bytecode); err != nil {
				return err
			}
		}

		if err := put(txn, miniblockKey(db.MiniblockHeadersByNumber, header.Number), header); err != nil {
			return err
		}
		if err := txn.Set(db.MiniblockNumbersByHash.Key(header.Hash.Bytes()), db.Uint32Key(uint32(header.Number))); err != nil {
			return err
		}
		if err := txn.Set(l1BatchMiniblockKey(header.L1BatchNumber, header.Number), nil); err != nil {
			return err
		}
		return setChainHeight(txn, header.Number)
	})
	if err != nil {
		return fmt.Errorf("seal miniblock %s: %w", miniblock.Number, err)
	}

	s.log.Debugw("Sealed miniblock",
		"number", header.Number,
		"l1Batch", header.L1BatchNumber,
		"hash", header.Hash.Hex(),
		"l1Txs", header.L1TxCount,
		"l2Txs", header.L2TxCount,
		"events", header.EventCount,
		"factoryDeps", len(miniblock.NewFactoryDeps),
	)
	return nil
}

func newHeader(cmd *updates.MiniblockSealCommand) *MiniblockHeader {
	miniblock := &cmd.Miniblock
	header := &MiniblockHeader{
		Number:                    miniblock.Number,
		L1BatchNumber:             cmd.L1BatchNumber,
		Hash:                      cmd.MiniblockHash(),
		PrevHash:                  miniblock.PrevBlockHash,
		Timestamp:                 miniblock.Timestamp,
		EventCount:                uint64(len(miniblock.Events)),
		FirstTxIndexInL1Batch:     uint32(cmd.FirstTxIndex),
		BaseFeePerGas:             cmd.BaseFeePerGas,
		FeeAccountAddress:         cmd.FeeAccountAddress,
		FeeInput:                  cmd.FeeInput,
		L1GasCount:                miniblock.L1GasCount,
		ExecutionMetrics:          miniblock.BlockExecutionMetrics,
		BaseSystemContractsHashes: cmd.BaseSystemContractsHashes,
		ProtocolVersion:           cmd.ProtocolVersion,
		VirtualBlocks:             miniblock.VirtualBlocks,
		L2Erc20BridgeAddr:         cmd.L2Erc20BridgeAddr,
		EventsBloom:               eventsBloom(miniblock.Events),
	}
	if cmd.ProtocolVersion != nil {
		_, header.GasPerPubdataLimit = feemodel.DeriveBaseFeeAndGasPerPubdata(cmd.FeeInput, *cmd.ProtocolVersion)
	}
	for i := range miniblock.ExecutedTransactions {
		tx := miniblock.ExecutedTransactions[i].Transaction
		switch {
		case tx == nil:
		case tx.IsL1():
			header.L1TxCount++
		default:
			header.L2TxCount++
		}
	}
	return header
}

func verifyExtendsHead(txn db.Transaction, header *MiniblockHeader) error {
	height, err := getChainHeight(txn)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	head, err := getMiniblockHeader(txn, height)
	if err != nil {
		return err
	}
	switch {
	case header.Number != head.Number+1:
		return fmt.Errorf("%w: head is %s", ErrNonSequentialMiniblock, head.Number)
	case header.PrevHash != head.Hash:
		return ErrParentDoesNotMatchHead
	case header.L1BatchNumber < head.L1BatchNumber:
		return fmt.Errorf("%w: head is in L1 batch %s", ErrL1BatchRegression, head.L1BatchNumber)
	}
	return nil
}

// storeTransactions writes receipts and locations of every non-fictive transaction.
// Transaction bodies are written only when the command asks for them to be pre-inserted,
// otherwise they are expected to be stored already by whoever accepted them.
func storeTransactions(txn db.Transaction, cmd *updates.MiniblockSealCommand) error {
	miniblock := &cmd.Miniblock
	for i := range miniblock.ExecutedTransactions {
		executed := &miniblock.ExecutedTransactions[i]
		if executed.IsFictive() {
			continue
		}

		location := TransactionLocation{
			Miniblock:      miniblock.Number,
			IndexInBlock:   uint32(i),
			L1Batch:        cmd.L1BatchNumber,
			IndexInL1Batch: uint32(cmd.TxIndexInL1Batch(i)),
		}
		if cmd.PreInsertTxs {
			if err := put(txn, miniblockIndexKey(db.TransactionsByMiniblockNumberAndIndex, miniblock.Number, i),
				executed.Transaction); err != nil {
				return err
			}
		}

		receipt := &Receipt{
			TransactionHash:         executed.Hash,
			Status:                  executed.Status(),
			RevertReason:            executed.RevertReason(),
			Location:                location,
			GasRefunded:             executed.Result.Refunds.GasRefunded,
			OperatorSuggestedRefund: executed.Result.Refunds.OperatorSuggestedRefund,
			L1GasCount:              executed.L1GasCount,
			ExecutionMetrics:        executed.ExecutionMetrics,
			Events:                  executed.Result.Logs.Events,
			CompressedBytecodes:     len(executed.CompressedBytecodes),
		}
		if err := put(txn, miniblockIndexKey(db.ReceiptsByMiniblockNumberAndIndex, miniblock.Number, i), receipt); err != nil {
			return err
		}
		if err := put(txn, db.TransactionLocationsByHash.Key(executed.Hash.Bytes()), location); err != nil {
			return err
		}
	}
	return nil
}

// Head returns the header of the last sealed miniblock or ErrEmptyChain.
func (s *Store) Head() (*MiniblockHeader, error) {
	var header *MiniblockHeader
	return header, s.database.View(func(txn db.Transaction) error {
		height, err := getChainHeight(txn)
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrEmptyChain
		} else if err != nil {
			return err
		}
		header, err = getMiniblockHeader(txn, height)
		return err
	})
}

// LastSealedMiniblock returns the number of the last sealed miniblock or ErrEmptyChain.
func (s *Store) LastSealedMiniblock() (core.MiniblockNumber, error) {
	var height core.MiniblockNumber
	return height, s.database.View(func(txn db.Transaction) error {
		var err error
		height, err = getChainHeight(txn)
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrEmptyChain
		}
		return err
	})
}

func (s *Store) MiniblockHeader(number core.MiniblockNumber) (*MiniblockHeader, error) {
	var header *MiniblockHeader
	return header, s.database.View(func(txn db.Transaction) error {
		var err error
		header, err = getMiniblockHeader(txn, number)
		return err
	})
}

func (s *Store) MiniblockHeaderByHash(hash common.Hash) (*MiniblockHeader, error) {
	var header *MiniblockHeader
	return header, s.database.View(func(txn db.Transaction) error {
		number, err := getMiniblockNumberByHash(txn, hash)
		if err != nil {
			return err
		}
		header, err = getMiniblockHeader(txn, number)
		return err
	})
}

// MiniblockTransactions returns the transaction bodies stored for the miniblock in
// execution order. Only pre-inserted transactions are stored here.
func (s *Store) MiniblockTransactions(number core.MiniblockNumber) ([]*core.Transaction, error) {
	var txs []*core.Transaction
	return txs, s.database.View(func(txn db.Transaction) error {
		prefix := miniblockKey(db.TransactionsByMiniblockNumberAndIndex, number)
		return iteratePrefix(txn, prefix, func(_, val []byte) error {
			tx := new(core.Transaction)
			if err := encoder.Unmarshal(val, tx); err != nil {
				return err
			}
			txs = append(txs, tx)
			return nil
		})
	})
}

func (s *Store) Receipts(number core.MiniblockNumber) ([]*Receipt, error) {
	var receipts []*Receipt
	return receipts, s.database.View(func(txn db.Transaction) error {
		prefix := miniblockKey(db.ReceiptsByMiniblockNumberAndIndex, number)
		return iteratePrefix(txn, prefix, func(_, val []byte) error {
			receipt := new(Receipt)
			if err := encoder.Unmarshal(val, receipt); err != nil {
				return err
			}
			receipts = append(receipts, receipt)
			return nil
		})
	})
}

func (s *Store) TransactionLocation(hash common.Hash) (*TransactionLocation, error) {
	location := new(TransactionLocation)
	return location, s.database.View(func(txn db.Transaction) error {
		return get(txn, db.TransactionLocationsByHash.Key(hash.Bytes()), location)
	})
}

func (s *Store) Events(number core.MiniblockNumber) ([]core.VMEvent, error) {
	var events []core.VMEvent
	return events, s.database.View(func(txn db.Transaction) error {
		return get(txn, miniblockKey(db.EventsByMiniblockNumber, number), &events)
	})
}

func (s *Store) StorageLogs(number core.MiniblockNumber) ([]core.StorageLogQuery, error) {
	var logs []core.StorageLogQuery
	return logs, s.database.View(func(txn db.Transaction) error {
		return get(txn, miniblockKey(db.StorageLogsByMiniblockNumber, number), &logs)
	})
}

func (s *Store) L2ToL1Logs(number core.MiniblockNumber) (*L2ToL1Logs, error) {
	logs := new(L2ToL1Logs)
	return logs, s.database.View(func(txn db.Transaction) error {
		return get(txn, miniblockKey(db.L2ToL1LogsByMiniblockNumber, number), logs)
	})
}

func (s *Store) FactoryDep(hash common.Hash) ([]byte, error) {
	var bytecode []byte
	return bytecode, s.database.View(func(txn db.Transaction) error {
		return txn.Get(db.FactoryDeps.Key(hash.Bytes()), func(val []byte) error {
			bytecode = append([]byte(nil), val...)
			return nil
		})
	})
}

// L1BatchMiniblocks returns the numbers of the miniblocks sealed so far in the batch, in order.
func (s *Store) L1BatchMiniblocks(batch core.L1BatchNumber) ([]core.MiniblockNumber, error) {
	var numbers []core.MiniblockNumber
	return numbers, s.database.View(func(txn db.Transaction) error {
		prefix := db.L1BatchMiniblocks.Key(db.Uint32Key(uint32(batch)))
		return iteratePrefix(txn, prefix, func(key, _ []byte) error {
			numbers = append(numbers, core.MiniblockNumber(binary.BigEndian.Uint32(key[len(prefix):])))
			return nil
		})
	})
}
