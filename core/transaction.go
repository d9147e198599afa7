package core

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

type TxKind uint8

const (
	L2Tx TxKind = iota
	L1Tx
	ProtocolUpgradeTx
)

func (k TxKind) String() string {
	switch k {
	case L2Tx:
		return "l2"
	case L1Tx:
		return "l1"
	case ProtocolUpgradeTx:
		return "upgrade"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Transaction is a transaction as it was submitted for execution. The state keeper never
// interprets its contents, it only needs its hash, encoding size and factory deps.
type Transaction struct {
	Kind               TxKind
	Initiator          common.Address
	Contract           common.Address
	Nonce              uint64
	Calldata           []byte
	Value              *uint256.Int
	GasLimit           uint64
	MaxFeePerGas       uint64
	GasPerPubdataLimit uint64
	FactoryDeps        [][]byte
	// SerialID is the priority operation id, only set for L1 transactions.
	SerialID uint64
	// ReceivedTimestampMs does not take part in the canonical encoding.
	ReceivedTimestampMs uint64 `rlp:"-"`
}

// Hash returns keccak256 of the canonical encoding.
func (t *Transaction) Hash() common.Hash {
	return crypto.Keccak256Hash(t.encode())
}

// EncodingSize is the number of bytes the transaction occupies in the canonical encoding.
func (t *Transaction) EncodingSize() int {
	return len(t.encode())
}

func (t *Transaction) encode() []byte {
	enc, err := rlp.EncodeToBytes(t)
	if err != nil {
		// every field of Transaction is rlp encodable
		panic(fmt.Sprintf("encode transaction: %v", err))
	}
	return enc
}

func (t *Transaction) IsL1() bool {
	return t.Kind == L1Tx
}
