package core

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type CallType uint8

const (
	CallTypeCall CallType = iota
	CallTypeDelegateCall
	CallTypeStaticCall
	CallTypeCreate
	CallTypeNearCall
)

// Call is a node of the call tree recorded while executing a transaction.
type Call struct {
	Type         CallType
	From         common.Address
	To           common.Address
	ParentGas    uint64
	Gas          uint64
	GasUsed      uint64
	Value        *uint256.Int
	Input        []byte
	Output       []byte
	Error        string
	RevertReason string
	Calls        []Call
}
