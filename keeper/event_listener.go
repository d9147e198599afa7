package keeper

import "github.com/NethermindEth/statekeeper/core"

type EventListener interface {
	OnTxIncluded(kind core.TxKind)
	OnTxRejected(reason string)
	OnMiniblockSealed(txCount int)
	OnL1BatchSealed(txCount, miniblockCount int)
}

type SelectiveListener struct {
	OnTxIncludedCb      func(kind core.TxKind)
	OnTxRejectedCb      func(reason string)
	OnMiniblockSealedCb func(txCount int)
	OnL1BatchSealedCb   func(txCount, miniblockCount int)
}

func (l *SelectiveListener) OnTxIncluded(kind core.TxKind) {
	if l.OnTxIncludedCb != nil {
		l.OnTxIncludedCb(kind)
	}
}

func (l *SelectiveListener) OnTxRejected(reason string) {
	if l.OnTxRejectedCb != nil {
		l.OnTxRejectedCb(reason)
	}
}

func (l *SelectiveListener) OnMiniblockSealed(txCount int) {
	if l.OnMiniblockSealedCb != nil {
		l.OnMiniblockSealedCb(txCount)
	}
}

func (l *SelectiveListener) OnL1BatchSealed(txCount, miniblockCount int) {
	if l.OnL1BatchSealedCb != nil {
		l.OnL1BatchSealedCb(txCount, miniblockCount)
	}
}
