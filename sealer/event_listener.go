package sealer

import (
	"time"

	"github.com/NethermindEth/statekeeper/updates"
)

type EventListener interface {
	OnQueued(depth int)
	OnSealed(cmd *updates.MiniblockSealCommand, took time.Duration)
}

type SelectiveListener struct {
	OnQueuedCb func(depth int)
	OnSealedCb func(cmd *updates.MiniblockSealCommand, took time.Duration)
}

func (l *SelectiveListener) OnQueued(depth int) {
	if l.OnQueuedCb != nil {
		l.OnQueuedCb(depth)
	}
}

func (l *SelectiveListener) OnSealed(cmd *updates.MiniblockSealCommand, took time.Duration) {
	if l.OnSealedCb != nil {
		l.OnSealedCb(cmd, took)
	}
}
