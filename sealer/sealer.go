// Package sealer persists miniblock seal commands on a background worker so that the
// sequencing loop does not wait for the database unless it has to.
package sealer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/statekeeper/service"
	"github.com/NethermindEth/statekeeper/updates"
	"github.com/NethermindEth/statekeeper/utils"
)

var (
	ErrClosed  = errors.New("sealer is closed")
	ErrStopped = errors.New("sealer stopped before sealing the command")
)

//go:generate mockgen -destination=../mocks/mock_seal_store.go -package=mocks github.com/NethermindEth/statekeeper/sealer Store
type Store interface {
	SealMiniblock(ctx context.Context, cmd *updates.MiniblockSealCommand) error
}

type command struct {
	cmd  *updates.MiniblockSealCommand
	done chan struct{}
	err  error
}

var _ service.Service = (*Sealer)(nil)

// Sealer is the worker half of the queue, Handle is the submitting half.
type Sealer struct {
	store    Store
	log      utils.SimpleLogger
	listener EventListener
	commands chan *command
	stopped  chan struct{}
	handle   *Handle
}

// New returns a sealer and the handle to submit commands to it. With capacity 0 every
// Submit waits until its command is persisted.
func New(store Store, capacity uint, log utils.SimpleLogger) (*Sealer, *Handle) {
	listener := &SelectiveListener{}
	s := &Sealer{
		store:    store,
		log:      log,
		listener: listener,
		commands: make(chan *command, capacity),
		stopped:  make(chan struct{}),
	}
	s.handle = &Handle{
		commands: s.commands,
		stopped:  s.stopped,
		isSync:   capacity == 0,
		log:      log,
		listener: listener,
	}
	return s, s.handle
}

// WithListener registers an EventListener on both the sealer and its handle. It must be
// called before the sealer runs.
func (s *Sealer) WithListener(listener EventListener) *Sealer {
	s.listener = listener
	s.handle.listener = listener
	return s
}

// Run seals commands in submission order until the handle is closed and the queue is
// drained, the context is cancelled or a command fails to be sealed.
func (s *Sealer) Run(ctx context.Context) error {
	defer close(s.stopped)

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-s.commands:
			if !ok {
				s.log.Debugw("Miniblock sealer handle closed, stopping")
				return nil
			}
			if err := s.seal(ctx, c); err != nil {
				return err
			}
		}
	}
}

func (s *Sealer) seal(ctx context.Context, c *command) error {
	defer close(c.done)

	start := time.Now()
	if c.err = s.store.SealMiniblock(ctx, c.cmd); c.err != nil {
		if ctx.Err() != nil {
			// shutting down, the command is dropped with the rest of the queue
			return nil
		}
		return c.err
	}

	took := time.Since(start)
	s.listener.OnSealed(c.cmd, took)
	s.log.Debugw("Miniblock sealed",
		"number", c.cmd.Miniblock.Number,
		"l1Batch", c.cmd.L1BatchNumber,
		"txs", c.cmd.Miniblock.Len(),
		"took", took,
	)
	return nil
}

// Handle submits seal commands. It is owned by a single goroutine.
type Handle struct {
	commands chan<- *command
	stopped  <-chan struct{}
	isSync   bool
	closed   bool
	pending  []*command
	log      utils.SimpleLogger
	listener EventListener
}

// Submit queues cmd, blocking while the queue is full. In synchronous mode it returns
// once the command is persisted.
func (h *Handle) Submit(ctx context.Context, cmd *updates.MiniblockSealCommand) error {
	if h.closed {
		return ErrClosed
	}
	select {
	case <-h.stopped:
		return ErrStopped
	default:
	}

	c := &command{cmd: cmd, done: make(chan struct{})}
	start := time.Now()
	select {
	case h.commands <- c:
	case <-h.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		h.log.Warnw("Miniblock sealer queue was full", "number", cmd.Miniblock.Number, "waited", elapsed)
	}

	if h.isSync {
		return h.wait(ctx, c)
	}

	h.pending = append(h.pending, c)
	h.prune()
	h.listener.OnQueued(len(h.pending))
	return nil
}

// WaitForAllCommands blocks until every submitted command is persisted and returns the
// first sealing error.
func (h *Handle) WaitForAllCommands(ctx context.Context) error {
	for len(h.pending) > 0 {
		if err := h.wait(ctx, h.pending[0]); err != nil {
			return err
		}
		h.pending = h.pending[1:]
	}
	return nil
}

// Close stops accepting commands, the sealer exits once the queue is drained.
func (h *Handle) Close() {
	if !h.closed {
		h.closed = true
		close(h.commands)
	}
}

func (h *Handle) wait(ctx context.Context, c *command) error {
	select {
	case <-c.done:
		if c.err != nil {
			return fmt.Errorf("seal miniblock %s: %w", c.cmd.Miniblock.Number, c.err)
		}
		return nil
	case <-h.stopped:
		// the sealer may have finished this command right before stopping
		select {
		case <-c.done:
			return c.err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// prune forgets the commands already persisted from the head of the pending list.
func (h *Handle) prune() {
	for len(h.pending) > 0 {
		select {
		case <-h.pending[0].done:
			if h.pending[0].err != nil {
				return
			}
			h.pending = h.pending[1:]
		default:
			return
		}
	}
}
