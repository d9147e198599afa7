package db_test

import (
	"testing"
	"time"

	"github.com/NethermindEth/statekeeper/db"
	"github.com/stretchr/testify/require"
)

type op string

const (
	delay       = 10 * time.Millisecond
	opRead   op = "OnIO Read"
	opWrite  op = "OnIO Write"
	opCommit op = "OnCommit"
)

func TestEventListener(t *testing.T) {
	testCases := []struct {
		op op
		fn func(db.EventListener)
	}{
		{
			op: opRead,
			fn: func(listener db.EventListener) { listener.OnIO(false, delay) },
		},
		{
			op: opWrite,
			fn: func(listener db.EventListener) { listener.OnIO(true, delay) },
		},
		{
			op: opCommit,
			fn: func(listener db.EventListener) { listener.OnCommit(delay) },
		},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.op), func(t *testing.T) {
			var actualOp op
			var actualDuration time.Duration

			listener := db.SelectiveListener{
				OnIOCb: func(write bool, duration time.Duration) {
					if write {
						actualOp = opWrite
					} else {
						actualOp = opRead
					}
					actualDuration = duration
				},
				OnCommitCb: func(duration time.Duration) {
					actualOp = opCommit
					actualDuration = duration
				},
			}

			testCase.fn(&listener)
			require.Equal(t, testCase.op, actualOp)
			require.Equal(t, delay, actualDuration)
		})
	}

	t.Run("nil callbacks are ignored", func(t *testing.T) {
		listener := db.SelectiveListener{}
		require.NotPanics(t, func() {
			listener.OnIO(true, delay)
			listener.OnCommit(delay)
		})
	})
}
