package pebble_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NethermindEth/statekeeper/db"
	"github.com/NethermindEth/statekeeper/db/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = func(val []byte) error {
	return nil
}

func TestTransaction(t *testing.T) {
	t.Run("new transaction can retrieve exising value", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn := testDB.NewTransaction(true)
		require.NoError(t, txn.Set([]byte("key"), []byte("value")))
		require.NoError(t, txn.Commit())

		readOnlyTxn := testDB.NewTransaction(false)
		assert.NoError(t, readOnlyTxn.Get([]byte("key"), func(val []byte) error {
			assert.Equal(t, "value", string(val))
			return nil
		}))
		require.NoError(t, readOnlyTxn.Discard())
	})

	t.Run("discarded transaction is not committed to DB", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn := testDB.NewTransaction(true)
		require.NoError(t, txn.Set([]byte("key"), []byte("value")))
		require.NoError(t, txn.Discard())

		readOnlyTxn := testDB.NewTransaction(false)
		assert.ErrorIs(t, readOnlyTxn.Get([]byte("key"), noop), db.ErrKeyNotFound)
		require.NoError(t, readOnlyTxn.Discard())
	})

	t.Run("value committed by a transactions are not accessible to other transactions created"+
		" before Commit()", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn1 := testDB.NewTransaction(true)
		txn2 := testDB.NewTransaction(false)

		require.NoError(t, txn1.Set([]byte("key1"), []byte("value1")))
		assert.ErrorIs(t, txn2.Get([]byte("key1"), noop), db.ErrKeyNotFound)

		require.NoError(t, txn1.Commit())
		assert.ErrorIs(t, txn2.Get([]byte("key1"), noop), db.ErrKeyNotFound)
		require.NoError(t, txn2.Discard())

		txn3 := testDB.NewTransaction(false)
		assert.NoError(t, txn3.Get([]byte("key1"), func(bytes []byte) error {
			assert.Equal(t, []byte("value1"), bytes)
			return nil
		}))
		require.NoError(t, txn3.Discard())
	})

	t.Run("discarded transaction cannot commit", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn := testDB.NewTransaction(true)
		require.NoError(t, txn.Set([]byte("key"), []byte("value")))
		require.NoError(t, txn.Discard())

		assert.ErrorIs(t, txn.Commit(), pebble.ErrDiscardedTransaction)
	})

	t.Run("read only transaction cannot write", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn := testDB.NewTransaction(false)
		assert.Error(t, txn.Set([]byte("key"), []byte("value")))
		assert.Error(t, txn.Delete([]byte("key")))
		require.NoError(t, txn.Discard())
	})
}

func TestViewUpdate(t *testing.T) {
	t.Run("value after Update is committed to DB", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		require.ErrorIs(t, testDB.View(func(txn db.Transaction) error {
			return txn.Get([]byte("key"), noop)
		}), db.ErrKeyNotFound)

		require.NoError(t, testDB.Update(func(txn db.Transaction) error {
			return txn.Set([]byte("key"), []byte("value"))
		}))

		assert.NoError(t, testDB.View(func(txn db.Transaction) error {
			return txn.Get([]byte("key"), func(val []byte) error {
				assert.Equal(t, "value", string(val))
				return nil
			})
		}))
	})

	t.Run("Update error does not commit value to DB", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)
		updateErr := errors.New("error")

		require.ErrorIs(t, testDB.Update(func(txn db.Transaction) error {
			require.NoError(t, txn.Set([]byte("key"), []byte("value")))
			return updateErr
		}), updateErr)

		assert.ErrorIs(t, testDB.View(func(txn db.Transaction) error {
			return txn.Get([]byte("key"), noop)
		}), db.ErrKeyNotFound)
	})

	t.Run("setting a key with a nil value should be allowed", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		assert.NoError(t, testDB.Update(func(txn db.Transaction) error {
			require.NoError(t, txn.Set([]byte("key"), nil))

			return txn.Get([]byte("key"), func(val []byte) error {
				assert.Empty(t, val)
				return nil
			})
		}))
	})

	t.Run("setting a key with a zero-length key should not be allowed", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		assert.Error(t, testDB.Update(func(txn db.Transaction) error {
			return txn.Set([]byte{}, []byte("value"))
		}))
	})
}

func TestConcurrentUpdate(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	wg := sync.WaitGroup{}

	key := []byte{0}
	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		return txn.Set(key, []byte{0})
	}))
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				assert.NoError(t, testDB.Update(func(txn db.Transaction) error {
					var next byte
					err := txn.Get(key, func(bytes []byte) error {
						next = bytes[0] + 1
						return nil
					})
					if err != nil {
						return err
					}
					return txn.Set(key, []byte{next})
				}))
			}
		}()
	}

	wg.Wait()
	require.NoError(t, testDB.View(func(txn db.Transaction) error {
		return txn.Get(key, func(bytes []byte) error {
			assert.Equal(t, byte(100), bytes[0])
			return nil
		})
	}))
}

func TestSeek(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	txn := testDB.NewTransaction(true)
	t.Cleanup(func() {
		require.NoError(t, txn.Discard())
	})

	require.NoError(t, txn.Set([]byte{1}, []byte{1}))
	require.NoError(t, txn.Set([]byte{3}, []byte{3}))

	t.Run("seeks to the next key in lexicographical order", func(t *testing.T) {
		iter, err := txn.NewIterator()
		require.NoError(t, err)
		defer func() {
			require.NoError(t, iter.Close())
		}()

		require.True(t, iter.Seek([]byte{2}))
		assert.Equal(t, []byte{3}, iter.Key())
		val, err := iter.Value()
		require.NoError(t, err)
		assert.Equal(t, []byte{3}, val)
	})

	t.Run("key returns nil when seeking nonexistent data", func(t *testing.T) {
		iter, err := txn.NewIterator()
		require.NoError(t, err)
		defer func() {
			require.NoError(t, iter.Close())
		}()

		assert.False(t, iter.Seek([]byte{4}))
		assert.Nil(t, iter.Key())
	})

	t.Run("next starts at the first key", func(t *testing.T) {
		iter, err := txn.NewIterator()
		require.NoError(t, err)
		defer func() {
			require.NoError(t, iter.Close())
		}()

		var keys [][]byte
		for iter.Next() {
			keys = append(keys, iter.Key())
		}
		assert.Equal(t, [][]byte{{1}, {3}}, keys)
	})
}

func TestListener(t *testing.T) {
	var reads, writes, commits int
	testDB := pebble.NewMemTest(t).WithListener(&db.SelectiveListener{
		OnIOCb: func(write bool, _ time.Duration) {
			if write {
				writes++
			} else {
				reads++
			}
		},
		OnCommitCb: func(time.Duration) { commits++ },
	})

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		if err := txn.Set([]byte("key"), []byte("value")); err != nil {
			return err
		}
		return txn.Get([]byte("key"), noop)
	}))

	assert.Equal(t, 1, reads)
	assert.Equal(t, 1, writes)
	assert.Equal(t, 1, commits)
}

func TestCalculatePrefixSize(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		if err := txn.Set(db.FactoryDeps.Key([]byte{1}), []byte{1, 2, 3}); err != nil {
			return err
		}
		if err := txn.Set(db.FactoryDeps.Key([]byte{2}), []byte{4}); err != nil {
			return err
		}
		return txn.Set(db.ChainHeight.Key(), []byte{0, 0, 0, 1})
	}))

	t.Run("counts only keys under the prefix", func(t *testing.T) {
		item, err := pebble.CalculatePrefixSize(context.Background(), testDB.(*pebble.DB), db.FactoryDeps.Key())
		require.NoError(t, err)
		assert.Equal(t, uint(2), item.Count)
		// two 2-byte keys plus 4 bytes of values
		assert.Equal(t, 8.0, float64(item.Size))
	})

	t.Run("empty prefix bucket", func(t *testing.T) {
		item, err := pebble.CalculatePrefixSize(context.Background(), testDB.(*pebble.DB), db.EventsByMiniblockNumber.Key())
		require.NoError(t, err)
		assert.Zero(t, item.Count)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := pebble.CalculatePrefixSize(ctx, testDB.(*pebble.DB), db.FactoryDeps.Key())
		require.ErrorIs(t, err, context.Canceled)
	})
}
