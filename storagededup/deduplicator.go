// Package storagededup reduces the storage writes of an L1 batch to their net effect.
package storagededup

import (
	"maps"

	"github.com/NethermindEth/statekeeper/core"
	"github.com/ethereum/go-ethereum/common"
)

// Metrics counts the slots whose value differs from the batch start, split by whether the
// slot is written for the first time ever.
type Metrics struct {
	InitialStorageWrites  int
	RepeatedStorageWrites int
}

// Deduplicator tracks the net write set of one L1 batch. Logs must be applied in
// execution order and the deduplicator must not be reused across batches.
type Deduplicator struct {
	initialValues map[core.StorageKey]common.Hash
	modifiedKeys  map[core.StorageKey]common.Hash
	metrics       Metrics
}

func New() *Deduplicator {
	return &Deduplicator{
		initialValues: make(map[core.StorageKey]common.Hash),
		modifiedKeys:  make(map[core.StorageKey]common.Hash),
	}
}

// undoEntry restores the state of one key to what it was before a log was applied.
type undoEntry struct {
	key             core.StorageKey
	hadInitialValue bool
	initialValue    common.Hash
	wasModified     bool
	modifiedValue   common.Hash
	metrics         Metrics
}

// Apply folds the storage logs of one transaction into the write set. Reads are ignored.
func (d *Deduplicator) Apply(logs []core.StorageLogQuery) {
	d.apply(logs, nil)
}

// ApplyAndRollback returns the metrics the deduplicator would report after applying logs,
// leaving the write set unchanged.
func (d *Deduplicator) ApplyAndRollback(logs []core.StorageLogQuery) Metrics {
	var undo []undoEntry
	d.apply(logs, &undo)
	result := d.metrics
	for i := len(undo) - 1; i >= 0; i-- {
		d.revert(&undo[i])
	}
	return result
}

func (d *Deduplicator) apply(logs []core.StorageLogQuery, undo *[]undoEntry) {
	for i := range logs {
		log := &logs[i]
		if !log.IsWrite {
			continue
		}
		key := log.Key
		if undo != nil {
			prevInitial, hadInitial := d.initialValues[key]
			prevModified, wasModified := d.modifiedKeys[key]
			*undo = append(*undo, undoEntry{
				key:             key,
				hadInitialValue: hadInitial,
				initialValue:    prevInitial,
				wasModified:     wasModified,
				modifiedValue:   prevModified,
				metrics:         d.metrics,
			})
		}

		initialValue, ok := d.initialValues[key]
		if !ok {
			initialValue = log.ReadValue
			d.initialValues[key] = initialValue
		}
		_, wasModified := d.modifiedKeys[key]

		newValue := log.WrittenValue
		if log.Rollback {
			newValue = log.ReadValue
		}

		counter := &d.metrics.RepeatedStorageWrites
		if log.InitialWrite {
			counter = &d.metrics.InitialStorageWrites
		}

		if newValue == initialValue {
			if wasModified {
				delete(d.modifiedKeys, key)
				*counter--
			}
		} else {
			d.modifiedKeys[key] = newValue
			if !wasModified {
				*counter++
			}
		}
	}
}

func (d *Deduplicator) revert(entry *undoEntry) {
	if entry.hadInitialValue {
		d.initialValues[entry.key] = entry.initialValue
	} else {
		delete(d.initialValues, entry.key)
	}
	if entry.wasModified {
		d.modifiedKeys[entry.key] = entry.modifiedValue
	} else {
		delete(d.modifiedKeys, entry.key)
	}
	d.metrics = entry.metrics
}

func (d *Deduplicator) Metrics() Metrics {
	return d.metrics
}

// ModifiedKeyValues returns a copy of the net write set.
func (d *Deduplicator) ModifiedKeyValues() map[core.StorageKey]common.Hash {
	return maps.Clone(d.modifiedKeys)
}
