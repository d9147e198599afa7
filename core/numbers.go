package core

import "strconv"

// L1BatchNumber is the sequential number of an L1 batch.
type L1BatchNumber uint32

func (n L1BatchNumber) String() string {
	return "#" + strconv.FormatUint(uint64(n), 10)
}

// MiniblockNumber is the sequential number of a miniblock. Miniblock numbers are global,
// they keep growing across L1 batches.
type MiniblockNumber uint32

func (n MiniblockNumber) String() string {
	return "#" + strconv.FormatUint(uint64(n), 10)
}
