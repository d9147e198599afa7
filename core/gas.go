package core

// BlockGasCount is the amount of L1 gas a block is expected to cost on each of the
// commit, prove and execute operations.
type BlockGasCount struct {
	Commit  uint32
	Prove   uint32
	Execute uint32
}

func (c BlockGasCount) Add(other BlockGasCount) BlockGasCount {
	return BlockGasCount{
		Commit:  c.Commit + other.Commit,
		Prove:   c.Prove + other.Prove,
		Execute: c.Execute + other.Execute,
	}
}

// AnyFieldGreaterThan reports whether any of the three counters exceeds bound.
func (c BlockGasCount) AnyFieldGreaterThan(bound uint32) bool {
	return c.Commit > bound || c.Prove > bound || c.Execute > bound
}
