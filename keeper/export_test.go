package keeper

import "time"

func (k *Keeper) WithClock(now func() time.Time) *Keeper {
	k.now = now
	return k
}
