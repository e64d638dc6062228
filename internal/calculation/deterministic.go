package calculation

import "time"

// seedFunc supplies the master seed when a Monte Carlo run does not set one.
// Tests override it through SetSeedFunc to make runs reproducible.
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc replaces the seed source and returns a function restoring the previous one.
func SetSeedFunc(f func() int64) (restore func()) {
	prev := seedFunc
	seedFunc = f
	return func() { seedFunc = prev }
}

// NewSeed returns a fresh master seed from the current seed source.
func NewSeed() int64 {
	return seedFunc()
}
