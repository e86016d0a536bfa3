package wager

import (
	"math/bits"

	"github.com/Chop-Kampfire/PythyBird/internal/state"
)

func mulUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow.Wrapf("%s overflows uint64", field)
	}
	return lo, nil
}

// potOf is the amount a race vault must hold for n stakes.
func potOf(wager uint64, n int) (uint64, error) {
	return mulUint64Checked(wager, uint64(n), "pot")
}

// Pot returns the pooled stake of r's current participants.
func Pot(r *state.Race) (uint64, error) {
	return potOf(r.WagerAmount, r.Participants.Len())
}
