package wager

import "github.com/Chop-Kampfire/PythyBird/internal/state"

// BankKeeper moves fungible balances. Transfer must be all-or-nothing and
// must reject transfers larger than the source balance.
type BankKeeper interface {
	Balance(addr, asset string) uint64
	SupplyOf(asset string) uint64
	Transfer(from, to, asset string, amount uint64) error
}

// RaceStore holds race records.
type RaceStore interface {
	GetRace(id string) *state.Race
	SetRace(r *state.Race) error
}
