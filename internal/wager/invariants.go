package wager

import (
	"fmt"
	"sort"

	sdkmath "cosmossdk.io/math"

	"github.com/Chop-Kampfire/PythyBird/internal/state"
)

// CheckInvariants audits every race against its vault and every asset
// against its minted supply. It returns one error describing all violations,
// or nil.
func CheckInvariants(st *state.State) error {
	if st == nil {
		return fmt.Errorf("state is nil")
	}
	var broken []string
	for _, id := range st.RaceIDs() {
		if msg := raceInvariant(st, st.Races[id]); msg != "" {
			broken = append(broken, msg)
		}
	}
	broken = append(broken, supplyInvariant(st)...)
	if len(broken) == 0 {
		return nil
	}
	return ErrVaultInvariant.Wrapf("%d broken invariant(s): %v", len(broken), broken)
}

func raceInvariant(st *state.State, r *state.Race) string {
	if r == nil {
		return "nil race record"
	}
	if !r.Status.Valid() {
		return fmt.Sprintf("race %s: unknown status %q", r.ID, r.Status)
	}
	if r.Vault != VaultAddress(r.ID) {
		return fmt.Sprintf("race %s: vault %s is not derived from the race id", r.ID, r.Vault)
	}
	if r.ID != RaceID(r.LobbyCode) {
		return fmt.Sprintf("race %s: id is not derived from lobby %q", r.ID, r.LobbyCode)
	}

	bal := st.Balance(r.Vault, r.Asset)
	switch r.Status {
	case state.RaceCompleted:
		if bal != 0 {
			return fmt.Sprintf("race %s: completed with vault balance %d", r.ID, bal)
		}
		if !r.Participants.Contains(r.Winner) {
			return fmt.Sprintf("race %s: winner %q not a participant", r.ID, r.Winner)
		}
	default:
		if r.Winner != "" {
			return fmt.Sprintf("race %s: winner set while %s", r.ID, r.Status)
		}
		want, err := potOf(r.WagerAmount, r.Participants.Len())
		if err != nil {
			return fmt.Sprintf("race %s: %v", r.ID, err)
		}
		if bal != want {
			return fmt.Sprintf("race %s: vault holds %d, want %d", r.ID, bal, want)
		}
	}
	return ""
}

// supplyInvariant sums balances with arbitrary precision so the audit itself
// cannot wrap.
func supplyInvariant(st *state.State) []string {
	sums := map[string]sdkmath.Int{}
	for _, coins := range st.Accounts {
		for asset, bal := range coins {
			cur, ok := sums[asset]
			if !ok {
				cur = sdkmath.ZeroInt()
			}
			sums[asset] = cur.Add(sdkmath.NewIntFromUint64(bal))
		}
	}

	assets := make([]string, 0, len(sums)+len(st.Supply))
	seen := map[string]bool{}
	for a := range sums {
		assets = append(assets, a)
		seen[a] = true
	}
	for a := range st.Supply {
		if !seen[a] {
			assets = append(assets, a)
		}
	}
	sort.Strings(assets)

	var broken []string
	for _, a := range assets {
		sum, ok := sums[a]
		if !ok {
			sum = sdkmath.ZeroInt()
		}
		supply := sdkmath.NewIntFromUint64(st.Supply[a])
		if !sum.Equal(supply) {
			broken = append(broken, fmt.Sprintf("asset %s: balances sum to %s, supply is %s", a, sum, supply))
		}
	}
	return broken
}
