package wager_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Chop-Kampfire/PythyBird/internal/codec"
	"github.com/Chop-Kampfire/PythyBird/internal/state"
	"github.com/Chop-Kampfire/PythyBird/internal/wager"
)

func FuzzRaceOps_FundConservation(f *testing.F) {
	f.Add(int64(1), uint16(40))
	f.Add(int64(1337), uint16(200))

	f.Fuzz(func(t *testing.T, seed int64, steps uint16) {
		runRandomOps(t, rand.New(rand.NewSource(seed)), int(steps%400))
	})
}

func TestProperty_FundConservation_RandomOps(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		runRandomOps(t, r, 150)
	}
}

// runRandomOps drives random transitions (valid and invalid) over a few races
// and checks after every step that failed calls mutate nothing and that all
// vault and supply invariants hold.
func runRandomOps(t *testing.T, r *rand.Rand, steps int) {
	t.Helper()

	st, k, _ := newKeeper(t)
	actors := []string{host, "p1", "p2", "p3", "p4", "p5"}
	fund(t, st, actors...)
	codes := []string{"AAAAAA", "BBBBBB", "CCCCCC"}

	pick := func(xs []string) string { return xs[r.Intn(len(xs))] }

	for i := 0; i < steps; i++ {
		code := pick(codes)
		id := wager.RaceID(code)
		actor := pick(actors)
		before := st.AppHash()

		var err error
		switch r.Intn(6) {
		case 0:
			_, err = k.CreateRace(codec.WagerCreateRaceTx{Host: actor, LobbyCode: code, WagerAmount: uint64(1 + r.Intn(300)), Asset: asset}, int64(i))
		case 1:
			_, err = k.DepositWager(codec.WagerDepositTx{Player: actor, RaceID: id})
		case 2:
			_, err = k.StartRace(codec.WagerStartRaceTx{Host: actor, RaceID: id})
		case 3:
			_, err = k.DeclareWinner(codec.WagerDeclareWinnerTx{Host: actor, RaceID: id, Winner: pick(actors)})
		case 4:
			_, err = k.CancelRace(codec.WagerCancelRaceTx{Host: actor, RaceID: id})
		case 5:
			_, err = k.ClaimRefund(codec.WagerClaimRefundTx{Player: actor, RaceID: id})
		}
		if err != nil {
			require.Equal(t, before, st.AppHash(), "step %d: failed op mutated state: %v", i, err)
		}
		require.NoError(t, wager.CheckInvariants(st), "step %d", i)
		for _, rid := range st.RaceIDs() {
			race := st.GetRace(rid)
			require.LessOrEqual(t, race.Participants.Len(), wager.MaxPlayers, fmt.Sprintf("race %s", rid))
			if race.Status == state.RaceCompleted {
				require.NotEmpty(t, race.Winner)
			}
		}
	}
}
