package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppHash_StableAcrossMapOrder(t *testing.T) {
	s1 := NewState()
	s1.Height = 7
	require.NoError(t, s1.Mint("bob", "usdc", 2))
	require.NoError(t, s1.Mint("alice", "usdc", 1))

	s2 := NewState()
	s2.Height = 7
	require.NoError(t, s2.Mint("alice", "usdc", 1))
	require.NoError(t, s2.Mint("bob", "usdc", 2))

	h1 := s1.AppHash()
	require.Equal(t, h1, s2.AppHash())

	// Any semantic change should change the hash.
	require.NoError(t, s2.Transfer("bob", "alice", "usdc", 1))
	require.NotEqual(t, h1, s2.AppHash())
}

func TestTransfer_InsufficientFundsLeavesBalances(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Mint("alice", "usdc", 10))

	err := s.Transfer("alice", "bob", "usdc", 11)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, uint64(10), s.Balance("alice", "usdc"))
	require.Equal(t, uint64(0), s.Balance("bob", "usdc"))
}

func TestTransfer_CreditOverflowRollsBackDebit(t *testing.T) {
	s := NewState()
	s.Accounts["alice"] = map[string]uint64{"usdc": 100}
	s.Accounts["bob"] = map[string]uint64{"usdc": ^uint64(0)}

	err := s.Transfer("alice", "bob", "usdc", 1)
	require.ErrorIs(t, err, ErrBalanceOverflow)
	require.Equal(t, uint64(100), s.Balance("alice", "usdc"))
	require.Equal(t, ^uint64(0), s.Balance("bob", "usdc"))
}

func TestTransfer_AssetsAreIsolated(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Mint("alice", "usdc", 5))
	require.NoError(t, s.Mint("alice", "bonk", 50))

	require.ErrorIs(t, s.Transfer("alice", "bob", "usdc", 6), ErrInsufficientFunds)
	require.NoError(t, s.Transfer("alice", "bob", "bonk", 50))
	require.Equal(t, uint64(5), s.Balance("alice", "usdc"))
	require.Equal(t, map[string]uint64{"bonk": 50}, s.Balances("bob"))
	require.Empty(t, s.Balances("alice")["bonk"])
}

func TestTransfer_RejectsZeroAmount(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Mint("alice", "usdc", 5))
	require.ErrorIs(t, s.Transfer("alice", "bob", "usdc", 0), ErrInvalidAmount)
}

func TestMint_SupplyOverflow(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Mint("alice", "usdc", ^uint64(0)))
	require.ErrorIs(t, s.Mint("bob", "usdc", 1), ErrBalanceOverflow)
	require.Equal(t, ^uint64(0), s.SupplyOf("usdc"))
	require.Equal(t, uint64(0), s.Balance("bob", "usdc"))
}

func TestClone_IsDeep(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Mint("alice", "usdc", 5))
	p, err := NewParticipants("alice")
	require.NoError(t, err)
	require.NoError(t, s.SetRace(&Race{ID: "race1", Participants: p, Status: RaceWaiting}))

	c, err := s.Clone()
	require.NoError(t, err)
	require.NoError(t, c.Transfer("alice", "bob", "usdc", 5))
	require.NoError(t, c.GetRace("race1").Participants.Add("bob"))
	c.GetRace("race1").Status = RaceCancelled

	require.Equal(t, uint64(5), s.Balance("alice", "usdc"))
	require.Equal(t, []string{"alice"}, s.GetRace("race1").Participants.List())
	require.Equal(t, RaceWaiting, s.GetRace("race1").Status)
	require.Equal(t, []string{"alice", "bob"}, c.GetRace("race1").Participants.List())
}

func TestParticipants_BoundedOrderedSet(t *testing.T) {
	var p Participants
	for _, a := range []string{"a", "b", "c", "d"} {
		require.NoError(t, p.Add(a))
	}
	require.True(t, p.Full())
	require.Error(t, p.Add("e"))
	require.Error(t, p.Add("a"))

	require.True(t, p.Remove("b"))
	require.False(t, p.Remove("b"))
	require.Equal(t, []string{"a", "c", "d"}, p.List())
	require.Equal(t, 3, p.Len())

	require.NoError(t, p.Add("e"))
	require.Equal(t, []string{"a", "c", "d", "e"}, p.List())
}

func TestParticipants_JSONRejectsOversizedOrDuplicate(t *testing.T) {
	var p Participants
	require.Error(t, json.Unmarshal([]byte(`["a","b","c","d","e"]`), &p))
	require.Error(t, json.Unmarshal([]byte(`["a","a"]`), &p))
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &p))
	require.Equal(t, []string{"a", "b"}, p.List())

	b, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `["a","b"]`, string(b))
}
