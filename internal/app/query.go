package app

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/Chop-Kampfire/PythyBird/internal/state"
	"github.com/Chop-Kampfire/PythyBird/internal/wager"
)

// RaceView is the /race query response.
type RaceView struct {
	*state.Race
	VaultBalance uint64 `json:"vaultBalance"`
	Pot          string `json:"pot"`
}

// Query serves read-only views of committed state.
//
// Paths:
//   - /account/<addr>           all non-zero balances
//   - /account/<addr>/<asset>   one balance
//   - /race/<raceId>
//   - /races
//   - /race_id/<lobbyCode>      derived race and vault addresses
//   - /vault/<raceId>
func (a *WagerApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	h := a.st.Height
	fail := func(msg string) (*abci.QueryResponse, error) {
		return &abci.QueryResponse{Code: 1, Log: msg, Height: h}, nil
	}
	ok := func(v any) (*abci.QueryResponse, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return fail("encode response: " + err.Error())
		}
		return &abci.QueryResponse{Code: 0, Value: b, Height: h}, nil
	}

	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/races":
		return ok(a.st.RaceIDs())

	case strings.HasPrefix(path, "/account/"):
		rest := strings.TrimPrefix(path, "/account/")
		addr, asset, hasAsset := strings.Cut(rest, "/")
		if addr == "" {
			return fail("missing addr")
		}
		if hasAsset {
			if asset == "" {
				return fail("missing asset")
			}
			return ok(map[string]any{"addr": addr, "asset": asset, "balance": a.st.Balance(addr, asset)})
		}
		return ok(map[string]any{"addr": addr, "balances": a.st.Balances(addr)})

	case strings.HasPrefix(path, "/race/"):
		r := a.st.GetRace(strings.TrimPrefix(path, "/race/"))
		if r == nil {
			return fail("race not found")
		}
		view := RaceView{Race: r, VaultBalance: a.st.Balance(r.Vault, r.Asset), Pot: "overflow"}
		if pot, err := wager.Pot(r); err == nil {
			view.Pot = strconv.FormatUint(pot, 10)
		}
		return ok(view)

	case strings.HasPrefix(path, "/race_id/"):
		code := strings.TrimPrefix(path, "/race_id/")
		if len(code) != wager.LobbyCodeLen {
			return fail("invalid lobby code")
		}
		id := wager.RaceID(code)
		return ok(map[string]any{
			"lobbyCode": code,
			"raceId":    id,
			"vault":     wager.VaultAddress(id),
			"exists":    a.st.HasRace(id),
		})

	case strings.HasPrefix(path, "/vault/"):
		r := a.st.GetRace(strings.TrimPrefix(path, "/vault/"))
		if r == nil {
			return fail("race not found")
		}
		return ok(map[string]any{
			"raceId":  r.ID,
			"vault":   r.Vault,
			"asset":   r.Asset,
			"balance": a.st.Balance(r.Vault, r.Asset),
		})

	default:
		return fail("unknown query path")
	}
}
