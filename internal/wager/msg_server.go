package wager

import (
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/Chop-Kampfire/PythyBird/internal/codec"
	"github.com/Chop-Kampfire/PythyBird/internal/state"
)

// Every handler validates fully before the first mutation. The only effect
// that can fail after validation is the bank transfer, and it runs before
// the record is touched.

func (k Keeper) CreateRace(msg codec.WagerCreateRaceTx, nowUnix int64) (*abci.ExecTxResult, error) {
	if len(msg.LobbyCode) != LobbyCodeLen {
		return nil, ErrInvalidLobbyCode.Wrapf("got %d bytes, want %d", len(msg.LobbyCode), LobbyCodeLen)
	}
	if msg.WagerAmount == 0 {
		return nil, ErrInvalidWagerAmount
	}
	if err := validateActor("host", msg.Host); err != nil {
		return nil, err
	}
	if msg.Asset == "" {
		return nil, ErrInvalidRequest.Wrap("missing asset")
	}
	if k.bank.SupplyOf(msg.Asset) == 0 {
		return nil, ErrUnknownAsset.Wrapf("asset %q has no supply", msg.Asset)
	}

	id := RaceID(msg.LobbyCode)
	if k.races.GetRace(id) != nil {
		return nil, ErrRaceExists.Wrapf("lobby %q already allocated as %s", msg.LobbyCode, id)
	}
	vault := VaultAddress(id)
	if k.bank.Balance(vault, msg.Asset) != 0 {
		return nil, ErrVaultInvariant.Wrapf("fresh vault %s is not empty", vault)
	}

	r := &state.Race{
		ID:          id,
		LobbyCode:   msg.LobbyCode,
		Host:        msg.Host,
		Asset:       msg.Asset,
		WagerAmount: msg.WagerAmount,
		Vault:       vault,
		Status:      state.RaceWaiting,
		CreatedAt:   nowUnix,
	}
	if err := k.races.SetRace(r); err != nil {
		return nil, err
	}

	k.logger.Info("race created", "race", id, "lobby", msg.LobbyCode, "host", msg.Host, "wager", msg.WagerAmount, "asset", msg.Asset)
	return okResult([]byte(id), newEvent(EventTypeRaceCreated,
		indexed("raceId", id),
		indexed("lobbyCode", msg.LobbyCode),
		indexed("host", msg.Host),
		indexed("asset", msg.Asset),
		plain("wagerAmount", u64(msg.WagerAmount)),
		plain("vault", vault),
	)), nil
}

func (k Keeper) DepositWager(msg codec.WagerDepositTx) (*abci.ExecTxResult, error) {
	if err := validateActor("player", msg.Player); err != nil {
		return nil, err
	}
	r, err := k.GetRace(msg.RaceID)
	if err != nil {
		return nil, err
	}
	if r.Status != state.RaceWaiting {
		return nil, ErrRaceNotWaiting.Wrapf("race %s is %s", r.ID, r.Status)
	}
	if r.Participants.Full() {
		return nil, ErrRaceFull.Wrapf("max %d players", MaxPlayers)
	}
	if r.Participants.Contains(msg.Player) {
		return nil, ErrAlreadyDeposited.Wrapf("player %s", msg.Player)
	}
	// The new pot must stay representable or the vault could never pay out.
	if _, err := potOf(r.WagerAmount, r.Participants.Len()+1); err != nil {
		return nil, err
	}

	if err := k.bank.Transfer(msg.Player, r.Vault, r.Asset, r.WagerAmount); err != nil {
		return nil, err
	}
	if err := r.Participants.Add(msg.Player); err != nil {
		return nil, fmt.Errorf("add participant after transfer: %w", err)
	}
	if err := k.races.SetRace(r); err != nil {
		return nil, err
	}

	k.logger.Info("wager deposited", "race", r.ID, "player", msg.Player, "amount", r.WagerAmount)
	return okResult(nil, newEvent(EventTypeWagerDeposited,
		indexed("raceId", r.ID),
		indexed("player", msg.Player),
		plain("amount", u64(r.WagerAmount)),
		plain("players", fmt.Sprintf("%d", r.Participants.Len())),
	)), nil
}

func (k Keeper) StartRace(msg codec.WagerStartRaceTx) (*abci.ExecTxResult, error) {
	r, err := k.GetRace(msg.RaceID)
	if err != nil {
		return nil, err
	}
	if r.Status != state.RaceWaiting {
		return nil, ErrRaceNotWaiting.Wrapf("race %s is %s", r.ID, r.Status)
	}
	if msg.Host != r.Host {
		return nil, ErrNotHost
	}
	if r.Participants.Len() < MinPlayers {
		return nil, ErrNotEnoughPlayers.Wrapf("have %d", r.Participants.Len())
	}

	r.Status = state.RaceRacing
	if err := k.races.SetRace(r); err != nil {
		return nil, err
	}

	k.logger.Info("race started", "race", r.ID, "players", r.Participants.Len())
	return okResult(nil, newEvent(EventTypeRaceStarted,
		indexed("raceId", r.ID),
		plain("players", fmt.Sprintf("%d", r.Participants.Len())),
	)), nil
}

func (k Keeper) DeclareWinner(msg codec.WagerDeclareWinnerTx) (*abci.ExecTxResult, error) {
	r, err := k.GetRace(msg.RaceID)
	if err != nil {
		return nil, err
	}
	if r.Status != state.RaceRacing {
		return nil, ErrRaceNotRacing.Wrapf("race %s is %s", r.ID, r.Status)
	}
	if msg.Host != r.Host {
		return nil, ErrNotHost
	}
	if msg.Winner == "" || !r.Participants.Contains(msg.Winner) {
		return nil, ErrWinnerNotInRace.Wrapf("winner %q", msg.Winner)
	}

	pot, err := potOf(r.WagerAmount, r.Participants.Len())
	if err != nil {
		return nil, err
	}
	if bal := k.VaultBalance(r); bal != pot {
		return nil, ErrVaultInvariant.Wrapf("vault holds %d, pot is %d", bal, pot)
	}

	if err := k.releaseFromVault(r, msg.Winner, pot); err != nil {
		return nil, err
	}
	r.Winner = msg.Winner
	r.Status = state.RaceCompleted
	if err := k.races.SetRace(r); err != nil {
		return nil, err
	}

	k.logger.Info("winner paid", "race", r.ID, "winner", msg.Winner, "pot", pot)
	return okResult(nil, newEvent(EventTypeWinnerPaid,
		indexed("raceId", r.ID),
		indexed("winner", msg.Winner),
		plain("pot", u64(pot)),
		plain("asset", r.Asset),
	)), nil
}

func (k Keeper) CancelRace(msg codec.WagerCancelRaceTx) (*abci.ExecTxResult, error) {
	r, err := k.GetRace(msg.RaceID)
	if err != nil {
		return nil, err
	}
	if r.Status != state.RaceWaiting {
		return nil, ErrRaceNotWaiting.Wrapf("race %s is %s", r.ID, r.Status)
	}
	if msg.Host != r.Host {
		return nil, ErrNotHost
	}

	r.Status = state.RaceCancelled
	if err := k.races.SetRace(r); err != nil {
		return nil, err
	}

	k.logger.Info("race cancelled", "race", r.ID, "refundable", r.Participants.Len())
	return okResult(nil, newEvent(EventTypeRaceCancelled,
		indexed("raceId", r.ID),
		plain("refundable", fmt.Sprintf("%d", r.Participants.Len())),
	)), nil
}

func (k Keeper) ClaimRefund(msg codec.WagerClaimRefundTx) (*abci.ExecTxResult, error) {
	r, err := k.GetRace(msg.RaceID)
	if err != nil {
		return nil, err
	}
	if r.Status != state.RaceCancelled {
		return nil, ErrRaceNotCancelled.Wrapf("race %s is %s", r.ID, r.Status)
	}
	if msg.Player == "" || !r.Participants.Contains(msg.Player) {
		return nil, ErrNotInRace.Wrapf("player %q", msg.Player)
	}
	if bal := k.VaultBalance(r); bal < r.WagerAmount {
		return nil, ErrVaultInvariant.Wrapf("vault holds %d, refund is %d", bal, r.WagerAmount)
	}

	if err := k.releaseFromVault(r, msg.Player, r.WagerAmount); err != nil {
		return nil, err
	}
	r.Participants.Remove(msg.Player)
	if err := k.races.SetRace(r); err != nil {
		return nil, err
	}

	k.logger.Info("refund claimed", "race", r.ID, "player", msg.Player, "amount", r.WagerAmount)
	return okResult(nil, newEvent(EventTypeRefundClaimed,
		indexed("raceId", r.ID),
		indexed("player", msg.Player),
		plain("amount", u64(r.WagerAmount)),
		plain("remaining", fmt.Sprintf("%d", r.Participants.Len())),
	)), nil
}
