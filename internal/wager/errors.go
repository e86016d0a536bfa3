package wager

import errorsmod "cosmossdk.io/errors"

// x/wager sentinel errors.
var (
	ErrInvalidRequest     = errorsmod.Register(ModuleName, 1, "invalid request")
	ErrInvalidLobbyCode   = errorsmod.Register(ModuleName, 2, "invalid lobby code length")
	ErrInvalidWagerAmount = errorsmod.Register(ModuleName, 3, "wager amount must be greater than 0")
	ErrRaceNotWaiting     = errorsmod.Register(ModuleName, 4, "race is not in waiting status")
	ErrRaceNotRacing      = errorsmod.Register(ModuleName, 5, "race is not in racing status")
	ErrRaceNotCancelled   = errorsmod.Register(ModuleName, 6, "race is not cancelled")
	ErrRaceFull           = errorsmod.Register(ModuleName, 7, "race is full")
	ErrAlreadyDeposited   = errorsmod.Register(ModuleName, 8, "player has already deposited")
	ErrNotHost            = errorsmod.Register(ModuleName, 9, "only the host can perform this action")
	ErrNotEnoughPlayers   = errorsmod.Register(ModuleName, 10, "need at least 2 players to start")
	ErrWinnerNotInRace    = errorsmod.Register(ModuleName, 11, "winner is not a participant in this race")
	ErrNotInRace          = errorsmod.Register(ModuleName, 12, "player is not in this race")
	ErrOverflow           = errorsmod.Register(ModuleName, 13, "arithmetic overflow")
	ErrRaceNotFound       = errorsmod.Register(ModuleName, 14, "race not found")
	ErrRaceExists         = errorsmod.Register(ModuleName, 15, "race already exists")
	ErrUnknownAsset       = errorsmod.Register(ModuleName, 16, "unknown stake asset")
	ErrVaultInvariant     = errorsmod.Register(ModuleName, 17, "vault balance does not match race record")
)
