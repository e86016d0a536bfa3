package wager

import (
	"cosmossdk.io/log"

	"github.com/Chop-Kampfire/PythyBird/internal/state"
)

type Keeper struct {
	bank   BankKeeper
	races  RaceStore
	logger log.Logger
}

func NewKeeper(bank BankKeeper, races RaceStore, logger log.Logger) Keeper {
	if bank == nil {
		panic("wager keeper: bank keeper is nil")
	}
	if races == nil {
		panic("wager keeper: race store is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return Keeper{
		bank:   bank,
		races:  races,
		logger: logger.With("module", ModuleName),
	}
}

func (k Keeper) Logger() log.Logger {
	return k.logger
}

func (k Keeper) GetRace(raceID string) (*state.Race, error) {
	if raceID == "" {
		return nil, ErrInvalidRequest.Wrap("missing raceId")
	}
	r := k.races.GetRace(raceID)
	if r == nil {
		return nil, ErrRaceNotFound.Wrapf("race %s not found", raceID)
	}
	return r, nil
}

// VaultBalance returns the stake-asset balance held by the race vault.
func (k Keeper) VaultBalance(r *state.Race) uint64 {
	return k.bank.Balance(r.Vault, r.Asset)
}

// releaseFromVault pays amount out of the race vault. The vault address is
// re-derived from the race id so a record can only ever release funds from
// its own vault.
func (k Keeper) releaseFromVault(r *state.Race, to string, amount uint64) error {
	vault := VaultAddress(r.ID)
	if r.Vault != vault {
		return ErrVaultInvariant.Wrapf("race %s bound to %s, derived %s", r.ID, r.Vault, vault)
	}
	return k.bank.Transfer(vault, to, r.Asset, amount)
}

func validateActor(role, addr string) error {
	if addr == "" {
		return ErrInvalidRequest.Wrapf("missing %s", role)
	}
	if IsVaultAddress(addr) {
		return ErrInvalidRequest.Wrapf("%s cannot be a vault address", role)
	}
	return nil
}
