package state

import "fmt"

func (s *State) Balance(addr, asset string) uint64 {
	return s.Accounts[addr][asset]
}

// Balances returns a copy of every non-zero balance held by addr.
func (s *State) Balances(addr string) map[string]uint64 {
	out := map[string]uint64{}
	for asset, bal := range s.Accounts[addr] {
		if bal != 0 {
			out[asset] = bal
		}
	}
	return out
}

func (s *State) SupplyOf(asset string) uint64 {
	return s.Supply[asset]
}

func (s *State) setBalance(addr, asset string, amount uint64) {
	coins := s.Accounts[addr]
	if coins == nil {
		if amount == 0 {
			return
		}
		coins = map[string]uint64{}
		s.Accounts[addr] = coins
	}
	if amount == 0 {
		delete(coins, asset)
		if len(coins) == 0 {
			delete(s.Accounts, addr)
		}
		return
	}
	coins[asset] = amount
}

func (s *State) Credit(addr, asset string, amount uint64) error {
	bal := s.Balance(addr, asset)
	if bal > ^uint64(0)-amount {
		return ErrBalanceOverflow.Wrapf("%s %s: have=%d add=%d", addr, asset, bal, amount)
	}
	s.setBalance(addr, asset, bal+amount)
	return nil
}

func (s *State) Debit(addr, asset string, amount uint64) error {
	bal := s.Balance(addr, asset)
	if bal < amount {
		return ErrInsufficientFunds.Wrapf("%s %s: have=%d need=%d", addr, asset, bal, amount)
	}
	s.setBalance(addr, asset, bal-amount)
	return nil
}

// Transfer moves amount of asset between two balances. Both sides are
// validated before either is touched, so a failed transfer leaves no trace.
func (s *State) Transfer(from, to, asset string, amount uint64) error {
	if from == "" || to == "" || asset == "" {
		return fmt.Errorf("transfer: missing from/to/asset")
	}
	if amount == 0 {
		return ErrInvalidAmount.Wrap("transfer amount must be > 0")
	}
	fromBal := s.Balance(from, asset)
	if fromBal < amount {
		return ErrInsufficientFunds.Wrapf("%s %s: have=%d need=%d", from, asset, fromBal, amount)
	}
	if from == to {
		return nil
	}
	toBal := s.Balance(to, asset)
	if toBal > ^uint64(0)-amount {
		return ErrBalanceOverflow.Wrapf("%s %s: have=%d add=%d", to, asset, toBal, amount)
	}
	s.setBalance(from, asset, fromBal-amount)
	s.setBalance(to, asset, toBal+amount)
	return nil
}

// Mint creates new units of asset in addr's balance and grows the supply.
func (s *State) Mint(to, asset string, amount uint64) error {
	if to == "" || asset == "" {
		return fmt.Errorf("mint: missing to/asset")
	}
	if amount == 0 {
		return ErrInvalidAmount.Wrap("mint amount must be > 0")
	}
	supply := s.Supply[asset]
	if supply > ^uint64(0)-amount {
		return ErrBalanceOverflow.Wrapf("supply of %s: have=%d add=%d", asset, supply, amount)
	}
	if err := s.Credit(to, asset, amount); err != nil {
		return err
	}
	s.Supply[asset] = supply + amount
	return nil
}
