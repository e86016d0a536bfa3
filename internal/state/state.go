package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
)

type State struct {
	Height int64 `json:"height"`

	Accounts    map[string]map[string]uint64 `json:"accounts"`              // addr -> asset -> balance
	Supply      map[string]uint64            `json:"supply"`                // asset -> total minted
	AccountKeys map[string][]byte            `json:"accountKeys,omitempty"` // addr -> ed25519 pubkey (32 bytes)
	NonceMax    map[string]uint64            `json:"nonceMax,omitempty"`    // signer -> last accepted tx.nonce
	Races       map[string]*Race             `json:"races"`
}

func NewState() *State {
	return &State{
		Height:      0,
		Accounts:    map[string]map[string]uint64{},
		Supply:      map[string]uint64{},
		AccountKeys: map[string][]byte{},
		NonceMax:    map[string]uint64{},
		Races:       map[string]*Race{},
	}
}

// normalize replaces nil maps left behind by decoding.
func (s *State) normalize() {
	if s.Accounts == nil {
		s.Accounts = map[string]map[string]uint64{}
	}
	if s.Supply == nil {
		s.Supply = map[string]uint64{}
	}
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Races == nil {
		s.Races = map[string]*Race{}
	}
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.normalize()
	return &out, nil
}

func (s *State) AppHash() []byte {
	// encoding/json does not guarantee map key order, so maps are normalized
	// into sorted slices before hashing.
	type balanceKV struct {
		Addr    string `json:"addr"`
		Asset   string `json:"asset"`
		Balance uint64 `json:"balance"`
	}
	type supplyKV struct {
		Asset  string `json:"asset"`
		Amount uint64 `json:"amount"`
	}
	type accountKeyKV struct {
		Addr   string `json:"addr"`
		PubKey []byte `json:"pubKey"`
	}
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}

	balances := make([]balanceKV, 0, len(s.Accounts))
	for addr, coins := range s.Accounts {
		for asset, bal := range coins {
			if bal == 0 {
				continue
			}
			balances = append(balances, balanceKV{Addr: addr, Asset: asset, Balance: bal})
		}
	}
	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Addr != balances[j].Addr {
			return balances[i].Addr < balances[j].Addr
		}
		return balances[i].Asset < balances[j].Asset
	})

	supply := make([]supplyKV, 0, len(s.Supply))
	for asset, amt := range s.Supply {
		supply = append(supply, supplyKV{Asset: asset, Amount: amt})
	}
	sort.Slice(supply, func(i, j int) bool { return supply[i].Asset < supply[j].Asset })

	accountKeys := make([]accountKeyKV, 0, len(s.AccountKeys))
	for k, v := range s.AccountKeys {
		accountKeys = append(accountKeys, accountKeyKV{Addr: k, PubKey: v})
	}
	sort.Slice(accountKeys, func(i, j int) bool { return accountKeys[i].Addr < accountKeys[j].Addr })

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	races := make([]*Race, 0, len(s.Races))
	for _, id := range s.RaceIDs() {
		races = append(races, s.Races[id])
	}

	normalized := struct {
		Height      int64          `json:"height"`
		Balances    []balanceKV    `json:"balances"`
		Supply      []supplyKV     `json:"supply"`
		AccountKeys []accountKeyKV `json:"accountKeys,omitempty"`
		NonceMax    []nonceKV      `json:"nonceMax,omitempty"`
		Races       []*Race        `json:"races"`
	}{
		Height:      s.Height,
		Balances:    balances,
		Supply:      supply,
		AccountKeys: accountKeys,
		NonceMax:    nonces,
		Races:       races,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}

// ---- Races ----

func (s *State) GetRace(id string) *Race {
	return s.Races[id]
}

func (s *State) HasRace(id string) bool {
	_, ok := s.Races[id]
	return ok
}

func (s *State) SetRace(r *Race) error {
	if r == nil {
		return fmt.Errorf("race is nil")
	}
	if r.ID == "" {
		return fmt.Errorf("race id is empty")
	}
	s.Races[r.ID] = r
	return nil
}

// RaceIDs returns all race ids in ascending order.
func (s *State) RaceIDs() []string {
	ids := make([]string, 0, len(s.Races))
	for id := range s.Races {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
