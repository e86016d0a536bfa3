package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	dbm "github.com/cosmos/cosmos-db"

	"github.com/Chop-Kampfire/PythyBird/internal/state"
)

const (
	dbName = "wager"

	metaLen = 8 + sha256.Size
)

// Store persists the application state into a key-value database, one key
// per record. Every Save is a single synced batch, so a crash never leaves a
// half-written block on disk.
type Store struct {
	db dbm.DB
}

func New(db dbm.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the database under dir with the given backend,
// e.g. "goleveldb" or "memdb".
func Open(backend, dir string) (*Store, error) {
	if backend != string(dbm.MemDBBackend) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir data dir: %w", err)
		}
	}
	db, err := dbm.NewDB(dbName, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", backend, err)
	}
	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load rebuilds the state from the database and checks it against the app
// hash recorded at the last commit. An empty database yields a fresh state at
// height 0.
func (s *Store) Load() (*state.State, error) {
	st := state.NewState()

	meta, err := s.db.Get(MetaKey)
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}
	var wantHash []byte
	if meta != nil {
		if len(meta) != metaLen {
			return nil, fmt.Errorf("invalid meta encoding: %d bytes", len(meta))
		}
		st.Height = int64(binary.BigEndian.Uint64(meta[:8]))
		wantHash = meta[8:]
	}

	err = s.iterate(BalanceKeyPrefix, func(id string, v []byte) error {
		coins := map[string]uint64{}
		if err := json.Unmarshal(v, &coins); err != nil {
			return fmt.Errorf("decode balances of %s: %w", id, err)
		}
		st.Accounts[id] = coins
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.iterate(SupplyKeyPrefix, func(id string, v []byte) error {
		if len(v) != 8 {
			return fmt.Errorf("invalid supply encoding for %s", id)
		}
		st.Supply[id] = binary.BigEndian.Uint64(v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.iterate(AccountKeyPrefix, func(id string, v []byte) error {
		st.AccountKeys[id] = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.iterate(NonceKeyPrefix, func(id string, v []byte) error {
		if len(v) != 8 {
			return fmt.Errorf("invalid nonce encoding for %s", id)
		}
		st.NonceMax[id] = binary.BigEndian.Uint64(v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.iterate(RaceKeyPrefix, func(id string, v []byte) error {
		var r state.Race
		if err := json.Unmarshal(v, &r); err != nil {
			return fmt.Errorf("decode race %s: %w", id, err)
		}
		if r.ID != id {
			return fmt.Errorf("race stored under %s has id %s", id, r.ID)
		}
		st.Races[id] = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if wantHash != nil {
		if got := st.AppHash(); !bytes.Equal(got, wantHash) {
			return nil, fmt.Errorf("stored state at height %d hashes to %X, committed %X", st.Height, got, wantHash)
		}
	}
	return st, nil
}

// Save writes st as the new committed state, removing records that no
// longer exist.
func (s *Store) Save(st *state.State) error {
	if st == nil {
		return fmt.Errorf("state is nil")
	}

	want := map[string][]byte{}
	for addr, coins := range st.Accounts {
		if len(coins) == 0 {
			continue
		}
		bz, err := json.Marshal(coins)
		if err != nil {
			return fmt.Errorf("encode balances of %s: %w", addr, err)
		}
		want[string(prefixed(BalanceKeyPrefix, addr))] = bz
	}
	for asset, amt := range st.Supply {
		want[string(prefixed(SupplyKeyPrefix, asset))] = u64be(amt)
	}
	for addr, pub := range st.AccountKeys {
		want[string(prefixed(AccountKeyPrefix, addr))] = pub
	}
	for signer, n := range st.NonceMax {
		want[string(prefixed(NonceKeyPrefix, signer))] = u64be(n)
	}
	for id, r := range st.Races {
		bz, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode race %s: %w", id, err)
		}
		want[string(prefixed(RaceKeyPrefix, id))] = bz
	}

	var stale [][]byte
	for _, p := range allPrefixes {
		err := s.iterate(p, func(id string, _ []byte) error {
			k := prefixed(p, id)
			if _, ok := want[string(k)]; !ok {
				stale = append(stale, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for _, k := range stale {
		if err := batch.Delete(k); err != nil {
			return fmt.Errorf("delete %x: %w", k, err)
		}
	}
	for k, v := range want {
		old, err := s.db.Get([]byte(k))
		if err != nil {
			return fmt.Errorf("read %x: %w", k, err)
		}
		if bytes.Equal(old, v) {
			continue
		}
		if err := batch.Set([]byte(k), v); err != nil {
			return fmt.Errorf("set %x: %w", k, err)
		}
	}
	meta := make([]byte, 0, metaLen)
	meta = append(meta, u64be(uint64(st.Height))...)
	meta = append(meta, st.AppHash()...)
	if err := batch.Set(MetaKey, meta); err != nil {
		return fmt.Errorf("set meta: %w", err)
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

func (s *Store) iterate(prefix []byte, cb func(id string, value []byte) error) error {
	it, err := dbm.IteratePrefix(s.db, prefix)
	if err != nil {
		return fmt.Errorf("iterate %x: %w", prefix, err)
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		key := it.Key()
		if !bytes.HasPrefix(key, prefix) {
			continue
		}
		if err := cb(string(key[len(prefix):]), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}
