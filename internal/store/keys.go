package store

import "encoding/binary"

var (
	// MetaKey stores the last commit: big-endian i64 height || app hash.
	MetaKey = []byte{0x01}

	// BalanceKeyPrefix stores asset balances by account: prefix || addr.
	BalanceKeyPrefix = []byte{0x02}

	// SupplyKeyPrefix stores minted supply as big-endian u64: prefix || asset.
	SupplyKeyPrefix = []byte{0x03}

	// AccountKeyPrefix stores ed25519 pubkeys: prefix || addr.
	AccountKeyPrefix = []byte{0x04}

	// NonceKeyPrefix stores the last accepted nonce as big-endian u64: prefix || signer.
	NonceKeyPrefix = []byte{0x05}

	// RaceKeyPrefix stores Race records: prefix || raceID.
	RaceKeyPrefix = []byte{0x06}
)

var allPrefixes = [][]byte{BalanceKeyPrefix, SupplyKeyPrefix, AccountKeyPrefix, NonceKeyPrefix, RaceKeyPrefix}

func prefixed(prefix []byte, id string) []byte {
	bz := make([]byte, 0, len(prefix)+len(id))
	bz = append(bz, prefix...)
	return append(bz, id...)
}

func u64be(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}
