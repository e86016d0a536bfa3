package wager

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/Chop-Kampfire/PythyBird/internal/state"
)

const (
	// ModuleName defines the module name, also used as error codespace.
	ModuleName = "wager"

	MaxPlayers   = state.MaxParticipants
	MinPlayers   = 2
	LobbyCodeLen = 6

	RaceIDPrefix  = "race1"
	VaultIDPrefix = "vault1"

	raceDomain  = "wager/race/v1"
	vaultDomain = "wager/escrow/v1"

	// addrHexLen is the number of hex chars kept from the derivation digest.
	addrHexLen = 40
)

func updateLenBytes(h hash.Hash, b []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(b)))
	h.Write(n[:])
	h.Write(b)
}

func deriveAddress(prefix, domain string, parts ...string) string {
	h := sha256.New()
	updateLenBytes(h, []byte(domain))
	for _, p := range parts {
		updateLenBytes(h, []byte(p))
	}
	return prefix + hex.EncodeToString(h.Sum(nil))[:addrHexLen]
}

// RaceID derives the record address of a race from its lobby code alone.
func RaceID(lobbyCode string) string {
	return deriveAddress(RaceIDPrefix, raceDomain, lobbyCode)
}

// VaultAddress derives the custodial vault of a race. The vault is never
// backed by a key: only the keeper can move its funds, after re-deriving this
// address from the race id.
func VaultAddress(raceID string) string {
	return deriveAddress(VaultIDPrefix, vaultDomain, raceID)
}

// IsVaultAddress reports whether addr lies in the reserved vault namespace.
func IsVaultAddress(addr string) bool {
	return strings.HasPrefix(addr, VaultIDPrefix)
}
