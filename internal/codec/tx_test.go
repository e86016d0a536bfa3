package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeTxEnvelope_OK(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TypeWagerCreateRace,
		"value": map[string]any{"host": "alice", "lobbyCode": "ABC123", "wagerAmount": 100, "asset": "usdc"},
	})
	require.NoError(t, err)

	env, err := DecodeTxEnvelope(b)
	require.NoError(t, err)
	require.Equal(t, TypeWagerCreateRace, env.Type)

	var msg WagerCreateRaceTx
	require.NoError(t, json.Unmarshal(env.Value, &msg))
	require.Equal(t, WagerCreateRaceTx{Host: "alice", LobbyCode: "ABC123", WagerAmount: 100, Asset: "usdc"}, msg)
}

func TestDecodeTxEnvelope_IgnoresUnknownFields(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TypeBankMint,
		"memo":  "hello",
		"value": map[string]any{"to": "alice", "asset": "usdc", "amount": 1},
	})
	require.NoError(t, err)

	_, err = DecodeTxEnvelope(b)
	require.NoError(t, err)
}

func TestDecodeTxEnvelope_MissingType(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"value": map[string]any{"x": 1},
	})
	require.NoError(t, err)
	_, err = DecodeTxEnvelope(b)
	require.ErrorContains(t, err, "missing tx.type")
}

func TestDecodeTxEnvelope_InvalidJSON(t *testing.T) {
	_, err := DecodeTxEnvelope([]byte("{not json"))
	require.ErrorContains(t, err, "invalid tx json")
}
