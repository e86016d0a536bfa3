package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the v1 transaction container.
//
// CometBFT transactions are opaque bytes; wager txs are JSON-encoded.
type TxEnvelope struct {
	// Basic routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Tx auth:
	// - Nonce: decimal u64, must increase per signer (replay protection).
	// - Signer: account address that authorizes the tx.
	// - Sig: Ed25519 signature over (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// Tx type routes.
const (
	TypeBankMint            = "bank/mint"
	TypeBankSend            = "bank/send"
	TypeAuthRegisterAccount = "auth/register_account"

	TypeWagerCreateRace    = "wager/create_race"
	TypeWagerDeposit       = "wager/deposit"
	TypeWagerStartRace     = "wager/start_race"
	TypeWagerDeclareWinner = "wager/declare_winner"
	TypeWagerCancelRace    = "wager/cancel_race"
	TypeWagerClaimRefund   = "wager/claim_refund"
)

// ---- Bank ----

// BankMintTx is a dev faucet; the app only accepts it when minting is enabled.
type BankMintTx struct {
	To     string `json:"to"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type BankSendTx struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

// ---- Auth ----

type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- Wager ----

type WagerCreateRaceTx struct {
	Host        string `json:"host"`
	LobbyCode   string `json:"lobbyCode"`
	WagerAmount uint64 `json:"wagerAmount"`
	Asset       string `json:"asset"`
}

type WagerDepositTx struct {
	Player string `json:"player"`
	RaceID string `json:"raceId"`
}

type WagerStartRaceTx struct {
	Host   string `json:"host"`
	RaceID string `json:"raceId"`
}

type WagerDeclareWinnerTx struct {
	Host   string `json:"host"`
	RaceID string `json:"raceId"`
	Winner string `json:"winner"`
}

type WagerCancelRaceTx struct {
	Host   string `json:"host"`
	RaceID string `json:"raceId"`
}

type WagerClaimRefundTx struct {
	Player string `json:"player"`
	RaceID string `json:"raceId"`
}

// ---- Genesis ----

// GenesisState is the app_state document accepted by InitChain.
type GenesisState struct {
	Balances []GenesisBalance `json:"balances,omitempty"`
	Accounts []GenesisAccount `json:"accounts,omitempty"`
}

type GenesisBalance struct {
	Addr   string `json:"addr"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type GenesisAccount struct {
	Addr   string `json:"addr"`
	PubKey []byte `json:"pubKey"`
}
