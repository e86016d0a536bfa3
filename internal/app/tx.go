package app

import (
	"encoding/json"
	"fmt"
	"sort"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/Chop-Kampfire/PythyBird/internal/codec"
	"github.com/Chop-Kampfire/PythyBird/internal/state"
	"github.com/Chop-Kampfire/PythyBird/internal/wager"
)

// decodeMsg decodes env.Value into the message for env.Type and returns the
// account that must have signed it ("" for the unsigned faucet).
func decodeMsg(env codec.TxEnvelope) (any, string, error) {
	var (
		msg   any
		actor func() string
	)
	switch env.Type {
	case codec.TypeBankMint:
		m := &codec.BankMintTx{}
		msg, actor = m, func() string { return "" }
	case codec.TypeBankSend:
		m := &codec.BankSendTx{}
		msg, actor = m, func() string { return m.From }
	case codec.TypeAuthRegisterAccount:
		m := &codec.AuthRegisterAccountTx{}
		msg, actor = m, func() string { return m.Account }
	case codec.TypeWagerCreateRace:
		m := &codec.WagerCreateRaceTx{}
		msg, actor = m, func() string { return m.Host }
	case codec.TypeWagerDeposit:
		m := &codec.WagerDepositTx{}
		msg, actor = m, func() string { return m.Player }
	case codec.TypeWagerStartRace:
		m := &codec.WagerStartRaceTx{}
		msg, actor = m, func() string { return m.Host }
	case codec.TypeWagerDeclareWinner:
		m := &codec.WagerDeclareWinnerTx{}
		msg, actor = m, func() string { return m.Host }
	case codec.TypeWagerCancelRace:
		m := &codec.WagerCancelRaceTx{}
		msg, actor = m, func() string { return m.Host }
	case codec.TypeWagerClaimRefund:
		m := &codec.WagerClaimRefundTx{}
		msg, actor = m, func() string { return m.Player }
	default:
		return nil, "", ErrUnknownTx.Wrapf("%q", env.Type)
	}
	if err := json.Unmarshal(env.Value, msg); err != nil {
		return nil, "", ErrTxDecode.Wrapf("bad %s value: %v", env.Type, err)
	}
	return msg, actor(), nil
}

// authorize checks who may send msg. The nonce is only validated here; the
// caller decides whether to consume it.
func (a *WagerApp) authorize(st *state.State, env codec.TxEnvelope, msg any, actor string) error {
	switch m := msg.(type) {
	case *codec.BankMintTx:
		if !a.opts.AllowMint {
			return ErrMintDisabled
		}
		return nil
	case *codec.AuthRegisterAccountTx:
		if err := requireRegisterAccountAuth(st, env, *m); err != nil {
			return err
		}
	default:
		if err := requireAccountAuth(st, env, actor); err != nil {
			return err
		}
	}
	_, err := checkNonce(st, env)
	return err
}

func (a *WagerApp) checkAuth(st *state.State, env codec.TxEnvelope) error {
	msg, actor, err := decodeMsg(env)
	if err != nil {
		return err
	}
	return a.authorize(st, env, msg, actor)
}

// deliverTx runs one tx against a staged copy of the state. The copy replaces
// the live state only if the tx succeeds, so a failed tx leaves no effects
// (not even a consumed nonce).
func (a *WagerApp) deliverTx(txBytes []byte, nowUnix int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return errResult(ErrTxDecode.Wrap(err.Error()))
	}

	staged, err := a.st.Clone()
	if err != nil {
		a.logger.Error("clone state", "err", err)
		return errResult(fmt.Errorf("clone state: %w", err))
	}

	res, err := a.execTx(staged, env, nowUnix)
	if err != nil {
		a.logger.Debug("tx rejected", "type", env.Type, "signer", env.Signer, "err", err)
		return errResult(err)
	}
	a.st = staged
	return res
}

func (a *WagerApp) execTx(st *state.State, env codec.TxEnvelope, nowUnix int64) (*abci.ExecTxResult, error) {
	msg, actor, err := decodeMsg(env)
	if err != nil {
		return nil, err
	}
	if err := a.authorize(st, env, msg, actor); err != nil {
		return nil, err
	}
	if actor != "" {
		if err := consumeNonce(st, env); err != nil {
			return nil, err
		}
	}

	k := wager.NewKeeper(st, st, a.base)

	switch m := msg.(type) {
	case *codec.BankMintTx:
		if wager.IsVaultAddress(m.To) {
			return nil, ErrInvalidTx.Wrap("cannot mint into a vault")
		}
		if err := st.Mint(m.To, m.Asset, m.Amount); err != nil {
			return nil, err
		}
		return okEvent("BankMinted", map[string]string{
			"to":     m.To,
			"asset":  m.Asset,
			"amount": fmt.Sprintf("%d", m.Amount),
		}), nil

	case *codec.BankSendTx:
		if wager.IsVaultAddress(m.To) {
			return nil, ErrInvalidTx.Wrap("vaults only accept wager deposits")
		}
		if err := st.Transfer(m.From, m.To, m.Asset, m.Amount); err != nil {
			return nil, err
		}
		return okEvent("BankSent", map[string]string{
			"from":   m.From,
			"to":     m.To,
			"asset":  m.Asset,
			"amount": fmt.Sprintf("%d", m.Amount),
		}), nil

	case *codec.AuthRegisterAccountTx:
		st.AccountKeys[m.Account] = append([]byte(nil), m.PubKey...)
		return okEvent("AccountRegistered", map[string]string{
			"account": m.Account,
		}), nil

	case *codec.WagerCreateRaceTx:
		return k.CreateRace(*m, nowUnix)
	case *codec.WagerDepositTx:
		return k.DepositWager(*m)
	case *codec.WagerStartRaceTx:
		return k.StartRace(*m)
	case *codec.WagerDeclareWinnerTx:
		return k.DeclareWinner(*m)
	case *codec.WagerCancelRaceTx:
		return k.CancelRace(*m)
	case *codec.WagerClaimRefundTx:
		return k.ClaimRefund(*m)
	default:
		return nil, ErrUnknownTx.Wrapf("%q", env.Type)
	}
}

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ev := abci.Event{Type: typ}
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return &abci.ExecTxResult{Code: 0, Events: []abci.Event{ev}}
}
