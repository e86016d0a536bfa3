package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/Chop-Kampfire/PythyBird/internal/codec"
	"github.com/Chop-Kampfire/PythyBird/internal/state"
	"github.com/Chop-Kampfire/PythyBird/internal/store"
	"github.com/Chop-Kampfire/PythyBird/internal/wager"
)

const (
	AppVersion uint64 = 1
)

type Options struct {
	// AllowMint enables the bank/mint faucet. Devnets only.
	AllowMint bool
	// CheckInvariants audits every vault and asset supply after each block
	// and halts the node on the first violation.
	CheckInvariants bool
	Logger          log.Logger
}

type WagerApp struct {
	*abci.BaseApplication

	db   *store.Store
	opts Options
	// base is the process logger; logger is its app-scoped child.
	base   log.Logger
	logger log.Logger

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

func New(db *store.Store, opts Options) (*WagerApp, error) {
	if db == nil {
		return nil, fmt.Errorf("app: nil store")
	}
	st, err := db.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	a := &WagerApp{
		BaseApplication: abci.NewBaseApplication(),
		db:              db,
		opts:            opts,
		base:            logger,
		logger:          logger.With("module", "app"),
		st:              st,
		lastHash:        st.AppHash(),
	}
	a.logger.Info("state loaded", "height", st.Height, "races", len(st.Races))
	return a, nil
}

func (a *WagerApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "PythyBird wager escrow (v1)",
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

// CheckTx validates structure, signature and nonce against committed state.
// Handler-level rules are left to FinalizeBlock.
func (a *WagerApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		err = ErrTxDecode.Wrap(err.Error())
	} else {
		err = a.checkAuth(a.st, env)
	}
	if err != nil {
		space, code, msg := errorsmod.ABCIInfo(err, false)
		return &abci.CheckTxResponse{Codespace: space, Code: code, Log: msg}, nil
	}
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *WagerApp) InitChain(_ context.Context, req *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := state.NewState()
	if len(req.AppStateBytes) != 0 {
		var gen codec.GenesisState
		if err := json.Unmarshal(req.AppStateBytes, &gen); err != nil {
			return nil, fmt.Errorf("decode genesis app_state: %w", err)
		}
		if err := applyGenesis(st, gen); err != nil {
			return nil, err
		}
	}
	a.st = st
	a.lastHash = st.AppHash()

	a.logger.Info("genesis applied", "chain_id", req.ChainId, "accounts", len(st.AccountKeys))
	return &abci.InitChainResponse{AppHash: a.lastHash}, nil
}

func applyGenesis(st *state.State, gen codec.GenesisState) error {
	for i, b := range gen.Balances {
		if wager.IsVaultAddress(b.Addr) {
			return fmt.Errorf("genesis balance %d: vault address %q", i, b.Addr)
		}
		if err := st.Mint(b.Addr, b.Asset, b.Amount); err != nil {
			return fmt.Errorf("genesis balance %d: %w", i, err)
		}
	}
	for i, acc := range gen.Accounts {
		if acc.Addr == "" || wager.IsVaultAddress(acc.Addr) {
			return fmt.Errorf("genesis account %d: invalid addr %q", i, acc.Addr)
		}
		if len(acc.PubKey) != 32 {
			return fmt.Errorf("genesis account %d: pubKey must be 32 bytes", i)
		}
		st.AccountKeys[acc.Addr] = append([]byte(nil), acc.PubKey...)
	}
	return nil
}

func (a *WagerApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height
	nowUnix := req.Time.Unix()

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		txResults = append(txResults, a.deliverTx(txBytes, nowUnix))
	}

	if a.opts.CheckInvariants {
		if err := wager.CheckInvariants(a.st); err != nil {
			a.logger.Error("invariant broken, halting", "height", req.Height, "err", err)
			return nil, err
		}
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *WagerApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A failed write must halt the node rather than diverge from the app hash.
	if err := a.db.Save(a.st); err != nil {
		return nil, fmt.Errorf("commit height %d: %w", a.st.Height, err)
	}
	return &abci.CommitResponse{}, nil
}
