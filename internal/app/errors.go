package app

import (
	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"
)

// AppCodespace scopes errors raised before a tx reaches a module.
const AppCodespace = "app"

var (
	ErrTxDecode     = errorsmod.Register(AppCodespace, 2, "tx parse error")
	ErrUnauthorized = errorsmod.Register(AppCodespace, 3, "unauthorized")
	ErrInvalidNonce = errorsmod.Register(AppCodespace, 4, "invalid tx.nonce")
	ErrReplay       = errorsmod.Register(AppCodespace, 5, "replayed tx.nonce")
	ErrUnknownTx    = errorsmod.Register(AppCodespace, 6, "unknown tx type")
	ErrMintDisabled = errorsmod.Register(AppCodespace, 7, "minting is disabled")
	ErrInvalidTx    = errorsmod.Register(AppCodespace, 8, "invalid tx")
)

func errResult(err error) *abci.ExecTxResult {
	space, code, msg := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Codespace: space, Code: code, Log: msg}
}
