package state

import errorsmod "cosmossdk.io/errors"

// BankCodespace scopes the in-state bank errors.
const BankCodespace = "bank"

var (
	ErrInsufficientFunds = errorsmod.Register(BankCodespace, 1, "insufficient funds")
	ErrBalanceOverflow   = errorsmod.Register(BankCodespace, 2, "balance overflow")
	ErrInvalidAmount     = errorsmod.Register(BankCodespace, 3, "invalid amount")
)
