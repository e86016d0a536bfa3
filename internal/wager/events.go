package wager

import (
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
)

const (
	EventTypeRaceCreated    = "RaceCreated"
	EventTypeWagerDeposited = "WagerDeposited"
	EventTypeRaceStarted    = "RaceStarted"
	EventTypeWinnerPaid     = "WinnerPaid"
	EventTypeRaceCancelled  = "RaceCancelled"
	EventTypeRefundClaimed  = "RefundClaimed"
)

func u64(v uint64) string { return fmt.Sprintf("%d", v) }

func newEvent(typ string, attrs ...abci.EventAttribute) abci.Event {
	return abci.Event{Type: typ, Attributes: attrs}
}

func indexed(key, value string) abci.EventAttribute {
	return abci.EventAttribute{Key: key, Value: value, Index: true}
}

func plain(key, value string) abci.EventAttribute {
	return abci.EventAttribute{Key: key, Value: value, Index: false}
}

func okResult(data []byte, events ...abci.Event) *abci.ExecTxResult {
	return &abci.ExecTxResult{Code: 0, Data: data, Events: events}
}
