package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Level is a single price level of an order book.
type Level struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// Board is one order book message. Snapshot channels carry the full book,
// incremental channels carry only changed levels (a zero Size removes a level).
type Board struct {
	MidPrice decimal.Decimal
	Bids     []Level
	Asks     []Level
}

// Ticker is one ticker update.
type Ticker struct {
	ProductCode     string
	Timestamp       time.Time
	TickID          int64
	BestBid         decimal.Decimal
	BestAsk         decimal.Decimal
	BestBidSize     decimal.Decimal
	BestAskSize     decimal.Decimal
	TotalBidDepth   decimal.Decimal
	TotalAskDepth   decimal.Decimal
	LTP             decimal.Decimal // Last traded price
	Volume          decimal.Decimal
	VolumeByProduct decimal.Decimal
}

// Spread returns BestAsk - BestBid.
func (t Ticker) Spread() decimal.Decimal {
	return t.BestAsk.Sub(t.BestBid)
}

// Side is the taker side of an execution.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	// SideNone is reported for executions matched during an itayose auction.
	SideNone Side = ""
)

// Valid reports whether s is one of the sides the venue sends.
func (s Side) Valid() bool {
	switch s {
	case SideBuy, SideSell, SideNone:
		return true
	default:
		return false
	}
}

// Execution is one matched trade.
type Execution struct {
	ID                         int64
	Side                       Side
	Price                      decimal.Decimal
	Size                       decimal.Decimal
	ExecDate                   time.Time
	BuyChildOrderAcceptanceID  string
	SellChildOrderAcceptanceID string
}
