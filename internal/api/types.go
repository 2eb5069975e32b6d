package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/lightstream/internal/model"
)

// Timestamp is a venue timestamp string (ISO 8601, zone suffix optional).
type Timestamp string

// Time parses the timestamp. Zone-less values are UTC.
func (t Timestamp) Time() (time.Time, error) {
	return model.ParseTimestamp(string(t))
}

// Market from GET /v1/getmarkets
type Market struct {
	ProductCode string `json:"product_code"`
	MarketType  string `json:"market_type"` // Spot, FX or Futures
	Alias       string `json:"alias,omitempty"`
}

// Level is a price level from GET /v1/getboard
type Level struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Board from GET /v1/getboard
type Board struct {
	MidPrice decimal.Decimal `json:"mid_price"`
	Bids     []Level         `json:"bids"`
	Asks     []Level         `json:"asks"`
}

// Model converts the response to the shape delivered by the realtime stream.
func (b *Board) Model() model.Board {
	convert := func(levels []Level) []model.Level {
		out := make([]model.Level, len(levels))
		for i, l := range levels {
			out[i] = model.Level{Price: l.Price, Size: l.Size}
		}
		return out
	}
	return model.Board{MidPrice: b.MidPrice, Bids: convert(b.Bids), Asks: convert(b.Asks)}
}

// Ticker from GET /v1/getticker
type Ticker struct {
	ProductCode     string          `json:"product_code"`
	State           string          `json:"state"`
	Timestamp       Timestamp       `json:"timestamp"`
	TickID          int64           `json:"tick_id"`
	BestBid         decimal.Decimal `json:"best_bid"`
	BestAsk         decimal.Decimal `json:"best_ask"`
	BestBidSize     decimal.Decimal `json:"best_bid_size"`
	BestAskSize     decimal.Decimal `json:"best_ask_size"`
	TotalBidDepth   decimal.Decimal `json:"total_bid_depth"`
	TotalAskDepth   decimal.Decimal `json:"total_ask_depth"`
	MarketBidSize   decimal.Decimal `json:"market_bid_size"`
	MarketAskSize   decimal.Decimal `json:"market_ask_size"`
	LTP             decimal.Decimal `json:"ltp"`
	Volume          decimal.Decimal `json:"volume"`
	VolumeByProduct decimal.Decimal `json:"volume_by_product"`
}

// Execution from GET /v1/getexecutions
type Execution struct {
	ID                         int64           `json:"id"`
	Side                       model.Side      `json:"side"`
	Price                      decimal.Decimal `json:"price"`
	Size                       decimal.Decimal `json:"size"`
	ExecDate                   Timestamp       `json:"exec_date"`
	BuyChildOrderAcceptanceID  string          `json:"buy_child_order_acceptance_id"`
	SellChildOrderAcceptanceID string          `json:"sell_child_order_acceptance_id"`
}

// ExecutionsOptions filters GET /v1/getexecutions. Zero values are omitted.
type ExecutionsOptions struct {
	Count  int
	Before int64 // Executions with ID below Before
	After  int64 // Executions with ID above After
}

// BoardState from GET /v1/getboardstate
type BoardState struct {
	Health string          `json:"health"` // NORMAL, BUSY, VERY BUSY, SUPER BUSY, NO ORDER, STOP
	State  string          `json:"state"`  // RUNNING, CLOSED, STARTING, PREOPEN, CIRCUIT BREAK, ...
	Data   *BoardStateData `json:"data,omitempty"`
}

// BoardStateData is set while a special quotation (SQ) is published.
type BoardStateData struct {
	SpecialQuotation decimal.Decimal `json:"special_quotation"`
}

// Health from GET /v1/gethealth
type Health struct {
	Status string `json:"status"`
}

// Permissions from GET /v1/me/getpermissions
type Permissions []string

// Balance from GET /v1/me/getbalance
type Balance struct {
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
	Available    decimal.Decimal `json:"available"`
}

// Collateral from GET /v1/me/getcollateral
type Collateral struct {
	Collateral        decimal.Decimal `json:"collateral"`
	OpenPositionPnl   decimal.Decimal `json:"open_position_pnl"`
	RequireCollateral decimal.Decimal `json:"require_collateral"`
	KeepRate          decimal.Decimal `json:"keep_rate"`
}

// Position from GET /v1/me/getpositions
type Position struct {
	ProductCode         string          `json:"product_code"`
	Side                model.Side      `json:"side"`
	Price               decimal.Decimal `json:"price"`
	Size                decimal.Decimal `json:"size"`
	Commission          decimal.Decimal `json:"commission"`
	SwapPointAccumulate decimal.Decimal `json:"swap_point_accumulate"`
	RequireCollateral   decimal.Decimal `json:"require_collateral"`
	OpenDate            Timestamp       `json:"open_date"`
	Leverage            decimal.Decimal `json:"leverage"`
	Pnl                 decimal.Decimal `json:"pnl"`
	Sfd                 decimal.Decimal `json:"sfd"`
}

// ChildOrder from GET /v1/me/getchildorders
type ChildOrder struct {
	ID                     int64           `json:"id"`
	ChildOrderID           string          `json:"child_order_id"`
	ProductCode            string          `json:"product_code"`
	Side                   model.Side      `json:"side"`
	ChildOrderType         string          `json:"child_order_type"`
	Price                  decimal.Decimal `json:"price"`
	AveragePrice           decimal.Decimal `json:"average_price"`
	Size                   decimal.Decimal `json:"size"`
	ChildOrderState        string          `json:"child_order_state"`
	ExpireDate             Timestamp       `json:"expire_date"`
	ChildOrderDate         Timestamp       `json:"child_order_date"`
	ChildOrderAcceptanceID string          `json:"child_order_acceptance_id"`
	OutstandingSize        decimal.Decimal `json:"outstanding_size"`
	CancelSize             decimal.Decimal `json:"cancel_size"`
	ExecutedSize           decimal.Decimal `json:"executed_size"`
	TotalCommission        decimal.Decimal `json:"total_commission"`
}

// ChildOrdersOptions filters GET /v1/me/getchildorders. ProductCode is required.
type ChildOrdersOptions struct {
	ProductCode            string
	Count                  int
	Before                 int64
	After                  int64
	ChildOrderState        string // ACTIVE, COMPLETED, CANCELED, EXPIRED, REJECTED
	ChildOrderID           string
	ChildOrderAcceptanceID string
	ParentOrderID          string
}

// Order types.
const (
	OrderTypeLimit  = "LIMIT"
	OrderTypeMarket = "MARKET"
)

// ChildOrderRequest is the body of POST /v1/me/sendchildorder.
// Price is ignored for market orders.
type ChildOrderRequest struct {
	ProductCode    string
	ChildOrderType string
	Side           model.Side
	Price          decimal.Decimal
	Size           decimal.Decimal
	MinuteToExpire int
	TimeInForce    string // GTC, IOC or FOK
}

// MarshalJSON encodes prices and sizes as JSON numbers.
func (r ChildOrderRequest) MarshalJSON() ([]byte, error) {
	wire := struct {
		ProductCode    string       `json:"product_code"`
		ChildOrderType string       `json:"child_order_type"`
		Side           model.Side   `json:"side"`
		Price          *json.Number `json:"price,omitempty"`
		Size           json.Number  `json:"size"`
		MinuteToExpire int          `json:"minute_to_expire,omitempty"`
		TimeInForce    string       `json:"time_in_force,omitempty"`
	}{
		ProductCode:    r.ProductCode,
		ChildOrderType: r.ChildOrderType,
		Side:           r.Side,
		Size:           json.Number(r.Size.String()),
		MinuteToExpire: r.MinuteToExpire,
		TimeInForce:    r.TimeInForce,
	}
	if r.ChildOrderType != OrderTypeMarket {
		price := json.Number(r.Price.String())
		wire.Price = &price
	}
	return json.Marshal(wire)
}

// ChildOrderResponse from POST /v1/me/sendchildorder
type ChildOrderResponse struct {
	ChildOrderAcceptanceID string `json:"child_order_acceptance_id"`
}

// CancelChildOrderRequest is the body of POST /v1/me/cancelchildorder.
// Set exactly one of ChildOrderID and ChildOrderAcceptanceID.
type CancelChildOrderRequest struct {
	ProductCode            string `json:"product_code"`
	ChildOrderID           string `json:"child_order_id,omitempty"`
	ChildOrderAcceptanceID string `json:"child_order_acceptance_id,omitempty"`
}

// errorBody is the JSON error payload returned with 4xx/5xx responses.
type errorBody struct {
	Status       int    `json:"status"`
	ErrorMessage string `json:"error_message"`
}
