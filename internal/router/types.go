package router

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/lightstream/internal/model"
)

// Errors
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMalformedFrame   = errors.New("malformed frame")
	ErrHandlerPanic     = errors.New("handler panic")
)

// JSON-RPC method names.
const (
	MethodSubscribe      = "subscribe"
	MethodChannelMessage = "channelMessage"
)

// Notification is the channel and raw payload of a channelMessage frame.
type Notification struct {
	Channel string
	Message json.RawMessage
}

// Request is an outbound JSON-RPC control frame.
type Request struct {
	Method string        `json:"method"`
	Params RequestParams `json:"params"`
}

// RequestParams are the parameters of a subscribe request.
type RequestParams struct {
	Channel string `json:"channel"`
}

// SubscribeFrame returns the encoded subscribe request for channel.
func SubscribeFrame(channel string) ([]byte, error) {
	return json.Marshal(Request{Method: MethodSubscribe, Params: RequestParams{Channel: channel}})
}

// Wire types for JSON parsing. Required fields are pointers so that an
// absent or null field can be told apart from a zero value.

// frameEnvelope is used for method extraction.
type frameEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type notificationParams struct {
	Channel *string         `json:"channel"`
	Message json.RawMessage `json:"message"`
}

type levelWire struct {
	Price *decimal.Decimal `json:"price"`
	Size  *decimal.Decimal `json:"size"`
}

type boardWire struct {
	MidPrice *decimal.Decimal `json:"mid_price"`
	Bids     *[]levelWire     `json:"bids"`
	Asks     *[]levelWire     `json:"asks"`
}

type tickerWire struct {
	ProductCode     *string          `json:"product_code"`
	Timestamp       *wireTime        `json:"timestamp"`
	TickID          *int64           `json:"tick_id"`
	BestBid         *decimal.Decimal `json:"best_bid"`
	BestAsk         *decimal.Decimal `json:"best_ask"`
	BestBidSize     *decimal.Decimal `json:"best_bid_size"`
	BestAskSize     *decimal.Decimal `json:"best_ask_size"`
	TotalBidDepth   *decimal.Decimal `json:"total_bid_depth"`
	TotalAskDepth   *decimal.Decimal `json:"total_ask_depth"`
	LTP             *decimal.Decimal `json:"ltp"`
	Volume          *decimal.Decimal `json:"volume"`
	VolumeByProduct *decimal.Decimal `json:"volume_by_product"`
}

type executionWire struct {
	ID                         *int64           `json:"id"`
	Side                       *string          `json:"side"`
	Price                      *decimal.Decimal `json:"price"`
	Size                       *decimal.Decimal `json:"size"`
	ExecDate                   *wireTime        `json:"exec_date"`
	BuyChildOrderAcceptanceID  *string          `json:"buy_child_order_acceptance_id"`
	SellChildOrderAcceptanceID *string          `json:"sell_child_order_acceptance_id"`
}

// wireTime unmarshals a venue timestamp string.
type wireTime time.Time

func (w *wireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := model.ParseTimestamp(s)
	if err != nil {
		return err
	}
	*w = wireTime(t)
	return nil
}
