package router

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rickgao/lightstream/internal/model"
)

func malformed(kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedPayload, kind, fmt.Sprintf(format, args...))
}

func missing(kind, field string) error {
	return malformed(kind, "missing field %q", field)
}

// DecodeBoard decodes a board or board snapshot payload.
func DecodeBoard(payload json.RawMessage) (model.Board, error) {
	const kind = "board"

	if !isObject(payload) {
		return model.Board{}, malformed(kind, "payload is not an object")
	}
	var wire boardWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return model.Board{}, malformed(kind, "%v", err)
	}

	switch {
	case wire.MidPrice == nil:
		return model.Board{}, missing(kind, "mid_price")
	case wire.Bids == nil:
		return model.Board{}, missing(kind, "bids")
	case wire.Asks == nil:
		return model.Board{}, missing(kind, "asks")
	}

	bids, err := convertLevels(kind, "bids", *wire.Bids)
	if err != nil {
		return model.Board{}, err
	}
	asks, err := convertLevels(kind, "asks", *wire.Asks)
	if err != nil {
		return model.Board{}, err
	}

	return model.Board{
		MidPrice: *wire.MidPrice,
		Bids:     bids,
		Asks:     asks,
	}, nil
}

// convertLevels keeps the venue's level order.
func convertLevels(kind, side string, levels []levelWire) ([]model.Level, error) {
	result := make([]model.Level, 0, len(levels))
	for i, level := range levels {
		if level.Price == nil {
			return nil, missing(kind, fmt.Sprintf("%s[%d].price", side, i))
		}
		if level.Size == nil {
			return nil, missing(kind, fmt.Sprintf("%s[%d].size", side, i))
		}
		result = append(result, model.Level{
			Price: *level.Price,
			Size:  *level.Size,
		})
	}
	return result, nil
}

// DecodeTicker decodes a ticker payload. Every field is required.
func DecodeTicker(payload json.RawMessage) (model.Ticker, error) {
	const kind = "ticker"

	if !isObject(payload) {
		return model.Ticker{}, malformed(kind, "payload is not an object")
	}
	var wire tickerWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return model.Ticker{}, malformed(kind, "%v", err)
	}

	switch {
	case wire.ProductCode == nil:
		return model.Ticker{}, missing(kind, "product_code")
	case wire.Timestamp == nil:
		return model.Ticker{}, missing(kind, "timestamp")
	case wire.TickID == nil:
		return model.Ticker{}, missing(kind, "tick_id")
	case wire.BestBid == nil:
		return model.Ticker{}, missing(kind, "best_bid")
	case wire.BestAsk == nil:
		return model.Ticker{}, missing(kind, "best_ask")
	case wire.BestBidSize == nil:
		return model.Ticker{}, missing(kind, "best_bid_size")
	case wire.BestAskSize == nil:
		return model.Ticker{}, missing(kind, "best_ask_size")
	case wire.TotalBidDepth == nil:
		return model.Ticker{}, missing(kind, "total_bid_depth")
	case wire.TotalAskDepth == nil:
		return model.Ticker{}, missing(kind, "total_ask_depth")
	case wire.LTP == nil:
		return model.Ticker{}, missing(kind, "ltp")
	case wire.Volume == nil:
		return model.Ticker{}, missing(kind, "volume")
	case wire.VolumeByProduct == nil:
		return model.Ticker{}, missing(kind, "volume_by_product")
	}

	return model.Ticker{
		ProductCode:     *wire.ProductCode,
		Timestamp:       time.Time(*wire.Timestamp),
		TickID:          *wire.TickID,
		BestBid:         *wire.BestBid,
		BestAsk:         *wire.BestAsk,
		BestBidSize:     *wire.BestBidSize,
		BestAskSize:     *wire.BestAskSize,
		TotalBidDepth:   *wire.TotalBidDepth,
		TotalAskDepth:   *wire.TotalAskDepth,
		LTP:             *wire.LTP,
		Volume:          *wire.Volume,
		VolumeByProduct: *wire.VolumeByProduct,
	}, nil
}

// DecodeExecutions decodes an execution batch. The result preserves input order.
func DecodeExecutions(payload json.RawMessage) ([]model.Execution, error) {
	const kind = "executions"

	if !isArray(payload) {
		return nil, malformed(kind, "payload is not an array")
	}
	var wires []executionWire
	if err := json.Unmarshal(payload, &wires); err != nil {
		return nil, malformed(kind, "%v", err)
	}

	result := make([]model.Execution, 0, len(wires))
	for i, w := range wires {
		exec, err := convertExecution(kind, i, w)
		if err != nil {
			return nil, err
		}
		result = append(result, exec)
	}
	return result, nil
}

func convertExecution(kind string, i int, w executionWire) (model.Execution, error) {
	field := func(name string) string { return fmt.Sprintf("[%d].%s", i, name) }

	switch {
	case w.ID == nil:
		return model.Execution{}, missing(kind, field("id"))
	case w.Side == nil:
		return model.Execution{}, missing(kind, field("side"))
	case w.Price == nil:
		return model.Execution{}, missing(kind, field("price"))
	case w.Size == nil:
		return model.Execution{}, missing(kind, field("size"))
	case w.ExecDate == nil:
		return model.Execution{}, missing(kind, field("exec_date"))
	case w.BuyChildOrderAcceptanceID == nil:
		return model.Execution{}, missing(kind, field("buy_child_order_acceptance_id"))
	case w.SellChildOrderAcceptanceID == nil:
		return model.Execution{}, missing(kind, field("sell_child_order_acceptance_id"))
	}

	side := model.Side(*w.Side)
	if !side.Valid() {
		return model.Execution{}, malformed(kind, "%s: unknown side %q", field("side"), *w.Side)
	}

	return model.Execution{
		ID:                         *w.ID,
		Side:                       side,
		Price:                      *w.Price,
		Size:                       *w.Size,
		ExecDate:                   time.Time(*w.ExecDate),
		BuyChildOrderAcceptanceID:  *w.BuyChildOrderAcceptanceID,
		SellChildOrderAcceptanceID: *w.SellChildOrderAcceptanceID,
	}, nil
}
