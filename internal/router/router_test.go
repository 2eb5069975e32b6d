package router

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/lightstream/internal/model"
	"github.com/shopspring/decimal"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantOK      bool
		wantErr     bool
		wantChannel string
	}{
		{
			name:        "channel message",
			data:        `{"jsonrpc":"2.0","method":"channelMessage","params":{"channel":"lightning_ticker_BTC_JPY","message":{"ltp":1}}}`,
			wantOK:      true,
			wantChannel: "lightning_ticker_BTC_JPY",
		},
		{
			name:   "subscribe response",
			data:   `{"jsonrpc":"2.0","id":1,"result":true}`,
			wantOK: false,
		},
		{
			name:   "other method",
			data:   `{"jsonrpc":"2.0","method":"auth","params":{}}`,
			wantOK: false,
		},
		{
			name:    "not json",
			data:    `hello`,
			wantErr: true,
		},
		{
			name:    "array frame",
			data:    `[1,2,3]`,
			wantErr: true,
		},
		{
			name:    "missing channel",
			data:    `{"method":"channelMessage","params":{"message":{}}}`,
			wantErr: true,
		},
		{
			name:    "missing params",
			data:    `{"method":"channelMessage"}`,
			wantErr: true,
		},
		{
			name:    "params not object",
			data:    `{"method":"channelMessage","params":"x"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok, err := ParseFrame([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrame error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedFrame) {
				t.Errorf("error = %v, want ErrMalformedFrame", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ParseFrame ok = %v, want %v", ok, tt.wantOK)
			}
			if n.Channel != tt.wantChannel {
				t.Errorf("Channel = %q, want %q", n.Channel, tt.wantChannel)
			}
		})
	}
}

func TestParseFrame_KeepsRawMessage(t *testing.T) {
	data := `{"method":"channelMessage","params":{"channel":"c","message":[{"id":1}]}}`
	n, ok, err := ParseFrame([]byte(data))
	if err != nil || !ok {
		t.Fatalf("ParseFrame = (%v, %v)", ok, err)
	}
	if string(n.Message) != `[{"id":1}]` {
		t.Errorf("Message = %s, want [{\"id\":1}]", n.Message)
	}
}

func TestSubscribeFrame(t *testing.T) {
	data, err := SubscribeFrame("lightning_board_snapshot_BTC_JPY")
	if err != nil {
		t.Fatalf("SubscribeFrame failed: %v", err)
	}
	want := `{"method":"subscribe","params":{"channel":"lightning_board_snapshot_BTC_JPY"}}`
	if string(data) != want {
		t.Errorf("SubscribeFrame = %s, want %s", data, want)
	}
}

func TestDecodeBoard(t *testing.T) {
	payload := json.RawMessage(`{
		"mid_price": 4000500,
		"bids": [{"price": 4000000, "size": 0.5}, {"price": 3999000, "size": 1.25}],
		"asks": [{"price": 4001000, "size": 0.01}]
	}`)

	board, err := DecodeBoard(payload)
	if err != nil {
		t.Fatalf("DecodeBoard failed: %v", err)
	}

	if !board.MidPrice.Equal(decimal.NewFromInt(4000500)) {
		t.Errorf("MidPrice = %s, want 4000500", board.MidPrice)
	}
	if len(board.Bids) != 2 || len(board.Asks) != 1 {
		t.Fatalf("levels = %d bids / %d asks, want 2 / 1", len(board.Bids), len(board.Asks))
	}
	if !board.Bids[0].Price.Equal(decimal.NewFromInt(4000000)) {
		t.Errorf("Bids[0].Price = %s, want 4000000", board.Bids[0].Price)
	}
	if !board.Bids[1].Size.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("Bids[1].Size = %s, want 1.25", board.Bids[1].Size)
	}
	if !board.Asks[0].Size.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("Asks[0].Size = %s, want 0.01", board.Asks[0].Size)
	}
}

func TestDecodeBoard_EmptySides(t *testing.T) {
	board, err := DecodeBoard(json.RawMessage(`{"mid_price":1,"bids":[],"asks":[]}`))
	if err != nil {
		t.Fatalf("DecodeBoard failed: %v", err)
	}
	if len(board.Bids) != 0 || len(board.Asks) != 0 {
		t.Errorf("expected empty sides, got %d/%d", len(board.Bids), len(board.Asks))
	}
}

func TestDecodeBoard_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"missing mid_price", `{"bids":[],"asks":[]}`, "mid_price"},
		{"null mid_price", `{"mid_price":null,"bids":[],"asks":[]}`, "mid_price"},
		{"missing bids", `{"mid_price":1,"asks":[]}`, "bids"},
		{"missing asks", `{"mid_price":1,"bids":[]}`, "asks"},
		{"level without size", `{"mid_price":1,"bids":[{"price":1}],"asks":[]}`, "bids[0].size"},
		{"level without price", `{"mid_price":1,"bids":[],"asks":[{"size":1}]}`, "asks[0].price"},
		{"bids not array", `{"mid_price":1,"bids":{},"asks":[]}`, ""},
		{"mid_price wrong type", `{"mid_price":{"v":1},"bids":[],"asks":[]}`, ""},
		{"array payload", `[]`, ""},
		{"null payload", `null`, ""},
		{"empty payload", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBoard(json.RawMessage(tt.payload))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("DecodeBoard error = %v, want ErrMalformedPayload", err)
			}
			if tt.field != "" && !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should mention %q", err, tt.field)
			}
		})
	}
}

const tickerPayload = `{
	"product_code": "BTC_JPY",
	"timestamp": "2019-04-11T05:14:12.3739915Z",
	"tick_id": 25965446,
	"best_bid": 580006,
	"best_ask": 580771,
	"best_bid_size": 2.00000013,
	"best_ask_size": 0.4,
	"total_bid_depth": 1581.64414981,
	"total_ask_depth": 1415.32079037,
	"ltp": 580790,
	"volume": 6625.13716952,
	"volume_by_product": 3107.41834691
}`

func TestDecodeTicker(t *testing.T) {
	tk, err := DecodeTicker(json.RawMessage(tickerPayload))
	if err != nil {
		t.Fatalf("DecodeTicker failed: %v", err)
	}

	if tk.ProductCode != "BTC_JPY" {
		t.Errorf("ProductCode = %s, want BTC_JPY", tk.ProductCode)
	}
	if tk.TickID != 25965446 {
		t.Errorf("TickID = %d, want 25965446", tk.TickID)
	}
	if !tk.LTP.Equal(decimal.NewFromInt(580790)) {
		t.Errorf("LTP = %s, want 580790", tk.LTP)
	}
	if !tk.BestBidSize.Equal(decimal.RequireFromString("2.00000013")) {
		t.Errorf("BestBidSize = %s, want 2.00000013", tk.BestBidSize)
	}
	if !tk.VolumeByProduct.Equal(decimal.RequireFromString("3107.41834691")) {
		t.Errorf("VolumeByProduct = %s, want 3107.41834691", tk.VolumeByProduct)
	}
	wantTS := time.Date(2019, 4, 11, 5, 14, 12, 373991500, time.UTC)
	if !tk.Timestamp.Equal(wantTS) {
		t.Errorf("Timestamp = %v, want %v", tk.Timestamp, wantTS)
	}
}

func TestDecodeTicker_ZonelessTimestamp(t *testing.T) {
	payload := strings.Replace(tickerPayload, "2019-04-11T05:14:12.3739915Z", "2015-07-08T02:50:59.97", 1)
	tk, err := DecodeTicker(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("DecodeTicker failed: %v", err)
	}
	want := time.Date(2015, 7, 8, 2, 50, 59, 970000000, time.UTC)
	if !tk.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", tk.Timestamp, want)
	}
}

func TestDecodeTicker_StringNumbers(t *testing.T) {
	payload := strings.Replace(tickerPayload, `"ltp": 580790`, `"ltp": "580790.5"`, 1)
	tk, err := DecodeTicker(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("DecodeTicker failed: %v", err)
	}
	if !tk.LTP.Equal(decimal.RequireFromString("580790.5")) {
		t.Errorf("LTP = %s, want 580790.5", tk.LTP)
	}
}

func TestDecodeTicker_MissingEachField(t *testing.T) {
	fields := []string{
		"product_code", "timestamp", "tick_id", "best_bid", "best_ask",
		"best_bid_size", "best_ask_size", "total_bid_depth", "total_ask_depth",
		"ltp", "volume", "volume_by_product",
	}

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			var m map[string]any
			if err := json.Unmarshal([]byte(tickerPayload), &m); err != nil {
				t.Fatal(err)
			}
			delete(m, field)
			data, _ := json.Marshal(m)

			_, err := DecodeTicker(data)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("DecodeTicker error = %v, want ErrMalformedPayload", err)
			}
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error %q should mention %q", err, field)
			}
		})
	}
}

func TestDecodeTicker_BadValues(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"bad timestamp", strings.Replace(tickerPayload, "2019-04-11T05:14:12.3739915Z", "yesterday", 1)},
		{"tick_id string", strings.Replace(tickerPayload, `"tick_id": 25965446`, `"tick_id": "abc"`, 1)},
		{"not object", `"BTC_JPY"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTicker(json.RawMessage(tt.payload)); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("DecodeTicker error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func executionJSON(id int64, side string) string {
	return `{"id":` + jsonInt(id) + `,"side":"` + side + `","price":580000,"size":0.01,` +
		`"exec_date":"2019-04-11T05:14:12.123Z",` +
		`"buy_child_order_acceptance_id":"JRF20190411-051412-000001",` +
		`"sell_child_order_acceptance_id":"JRF20190411-051412-000002"}`
}

func jsonInt(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func TestDecodeExecutions_PreservesOrder(t *testing.T) {
	payload := "[" + executionJSON(30, "BUY") + "," + executionJSON(10, "SELL") + "," + executionJSON(20, "") + "]"

	execs, err := DecodeExecutions(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("DecodeExecutions failed: %v", err)
	}
	if len(execs) != 3 {
		t.Fatalf("len = %d, want 3", len(execs))
	}

	wantIDs := []int64{30, 10, 20}
	wantSides := []model.Side{model.SideBuy, model.SideSell, model.SideNone}
	for i := range wantIDs {
		if execs[i].ID != wantIDs[i] {
			t.Errorf("execs[%d].ID = %d, want %d", i, execs[i].ID, wantIDs[i])
		}
		if execs[i].Side != wantSides[i] {
			t.Errorf("execs[%d].Side = %q, want %q", i, execs[i].Side, wantSides[i])
		}
	}
	if execs[0].BuyChildOrderAcceptanceID != "JRF20190411-051412-000001" {
		t.Errorf("BuyChildOrderAcceptanceID = %s", execs[0].BuyChildOrderAcceptanceID)
	}
	if execs[0].SellChildOrderAcceptanceID != "JRF20190411-051412-000002" {
		t.Errorf("SellChildOrderAcceptanceID = %s", execs[0].SellChildOrderAcceptanceID)
	}
	if !execs[0].Size.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("Size = %s, want 0.01", execs[0].Size)
	}
	if execs[0].ExecDate.Nanosecond() != 123000000 {
		t.Errorf("ExecDate = %v, want .123 fraction", execs[0].ExecDate)
	}
}

func TestDecodeExecutions_Empty(t *testing.T) {
	execs, err := DecodeExecutions(json.RawMessage(`[]`))
	if err != nil {
		t.Fatalf("DecodeExecutions failed: %v", err)
	}
	if len(execs) != 0 {
		t.Errorf("len = %d, want 0", len(execs))
	}
}

func TestDecodeExecutions_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"object payload", executionJSON(1, "BUY")},
		{"null payload", `null`},
		{"missing id", `[{"side":"BUY","price":1,"size":1,"exec_date":"2019-04-11T05:14:12Z","buy_child_order_acceptance_id":"a","sell_child_order_acceptance_id":"b"}]`},
		{"missing sell id", `[{"id":1,"side":"BUY","price":1,"size":1,"exec_date":"2019-04-11T05:14:12Z","buy_child_order_acceptance_id":"a"}]`},
		{"unknown side", "[" + executionJSON(1, "HOLD") + "]"},
		{"second entry bad", "[" + executionJSON(1, "BUY") + `,{"id":2}]`},
		{"entry not object", `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeExecutions(json.RawMessage(tt.payload)); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("DecodeExecutions error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestDispatcher_Invoke(t *testing.T) {
	d := NewDispatcher(nil)

	t.Run("nil handler is a no-op", func(t *testing.T) {
		if !d.Invoke("message", nil) {
			t.Error("Invoke(nil) should report success")
		}
	})

	t.Run("success", func(t *testing.T) {
		called := false
		ok := d.Invoke("ticker", func() error {
			called = true
			return nil
		})
		if !ok || !called {
			t.Errorf("Invoke = %v, called = %v", ok, called)
		}
	})

	t.Run("error is swallowed", func(t *testing.T) {
		ok := d.Invoke("board", func() error { return errors.New("boom") })
		if ok {
			t.Error("Invoke should report failure")
		}
	})

	t.Run("panic is recovered", func(t *testing.T) {
		ok := d.Invoke("executions", func() error { panic("handler exploded") })
		if ok {
			t.Error("Invoke should report failure after panic")
		}
	})

	t.Run("later invocations still run", func(t *testing.T) {
		d.Invoke("message", func() error { panic("first") })
		called := false
		d.Invoke("ticker", func() error {
			called = true
			return nil
		})
		if !called {
			t.Error("second handler was not invoked")
		}
	})
}
