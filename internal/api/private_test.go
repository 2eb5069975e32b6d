package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rickgao/lightstream/internal/auth"
	"github.com/rickgao/lightstream/internal/model"
)

// signedServer checks every request's ACCESS-SIGN against the test secret.
func signedServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body []byte)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		target := r.URL.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		mac := hmac.New(sha256.New, []byte("test-secret"))
		mac.Write([]byte(r.Header.Get(auth.HeaderTimestamp) + r.Method + target + string(body)))
		if want := hex.EncodeToString(mac.Sum(nil)); r.Header.Get(auth.HeaderSign) != want {
			t.Errorf("%s %s: signature mismatch", r.Method, target)
		}
		if r.Header.Get(auth.HeaderKey) != "test-key" {
			t.Errorf("%s = %q", auth.HeaderKey, r.Header.Get(auth.HeaderKey))
		}
		handler(w, r, body)
	}))
}

func TestPrivateEndpointsRequireCredentials(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)

	if _, err := c.GetBalance(context.Background()); !errors.Is(err, auth.ErrNoCredentials) {
		t.Errorf("GetBalance error = %v, want ErrNoCredentials", err)
	}
	_, err := c.SendChildOrder(context.Background(), ChildOrderRequest{
		ProductCode: "BTC_JPY", ChildOrderType: OrderTypeMarket, Side: model.SideBuy, Size: decimal.RequireFromString("0.01"),
	})
	if !errors.Is(err, auth.ErrNoCredentials) {
		t.Errorf("SendChildOrder error = %v, want ErrNoCredentials", err)
	}
}

func TestAccountEndpoints(t *testing.T) {
	server := signedServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		switch r.URL.Path {
		case "/v1/me/getpermissions":
			w.Write([]byte(`["/v1/me/getpermissions","/v1/me/getbalance"]`))
		case "/v1/me/getbalance":
			w.Write([]byte(`[{"currency_code":"JPY","amount":1024078,"available":508000},{"currency_code":"BTC","amount":10.24,"available":4.12}]`))
		case "/v1/me/getcollateral":
			w.Write([]byte(`{"collateral":100000,"open_position_pnl":-715,"require_collateral":19857,"keep_rate":5.000}`))
		case "/v1/me/getpositions":
			if r.URL.Query().Get("product_code") != "FX_BTC_JPY" {
				t.Errorf("product_code = %q", r.URL.Query().Get("product_code"))
			}
			w.Write([]byte(`[{"product_code":"FX_BTC_JPY","side":"BUY","price":36640,"size":5,"commission":0,` +
				`"swap_point_accumulate":-35,"require_collateral":120000,"open_date":"2015-11-03T10:04:45.011",` +
				`"leverage":3,"pnl":965,"sfd":-0.5}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	c := NewClient(server.URL, testCredentials(t))
	ctx := context.Background()

	perms, err := c.GetPermissions(ctx)
	if err != nil || len(perms) != 2 {
		t.Fatalf("GetPermissions = %v, %v", perms, err)
	}

	balances, err := c.GetBalance(ctx)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if len(balances) != 2 || !balances[1].Amount.Equal(decimal.RequireFromString("10.24")) {
		t.Errorf("balances = %+v", balances)
	}

	coll, err := c.GetCollateral(ctx)
	if err != nil {
		t.Fatalf("GetCollateral: %v", err)
	}
	if !coll.OpenPositionPnl.Equal(decimal.NewFromInt(-715)) {
		t.Errorf("open_position_pnl = %s", coll.OpenPositionPnl)
	}

	positions, err := c.GetPositions(ctx, "FX_BTC_JPY")
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if len(positions) != 1 || positions[0].Side != model.SideBuy || !positions[0].Sfd.Equal(decimal.RequireFromString("-0.5")) {
		t.Errorf("positions = %+v", positions)
	}
}

func TestGetChildOrders(t *testing.T) {
	server := signedServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		q := r.URL.Query()
		if q.Get("product_code") != "BTC_JPY" || q.Get("child_order_state") != "ACTIVE" || q.Get("count") != "10" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`[{"id":138398,"child_order_id":"JOR20150707-084555-022523","product_code":"BTC_JPY","side":"BUY",` +
			`"child_order_type":"LIMIT","price":30000,"average_price":30000,"size":0.1,"child_order_state":"ACTIVE",` +
			`"expire_date":"2015-07-14T07:25:52","child_order_date":"2015-07-07T08:45:53",` +
			`"child_order_acceptance_id":"JRF20150707-084552-031927","outstanding_size":0.1,"cancel_size":0,` +
			`"executed_size":0,"total_commission":0}]`))
	})
	defer server.Close()

	c := NewClient(server.URL, testCredentials(t))

	if _, err := c.GetChildOrders(context.Background(), ChildOrdersOptions{}); err == nil {
		t.Error("expected error without product code")
	}

	orders, err := c.GetChildOrders(context.Background(), ChildOrdersOptions{
		ProductCode: "BTC_JPY", ChildOrderState: "ACTIVE", Count: 10,
	})
	if err != nil {
		t.Fatalf("GetChildOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].ChildOrderAcceptanceID != "JRF20150707-084552-031927" {
		t.Errorf("orders = %+v", orders)
	}
}

func TestSendChildOrder(t *testing.T) {
	var attempts int32
	var got map[string]any
	server := signedServer(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		atomic.AddInt32(&attempts, 1)
		if r.Method != http.MethodPost || r.URL.Path != "/v1/me/sendchildorder" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		dec := json.NewDecoder(strings.NewReader(string(body)))
		dec.UseNumber()
		if err := dec.Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"child_order_acceptance_id":"JRF20150707-050237-639234"}`))
	})
	defer server.Close()

	c := NewClient(server.URL, testCredentials(t))
	resp, err := c.SendChildOrder(context.Background(), ChildOrderRequest{
		ProductCode:    "BTC_JPY",
		ChildOrderType: OrderTypeLimit,
		Side:           model.SideSell,
		Price:          decimal.RequireFromString("30000"),
		Size:           decimal.RequireFromString("0.1"),
		MinuteToExpire: 10000,
		TimeInForce:    "GTC",
	})
	if err != nil {
		t.Fatalf("SendChildOrder: %v", err)
	}
	if resp.ChildOrderAcceptanceID != "JRF20150707-050237-639234" {
		t.Errorf("acceptance id = %q", resp.ChildOrderAcceptanceID)
	}
	if got["price"] != json.Number("30000") || got["size"] != json.Number("0.1") || got["side"] != "SELL" {
		t.Errorf("body = %v", got)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestSendChildOrder_Validation(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", testCredentials(t))
	size := decimal.RequireFromString("0.01")

	tests := []struct {
		name string
		req  ChildOrderRequest
	}{
		{"missing product", ChildOrderRequest{ChildOrderType: OrderTypeMarket, Side: model.SideBuy, Size: size}},
		{"unknown type", ChildOrderRequest{ProductCode: "BTC_JPY", ChildOrderType: "STOP", Side: model.SideBuy, Size: size}},
		{"empty side", ChildOrderRequest{ProductCode: "BTC_JPY", ChildOrderType: OrderTypeMarket, Size: size}},
		{"zero size", ChildOrderRequest{ProductCode: "BTC_JPY", ChildOrderType: OrderTypeMarket, Side: model.SideBuy}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.SendChildOrder(context.Background(), tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestChildOrderRequest_MarketOmitsPrice(t *testing.T) {
	data, err := json.Marshal(ChildOrderRequest{
		ProductCode:    "FX_BTC_JPY",
		ChildOrderType: OrderTypeMarket,
		Side:           model.SideBuy,
		Price:          decimal.RequireFromString("123"),
		Size:           decimal.RequireFromString("0.01"),
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"product_code":"FX_BTC_JPY","child_order_type":"MARKET","side":"BUY","size":0.01}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestCancelChildOrder(t *testing.T) {
	var body string
	server := signedServer(t, func(w http.ResponseWriter, r *http.Request, b []byte) {
		body = string(b)
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	c := NewClient(server.URL, testCredentials(t))

	if err := c.CancelChildOrder(context.Background(), CancelChildOrderRequest{ProductCode: "BTC_JPY"}); err == nil {
		t.Error("expected error without an order id")
	}

	err := c.CancelChildOrder(context.Background(), CancelChildOrderRequest{
		ProductCode:            "BTC_JPY",
		ChildOrderAcceptanceID: "JRF20150707-033333-099999",
	})
	if err != nil {
		t.Fatalf("CancelChildOrder: %v", err)
	}
	if body != `{"product_code":"BTC_JPY","child_order_acceptance_id":"JRF20150707-033333-099999"}` {
		t.Errorf("body = %s", body)
	}
}
