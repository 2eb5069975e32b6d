// marketinfo prints REST snapshots of Lightning market data.
// Usage: go run ./cmd/marketinfo --product FX_BTC_JPY --depth 5
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rickgao/lightstream/internal/api"
	"github.com/rickgao/lightstream/internal/channel"
	"github.com/rickgao/lightstream/internal/config"
)

func main() {
	baseURL := flag.String("url", config.DefaultRestURL, "REST API base URL")
	product := flag.String("product", string(channel.BTCJPY), "product code")
	depth := flag.Int("depth", 3, "order book levels to print per side")
	count := flag.Int("count", 5, "executions to print")
	flag.Parse()

	client := api.NewClient(*baseURL, nil, api.WithTimeout(30*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := report(ctx, os.Stdout, client, *product, *depth, *count); err != nil {
		log.Fatal(err)
	}
}

// report writes markets, venue state, ticker, top of book and recent
// executions for product to w.
func report(ctx context.Context, w io.Writer, client api.PublicExecutor, product string, depth, count int) error {
	fmt.Fprintln(w, "=== Markets ===")
	markets, err := client.GetMarkets(ctx)
	if err != nil {
		return fmt.Errorf("GetMarkets failed: %w", err)
	}
	for i, m := range markets {
		alias := ""
		if m.Alias != "" {
			alias = " (" + m.Alias + ")"
		}
		fmt.Fprintf(w, "  %d. %s%s [%s]\n", i+1, m.ProductCode, alias, m.MarketType)
	}

	fmt.Fprintf(w, "\n=== State (%s) ===\n", product)
	health, err := client.GetHealth(ctx, product)
	if err != nil {
		return fmt.Errorf("GetHealth failed: %w", err)
	}
	state, err := client.GetBoardState(ctx, product)
	if err != nil {
		return fmt.Errorf("GetBoardState failed: %w", err)
	}
	fmt.Fprintf(w, "Health: %s\n", health.Status)
	fmt.Fprintf(w, "Board: %s / %s\n", state.State, state.Health)

	fmt.Fprintf(w, "\n=== Ticker (%s) ===\n", product)
	tk, err := client.GetTicker(ctx, product)
	if err != nil {
		return fmt.Errorf("GetTicker failed: %w", err)
	}
	fmt.Fprintf(w, "LTP: %s  Bid: %s x %s  Ask: %s x %s\n", tk.LTP, tk.BestBid, tk.BestBidSize, tk.BestAsk, tk.BestAskSize)
	fmt.Fprintf(w, "Volume: %s  Tick: %d  At: %s\n", tk.Volume, tk.TickID, tk.Timestamp)

	fmt.Fprintf(w, "\n=== Board (%s) ===\n", product)
	board, err := client.GetBoard(ctx, product)
	if err != nil {
		return fmt.Errorf("GetBoard failed: %w", err)
	}
	fmt.Fprintf(w, "Mid: %s  Bids: %d  Asks: %d\n", board.MidPrice, len(board.Bids), len(board.Asks))
	for i := 0; i < depth && i < len(board.Asks); i++ {
		fmt.Fprintf(w, "  ask %s x %s\n", board.Asks[i].Price, board.Asks[i].Size)
	}
	for i := 0; i < depth && i < len(board.Bids); i++ {
		fmt.Fprintf(w, "  bid %s x %s\n", board.Bids[i].Price, board.Bids[i].Size)
	}

	fmt.Fprintf(w, "\n=== Executions (%s) ===\n", product)
	execs, err := client.GetExecutions(ctx, product, api.ExecutionsOptions{Count: count})
	if err != nil {
		return fmt.Errorf("GetExecutions failed: %w", err)
	}
	for _, e := range execs {
		side := string(e.Side)
		if side == "" {
			side = "-"
		}
		fmt.Fprintf(w, "  #%d %-4s %s x %s at %s\n", e.ID, side, e.Price, e.Size, e.ExecDate)
	}

	return nil
}
