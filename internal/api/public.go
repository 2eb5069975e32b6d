package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

func productQuery(productCode string) url.Values {
	query := url.Values{}
	if productCode != "" {
		query.Set("product_code", productCode)
	}
	return query
}

// GetMarkets fetches the list of tradable products.
func (c *Client) GetMarkets(ctx context.Context) ([]Market, error) {
	var resp []Market
	if err := c.get(ctx, "/v1/getmarkets", nil, &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return resp, nil
}

// GetBoard fetches the full order book for a product.
func (c *Client) GetBoard(ctx context.Context, productCode string) (*Board, error) {
	var resp Board
	if err := c.get(ctx, "/v1/getboard", productQuery(productCode), &resp); err != nil {
		return nil, fmt.Errorf("get board %s: %w", productCode, err)
	}
	return &resp, nil
}

// GetTicker fetches the current ticker for a product.
func (c *Client) GetTicker(ctx context.Context, productCode string) (*Ticker, error) {
	var resp Ticker
	if err := c.get(ctx, "/v1/getticker", productQuery(productCode), &resp); err != nil {
		return nil, fmt.Errorf("get ticker %s: %w", productCode, err)
	}
	return &resp, nil
}

// GetExecutions fetches recent executions for a product, newest first.
func (c *Client) GetExecutions(ctx context.Context, productCode string, opts ExecutionsOptions) ([]Execution, error) {
	query := productQuery(productCode)
	if opts.Count > 0 {
		query.Set("count", strconv.Itoa(opts.Count))
	}
	if opts.Before > 0 {
		query.Set("before", strconv.FormatInt(opts.Before, 10))
	}
	if opts.After > 0 {
		query.Set("after", strconv.FormatInt(opts.After, 10))
	}

	var resp []Execution
	if err := c.get(ctx, "/v1/getexecutions", query, &resp); err != nil {
		return nil, fmt.Errorf("get executions %s: %w", productCode, err)
	}
	return resp, nil
}

// GetBoardState fetches the order book and exchange state for a product.
func (c *Client) GetBoardState(ctx context.Context, productCode string) (*BoardState, error) {
	var resp BoardState
	if err := c.get(ctx, "/v1/getboardstate", productQuery(productCode), &resp); err != nil {
		return nil, fmt.Errorf("get board state %s: %w", productCode, err)
	}
	return &resp, nil
}

// GetHealth fetches the exchange health for a product.
func (c *Client) GetHealth(ctx context.Context, productCode string) (*Health, error) {
	var resp Health
	if err := c.get(ctx, "/v1/gethealth", productQuery(productCode), &resp); err != nil {
		return nil, fmt.Errorf("get health %s: %w", productCode, err)
	}
	return &resp, nil
}
