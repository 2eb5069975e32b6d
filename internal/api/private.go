package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// GetPermissions lists the endpoints the API key may call.
func (c *Client) GetPermissions(ctx context.Context) (Permissions, error) {
	var resp Permissions
	if err := c.getPrivate(ctx, "/v1/me/getpermissions", nil, &resp); err != nil {
		return nil, fmt.Errorf("get permissions: %w", err)
	}
	return resp, nil
}

// GetBalance fetches asset balances.
func (c *Client) GetBalance(ctx context.Context) ([]Balance, error) {
	var resp []Balance
	if err := c.getPrivate(ctx, "/v1/me/getbalance", nil, &resp); err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return resp, nil
}

// GetCollateral fetches the margin collateral status.
func (c *Client) GetCollateral(ctx context.Context) (*Collateral, error) {
	var resp Collateral
	if err := c.getPrivate(ctx, "/v1/me/getcollateral", nil, &resp); err != nil {
		return nil, fmt.Errorf("get collateral: %w", err)
	}
	return &resp, nil
}

// GetPositions fetches open margin positions for a product.
func (c *Client) GetPositions(ctx context.Context, productCode string) ([]Position, error) {
	var resp []Position
	if err := c.getPrivate(ctx, "/v1/me/getpositions", productQuery(productCode), &resp); err != nil {
		return nil, fmt.Errorf("get positions %s: %w", productCode, err)
	}
	return resp, nil
}

// GetChildOrders lists child orders matching opts.
func (c *Client) GetChildOrders(ctx context.Context, opts ChildOrdersOptions) ([]ChildOrder, error) {
	if opts.ProductCode == "" {
		return nil, errors.New("get child orders: product code is required")
	}

	query := url.Values{}
	query.Set("product_code", opts.ProductCode)
	if opts.Count > 0 {
		query.Set("count", strconv.Itoa(opts.Count))
	}
	if opts.Before > 0 {
		query.Set("before", strconv.FormatInt(opts.Before, 10))
	}
	if opts.After > 0 {
		query.Set("after", strconv.FormatInt(opts.After, 10))
	}
	if opts.ChildOrderState != "" {
		query.Set("child_order_state", opts.ChildOrderState)
	}
	if opts.ChildOrderID != "" {
		query.Set("child_order_id", opts.ChildOrderID)
	}
	if opts.ChildOrderAcceptanceID != "" {
		query.Set("child_order_acceptance_id", opts.ChildOrderAcceptanceID)
	}
	if opts.ParentOrderID != "" {
		query.Set("parent_order_id", opts.ParentOrderID)
	}

	var resp []ChildOrder
	if err := c.getPrivate(ctx, "/v1/me/getchildorders", query, &resp); err != nil {
		return nil, fmt.Errorf("get child orders %s: %w", opts.ProductCode, err)
	}
	return resp, nil
}

// SendChildOrder places a new order. It is never retried.
func (c *Client) SendChildOrder(ctx context.Context, req ChildOrderRequest) (*ChildOrderResponse, error) {
	if req.ProductCode == "" {
		return nil, errors.New("send child order: product code is required")
	}
	if req.ChildOrderType != OrderTypeLimit && req.ChildOrderType != OrderTypeMarket {
		return nil, fmt.Errorf("send child order: unknown order type %q", req.ChildOrderType)
	}
	if req.Side == "" || !req.Side.Valid() {
		return nil, fmt.Errorf("send child order: invalid side %q", req.Side)
	}
	if !req.Size.IsPositive() {
		return nil, errors.New("send child order: size must be positive")
	}

	var resp ChildOrderResponse
	if err := c.postPrivate(ctx, "/v1/me/sendchildorder", req, &resp); err != nil {
		return nil, fmt.Errorf("send child order %s: %w", req.ProductCode, err)
	}
	return &resp, nil
}

// CancelChildOrder cancels an order by ID or acceptance ID.
func (c *Client) CancelChildOrder(ctx context.Context, req CancelChildOrderRequest) error {
	if req.ProductCode == "" {
		return errors.New("cancel child order: product code is required")
	}
	if (req.ChildOrderID == "") == (req.ChildOrderAcceptanceID == "") {
		return errors.New("cancel child order: set exactly one of child order id and acceptance id")
	}

	if err := c.postPrivate(ctx, "/v1/me/cancelchildorder", req, nil); err != nil {
		return fmt.Errorf("cancel child order %s: %w", req.ProductCode, err)
	}
	return nil
}
