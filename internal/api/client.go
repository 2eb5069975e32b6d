package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/lightstream/internal/auth"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://api.bitflyer.com"

// PublicExecutor runs unauthenticated market data requests.
type PublicExecutor interface {
	GetMarkets(ctx context.Context) ([]Market, error)
	GetBoard(ctx context.Context, productCode string) (*Board, error)
	GetTicker(ctx context.Context, productCode string) (*Ticker, error)
	GetExecutions(ctx context.Context, productCode string, opts ExecutionsOptions) ([]Execution, error)
	GetBoardState(ctx context.Context, productCode string) (*BoardState, error)
	GetHealth(ctx context.Context, productCode string) (*Health, error)
}

// PrivateExecutor runs signed account and order requests.
type PrivateExecutor interface {
	GetPermissions(ctx context.Context) (Permissions, error)
	GetBalance(ctx context.Context) ([]Balance, error)
	GetCollateral(ctx context.Context) (*Collateral, error)
	GetPositions(ctx context.Context, productCode string) ([]Position, error)
	GetChildOrders(ctx context.Context, opts ChildOrdersOptions) ([]ChildOrder, error)
	SendChildOrder(ctx context.Context, req ChildOrderRequest) (*ChildOrderResponse, error)
	CancelChildOrder(ctx context.Context, req CancelChildOrderRequest) error
}

var (
	_ PublicExecutor  = (*Client)(nil)
	_ PrivateExecutor = (*Client)(nil)
)

// Client provides access to the Lightning REST API.
type Client struct {
	baseURL    string
	creds      *auth.Credentials
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. creds may be nil, in which case
// private endpoints return auth.ErrNoCredentials.
func NewClient(baseURL string, creds *auth.Credentials, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration for GET requests.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
