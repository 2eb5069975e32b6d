package connection

import (
	"errors"
	"time"
)

// DefaultURL is the Lightning realtime endpoint.
const DefaultURL = "wss://ws.lightstream.bitflyer.com/json-rpc"

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrPongTimeout   = errors.New("connection stale (no pong)")
	ErrAlreadyClosed = errors.New("already closed")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // WebSocket URL (e.g., wss://ws.lightstream.bitflyer.com/json-rpc)
	PingInterval     time.Duration // Time between pings; 0 disables keep-alive
	PongTimeout      time.Duration // Max wait for a pong after each ping
	WriteTimeout     time.Duration // Write deadline for sends
	HandshakeTimeout time.Duration // Dial handshake deadline
	BufferSize       int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		URL:              DefaultURL,
		PingInterval:     30 * time.Second,
		PongTimeout:      10 * time.Second,
		WriteTimeout:     5 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		BufferSize:       256,
	}
}
