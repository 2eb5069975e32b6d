package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rickgao/lightstream/internal/channel"
	"github.com/rickgao/lightstream/internal/connection"
	"github.com/rickgao/lightstream/internal/model"
)

// Errors
var (
	ErrTransport  = errors.New("transport error")
	ErrNoChannels = errors.New("at least one channel is required")
)

// State is the lifecycle state of a Stream.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Message is a channelMessage notification as received.
// Known is false when the channel did not parse; Category and Instrument are
// then zero and only the generic handler sees the message.
type Message struct {
	Channel    string
	Category   channel.Category
	Instrument channel.Instrument
	Known      bool
	Payload    json.RawMessage
	ReceivedAt time.Time
}

// CloseInfo describes why a session ended without Stop.
type CloseInfo struct {
	Session string // Session ID (matches the "session" log attribute)
	Code    int    // WebSocket close code (1006 when the peer sent none)
	Text    string // Close reason sent by the peer
	Err     error  // Wraps ErrTransport and the underlying failure
}

// Handlers are the optional callback slots. Any of them may be nil.
type Handlers struct {
	OnMessage       func(s *Stream, msg Message) error
	OnBoard         func(s *Stream, inst channel.Instrument, board model.Board) error
	OnBoardSnapshot func(s *Stream, inst channel.Instrument, board model.Board) error
	OnTicker        func(s *Stream, inst channel.Instrument, ticker model.Ticker) error
	OnExecutions    func(s *Stream, inst channel.Instrument, execs []model.Execution) error
	OnClose         func(s *Stream, info CloseInfo) error
}

// Handler slot names used in logs and metrics.
const (
	SlotMessage       = "message"
	SlotBoard         = "board"
	SlotBoardSnapshot = "board_snapshot"
	SlotTicker        = "ticker"
	SlotExecutions    = "executions"
	SlotClose         = "close"
)

// Config configures a Stream.
type Config struct {
	URL              string        // JSON-RPC WebSocket endpoint
	PingInterval     time.Duration // Keep-alive ping interval; 0 disables pings
	PongTimeout      time.Duration // Max wait for a pong before the session is closed
	WriteTimeout     time.Duration // Write deadline for subscribe frames
	HandshakeTimeout time.Duration // Dial handshake deadline
	BufferSize       int           // Frames read ahead of the handlers
}

// DefaultConfig returns the defaults for the Lightning endpoint.
func DefaultConfig() Config {
	d := connection.DefaultClientConfig()
	return Config{
		URL:              d.URL,
		PingInterval:     d.PingInterval,
		PongTimeout:      d.PongTimeout,
		WriteTimeout:     d.WriteTimeout,
		HandshakeTimeout: d.HandshakeTimeout,
		BufferSize:       d.BufferSize,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.URL == "":
		return errors.New("stream: url is required")
	case c.PingInterval < 0:
		return errors.New("stream: ping_interval must be >= 0")
	case c.PingInterval > 0 && c.PongTimeout <= 0:
		return errors.New("stream: pong_timeout must be > 0 when pings are enabled")
	case c.WriteTimeout < 0:
		return errors.New("stream: write_timeout must be >= 0")
	case c.BufferSize < 0:
		return errors.New("stream: buffer_size must be >= 0")
	default:
		return nil
	}
}

func (c Config) clientConfig() connection.ClientConfig {
	return connection.ClientConfig{
		URL:              c.URL,
		PingInterval:     c.PingInterval,
		PongTimeout:      c.PongTimeout,
		WriteTimeout:     c.WriteTimeout,
		HandshakeTimeout: c.HandshakeTimeout,
		BufferSize:       c.BufferSize,
	}
}
