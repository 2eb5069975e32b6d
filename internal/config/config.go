package config

import (
	"time"

	"github.com/rickgao/lightstream/internal/channel"
	"github.com/rickgao/lightstream/internal/logging"
	"github.com/rickgao/lightstream/internal/stream"
)

// StreamerConfig is the root configuration for a streamer process.
type StreamerConfig struct {
	Stream  StreamConfig   `yaml:"stream"`
	API     APIConfig      `yaml:"api"`
	Log     logging.Config `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Restart RestartConfig  `yaml:"restart"`
}

// StreamConfig holds realtime connection settings and the channel list.
type StreamConfig struct {
	WSURL            string        `yaml:"ws_url"`
	Channels         []string      `yaml:"channels"` // Full channel names, subscribed in order
	PingInterval     time.Duration `yaml:"ping_interval"`
	PongTimeout      time.Duration `yaml:"pong_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	BufferSize       int           `yaml:"buffer_size"`
}

// APIConfig holds REST API settings.
type APIConfig struct {
	RestURL    string        `yaml:"rest_url"`
	Key        string        `yaml:"key"`    // ACCESS-KEY; empty disables private endpoints
	Secret     string        `yaml:"secret"` // HMAC secret
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// RestartConfig controls how the streamer reopens a session that the
// transport ended.
type RestartConfig struct {
	Enabled         bool          `yaml:"enabled"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	Multiplier      float64       `yaml:"multiplier"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time"` // 0 retries forever
}

// Config converts the connection settings to a stream.Config.
func (c StreamConfig) Config() stream.Config {
	return stream.Config{
		URL:              c.WSURL,
		PingInterval:     c.PingInterval,
		PongTimeout:      c.PongTimeout,
		WriteTimeout:     c.WriteTimeout,
		HandshakeTimeout: c.HandshakeTimeout,
		BufferSize:       c.BufferSize,
	}
}

// Subscriptions builds the subscription list from the configured names.
func (c StreamConfig) Subscriptions() (*channel.Subscriptions, error) {
	subs := channel.NewSubscriptions()
	for _, name := range c.Channels {
		if err := subs.AddRaw(name); err != nil {
			return nil, err
		}
	}
	return subs, nil
}
