package config

import (
	"time"

	"github.com/rickgao/lightstream/internal/connection"
)

// Default values for optional configuration fields.
const (
	DefaultRestURL            = "https://api.bitflyer.com"
	DefaultWSURL              = connection.DefaultURL
	DefaultPingInterval       = 30 * time.Second
	DefaultPongTimeout        = 10 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultHandshakeTimeout   = 10 * time.Second
	DefaultBufferSize         = 256
	DefaultAPITimeout         = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultLogOutput          = "stdout"
	DefaultMetricsPort        = 9090
	DefaultMetricsPath        = "/metrics"
	DefaultRestartInitial     = 1 * time.Second
	DefaultRestartMaxInterval = 60 * time.Second
	DefaultRestartMultiplier  = 2.0
)

func (c *StreamerConfig) applyDefaults() {
	// Stream defaults
	if c.Stream.WSURL == "" {
		c.Stream.WSURL = DefaultWSURL
	}
	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = DefaultPingInterval
	}
	if c.Stream.PongTimeout == 0 {
		c.Stream.PongTimeout = DefaultPongTimeout
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.HandshakeTimeout == 0 {
		c.Stream.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultBufferSize
	}

	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.Output == "" {
		c.Log.Output = DefaultLogOutput
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Restart defaults
	if c.Restart.InitialInterval == 0 {
		c.Restart.InitialInterval = DefaultRestartInitial
	}
	if c.Restart.MaxInterval == 0 {
		c.Restart.MaxInterval = DefaultRestartMaxInterval
	}
	if c.Restart.Multiplier == 0 {
		c.Restart.Multiplier = DefaultRestartMultiplier
	}
}
