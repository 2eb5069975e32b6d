package config

import (
	"errors"
	"fmt"

	"github.com/rickgao/lightstream/internal/logging"
)

// Validate checks that all required fields are set and values are valid.
func (c *StreamerConfig) Validate() error {
	if len(c.Stream.Channels) == 0 {
		return errors.New("stream.channels must list at least one channel")
	}
	if _, err := c.Stream.Subscriptions(); err != nil {
		return fmt.Errorf("stream.channels: %w", err)
	}
	if err := c.Stream.Config().Validate(); err != nil {
		return err
	}

	if (c.API.Key == "") != (c.API.Secret == "") {
		return errors.New("api.key and api.secret must be set together")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	if c.Restart.Multiplier < 1 {
		return fmt.Errorf("restart.multiplier must be >= 1, got %v", c.Restart.Multiplier)
	}
	if c.Restart.MaxInterval < c.Restart.InitialInterval {
		return fmt.Errorf("restart.max_interval (%v) cannot be less than initial_interval (%v)",
			c.Restart.MaxInterval, c.Restart.InitialInterval)
	}

	return nil
}
