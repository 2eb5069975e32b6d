package router

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rickgao/lightstream/internal/metrics"
)

// Dispatcher invokes handlers so that their failures never reach the caller.
type Dispatcher struct {
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher that reports failures to logger.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Invoke runs fn and reports whether it completed without error.
// A nil fn is a no-op that reports success. Returned errors and panics are
// logged and counted under slot, then swallowed.
func (d *Dispatcher) Invoke(slot string, fn func() error) (ok bool) {
	if fn == nil {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			d.report(slot, fmt.Errorf("%w: %v", ErrHandlerPanic, r), slog.String("stack", string(debug.Stack())))
			ok = false
		}
	}()

	if err := fn(); err != nil {
		d.report(slot, err)
		return false
	}
	return true
}

func (d *Dispatcher) report(slot string, err error, attrs ...any) {
	metrics.IncHandlerFailure(slot)
	args := append([]any{"slot", slot, "error", err}, attrs...)
	d.logger.Error("handler failed", args...)
}
