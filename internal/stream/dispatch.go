package stream

import (
	"github.com/rickgao/lightstream/internal/channel"
	"github.com/rickgao/lightstream/internal/connection"
	"github.com/rickgao/lightstream/internal/metrics"
	"github.com/rickgao/lightstream/internal/router"
)

// handleFrame decodes one inbound frame and invokes the generic handler and
// then the category handler. Failures in either never reach the read loop.
func (s *Stream) handleFrame(ss *session, raw connection.TimestampedMessage) {
	n, ok, err := router.ParseFrame(raw.Data)
	if err != nil {
		metrics.IncFrame("invalid")
		ss.logger.Warn("dropping malformed frame", "error", err, "size", len(raw.Data))
		return
	}
	if !ok {
		metrics.IncFrame("control")
		ss.logger.Debug("ignoring non-notification frame", "size", len(raw.Data))
		return
	}
	metrics.IncFrame("notification")

	cat, inst, known := channel.Parse(n.Channel)
	if known {
		metrics.IncNotification(cat.String())
	} else {
		metrics.IncUnknownChannel()
		ss.logger.Debug("unrecognized channel", "channel", n.Channel)
	}

	if h := s.handlers.OnMessage; h != nil {
		msg := Message{
			Channel:    n.Channel,
			Category:   cat,
			Instrument: inst,
			Known:      known,
			Payload:    n.Message,
			ReceivedAt: raw.ReceivedAt,
		}
		s.dispatcher.Invoke(SlotMessage, func() error { return h(s, msg) })
	}

	if known {
		s.dispatchCategory(ss, cat, inst, n)
	}
}

// dispatchCategory decodes a known channel's payload for its handler.
// Payloads with no registered handler are not decoded.
func (s *Stream) dispatchCategory(ss *session, cat channel.Category, inst channel.Instrument, n router.Notification) {
	var (
		slot string
		fn   func() error
		err  error
	)

	switch cat {
	case channel.BoardSnapshot, channel.Board:
		h, sl := s.handlers.OnBoard, SlotBoard
		if cat == channel.BoardSnapshot {
			h, sl = s.handlers.OnBoardSnapshot, SlotBoardSnapshot
		}
		if h == nil {
			return
		}
		board, derr := router.DecodeBoard(n.Message)
		slot, err = sl, derr
		fn = func() error { return h(s, inst, board) }

	case channel.Ticker:
		h := s.handlers.OnTicker
		if h == nil {
			return
		}
		ticker, derr := router.DecodeTicker(n.Message)
		slot, err = SlotTicker, derr
		fn = func() error { return h(s, inst, ticker) }

	case channel.Executions:
		h := s.handlers.OnExecutions
		if h == nil {
			return
		}
		execs, derr := router.DecodeExecutions(n.Message)
		slot, err = SlotExecutions, derr
		fn = func() error { return h(s, inst, execs) }

	default:
		return
	}

	if err != nil {
		metrics.IncDecodeError(cat.String())
		ss.logger.Warn("dropping undecodable payload",
			"channel", n.Channel,
			"category", cat.String(),
			"error", err,
		)
		return
	}
	s.dispatcher.Invoke(slot, fn)
}
