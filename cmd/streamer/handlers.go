package main

import (
	"log/slog"

	"github.com/rickgao/lightstream/internal/channel"
	"github.com/rickgao/lightstream/internal/model"
	"github.com/rickgao/lightstream/internal/stream"
)

// logHandlers returns handlers that write each record to logger.
// Board updates are frequent and logged at debug level.
func logHandlers(logger *slog.Logger) stream.Handlers {
	return stream.Handlers{
		OnMessage: func(_ *stream.Stream, msg stream.Message) error {
			if !msg.Known {
				logger.Info("message on unrecognized channel",
					"channel", msg.Channel,
					"size", len(msg.Payload),
				)
			}
			return nil
		},
		OnBoardSnapshot: func(_ *stream.Stream, inst channel.Instrument, b model.Board) error {
			logger.Info("board snapshot",
				"instrument", inst,
				"mid_price", b.MidPrice,
				"bids", len(b.Bids),
				"asks", len(b.Asks),
			)
			return nil
		},
		OnBoard: func(_ *stream.Stream, inst channel.Instrument, b model.Board) error {
			logger.Debug("board update",
				"instrument", inst,
				"mid_price", b.MidPrice,
				"bids", len(b.Bids),
				"asks", len(b.Asks),
			)
			return nil
		},
		OnTicker: func(_ *stream.Stream, inst channel.Instrument, tk model.Ticker) error {
			logger.Info("ticker",
				"instrument", inst,
				"tick_id", tk.TickID,
				"ltp", tk.LTP,
				"best_bid", tk.BestBid,
				"best_ask", tk.BestAsk,
				"spread", tk.Spread(),
				"volume", tk.Volume,
			)
			return nil
		},
		OnExecutions: func(_ *stream.Stream, inst channel.Instrument, execs []model.Execution) error {
			if len(execs) == 0 {
				return nil
			}
			last := execs[len(execs)-1]
			logger.Info("executions",
				"instrument", inst,
				"count", len(execs),
				"last_id", last.ID,
				"last_side", last.Side,
				"last_price", last.Price,
			)
			return nil
		},
		OnClose: func(_ *stream.Stream, info stream.CloseInfo) error {
			logger.Warn("stream session ended",
				"session", info.Session,
				"code", info.Code,
				"text", info.Text,
			)
			return nil
		},
	}
}
