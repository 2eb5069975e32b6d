// Package channel implements the Lightning channel name grammar and the
// subscription registry.
//
// Channel names are composed as <category-prefix>_<instrument>:
//   - lightning_board_snapshot_BTC_JPY
//   - lightning_board_FX_BTC_JPY
//   - lightning_ticker_BTC_JPY
//   - lightning_executions_FX_BTC_JPY
//
// The board prefix is a textual prefix of the board snapshot prefix, so
// parsing always tests the longer prefix first.
package channel
