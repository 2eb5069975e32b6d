// Package stream implements the Lightning realtime client: one persistent
// JSON-RPC connection, a fixed set of channel subscriptions, and per-category
// handlers.
//
// Lifecycle:
//
//	Idle --Start--> Connecting --open--> Open --peer close / pong timeout--> Closed
//	                                       \--Stop--> Closed
//
// Start blocks until the session ends. It subscribes to every registered
// channel, in order, before the first inbound frame is processed. Stop may be
// called from any goroutine, including a handler, and is idempotent. The
// stream never reconnects by itself; calling Start again opens a new session.
//
// Handlers run on the goroutine that called Start, one frame at a time and in
// arrival order. A slow handler delays every later frame. Handler errors and
// panics are logged and counted, never propagated.
//
// Subscriptions are not acknowledged by the venue. A subscribe frame that is
// silently dropped results in no data for that channel and no error.
// Board (incremental) records are delivered as received; keeping a merged
// order book is up to the caller.
package stream
