// Package router turns raw JSON-RPC frames into typed records and invokes
// handlers behind a failure boundary.
//
// The router:
//   - Filters frames down to channelMessage notifications
//   - Decodes board, ticker and execution payloads, rejecting missing fields
//   - Recovers handler errors and panics so one handler cannot stop the stream
package router
