// Package connection implements the WebSocket transport used by the stream.
//
// The client:
//   - Dials one Lightning JSON-RPC endpoint
//   - Serializes writes and delivers inbound frames in arrival order
//   - Pings on an interval and fails the connection when no pong arrives in time
//   - Closes Messages() when the read loop ends; the first failure is on Errors()
package connection
