// Package api provides the bitFlyer Lightning REST API client.
//
// REST endpoint:
//   - https://api.bitflyer.com/v1/
//
// Public endpoints need no credentials. Endpoints under /v1/me/ are signed
// with an API key and secret (see package auth).
package api
