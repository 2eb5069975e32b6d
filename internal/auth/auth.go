// Package auth provides bitFlyer Lightning API authentication using HMAC-SHA256 signatures.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// ErrNoCredentials is returned when a private endpoint is called without credentials.
var ErrNoCredentials = errors.New("api key and secret are required")

// Header names carried by every authenticated request.
const (
	HeaderKey       = "ACCESS-KEY"
	HeaderTimestamp = "ACCESS-TIMESTAMP"
	HeaderSign      = "ACCESS-SIGN"
)

// Credentials holds the API key and secret for signing requests.
type Credentials struct {
	Key    string // API key from the Lightning dashboard
	secret []byte // HMAC secret

	now func() time.Time
}

// NewCredentials creates credentials from an API key and secret.
func NewCredentials(key, secret string) (*Credentials, error) {
	if key == "" || secret == "" {
		return nil, ErrNoCredentials
	}
	return &Credentials{
		Key:    key,
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// Sign generates authentication headers for a request.
// path includes the query string, if any; body is the exact request body.
func (c *Credentials) Sign(method, path, body string) map[string]string {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	return map[string]string{
		HeaderKey:       c.Key,
		HeaderTimestamp: timestamp,
		HeaderSign:      c.signature(timestamp, method, path, body),
	}
}

// signature returns the hex HMAC-SHA256 of timestamp + method + path + body.
func (c *Credentials) signature(timestamp, method, path, body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte(method))
	mac.Write([]byte(path))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
