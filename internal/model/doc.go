// Package model defines the typed records delivered to stream handlers.
//
// Conventions:
//   - Prices and sizes: decimal.Decimal, exactly as sent by the venue
//   - Timestamps: time.Time in UTC
//   - Records are built fresh per message and never mutated after delivery
package model
