package channel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned when a raw channel name cannot be used.
var ErrInvalidName = errors.New("invalid channel name")

// Category identifies the kind of data a channel carries.
type Category int

const (
	CategoryUnknown Category = iota
	BoardSnapshot
	Board
	Ticker
	Executions
)

// Wire prefixes for each category.
const (
	PrefixBoardSnapshot = "lightning_board_snapshot"
	PrefixBoard         = "lightning_board"
	PrefixTicker        = "lightning_ticker"
	PrefixExecutions    = "lightning_executions"
)

// parseOrder lists categories from most to least specific prefix.
var parseOrder = [...]Category{BoardSnapshot, Board, Ticker, Executions}

// Prefix returns the wire prefix for the category, or "" for CategoryUnknown.
func (c Category) Prefix() string {
	switch c {
	case BoardSnapshot:
		return PrefixBoardSnapshot
	case Board:
		return PrefixBoard
	case Ticker:
		return PrefixTicker
	case Executions:
		return PrefixExecutions
	default:
		return ""
	}
}

// String returns a short label suitable for logs and metric labels.
func (c Category) String() string {
	switch c {
	case BoardSnapshot:
		return "board_snapshot"
	case Board:
		return "board"
	case Ticker:
		return "ticker"
	case Executions:
		return "executions"
	default:
		return "unknown"
	}
}

// Instrument is a trade pair code.
type Instrument string

const (
	BTCJPY   Instrument = "BTC_JPY"
	FXBTCJPY Instrument = "FX_BTC_JPY"
)

var instruments = [...]Instrument{BTCJPY, FXBTCJPY}

// Instruments returns the known instruments.
func Instruments() []Instrument {
	out := make([]Instrument, len(instruments))
	copy(out, instruments[:])
	return out
}

// Valid reports whether i is one of the known instruments.
func (i Instrument) Valid() bool {
	for _, known := range instruments {
		if i == known {
			return true
		}
	}
	return false
}

func (i Instrument) String() string { return string(i) }

// Name is a channel name as sent on the wire.
type Name string

// NewName composes the channel name for category c and instrument i.
func NewName(c Category, i Instrument) Name {
	return Name(c.Prefix() + "_" + string(i))
}

func (n Name) String() string { return string(n) }

// Parse splits a raw channel name into its category and instrument.
// It returns ok=false for names that do not match a known category prefix
// followed by a known instrument.
func Parse(raw string) (Category, Instrument, bool) {
	for _, c := range parseOrder {
		head := c.Prefix() + "_"
		if !strings.HasPrefix(raw, head) {
			continue
		}
		inst := Instrument(raw[len(head):])
		if inst.Valid() {
			return c, inst, true
		}
		// "lightning_board_snapshot_X" also starts with "lightning_board_";
		// a remainder that is not an instrument falls through to the next prefix.
	}
	return CategoryUnknown, "", false
}

// ParseCategory maps a short label (see Category.String) or a wire prefix to a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range parseOrder {
		if s == c.String() || s == c.Prefix() {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown channel category %q", s)
}
