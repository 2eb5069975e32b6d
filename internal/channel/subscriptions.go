package channel

import (
	"fmt"
	"strings"
)

// Subscriptions is the ordered list of channel names a stream subscribes to.
// Entries are sent in insertion order and duplicates are kept.
type Subscriptions struct {
	names []Name
}

// NewSubscriptions creates a registry from already composed names.
func NewSubscriptions(names ...Name) *Subscriptions {
	s := &Subscriptions{names: make([]Name, 0, len(names))}
	s.names = append(s.names, names...)
	return s
}

// Add appends the channel for category c and instrument i.
func (s *Subscriptions) Add(c Category, i Instrument) error {
	if c.Prefix() == "" {
		return fmt.Errorf("%w: unknown category", ErrInvalidName)
	}
	if !i.Valid() {
		return fmt.Errorf("%w: unknown instrument %q", ErrInvalidName, i)
	}
	s.names = append(s.names, NewName(c, i))
	return nil
}

// AddRaw appends a raw channel name verbatim. Names that do not parse are
// accepted; their notifications reach only the generic message handler.
func (s *Subscriptions) AddRaw(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	s.names = append(s.names, Name(raw))
	return nil
}

// Names returns a copy of the registered names in registry order.
func (s *Subscriptions) Names() []Name {
	out := make([]Name, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of registered names.
func (s *Subscriptions) Len() int { return len(s.names) }

// Clone returns an independent copy of s.
func (s *Subscriptions) Clone() *Subscriptions {
	return NewSubscriptions(s.names...)
}
