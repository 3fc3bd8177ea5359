package event

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Callback receives every event published to the subscribed category.
type Callback func(Event)

// Subscription is an opaque handle owning exactly one entry in the relay's
// observer set for one category.
type Subscription struct {
	id       string
	category Category
	fn       Callback
	relay    *Relay
	removed  atomic.Bool
}

// ID returns the unique identifier assigned at registration.
func (s *Subscription) ID() string {
	return s.id
}

// Category returns the event category this subscription listens on.
func (s *Subscription) Category() Category {
	return s.category
}

// Remove deletes this registration from the relay. It is idempotent and
// safe to call from inside the subscription's own callback during a
// publish; sibling subscribers still receive the in-flight event.
func (s *Subscription) Remove() {
	if s == nil {
		return
	}
	if !s.removed.CompareAndSwap(false, true) {
		return
	}

	s.relay.drop(s)

	logrus.WithFields(logrus.Fields{
		"function":     "Remove",
		"subscription": s.id,
		"category":     s.category,
	}).Debug("Subscription removed")
}

// live reports whether the subscription should still receive events.
func (s *Subscription) live() bool {
	return !s.removed.Load()
}

// newSubscription creates a handle bound to the relay.
func newSubscription(relay *Relay, category Category, fn Callback) *Subscription {
	return &Subscription{
		id:       uuid.NewString(),
		category: category,
		fn:       fn,
		relay:    relay,
	}
}
