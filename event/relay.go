package event

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Relay fans events out to registered subscribers, per category.
//
// A Relay is shared by both trackers for the lifetime of a detector
// instance and torn down with Clear on the host-destroy path. All methods
// are safe for concurrent use.
type Relay struct {
	mu   sync.RWMutex
	subs map[Category][]*Subscription
}

// NewRelay creates an empty relay.
func NewRelay() *Relay {
	return &Relay{
		subs: make(map[Category][]*Subscription),
	}
}

// Subscribe registers fn under category and returns the handle that owns
// the registration. Multiple subscriptions to the same category are
// independent and all receive every event.
//
// Parameters:
//   - category: The event stream to listen on
//   - fn: Invoked synchronously for every event published to category
//
// Returns:
//   - *Subscription: Handle whose Remove deletes exactly this registration
func (r *Relay) Subscribe(category Category, fn Callback) *Subscription {
	sub := newSubscription(r, category, fn)

	r.mu.Lock()
	r.subs[category] = append(r.subs[category], sub)
	count := len(r.subs[category])
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":     "Subscribe",
		"category":     category,
		"subscription": sub.id,
		"subscribers":  count,
	}).Debug("Subscriber registered")

	return sub
}

// Publish invokes every live callback registered for the event's category,
// in registration order, synchronously on the calling goroutine. A panic in
// one callback is recovered and counted; delivery continues with the next
// subscriber. Publishing to a category with no subscribers is a no-op.
func (r *Relay) Publish(ev Event) {
	r.mu.RLock()
	registered := r.subs[ev.Category]
	snapshot := make([]*Subscription, len(registered))
	copy(snapshot, registered)
	r.mu.RUnlock()

	eventsPublished.WithLabelValues(string(ev.Category)).Inc()

	if len(snapshot) == 0 {
		return
	}

	for _, sub := range snapshot {
		if !sub.live() {
			continue
		}
		r.deliver(sub, ev)
	}
}

// deliver runs one callback with panic isolation.
func (r *Relay) deliver(sub *Subscription, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			callbackPanics.WithLabelValues(string(ev.Category)).Inc()
			logrus.WithFields(logrus.Fields{
				"function":     "deliver",
				"category":     ev.Category,
				"subscription": sub.id,
				"panic":        rec,
			}).Error("Subscriber callback panicked")
		}
	}()

	sub.fn(ev)
	eventsDelivered.WithLabelValues(string(ev.Category)).Inc()
}

// RemoveAll clears every registration for category. Safe to call when the
// category has no subscribers.
func (r *Relay) RemoveAll(category Category) {
	r.mu.Lock()
	dropped := r.subs[category]
	delete(r.subs, category)
	r.mu.Unlock()

	for _, sub := range dropped {
		sub.removed.Store(true)
	}

	if len(dropped) > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "RemoveAll",
			"category": category,
			"removed":  len(dropped),
		}).Info("Category subscribers cleared")
	}
}

// Clear removes every registration in every category. Used on host
// teardown.
func (r *Relay) Clear() {
	r.mu.Lock()
	var dropped []*Subscription
	for category, subs := range r.subs {
		dropped = append(dropped, subs...)
		delete(r.subs, category)
	}
	r.mu.Unlock()

	for _, sub := range dropped {
		sub.removed.Store(true)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Clear",
		"removed":  len(dropped),
	}).Info("Relay cleared")
}

// Subscribers returns the number of live registrations for category.
func (r *Relay) Subscribers(category Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[category])
}

// drop removes sub from its category list, preserving registration order
// of the remaining subscribers.
func (r *Relay) drop(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.subs[sub.category]
	for i, s := range list {
		if s == sub {
			r.subs[sub.category] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.category]) == 0 {
		delete(r.subs, sub.category)
	}
}
