package telephony

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/calldetect/event"
)

// Tracker maintains the device call state from source notifications and
// re-broadcasts them as events.
//
// The tracker exclusively owns its current-state variable and its source
// registration. State mutation and publish form one effectively-atomic
// step relative to external readers: the new state is stored under the
// lock before the event leaves the tracker.
type Tracker struct {
	mu           sync.RWMutex
	source       Source
	relay        *event.Relay
	timeProvider event.TimeProvider

	state     CallState
	reg       Registration
	listening bool

	stateCallback func(state CallState, phoneNumber string)
}

// NewTracker creates a tracker bound to source and relay.
//
// A nil source models an absent telephony service: Start reports
// ErrServiceUnavailable. A nil relay disables re-broadcasting; the direct
// state callback still fires.
func NewTracker(source Source, relay *event.Relay) *Tracker {
	return NewTrackerWithTimeProvider(source, relay, nil)
}

// NewTrackerWithTimeProvider creates a tracker with a custom time provider
// for deterministic event timestamps.
func NewTrackerWithTimeProvider(source Source, relay *event.Relay, tp event.TimeProvider) *Tracker {
	if tp == nil {
		tp = event.DefaultTimeProvider{}
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewTracker",
		"has_source": source != nil,
		"has_relay":  relay != nil,
	}).Info("Creating call state tracker")

	return &Tracker{
		source:       source,
		relay:        relay,
		timeProvider: tp,
		state:        CallIdle,
	}
}

// Start registers the state handler with the telephony source.
//
// Calling Start while already listening is a no-op success; exactly one
// source registration is held per listening period. A failed start leaves
// IsActive false, and retrying is simply calling Start again.
//
// Returns:
//   - error: nil on success; wraps ErrPermissionDenied when platform
//     policy rejects the registration, or ErrServiceUnavailable when no
//     telephony service is present
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listening {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
		}).Debug("Call state tracker already listening")
		return nil
	}

	if t.source == nil {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
			"error":    ErrServiceUnavailable,
		}).Error("Telephony source missing")
		return fmt.Errorf("starting call state tracker: %w", ErrServiceUnavailable)
	}

	reg, err := t.source.Register(t.handleNotification)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
			"error":    err,
		}).Error("Call state registration failed")
		return fmt.Errorf("starting call state tracker: %w", err)
	}

	t.reg = reg
	t.listening = true

	logrus.WithFields(logrus.Fields{
		"function": "Start",
	}).Info("Call state tracker listening")

	return nil
}

// Stop unregisters from the telephony source and clears the listening
// flag. It is idempotent and never fails: an unregister error is logged
// and swallowed so teardown always appears to succeed.
func (t *Tracker) Stop() {
	t.mu.Lock()
	reg := t.reg
	t.reg = nil
	wasListening := t.listening
	t.listening = false
	t.mu.Unlock()

	if !wasListening {
		logrus.WithFields(logrus.Fields{
			"function": "Stop",
		}).Debug("Call state tracker was not listening")
		return
	}

	if reg != nil {
		if err := reg.Unregister(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Stop",
				"error":    err,
			}).Warn("Call state unregister failed, continuing")
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Stop",
	}).Info("Call state tracker stopped")
}

// IsActive reports whether the tracker currently holds a registration.
func (t *Tracker) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.listening
}

// State returns the last normalized call state, CallIdle before any
// notification. No platform round-trip is involved.
func (t *Tracker) State() CallState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// OnStateChange sets the callback invoked for every normalized
// notification, in addition to relay delivery. Pass nil to clear it.
func (t *Tracker) OnStateChange(fn func(state CallState, phoneNumber string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stateCallback = fn
}

// handleNotification normalizes one platform notification. The new state
// is stored before publishing, so a concurrent State call observes it no
// later than subscribers see the event. The phone number is forwarded
// exactly as the source supplied it and may be empty.
func (t *Tracker) handleNotification(code int32, phoneNumber string) {
	state := StateFromCode(code)

	t.mu.Lock()
	t.state = state
	cb := t.stateCallback
	t.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":   "handleNotification",
		"code":       code,
		"state":      state.String(),
		"has_number": phoneNumber != "", // never log the number itself
	}).Debug("Call state notification")

	if cb != nil {
		cb(state, phoneNumber)
	}

	if t.relay != nil {
		t.relay.Publish(event.NewCallEvent(state.String(), phoneNumber, t.timeProvider.Now()))
	}
}
