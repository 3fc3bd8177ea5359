package audiofocus

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/calldetect/event"
)

// Snapshot is the externally visible audio-focus state, read atomically.
type Snapshot struct {
	State         FocusState `json:"state"`
	HasAudioFocus bool       `json:"hasAudioFocus"`
	IsListening   bool       `json:"isListening"`
}

// Tracker maintains the audio-focus state from source notifications and
// re-broadcasts them as events.
//
// The tracker exclusively owns its state variables and its focus grant.
// The state and its derived hasAudioFocus flag are updated atomically
// under the lock before any event leaves the tracker.
type Tracker struct {
	mu           sync.RWMutex
	source       Source
	relay        *event.Relay
	timeProvider event.TimeProvider

	state     FocusState
	hasFocus  bool
	grant     Grant
	listening bool

	focusCallback func(state FocusState)
}

// NewTracker creates a tracker bound to source and relay.
//
// A nil source models an absent audio service: Start reports
// ErrServiceUnavailable. A nil relay disables re-broadcasting; the direct
// focus callback still fires.
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
	}).Info("Creating audio focus tracker")

	return &Tracker{
		source:       source,
		relay:        relay,
		timeProvider: tp,
		state:        FocusNone,
	}
}

// Start requests audio focus with a registered change callback.
//
// Calling Start while already listening is a no-op success. A grant sets
// the state to FocusGained and marks the tracker listening; no event is
// published for the grant itself. A failed start leaves IsActive false,
// and retrying is simply calling Start again.
//
// Returns:
//   - error: nil on success; wraps ErrFocusDenied when the platform
//     declines the grant, or ErrServiceUnavailable when no audio service
//     is present
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listening {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
		}).Debug("Audio focus tracker already listening")
		return nil
	}

	if t.source == nil {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
			"error":    ErrServiceUnavailable,
		}).Error("Audio source missing")
		return fmt.Errorf("starting audio focus tracker: %w", ErrServiceUnavailable)
	}

	grant, err := t.source.RequestFocus(Request{
		Usage:              UsageMedia,
		ContentType:        ContentTypeMusic,
		AcceptsDelayedGain: true,
		OnChange:           t.handleFocusChange,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
			"error":    err,
		}).Error("Audio focus request failed")
		return fmt.Errorf("starting audio focus tracker: %w", err)
	}

	t.grant = grant
	t.state = FocusGained
	t.hasFocus = true
	t.listening = true

	logrus.WithFields(logrus.Fields{
		"function": "Start",
	}).Info("Audio focus granted, tracker listening")

	return nil
}

// Stop abandons the focus request, resets the state to FocusNone and
// clears the listening flag. It is idempotent and never fails: an abandon
// error is logged and swallowed so teardown always appears to succeed.
func (t *Tracker) Stop() {
	t.mu.Lock()
	grant := t.grant
	t.grant = nil
	wasListening := t.listening
	t.state = FocusNone
	t.hasFocus = false
	t.listening = false
	t.mu.Unlock()

	if !wasListening {
		logrus.WithFields(logrus.Fields{
			"function": "Stop",
		}).Debug("Audio focus tracker was not listening")
		return
	}

	if grant != nil {
		if err := grant.Abandon(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Stop",
				"error":    err,
			}).Warn("Audio focus abandon failed, continuing")
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Stop",
	}).Info("Audio focus tracker stopped")
}

// IsActive reports whether the tracker currently holds a focus request.
func (t *Tracker) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.listening
}

// Snapshot returns the current state and derived flags as one atomic
// read. No platform round-trip is involved.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		State:         t.state,
		HasAudioFocus: t.hasFocus,
		IsListening:   t.listening,
	}
}

// OnFocusChange sets the callback invoked for every normalized focus
// change, in addition to relay delivery. Pass nil to clear it.
func (t *Tracker) OnFocusChange(fn func(state FocusState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focusCallback = fn
}

// handleFocusChange normalizes one platform focus change. The state and
// its derived flag are stored together before publishing, so a concurrent
// Snapshot call observes them no later than subscribers see the event.
func (t *Tracker) handleFocusChange(code int32) {
	state := StateFromCode(code)

	t.mu.Lock()
	t.state = state
	t.hasFocus = state.HasFocus()
	cb := t.focusCallback
	t.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":    "handleFocusChange",
		"code":        code,
		"state":       state.String(),
		"interrupted": state.Interrupted(),
	}).Debug("Audio focus change")

	if cb != nil {
		cb(state)
	}

	if t.relay != nil {
		t.relay.Publish(event.NewFocusEvent(state.String(), state.Interrupted(), state.HasFocus(), t.timeProvider.Now()))
	}
}
