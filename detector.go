package calldetect

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/calldetect/audiofocus"
	"github.com/opd-ai/calldetect/event"
	"github.com/opd-ai/calldetect/telephony"
)

// Detector is the API facade owning the call-state tracker, the
// audio-focus tracker and the event relay they publish on.
//
// The two trackers are independent: handlers never share mutable state,
// and a failure starting one never prevents starting the other. All
// methods are safe for concurrent use.
type Detector struct {
	mu     sync.RWMutex
	relay  *event.Relay
	calls  *telephony.Tracker
	focus  *audiofocus.Tracker
	killed bool
}

// ListenerStatus reports the per-tracker outcome of StartAllListeners.
// Partial success is data, not an error: each flag reflects the actual
// listening state of its tracker after the attempt.
type ListenerStatus struct {
	GsmListening        bool `json:"gsmListening"`
	AudioFocusListening bool `json:"audioFocusListening"`
}

// New creates a new Detector instance with the given options.
//
// Parameters:
//   - options: The configuration options, or nil for defaults
//
// Returns:
//   - *Detector: The new detector instance
//   - error: Any error that occurred during setup
func New(options *Options) (*Detector, error) {
	logrus.WithFields(logrus.Fields{
		"function": "New",
	}).Info("Creating new detector instance")

	if options == nil {
		options = NewOptions()
	}

	relay := options.Relay
	if relay == nil {
		relay = event.NewRelay()
	}

	detector := &Detector{
		relay: relay,
		calls: telephony.NewTrackerWithTimeProvider(options.Telephony, relay, options.TimeProvider),
		focus: audiofocus.NewTrackerWithTimeProvider(options.AudioFocus, relay, options.TimeProvider),
	}

	logrus.WithFields(logrus.Fields{
		"function":       "New",
		"has_telephony":  options.Telephony != nil,
		"has_audiofocus": options.AudioFocus != nil,
		"shared_relay":   options.Relay != nil,
	}).Info("Detector created successfully")

	return detector, nil
}

// StartListener starts the call-state tracker. Starting while already
// listening is a no-op success.
//
// Returns:
//   - error: nil on success; wraps telephony.ErrPermissionDenied or
//     telephony.ErrServiceUnavailable on failure, ErrDetectorKilled
//     after Kill
func (d *Detector) StartListener() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.killed {
		return ErrDetectorKilled
	}
	return d.calls.Start()
}

// StopListener stops the call-state tracker. It is idempotent and never
// fails; platform unregister errors are logged and swallowed.
func (d *Detector) StopListener() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.calls.Stop()
}

// IsActive reports whether the call-state tracker is listening.
func (d *Detector) IsActive() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.killed {
		return false
	}
	return d.calls.IsActive()
}

// CallState returns the last normalized call state, telephony.CallIdle
// before any notification. No platform round-trip is involved.
func (d *Detector) CallState() telephony.CallState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.calls.State()
}

// AddCallStateListener subscribes fn to call-state events.
//
// Parameters:
//   - fn: Invoked synchronously for every call-state event
//
// Returns:
//   - *event.Subscription: Handle whose Remove deletes exactly this
//     registration; nil after Kill
func (d *Detector) AddCallStateListener(fn event.Callback) *event.Subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.killed {
		return nil
	}
	return d.relay.Subscribe(event.CategoryCall, fn)
}

// RemoveAllListeners clears every call-state subscription.
func (d *Detector) RemoveAllListeners() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.relay.RemoveAll(event.CategoryCall)
}

// StartAudioFocusListener starts the audio-focus tracker. Starting while
// already listening is a no-op success.
//
// Returns:
//   - error: nil on success; wraps audiofocus.ErrFocusDenied or
//     audiofocus.ErrServiceUnavailable on failure, ErrDetectorKilled
//     after Kill
func (d *Detector) StartAudioFocusListener() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.killed {
		return ErrDetectorKilled
	}
	return d.focus.Start()
}

// StopAudioFocusListener stops the audio-focus tracker. It is idempotent
// and never fails; platform abandon errors are logged and swallowed.
func (d *Detector) StopAudioFocusListener() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.focus.Stop()
}

// IsAudioFocusActive reports whether the audio-focus tracker is
// listening.
func (d *Detector) IsAudioFocusActive() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.killed {
		return false
	}
	return d.focus.IsActive()
}

// AudioFocusState returns the current focus snapshot. No platform
// round-trip is involved.
func (d *Detector) AudioFocusState() audiofocus.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.focus.Snapshot()
}

// AddAudioFocusListener subscribes fn to audio-focus events.
//
// Parameters:
//   - fn: Invoked synchronously for every audio-focus event
//
// Returns:
//   - *event.Subscription: Handle whose Remove deletes exactly this
//     registration; nil after Kill
func (d *Detector) AddAudioFocusListener(fn event.Callback) *event.Subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.killed {
		return nil
	}
	return d.relay.Subscribe(event.CategoryFocus, fn)
}

// RemoveAllAudioFocusListeners clears every audio-focus subscription.
func (d *Detector) RemoveAllAudioFocusListeners() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.relay.RemoveAll(event.CategoryFocus)
}

// StartAllListeners attempts both trackers independently and reports the
// actual listening state of each. A failure in one never prevents
// attempting the other, and no error is returned: callers react to
// partial success through the status flags.
func (d *Detector) StartAllListeners() ListenerStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.killed {
		return ListenerStatus{}
	}

	if err := d.calls.Start(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "StartAllListeners",
			"error":    err,
		}).Warn("Call state tracker failed to start")
	}
	if err := d.focus.Start(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "StartAllListeners",
			"error":    err,
		}).Warn("Audio focus tracker failed to start")
	}

	status := ListenerStatus{
		GsmListening:        d.calls.IsActive(),
		AudioFocusListening: d.focus.IsActive(),
	}

	logrus.WithFields(logrus.Fields{
		"function":    "StartAllListeners",
		"gsm":         status.GsmListening,
		"audio_focus": status.AudioFocusListening,
	}).Info("Start all listeners completed")

	return status
}

// StopAllListeners stops both trackers unconditionally. Individual stop
// errors are swallowed the same way each tracker's own Stop swallows
// them.
func (d *Detector) StopAllListeners() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.calls.Stop()
	d.focus.Stop()
}

// RemoveAll clears the subscriptions of both event categories.
func (d *Detector) RemoveAll() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.relay.RemoveAll(event.CategoryCall)
	d.relay.RemoveAll(event.CategoryFocus)
}

// Relay exposes the event relay, for wiring additional consumers such as
// the bridge server.
func (d *Detector) Relay() *event.Relay {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.relay
}

// OnCallStateChange sets the direct call-state callback on the tracker,
// in addition to relay delivery. Pass nil to clear it.
func (d *Detector) OnCallStateChange(fn func(state telephony.CallState, phoneNumber string)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.calls.OnStateChange(fn)
}

// OnAudioFocusChange sets the direct focus callback on the tracker, in
// addition to relay delivery. Pass nil to clear it.
func (d *Detector) OnAudioFocusChange(fn func(state audiofocus.FocusState)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.focus.OnFocusChange(fn)
}

// Kill stops both trackers, clears every subscription and marks the
// Detector dead. Further start operations return ErrDetectorKilled;
// stops remain no-ops. Kill is idempotent.
func (d *Detector) Kill() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.killed {
		return
	}
	d.killed = true

	d.calls.Stop()
	d.focus.Stop()
	d.relay.Clear()

	logrus.WithFields(logrus.Fields{
		"function": "Kill",
	}).Info("Detector killed")
}
