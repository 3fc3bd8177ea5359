package event

import (
	"encoding/json"
	"time"
)

// Category identifies an event stream on the relay. No category exists
// until its first subscriber registers.
type Category string

const (
	// CategoryCall carries telephony call-state changes.
	CategoryCall Category = "gsm"

	// CategoryFocus carries audio-focus changes.
	CategoryFocus Category = "audio_focus"
)

// TimeProvider abstracts time operations for deterministic testing.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the standard library time functions.
type DefaultTimeProvider struct{}

// Now returns the current time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }

// Event is an immutable notification record. It is created when a platform
// notification is normalized and consumed by zero or more subscribers; it is
// never stored.
//
// Only the fields matching the Category are meaningful: PhoneNumber for
// CategoryCall, IsInterrupted and HasAudioFocus for CategoryFocus.
type Event struct {
	Category  Category
	State     string
	Timestamp int64 // Unix milliseconds

	// PhoneNumber is the caller number as supplied by the platform.
	// Modern telephony callbacks redact it, so it may be empty.
	PhoneNumber string

	// IsInterrupted is true exactly when playback must halt
	// (full or transient focus loss).
	IsInterrupted bool

	// HasAudioFocus is false exactly when focus was revoked
	// (full or transient loss); ducking keeps it true.
	HasAudioFocus bool
}

// NewCallEvent builds a CategoryCall event for a normalized call state.
func NewCallEvent(state, phoneNumber string, at time.Time) Event {
	return Event{
		Category:    CategoryCall,
		State:       state,
		PhoneNumber: phoneNumber,
		Timestamp:   at.UnixMilli(),
	}
}

// NewFocusEvent builds a CategoryFocus event for a normalized focus state.
func NewFocusEvent(state string, interrupted, hasFocus bool, at time.Time) Event {
	return Event{
		Category:      CategoryFocus,
		State:         state,
		IsInterrupted: interrupted,
		HasAudioFocus: hasFocus,
		Timestamp:     at.UnixMilli(),
	}
}

// MarshalJSON emits the category-specific payload shape.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Category {
	case CategoryCall:
		return json.Marshal(struct {
			State       string `json:"state"`
			PhoneNumber string `json:"phoneNumber"`
			Type        string `json:"type"`
			Timestamp   int64  `json:"timestamp"`
		}{e.State, e.PhoneNumber, string(e.Category), e.Timestamp})
	case CategoryFocus:
		return json.Marshal(struct {
			State         string `json:"state"`
			IsInterrupted bool   `json:"isInterrupted"`
			HasAudioFocus bool   `json:"hasAudioFocus"`
			Type          string `json:"type"`
			Timestamp     int64  `json:"timestamp"`
		}{e.State, e.IsInterrupted, e.HasAudioFocus, string(e.Category), e.Timestamp})
	default:
		return json.Marshal(struct {
			State     string `json:"state"`
			Type      string `json:"type"`
			Timestamp int64  `json:"timestamp"`
		}{e.State, string(e.Category), e.Timestamp})
	}
}
