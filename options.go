package calldetect

import (
	"github.com/opd-ai/calldetect/audiofocus"
	"github.com/opd-ai/calldetect/event"
	"github.com/opd-ai/calldetect/telephony"
)

// Options contains configuration options for creating a Detector.
type Options struct {
	// Telephony is the call-state source. Nil models an absent telephony
	// service: call-state starts report telephony.ErrServiceUnavailable.
	Telephony telephony.Source

	// AudioFocus is the focus source. Nil models an absent audio
	// service: focus starts report audiofocus.ErrServiceUnavailable.
	AudioFocus audiofocus.Source

	// Relay carries events to subscribers. Nil creates a relay private
	// to this Detector; supply one to share a relay across detectors.
	Relay *event.Relay

	// TimeProvider stamps event timestamps. Nil uses the system clock.
	TimeProvider event.TimeProvider
}

// NewOptions creates a new Options struct with default settings. Sources
// default to nil (unavailable) and are injected by the caller.
func NewOptions() *Options {
	return &Options{}
}
