// Package audiofocus tracks platform audio-focus arbitration.
//
// The Tracker wraps a Source, which abstracts the platform audio service.
// Start submits a focus request carrying media attributes and a change
// callback; a grant marks the tracker listening with FocusGained. Every
// focus-change notification is normalized to a FocusState, stored together
// with its derived hasAudioFocus flag, and re-broadcast on the relay's
// "audio_focus" category. Stop abandons the request, resets the state to
// FocusNone and is infallible.
//
// Focus loss is a coarse signal: it cannot distinguish a VoIP call from
// unrelated media playback taking focus. The tracker forwards the state
// exactly as the platform reported it and leaves that policy decision to
// the consumer.
//
//	tracker := audiofocus.NewTracker(audiofocus.NewSource(service), relay)
//	if err := tracker.Start(); err != nil {
//	    // audiofocus.ErrFocusDenied or audiofocus.ErrServiceUnavailable
//	}
//	defer tracker.Stop()
//
//	snap := tracker.Snapshot() // {FOCUS_GAINED, hasAudioFocus:true, isListening:true}
package audiofocus
