package audiofocus

import "errors"

// Sentinel errors for audio-focus tracker operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrFocusDenied indicates the platform declined the focus grant.
	// The caller may retry later.
	ErrFocusDenied = errors.New("audio focus request denied")

	// ErrServiceUnavailable indicates the audio service handle is absent.
	// Fatal for the start attempt that observed it.
	ErrServiceUnavailable = errors.New("audio service unavailable")
)
