package telephony

import "errors"

// Sentinel errors for telephony tracker operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrPermissionDenied indicates the platform rejected the call-state
	// registration on policy grounds. The caller may retry after the
	// permission is granted.
	ErrPermissionDenied = errors.New("call state permission denied")

	// ErrServiceUnavailable indicates the telephony service handle is
	// absent. Fatal for the start attempt that observed it.
	ErrServiceUnavailable = errors.New("telephony service unavailable")
)
