package calldetect

import "errors"

var (
	// ErrDetectorKilled indicates an operation on a Detector after Kill.
	ErrDetectorKilled = errors.New("detector has been killed")
)
