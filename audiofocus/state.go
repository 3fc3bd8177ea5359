package audiofocus

import "encoding/json"

// FocusState represents the normalized audio-focus state.
type FocusState uint8

const (
	// FocusNone means no focus request is held; the state outside a
	// listening period.
	FocusNone FocusState = iota

	// FocusGained means the focus request is granted and playback may
	// run at full volume.
	FocusGained

	// FocusLoss means focus was taken for an indefinite duration.
	FocusLoss

	// FocusLossTransient means focus was taken briefly and will return.
	FocusLossTransient

	// FocusLossCanDuck means another app plays over us but playback may
	// continue at reduced volume. Focus is retained.
	FocusLossCanDuck

	// FocusUnknown means the platform delivered an unrecognized change
	// code.
	FocusUnknown
)

// Platform wire codes for focus-change notifications.
const (
	CodeGain          int32 = 1
	CodeLoss          int32 = -1
	CodeLossTransient int32 = -2
	CodeLossCanDuck   int32 = -3
)

// StateFromCode maps a platform focus-change code to a FocusState.
// Unrecognized codes map to FocusUnknown.
func StateFromCode(code int32) FocusState {
	switch code {
	case CodeGain:
		return FocusGained
	case CodeLoss:
		return FocusLoss
	case CodeLossTransient:
		return FocusLossTransient
	case CodeLossCanDuck:
		return FocusLossCanDuck
	default:
		return FocusUnknown
	}
}

// String returns the string representation of the state.
func (s FocusState) String() string {
	switch s {
	case FocusNone:
		return "NONE"
	case FocusGained:
		return "FOCUS_GAINED"
	case FocusLoss:
		return "FOCUS_LOSS"
	case FocusLossTransient:
		return "FOCUS_LOSS_TRANSIENT"
	case FocusLossCanDuck:
		return "FOCUS_LOSS_CAN_DUCK"
	default:
		return "UNKNOWN"
	}
}

// HasFocus reports whether audio output rights are retained in this
// state. Full and transient loss revoke them; ducking keeps them; outside
// a listening period (NONE) none are held.
func (s FocusState) HasFocus() bool {
	switch s {
	case FocusLoss, FocusLossTransient, FocusNone:
		return false
	default:
		return true
	}
}

// Interrupted reports whether playback must halt in this state. True
// exactly for FocusLoss and FocusLossTransient; ducking is not an
// interruption.
func (s FocusState) Interrupted() bool {
	return s == FocusLoss || s == FocusLossTransient
}

// MarshalJSON implements json.Marshaler.
func (s FocusState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *FocusState) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "NONE":
		*s = FocusNone
	case "FOCUS_GAINED":
		*s = FocusGained
	case "FOCUS_LOSS":
		*s = FocusLoss
	case "FOCUS_LOSS_TRANSIENT":
		*s = FocusLossTransient
	case "FOCUS_LOSS_CAN_DUCK":
		*s = FocusLossCanDuck
	default:
		*s = FocusUnknown
	}
	return nil
}
