package telephony

import "encoding/json"

// CallState represents the normalized device call state.
type CallState uint8

const (
	// CallIdle means no call activity; the state before any notification.
	CallIdle CallState = iota

	// CallRinging means an incoming call is ringing.
	CallRinging

	// CallOffhook means a call is active or dialing.
	CallOffhook

	// CallUnknown means the platform delivered an unrecognized state code.
	CallUnknown
)

// Platform wire codes for call-state notifications.
const (
	CodeIdle    int32 = 0
	CodeRinging int32 = 1
	CodeOffhook int32 = 2
)

// StateFromCode maps a platform call-state code to a CallState.
// Unrecognized codes map to CallUnknown.
func StateFromCode(code int32) CallState {
	switch code {
	case CodeIdle:
		return CallIdle
	case CodeRinging:
		return CallRinging
	case CodeOffhook:
		return CallOffhook
	default:
		return CallUnknown
	}
}

// String returns the string representation of the state.
func (s CallState) String() string {
	switch s {
	case CallIdle:
		return "IDLE"
	case CallRinging:
		return "RINGING"
	case CallOffhook:
		return "OFFHOOK"
	default:
		return "UNKNOWN"
	}
}

// InCall reports whether a call is ringing or active in this state.
func (s CallState) InCall() bool {
	return s == CallRinging || s == CallOffhook
}

// MarshalJSON implements json.Marshaler.
func (s CallState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *CallState) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "IDLE":
		*s = CallIdle
	case "RINGING":
		*s = CallRinging
	case "OFFHOOK":
		*s = CallOffhook
	default:
		*s = CallUnknown
	}
	return nil
}
