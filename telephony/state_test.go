package telephony

import (
	"encoding/json"
	"testing"
)

// TestStateFromCode verifies the platform code mapping, including the
// unknown fallback.
func TestStateFromCode(t *testing.T) {
	tests := []struct {
		code     int32
		expected CallState
	}{
		{CodeIdle, CallIdle},
		{CodeRinging, CallRinging},
		{CodeOffhook, CallOffhook},
		{3, CallUnknown},
		{-1, CallUnknown},
		{127, CallUnknown},
	}

	for _, tt := range tests {
		if got := StateFromCode(tt.code); got != tt.expected {
			t.Errorf("StateFromCode(%d) = %v, expected %v", tt.code, got, tt.expected)
		}
	}
}

// TestCallStateString verifies the normalized state names.
func TestCallStateString(t *testing.T) {
	tests := []struct {
		state    CallState
		expected string
	}{
		{CallIdle, "IDLE"},
		{CallRinging, "RINGING"},
		{CallOffhook, "OFFHOOK"},
		{CallUnknown, "UNKNOWN"},
		{CallState(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("CallState(%d).String() = %q, expected %q", tt.state, got, tt.expected)
		}
	}
}

// TestCallStateInCall verifies only ringing and offhook count as in-call.
func TestCallStateInCall(t *testing.T) {
	if CallIdle.InCall() {
		t.Error("IDLE should not be in-call")
	}
	if CallUnknown.InCall() {
		t.Error("UNKNOWN should not be in-call")
	}
	if !CallRinging.InCall() {
		t.Error("RINGING should be in-call")
	}
	if !CallOffhook.InCall() {
		t.Error("OFFHOOK should be in-call")
	}
}

// TestCallStateJSON verifies the state marshals to its name and parses
// back, with unknown names collapsing to UNKNOWN.
func TestCallStateJSON(t *testing.T) {
	data, err := json.Marshal(CallRinging)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"RINGING"` {
		t.Errorf("Expected \"RINGING\", got %s", data)
	}

	var state CallState
	if err := json.Unmarshal([]byte(`"OFFHOOK"`), &state); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if state != CallOffhook {
		t.Errorf("Expected CallOffhook, got %v", state)
	}

	if err := json.Unmarshal([]byte(`"NOT_A_STATE"`), &state); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if state != CallUnknown {
		t.Errorf("Expected CallUnknown for unrecognized name, got %v", state)
	}
}
