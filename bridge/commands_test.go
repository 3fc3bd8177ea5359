package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/calldetect"
	"github.com/opd-ai/calldetect/audiofocus"
	"github.com/opd-ai/calldetect/sim"
	"github.com/opd-ai/calldetect/telephony"
)

// newSimHandler wires a command handler to a detector backed by fresh
// simulators.
func newSimHandler(t *testing.T) (*CommandHandler, *sim.Telephony, *sim.AudioFocus, *calldetect.Detector) {
	t.Helper()

	phone := sim.NewTelephony()
	phone.UseLegacyAPI(true)
	audio := sim.NewAudioFocus()

	options := calldetect.NewOptions()
	options.Telephony = telephony.NewSource(phone)
	options.AudioFocus = audiofocus.NewSource(audio)

	detector, err := calldetect.New(options)
	require.NoError(t, err)
	t.Cleanup(detector.Kill)

	return NewCommandHandler(detector, phone, audio), phone, audio, detector
}

func TestCommandHandler_CallLifecycle(t *testing.T) {
	h, _, _, detector := newSimHandler(t)
	send := make(chan any, 8)

	h.Handle(Command{Type: "call/start"}, send)
	result := (<-send).(map[string]any)
	assert.Equal(t, "call/start_result", result["type"])
	assert.Equal(t, true, result["success"])
	assert.True(t, detector.IsActive())

	h.Handle(Command{Type: "call/stop"}, send)
	result = (<-send).(map[string]any)
	assert.Equal(t, true, result["success"])
	assert.False(t, detector.IsActive())
}

func TestCommandHandler_CallStartErrorReachesClient(t *testing.T) {
	h, phone, _, _ := newSimHandler(t)
	phone.DenyPermission(true)
	send := make(chan any, 8)

	h.Handle(Command{Type: "call/start"}, send)
	result := (<-send).(map[string]any)
	assert.Equal(t, false, result["success"])
	assert.Contains(t, result["error"].(string), telephony.ErrPermissionDenied.Error())
}

func TestCommandHandler_SimCallDrivesState(t *testing.T) {
	h, _, _, detector := newSimHandler(t)
	send := make(chan any, 8)

	h.Handle(Command{Type: "call/start"}, send)
	<-send

	h.Handle(Command{Type: "sim/call", Data: json.RawMessage(`{"action":"place","number":"5551234"}`)}, send)
	result := (<-send).(map[string]any)
	require.Equal(t, true, result["success"])
	assert.Equal(t, telephony.CallRinging, detector.CallState())

	h.Handle(Command{Type: "sim/call", Data: json.RawMessage(`{"action":"answer"}`)}, send)
	<-send
	assert.Equal(t, telephony.CallOffhook, detector.CallState())

	h.Handle(Command{Type: "sim/call", Data: json.RawMessage(`{"action":"end"}`)}, send)
	<-send
	assert.Equal(t, telephony.CallIdle, detector.CallState())
}

func TestCommandHandler_CallStateQuery(t *testing.T) {
	h, phone, _, _ := newSimHandler(t)
	send := make(chan any, 8)

	h.Handle(Command{Type: "call/start"}, send)
	<-send
	phone.PlaceCall("5550000")

	h.Handle(Command{Type: "call/state"}, send)
	result := (<-send).(map[string]any)
	require.Equal(t, true, result["success"])

	data, ok := result["data"].(CallStateData)
	require.True(t, ok)
	assert.Equal(t, "RINGING", data.State)
	assert.True(t, data.IsActive)
}

func TestCommandHandler_FocusStateQuery(t *testing.T) {
	h, _, audio, _ := newSimHandler(t)
	send := make(chan any, 8)

	h.Handle(Command{Type: "focus/start"}, send)
	<-send
	audio.Duck()

	h.Handle(Command{Type: "focus/state"}, send)
	result := (<-send).(map[string]any)
	require.Equal(t, true, result["success"])

	snap, ok := result["data"].(audiofocus.Snapshot)
	require.True(t, ok)
	assert.Equal(t, audiofocus.FocusLossCanDuck, snap.State)
	assert.True(t, snap.HasAudioFocus, "ducking must not drop focus")
}

func TestCommandHandler_AllStartReportsPartialSuccess(t *testing.T) {
	phone := sim.NewTelephony()
	phone.UseLegacyAPI(true)
	phone.DenyPermission(true)
	audio := sim.NewAudioFocus()

	options := calldetect.NewOptions()
	options.Telephony = telephony.NewSource(phone)
	options.AudioFocus = audiofocus.NewSource(audio)

	detector, err := calldetect.New(options)
	require.NoError(t, err)
	t.Cleanup(detector.Kill)

	h := NewCommandHandler(detector, phone, audio)
	send := make(chan any, 8)

	h.Handle(Command{Type: "all/start"}, send)
	result := (<-send).(map[string]any)
	require.Equal(t, true, result["success"])

	status, ok := result["data"].(calldetect.ListenerStatus)
	require.True(t, ok)
	assert.False(t, status.GsmListening)
	assert.True(t, status.AudioFocusListening)
}

func TestCommandHandler_StatusGetPushesSnapshot(t *testing.T) {
	h, phone, _, detector := newSimHandler(t)
	send := make(chan any, 8)

	detector.StartAllListeners()
	phone.PlaceCall("5550000")

	h.Handle(Command{Type: "status/get"}, send)
	status, ok := (<-send).(StatusResponse)
	require.True(t, ok)
	assert.Equal(t, "status", status.Type)
	assert.True(t, status.GsmListening)
	assert.True(t, status.AudioFocusListening)
	assert.Equal(t, "RINGING", status.CallState)
	assert.Equal(t, "FOCUS_GAINED", status.FocusState)
	assert.True(t, status.HasAudioFocus)
}

func TestCommandHandler_SimWithoutSimulator(t *testing.T) {
	detector, err := calldetect.New(nil)
	require.NoError(t, err)
	t.Cleanup(detector.Kill)

	h := NewCommandHandler(detector, nil, nil)
	send := make(chan any, 8)

	h.Handle(Command{Type: "sim/call", Data: json.RawMessage(`{"action":"place"}`)}, send)
	result := (<-send).(map[string]any)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, ErrNoSimulator.Error(), result["error"])

	h.Handle(Command{Type: "sim/focus", Data: json.RawMessage(`{"action":"take"}`)}, send)
	result = (<-send).(map[string]any)
	assert.Equal(t, false, result["success"])
}

func TestCommandHandler_UnknownCommand(t *testing.T) {
	h, _, _, _ := newSimHandler(t)
	send := make(chan any, 8)

	h.Handle(Command{Type: "bogus/thing"}, send)
	result := (<-send).(map[string]any)
	assert.Equal(t, "bogus/thing_result", result["type"])
	assert.Equal(t, false, result["success"])

	h.Handle(Command{Type: "call/jump"}, send)
	result = (<-send).(map[string]any)
	assert.Equal(t, false, result["success"])
	assert.Contains(t, result["error"].(string), "unknown call action")
}
