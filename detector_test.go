package calldetect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/calldetect/audiofocus"
	"github.com/opd-ai/calldetect/event"
	"github.com/opd-ai/calldetect/sim"
	"github.com/opd-ai/calldetect/telephony"
)

// newSimDetector wires a detector to fresh simulators.
func newSimDetector(t *testing.T) (*Detector, *sim.Telephony, *sim.AudioFocus) {
	t.Helper()

	tel := sim.NewTelephony()
	tel.UseLegacyAPI(true) // carry caller numbers in tests
	audio := sim.NewAudioFocus()

	options := NewOptions()
	options.Telephony = telephony.NewSource(tel)
	options.AudioFocus = audiofocus.NewSource(audio)

	detector, err := New(options)
	require.NoError(t, err)
	return detector, tel, audio
}

func TestNew_NilOptionsYieldsWorkingDetector(t *testing.T) {
	detector, err := New(nil)
	require.NoError(t, err)
	defer detector.Kill()

	// No sources injected: both starts report the absent services.
	assert.ErrorIs(t, detector.StartListener(), telephony.ErrServiceUnavailable)
	assert.ErrorIs(t, detector.StartAudioFocusListener(), audiofocus.ErrServiceUnavailable)
	assert.False(t, detector.IsActive())
	assert.False(t, detector.IsAudioFocusActive())
}

func TestDetector_CallListenerLifecycle(t *testing.T) {
	detector, tel, _ := newSimDetector(t)
	defer detector.Kill()

	require.NoError(t, detector.StartListener())
	require.NoError(t, detector.StartListener(), "double start must be a no-op success")
	assert.True(t, detector.IsActive())
	assert.Equal(t, 1, tel.Registrations())

	detector.StopListener()
	detector.StopListener()
	assert.False(t, detector.IsActive())
}

func TestDetector_RingingScenario(t *testing.T) {
	detector, tel, _ := newSimDetector(t)
	defer detector.Kill()

	var payloads []string
	sub := detector.AddCallStateListener(func(ev event.Event) {
		data, err := json.Marshal(ev)
		require.NoError(t, err)
		payloads = append(payloads, string(data))
	})
	defer sub.Remove()

	require.NoError(t, detector.StartListener())
	tel.PlaceCall("5551234")

	assert.Equal(t, telephony.CallRinging, detector.CallState())
	require.Len(t, payloads, 1)

	var payload struct {
		State       string `json:"state"`
		PhoneNumber string `json:"phoneNumber"`
		Type        string `json:"type"`
		Timestamp   int64  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal([]byte(payloads[0]), &payload))
	assert.Equal(t, "RINGING", payload.State)
	assert.Equal(t, "5551234", payload.PhoneNumber)
	assert.Equal(t, "gsm", payload.Type)
	assert.Positive(t, payload.Timestamp)
}

func TestDetector_AudioFocusScenario(t *testing.T) {
	detector, _, audio := newSimDetector(t)
	defer detector.Kill()

	var events []event.Event
	sub := detector.AddAudioFocusListener(func(ev event.Event) {
		events = append(events, ev)
	})
	defer sub.Remove()

	require.NoError(t, detector.StartAudioFocusListener())

	snap := detector.AudioFocusState()
	assert.Equal(t, audiofocus.FocusGained, snap.State)
	assert.True(t, snap.HasAudioFocus)
	assert.True(t, snap.IsListening)

	audio.TakeFocusTransient()

	require.Len(t, events, 1)
	assert.Equal(t, "FOCUS_LOSS_TRANSIENT", events[0].State)
	assert.True(t, events[0].IsInterrupted)
	assert.False(t, events[0].HasAudioFocus)

	snap = detector.AudioFocusState()
	assert.Equal(t, audiofocus.FocusLossTransient, snap.State)
	assert.False(t, snap.HasAudioFocus)
	assert.True(t, snap.IsListening, "losing focus does not stop listening")
}

func TestDetector_StartAllListenersPartialSuccess(t *testing.T) {
	detector, tel, _ := newSimDetector(t)
	defer detector.Kill()

	tel.DenyPermission(true)

	status := detector.StartAllListeners()

	assert.False(t, status.GsmListening)
	assert.True(t, status.AudioFocusListening, "audio start must be attempted despite the telephony failure")
	assert.False(t, detector.IsActive())
	assert.True(t, detector.IsAudioFocusActive())
}

func TestDetector_StartAllListenersFullSuccess(t *testing.T) {
	detector, _, _ := newSimDetector(t)
	defer detector.Kill()

	status := detector.StartAllListeners()

	assert.True(t, status.GsmListening)
	assert.True(t, status.AudioFocusListening)
}

func TestDetector_ListenerStatusJSONShape(t *testing.T) {
	data, err := json.Marshal(ListenerStatus{GsmListening: false, AudioFocusListening: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"gsmListening":false,"audioFocusListening":true}`, string(data))
}

func TestDetector_StopAllListeners(t *testing.T) {
	detector, tel, audio := newSimDetector(t)
	defer detector.Kill()

	detector.StartAllListeners()
	detector.StopAllListeners()

	assert.False(t, detector.IsActive())
	assert.False(t, detector.IsAudioFocusActive())
	assert.False(t, tel.Bound())
	assert.False(t, audio.Held())

	// Unconditional and repeatable.
	detector.StopAllListeners()
}

func TestDetector_RemoveAllSilencesBothCategories(t *testing.T) {
	detector, tel, audio := newSimDetector(t)
	defer detector.Kill()

	var delivered int
	detector.AddCallStateListener(func(event.Event) { delivered++ })
	detector.AddAudioFocusListener(func(event.Event) { delivered++ })

	detector.StartAllListeners()
	detector.RemoveAll()

	tel.PlaceCall("5551234")
	audio.TakeFocus()
	tel.EndCall()

	assert.Zero(t, delivered, "publishes after RemoveAll must invoke zero callbacks")
}

func TestDetector_RemoveAllListenersLeavesOtherCategory(t *testing.T) {
	detector, tel, audio := newSimDetector(t)
	defer detector.Kill()

	var calls, focus int
	detector.AddCallStateListener(func(event.Event) { calls++ })
	detector.AddAudioFocusListener(func(event.Event) { focus++ })

	detector.StartAllListeners()
	detector.RemoveAllListeners()

	tel.PlaceCall("5551234")
	audio.TakeFocus()

	assert.Zero(t, calls)
	assert.Equal(t, 1, focus)

	detector.RemoveAllAudioFocusListeners()
	audio.ReturnFocus()
	assert.Equal(t, 1, focus)
}

func TestDetector_DirectCallbacks(t *testing.T) {
	detector, tel, audio := newSimDetector(t)
	defer detector.Kill()

	var callState telephony.CallState
	var focusState audiofocus.FocusState
	detector.OnCallStateChange(func(state telephony.CallState, _ string) { callState = state })
	detector.OnAudioFocusChange(func(state audiofocus.FocusState) { focusState = state })

	detector.StartAllListeners()
	tel.PlaceCall("5551234")
	audio.Duck()

	assert.Equal(t, telephony.CallRinging, callState)
	assert.Equal(t, audiofocus.FocusLossCanDuck, focusState)
}

func TestDetector_KillTearsEverythingDown(t *testing.T) {
	detector, tel, audio := newSimDetector(t)

	var delivered int
	detector.AddCallStateListener(func(event.Event) { delivered++ })
	detector.StartAllListeners()

	detector.Kill()
	detector.Kill() // idempotent

	assert.False(t, detector.IsActive())
	assert.False(t, detector.IsAudioFocusActive())
	assert.False(t, tel.Bound())
	assert.False(t, audio.Held())

	// Dead detectors reject starts and ignore subscriptions.
	assert.ErrorIs(t, detector.StartListener(), ErrDetectorKilled)
	assert.ErrorIs(t, detector.StartAudioFocusListener(), ErrDetectorKilled)
	assert.Equal(t, ListenerStatus{}, detector.StartAllListeners())
	assert.Nil(t, detector.AddCallStateListener(func(event.Event) {}))
	assert.Nil(t, detector.AddAudioFocusListener(func(event.Event) {}))

	tel.PlaceCall("5551234")
	assert.Zero(t, delivered, "killed detectors must deliver nothing")

	// Stops stay safe after death.
	detector.StopListener()
	detector.StopAllListeners()
	detector.RemoveAll()
}

func TestDetector_SharedRelayAcrossDetectors(t *testing.T) {
	relay := event.NewRelay()

	telA := sim.NewTelephony()
	optionsA := NewOptions()
	optionsA.Telephony = telephony.NewSource(telA)
	optionsA.Relay = relay
	detectorA, err := New(optionsA)
	require.NoError(t, err)
	defer detectorA.Kill()

	telB := sim.NewTelephony()
	optionsB := NewOptions()
	optionsB.Telephony = telephony.NewSource(telB)
	optionsB.Relay = relay
	detectorB, err := New(optionsB)
	require.NoError(t, err)
	defer detectorB.Kill()

	var states []string
	relay.Subscribe(event.CategoryCall, func(ev event.Event) {
		states = append(states, ev.State)
	})

	require.NoError(t, detectorA.StartListener())
	require.NoError(t, detectorB.StartListener())

	telA.PlaceCall("111")
	telB.AnswerCall()

	assert.Equal(t, []string{"RINGING", "OFFHOOK"}, states)

	// Each detector still owns its tracker state independently.
	assert.Equal(t, telephony.CallRinging, detectorA.CallState())
	assert.Equal(t, telephony.CallOffhook, detectorB.CallState())
}

func TestDetector_IndependentInstancesAreIsolated(t *testing.T) {
	detectorA, telA, _ := newSimDetector(t)
	defer detectorA.Kill()
	detectorB, _, _ := newSimDetector(t)
	defer detectorB.Kill()

	var aEvents, bEvents int
	detectorA.AddCallStateListener(func(event.Event) { aEvents++ })
	detectorB.AddCallStateListener(func(event.Event) { bEvents++ })

	require.NoError(t, detectorA.StartListener())
	require.NoError(t, detectorB.StartListener())

	telA.PlaceCall("5551234")

	assert.Equal(t, 1, aEvents)
	assert.Zero(t, bEvents, "private relays must not leak events across instances")
	assert.Equal(t, telephony.CallIdle, detectorB.CallState())
}
