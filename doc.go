// Package calldetect tracks device call state and audio-focus state and
// fans normalized events out to in-process subscribers.
//
// The package is the API facade over three subsystems: a call-state
// tracker wrapping the platform telephony service, an audio-focus tracker
// wrapping the platform audio service, and a category-based event relay
// shared by both. The platform services are injected as interfaces, so
// the same Detector runs against real bindings, the sim package's
// scriptable services, or test fakes.
//
// # Getting Started
//
// Create a Detector with options and subscribe to the event streams:
//
//	tel := sim.NewTelephony()
//	audio := sim.NewAudioFocus()
//
//	options := calldetect.NewOptions()
//	options.Telephony = telephony.NewSource(tel)
//	options.AudioFocus = audiofocus.NewSource(audio)
//
//	detector, err := calldetect.New(options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer detector.Kill()
//
//	sub := detector.AddCallStateListener(func(ev event.Event) {
//	    fmt.Printf("call %s from %q\n", ev.State, ev.PhoneNumber)
//	})
//	defer sub.Remove()
//
//	status := detector.StartAllListeners()
//	fmt.Printf("gsm=%v audio=%v\n", status.GsmListening, status.AudioFocusListening)
//
// # Core Types
//
//   - [Detector]: API facade owning both trackers and the relay
//   - [Options]: Configuration for creating a Detector
//   - [ListenerStatus]: Per-tracker outcome of StartAllListeners
//
// # Lifecycle
//
// Start operations return an error when the platform rejects them
// (permission denied, focus denied, service unavailable); a failed start
// leaves the tracker inactive and retrying is simply starting again. Stop
// operations never fail: platform teardown errors are logged and
// swallowed so the listening flags stay consistent. Kill stops both
// trackers, clears every subscription and marks the Detector dead.
//
// # Event Streams
//
// Call-state events travel on the "gsm" category, audio-focus events on
// "audio_focus". Within one category, subscribers are invoked in
// registration order, synchronously on the goroutine that delivered the
// platform notification. Audio-focus events carry two derived flags:
// isInterrupted is true exactly for full and transient loss, and ducking
// (FOCUS_LOSS_CAN_DUCK) always keeps hasAudioFocus true. Focus loss alone
// cannot reveal which app took focus; consumers decide what it means.
package calldetect
