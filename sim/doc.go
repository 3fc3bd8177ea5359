// Package sim provides scriptable stand-ins for the platform telephony
// and audio services.
//
// Telephony implements [telephony.Service] and AudioFocus implements
// [audiofocus.Service], so either registration strategy can be exercised
// without a device. Scripting helpers (PlaceCall, AnswerCall, TakeFocus,
// Duck, ...) push notifications synchronously on the calling goroutine,
// mirroring the platform's single callback executor. Failure injection
// covers the start-time error paths (permission denial, focus denial,
// absent service) and the teardown warnings (failing unregister/abandon).
//
//	tel := sim.NewTelephony()
//	tracker := telephony.NewTracker(telephony.NewSource(tel), relay)
//	_ = tracker.Start()
//	tel.PlaceCall("5551234") // tracker state is now RINGING
//
// The simulators back the example programs, the bridge daemon and the
// integration tests.
package sim
