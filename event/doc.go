// Package event implements the process-wide publish/subscribe relay that
// carries normalized call-state and audio-focus notifications from the
// trackers to application observers.
//
// The relay is category-based: call-state events travel on the "gsm"
// category and audio-focus events on "audio_focus". Subscribers register a
// callback for one category and receive every event published to it, in
// registration order, synchronously on the goroutine that delivered the
// underlying platform notification.
//
// # Basic Usage
//
//	relay := event.NewRelay()
//
//	sub := relay.Subscribe(event.CategoryCall, func(ev event.Event) {
//	    fmt.Printf("call state %s from %q\n", ev.State, ev.PhoneNumber)
//	})
//	defer sub.Remove()
//
//	relay.Publish(event.NewCallEvent("RINGING", "5551234", time.Now()))
//
// # Delivery Guarantees
//
// Publish takes a snapshot of the category's subscriber list, so a callback
// that removes its own subscription (or any other) mid-delivery neither
// corrupts iteration nor skips a sibling. A panic inside one callback is
// recovered and logged; later callbacks still receive the event. Subscription
// removal is idempotent.
//
// Events marshal to the JSON payload shapes consumed by bridge clients:
//
//	{"state":"RINGING","phoneNumber":"5551234","type":"gsm","timestamp":1756100000000}
//	{"state":"FOCUS_LOSS","isInterrupted":true,"hasAudioFocus":false,"type":"audio_focus","timestamp":1756100000000}
package event
