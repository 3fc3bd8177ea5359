// Package telephony tracks the device call state from platform
// notifications.
//
// The Tracker wraps a Source, which abstracts the platform telephony
// service. On Start the tracker registers a state handler with the source;
// every notification is normalized to a CallState, stored, and re-broadcast
// on the relay's "gsm" category. Stop unregisters and is infallible: a
// failing platform unregister call is logged and swallowed so the listening
// flag stays consistent.
//
// Two registration strategies exist on real platforms: a modern
// push-callback API that omits the caller number for privacy, and a legacy
// listener API that supplies it. NewSource selects between them once, at
// construction, based on what the service supports; the Tracker itself
// never branches on the strategy.
//
//	tracker := telephony.NewTracker(telephony.NewSource(service), relay)
//	if err := tracker.Start(); err != nil {
//	    // telephony.ErrPermissionDenied or telephony.ErrServiceUnavailable
//	}
//	defer tracker.Stop()
//
//	fmt.Println(tracker.State()) // IDLE until the first notification
package telephony
