package telephony

import (
	"github.com/sirupsen/logrus"
)

// StateFunc receives one platform call-state notification.
type StateFunc func(code int32, phoneNumber string)

// Registration is an active call-state binding held between Start and
// Stop.
type Registration interface {
	// Unregister releases the binding. The binding is gone regardless of
	// the returned error; callers log failures and continue.
	Unregister() error
}

// Source hands call-state notifications to a tracker. Implementations
// wrap a platform service or a simulator.
type Source interface {
	// Register subscribes fn to call-state notifications and returns the
	// registration that releases it. Fails with ErrPermissionDenied when
	// platform policy forbids listening, or ErrServiceUnavailable when
	// the service is gone.
	Register(fn StateFunc) (Registration, error)
}

// Service is the platform telephony boundary. Platforms expose one of two
// registration APIs for call-state notifications; NewSource picks
// whichever the service reports as supported.
type Service interface {
	// CallbackSupported reports whether the modern push-callback API is
	// available.
	CallbackSupported() bool

	// RegisterCallback subscribes to state codes through the modern API.
	// The caller number is not available on this path.
	RegisterCallback(fn func(code int32)) (Registration, error)

	// RegisterListener subscribes to state codes and caller numbers
	// through the legacy listener API.
	RegisterListener(fn func(code int32, phoneNumber string)) (Registration, error)
}

// NewSource selects the registration strategy the service supports. The
// choice happens once; trackers never branch on it afterwards.
//
// A nil service yields a nil Source, which the tracker reports as
// ErrServiceUnavailable on Start.
func NewSource(svc Service) Source {
	if svc == nil {
		return nil
	}

	if svc.CallbackSupported() {
		logrus.WithFields(logrus.Fields{
			"function": "NewSource",
			"strategy": "callback",
		}).Info("Using modern call state registration")
		return NewCallbackSource(svc)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewSource",
		"strategy": "listener",
	}).Info("Using legacy call state registration")
	return NewListenerSource(svc)
}

// NewCallbackSource adapts the modern push-callback API directly. The
// caller number is never available on this path.
func NewCallbackSource(svc Service) Source {
	return &callbackSource{svc: svc}
}

// NewListenerSource adapts the legacy listener API directly, which
// supplies the caller number.
func NewListenerSource(svc Service) Source {
	return &listenerSource{svc: svc}
}

// callbackSource registers through the modern push-callback API, which
// redacts the caller number.
type callbackSource struct {
	svc Service
}

func (c *callbackSource) Register(fn StateFunc) (Registration, error) {
	return c.svc.RegisterCallback(func(code int32) {
		fn(code, "")
	})
}

// listenerSource registers through the legacy listener API, which supplies
// the caller number.
type listenerSource struct {
	svc Service
}

func (l *listenerSource) Register(fn StateFunc) (Registration, error) {
	return l.svc.RegisterListener(fn)
}
