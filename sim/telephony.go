package sim

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/calldetect/telephony"
)

// Telephony is a scriptable telephony service. The zero strategy is the
// modern callback API; UseLegacyAPI switches to the listener API.
type Telephony struct {
	mu sync.Mutex

	legacy         bool
	denyPermission bool
	disabled       bool
	failUnregister bool

	callback func(code int32)
	listener func(code int32, phoneNumber string)

	currentNumber string
	registrations int
}

// NewTelephony creates a simulator reporting the modern callback API.
func NewTelephony() *Telephony {
	return &Telephony{}
}

// UseLegacyAPI selects the registration strategy reported to NewSource.
// Affects registrations performed afterwards.
func (s *Telephony) UseLegacyAPI(legacy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacy = legacy
}

// DenyPermission makes subsequent registrations fail with
// telephony.ErrPermissionDenied.
func (s *Telephony) DenyPermission(deny bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denyPermission = deny
}

// Disable makes subsequent registrations fail with
// telephony.ErrServiceUnavailable.
func (s *Telephony) Disable(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = disabled
}

// FailUnregister makes unregister calls report an error. The binding is
// released regardless, matching a platform that throws during teardown.
func (s *Telephony) FailUnregister(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUnregister = fail
}

// CallbackSupported implements telephony.Service.
func (s *Telephony) CallbackSupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.legacy
}

// RegisterCallback implements telephony.Service (modern strategy).
func (s *Telephony) RegisterCallback(fn func(code int32)) (telephony.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registerErrLocked(); err != nil {
		return nil, err
	}

	s.callback = fn
	s.registrations++

	logrus.WithFields(logrus.Fields{
		"function": "RegisterCallback",
		"total":    s.registrations,
	}).Debug("Simulated telephony callback registered")

	return &telephonyRegistration{svc: s, legacy: false}, nil
}

// RegisterListener implements telephony.Service (legacy strategy).
func (s *Telephony) RegisterListener(fn func(code int32, phoneNumber string)) (telephony.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registerErrLocked(); err != nil {
		return nil, err
	}

	s.listener = fn
	s.registrations++

	logrus.WithFields(logrus.Fields{
		"function": "RegisterListener",
		"total":    s.registrations,
	}).Debug("Simulated telephony listener registered")

	return &telephonyRegistration{svc: s, legacy: true}, nil
}

func (s *Telephony) registerErrLocked() error {
	if s.disabled {
		return telephony.ErrServiceUnavailable
	}
	if s.denyPermission {
		return telephony.ErrPermissionDenied
	}
	return nil
}

// PlaceCall delivers a ringing notification from number and remembers the
// number for AnswerCall.
func (s *Telephony) PlaceCall(number string) {
	s.mu.Lock()
	s.currentNumber = number
	s.mu.Unlock()
	s.Deliver(telephony.CodeRinging, number)
}

// AnswerCall delivers an offhook notification carrying the ringing
// number, if any.
func (s *Telephony) AnswerCall() {
	s.mu.Lock()
	number := s.currentNumber
	s.mu.Unlock()
	s.Deliver(telephony.CodeOffhook, number)
}

// EndCall delivers an idle notification and forgets the ringing number.
func (s *Telephony) EndCall() {
	s.mu.Lock()
	s.currentNumber = ""
	s.mu.Unlock()
	s.Deliver(telephony.CodeIdle, "")
}

// Deliver pushes a raw state code through whichever binding is active.
// Only the legacy listener receives the number; the modern callback API
// cannot carry it.
func (s *Telephony) Deliver(code int32, number string) {
	s.mu.Lock()
	cb, ln := s.callback, s.listener
	s.mu.Unlock()

	if cb != nil {
		cb(code)
	}
	if ln != nil {
		ln(code, number)
	}
}

// Registrations returns the number of successful registrations performed
// over the simulator's lifetime.
func (s *Telephony) Registrations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrations
}

// Bound reports whether a handler is currently registered.
func (s *Telephony) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callback != nil || s.listener != nil
}

// telephonyRegistration releases the simulator binding on unregister.
type telephonyRegistration struct {
	svc    *Telephony
	legacy bool
}

func (r *telephonyRegistration) Unregister() error {
	r.svc.mu.Lock()
	if r.legacy {
		r.svc.listener = nil
	} else {
		r.svc.callback = nil
	}
	fail := r.svc.failUnregister
	r.svc.mu.Unlock()

	if fail {
		return errors.New("simulated unregister failure")
	}
	return nil
}
