package sim

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/calldetect/audiofocus"
)

// AudioFocus is a scriptable audio service. The zero strategy is the
// modern attribute-based request API; UseLegacyAPI switches to the legacy
// stream request.
type AudioFocus struct {
	mu sync.Mutex

	legacy      bool
	denyFocus   bool
	disabled    bool
	failAbandon bool

	onChange func(code int32)
	held     bool

	requests    int
	lastRequest audiofocus.Request
}

// NewAudioFocus creates a simulator reporting the modern request API.
func NewAudioFocus() *AudioFocus {
	return &AudioFocus{}
}

// UseLegacyAPI selects the request strategy reported to NewSource.
// Affects requests performed afterwards.
func (s *AudioFocus) UseLegacyAPI(legacy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacy = legacy
}

// DenyFocus makes subsequent requests fail with
// audiofocus.ErrFocusDenied.
func (s *AudioFocus) DenyFocus(deny bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denyFocus = deny
}

// Disable makes subsequent requests fail with
// audiofocus.ErrServiceUnavailable.
func (s *AudioFocus) Disable(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = disabled
}

// FailAbandon makes abandon calls report an error. The grant is released
// regardless, matching a platform that throws during teardown.
func (s *AudioFocus) FailAbandon(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAbandon = fail
}

// BuilderSupported implements audiofocus.Service.
func (s *AudioFocus) BuilderSupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.legacy
}

// RequestFocus implements audiofocus.Service (modern strategy).
func (s *AudioFocus) RequestFocus(req audiofocus.Request) (audiofocus.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requestErrLocked(); err != nil {
		return nil, err
	}

	s.onChange = req.OnChange
	s.held = true
	s.requests++
	s.lastRequest = req

	logrus.WithFields(logrus.Fields{
		"function": "RequestFocus",
		"total":    s.requests,
	}).Debug("Simulated audio focus granted")

	return &focusGrant{svc: s}, nil
}

// RequestLegacyFocus implements audiofocus.Service (legacy strategy).
func (s *AudioFocus) RequestLegacyFocus(onChange func(code int32)) (audiofocus.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requestErrLocked(); err != nil {
		return nil, err
	}

	s.onChange = onChange
	s.held = true
	s.requests++
	s.lastRequest = audiofocus.Request{OnChange: onChange}

	logrus.WithFields(logrus.Fields{
		"function": "RequestLegacyFocus",
		"total":    s.requests,
	}).Debug("Simulated legacy audio focus granted")

	return &focusGrant{svc: s}, nil
}

func (s *AudioFocus) requestErrLocked() error {
	if s.disabled {
		return audiofocus.ErrServiceUnavailable
	}
	if s.denyFocus {
		return audiofocus.ErrFocusDenied
	}
	return nil
}

// TakeFocus simulates another app taking focus indefinitely.
func (s *AudioFocus) TakeFocus() {
	s.Deliver(audiofocus.CodeLoss)
}

// TakeFocusTransient simulates a brief interruption after which focus
// will return.
func (s *AudioFocus) TakeFocusTransient() {
	s.Deliver(audiofocus.CodeLossTransient)
}

// Duck simulates a short sound playing over the holder at reduced volume.
func (s *AudioFocus) Duck() {
	s.Deliver(audiofocus.CodeLossCanDuck)
}

// ReturnFocus simulates focus coming back to the holder.
func (s *AudioFocus) ReturnFocus() {
	s.Deliver(audiofocus.CodeGain)
}

// Deliver pushes a raw focus-change code through the bound callback.
func (s *AudioFocus) Deliver(code int32) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(code)
	}
}

// Held reports whether a grant is currently outstanding.
func (s *AudioFocus) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// Requests returns the number of granted requests over the simulator's
// lifetime.
func (s *AudioFocus) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// LastRequest returns the most recently granted request.
func (s *AudioFocus) LastRequest() audiofocus.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequest
}

// focusGrant releases the simulator grant on abandon.
type focusGrant struct {
	svc *AudioFocus
}

func (g *focusGrant) Abandon() error {
	g.svc.mu.Lock()
	g.svc.onChange = nil
	g.svc.held = false
	fail := g.svc.failAbandon
	g.svc.mu.Unlock()

	if fail {
		return errors.New("simulated abandon failure")
	}
	return nil
}
