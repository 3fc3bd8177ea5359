package audiofocus

import (
	"github.com/sirupsen/logrus"
)

// Usage describes what the focus-holding audio is for.
type Usage uint8

const (
	UsageUnknown Usage = iota
	UsageMedia
	UsageVoiceCall
	UsageNotification
)

// ContentType describes the kind of audio content behind a focus request.
type ContentType uint8

const (
	ContentTypeUnknown ContentType = iota
	ContentTypeMusic
	ContentTypeSpeech
	ContentTypeSonification
)

// Request describes an audio-focus acquisition.
type Request struct {
	// Usage and ContentType describe the audio the requester will play.
	Usage       Usage
	ContentType ContentType

	// AcceptsDelayedGain permits the platform to grant focus later
	// instead of failing outright while another exclusive holder is
	// active.
	AcceptsDelayedGain bool

	// OnChange receives focus-change codes for the lifetime of the
	// grant.
	OnChange func(code int32)
}

// Grant is a held audio-focus request.
type Grant interface {
	// Abandon releases the focus request. The grant is gone regardless
	// of the returned error; callers log failures and continue.
	Abandon() error
}

// Source acquires audio focus on behalf of a tracker. Implementations
// wrap a platform service or a simulator.
type Source interface {
	// RequestFocus submits req and returns the held grant. Fails with
	// ErrFocusDenied when the platform declines, or
	// ErrServiceUnavailable when the audio service is gone.
	RequestFocus(req Request) (Grant, error)
}

// Service is the platform audio boundary. Platforms expose one of two
// focus-request APIs; NewSource picks whichever the service reports.
type Service interface {
	// BuilderSupported reports whether the attribute-based focus request
	// API is available.
	BuilderSupported() bool

	// RequestFocus acquires focus with full attributes through the
	// modern API.
	RequestFocus(req Request) (Grant, error)

	// RequestLegacyFocus acquires music-stream focus with a bare change
	// listener through the legacy API. Attributes are not expressible on
	// this path.
	RequestLegacyFocus(onChange func(code int32)) (Grant, error)
}

// NewSource selects the focus-request strategy the service supports. The
// choice happens once; trackers never branch on it afterwards.
//
// A nil service yields a nil Source, which the tracker reports as
// ErrServiceUnavailable on Start.
func NewSource(svc Service) Source {
	if svc == nil {
		return nil
	}

	if svc.BuilderSupported() {
		logrus.WithFields(logrus.Fields{
			"function": "NewSource",
			"strategy": "builder",
		}).Info("Using modern audio focus requests")
		return &builderSource{svc: svc}
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewSource",
		"strategy": "legacy",
	}).Info("Using legacy audio focus requests")
	return &legacySource{svc: svc}
}

// builderSource requests focus through the modern attribute-based API.
type builderSource struct {
	svc Service
}

func (b *builderSource) RequestFocus(req Request) (Grant, error) {
	return b.svc.RequestFocus(req)
}

// legacySource requests focus through the legacy API, which only carries
// the change listener.
type legacySource struct {
	svc Service
}

func (l *legacySource) RequestFocus(req Request) (Grant, error) {
	return l.svc.RequestLegacyFocus(req.OnChange)
}
