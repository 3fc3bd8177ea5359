package telephony

import (
	"sync"
	"time"
)

// mockTimeProvider is a mock time provider returning a fixed instant.
type mockTimeProvider struct {
	fixedTime time.Time
}

func (m *mockTimeProvider) Now() time.Time {
	return m.fixedTime
}

// mockRegistration records unregister calls and can fail them.
type mockRegistration struct {
	mu            sync.Mutex
	unregistered  int
	unregisterErr error
}

func (m *mockRegistration) Unregister() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregistered++
	return m.unregisterErr
}

func (m *mockRegistration) unregisterCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unregistered
}

// mockSource is a scriptable Source capturing the registered handler.
type mockSource struct {
	mu            sync.Mutex
	registerErr   error
	registrations int
	handler       StateFunc
	reg           *mockRegistration
}

func newMockSource() *mockSource {
	return &mockSource{reg: &mockRegistration{}}
}

func (m *mockSource) Register(fn StateFunc) (Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.registrations++
	m.handler = fn
	return m.reg, nil
}

func (m *mockSource) registerCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registrations
}

// deliver pushes a notification through the captured handler.
func (m *mockSource) deliver(code int32, number string) {
	m.mu.Lock()
	fn := m.handler
	m.mu.Unlock()
	if fn != nil {
		fn(code, number)
	}
}

// mockService drives NewSource strategy selection.
type mockService struct {
	mu              sync.Mutex
	modern          bool
	callbackCalls   int
	listenerCalls   int
	callbackHandler func(code int32)
	listenerHandler func(code int32, phoneNumber string)
	registerErr     error
}

func (m *mockService) CallbackSupported() bool {
	return m.modern
}

func (m *mockService) RegisterCallback(fn func(code int32)) (Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.callbackCalls++
	m.callbackHandler = fn
	return &mockRegistration{}, nil
}

func (m *mockService) RegisterListener(fn func(code int32, phoneNumber string)) (Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.listenerCalls++
	m.listenerHandler = fn
	return &mockRegistration{}, nil
}

func (m *mockService) push(code int32, number string) {
	m.mu.Lock()
	cb, ln := m.callbackHandler, m.listenerHandler
	m.mu.Unlock()
	if cb != nil {
		cb(code)
	}
	if ln != nil {
		ln(code, number)
	}
}
