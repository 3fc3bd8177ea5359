package audiofocus

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

// mockGrant records abandon calls and can fail them.
type mockGrant struct {
	mu         sync.Mutex
	abandoned  int
	abandonErr error
}

func (m *mockGrant) Abandon() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abandoned++
	return m.abandonErr
}

func (m *mockGrant) abandonCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.abandoned
}

// mockSource is a scriptable Source capturing the focus request.
type mockSource struct {
	mu         sync.Mutex
	requestErr error
	requests   int
	lastReq    Request
	grant      *mockGrant
}

func newMockSource() *mockSource {
	return &mockSource{grant: &mockGrant{}}
}

func (m *mockSource) RequestFocus(req Request) (Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	m.requests++
	m.lastReq = req
	return m.grant, nil
}

func (m *mockSource) requestCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

func (m *mockSource) lastRequest() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

// deliver pushes a focus-change code through the captured callback.
func (m *mockSource) deliver(code int32) {
	m.mu.Lock()
	fn := m.lastReq.OnChange
	m.mu.Unlock()
	if fn != nil {
		fn(code)
	}
}

// mockService drives NewSource strategy selection.
type mockService struct {
	mu          sync.Mutex
	modern      bool
	builderReqs int
	legacyReqs  int
	lastReq     Request
	requestErr  error
}

func (m *mockService) BuilderSupported() bool {
	return m.modern
}

func (m *mockService) RequestFocus(req Request) (Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	m.builderReqs++
	m.lastReq = req
	return &mockGrant{}, nil
}

func (m *mockService) RequestLegacyFocus(onChange func(code int32)) (Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	m.legacyReqs++
	m.lastReq = Request{OnChange: onChange}
	return &mockGrant{}, nil
}
