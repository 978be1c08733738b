package capture

import (
	"context"
	"sync"
)

// MockRecorder is a scripted Recorder for tests and dry runs. Its chunks are
// delivered when Stop is called.
type MockRecorder struct {
	scripted [][]byte
	startErr error

	chunks chan []byte
	done   chan struct{}

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

// NewMockRecorder returns a recorder that yields the given chunks on Stop.
func NewMockRecorder(chunks ...[]byte) *MockRecorder {
	return &MockRecorder{
		scripted: chunks,
		chunks:   make(chan []byte, len(chunks)+1),
		done:     make(chan struct{}),
	}
}

// NewFailingRecorder returns a recorder whose Start fails with err, modeling
// a denied or absent microphone.
func NewFailingRecorder(err error) *MockRecorder {
	r := NewMockRecorder()
	r.startErr = err
	return r
}

func (m *MockRecorder) Start(ctx context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	return nil
}

func (m *MockRecorder) Stop() {
	m.stopOnce.Do(func() {
		for _, c := range m.scripted {
			m.chunks <- c
		}
		close(m.chunks)
		close(m.done)
	})
}

func (m *MockRecorder) Chunks() <-chan []byte { return m.chunks }

func (m *MockRecorder) Done() <-chan struct{} { return m.done }

// Started reports whether Start succeeded.
func (m *MockRecorder) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}
