package playback

import (
	"context"
	"sync"
)

// MockPlayer records played sources for tests.
type MockPlayer struct {
	mu     sync.Mutex
	played []string
	err    error
}

// NewMockPlayer returns a player that succeeds, or fails with err when set.
func NewMockPlayer(err error) *MockPlayer {
	return &MockPlayer{err: err}
}

func (m *MockPlayer) Play(ctx context.Context, src string) error {
	m.mu.Lock()
	m.played = append(m.played, src)
	m.mu.Unlock()
	return m.err
}

// Played returns the sources played so far.
func (m *MockPlayer) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.played...)
}

// MockSpeaker records spoken text and cancellations for tests.
type MockSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	cancels int
	err     error
}

// NewMockSpeaker returns a speaker that succeeds, or fails with err when set.
func NewMockSpeaker(err error) *MockSpeaker {
	return &MockSpeaker{err: err}
}

func (m *MockSpeaker) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()
	return m.err
}

func (m *MockSpeaker) Cancel() {
	m.mu.Lock()
	m.cancels++
	m.mu.Unlock()
}

// Spoken returns the utterances spoken so far.
func (m *MockSpeaker) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}

// Cancels returns how many times Cancel was called.
func (m *MockSpeaker) Cancels() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}
