package capture

import "context"

// Recorder is the minimal contract for one microphone capture session.
// A Recorder is single-use: Start at most once, then Stop at most once.
type Recorder interface {
	// Start acquires the microphone and begins emitting chunks. An error
	// means the device was denied or unavailable.
	Start(ctx context.Context) error
	// Stop requests the end of capture. Remaining chunks are still
	// delivered; Done closes only after the final chunk.
	Stop()
	// Chunks yields ordered audio fragments and is closed once the
	// recorder has no more data.
	Chunks() <-chan []byte
	// Done closes exactly once, after Chunks is closed and the capture
	// handle has been released.
	Done() <-chan struct{}
}

// Factory produces a fresh Recorder per capture session.
type Factory func() (Recorder, error)
