package playback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecPlayer_RunsToCompletion(t *testing.T) {
	p, err := NewExecPlayer("true")
	require.NoError(t, err)
	require.NoError(t, p.Play(context.Background(), "http://cdn.example/reply.mp3"))
}

func TestExecPlayer_SurfacesFailure(t *testing.T) {
	p, err := NewExecPlayer("false")
	require.NoError(t, err)
	require.Error(t, p.Play(context.Background(), "http://cdn.example/reply.mp3"))
}

func TestExecSpeaker_CancelAbortsInFlight(t *testing.T) {
	// appended text lands in $0; the command still just sleeps
	s, err := NewExecSpeaker("sh -c 'sleep 30'")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Speak(context.Background(), "never finishes") }()

	// give the process a moment to start, then cancel like a new utterance would
	time.Sleep(100 * time.Millisecond)
	s.Cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("speak did not return after cancel")
	}
}

func TestExecSpeaker_CancelWithoutSpeechIsSafe(t *testing.T) {
	s, err := NewExecSpeaker("true")
	require.NoError(t, err)
	s.Cancel()
	require.NoError(t, s.Speak(context.Background(), "hello"))
}

func TestParseCommand_Rejections(t *testing.T) {
	_, err := NewExecPlayer("")
	require.Error(t, err)
	_, err = NewExecSpeaker("'unterminated")
	require.Error(t, err)
}
