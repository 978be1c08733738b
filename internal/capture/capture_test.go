package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecRecorder_CollectsOutputUntilExit(t *testing.T) {
	r, err := NewExecRecorder("echo hello")
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))

	var got []byte
	for c := range r.Chunks() {
		got = append(got, c...)
	}
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("recorder did not confirm completion")
	}
	require.Equal(t, "hello\n", string(got))
}

func TestExecRecorder_StopEndsLongRunningCommand(t *testing.T) {
	r, err := NewExecRecorder("sleep 30")
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))

	r.Stop()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("recorder did not stop")
	}
}

func TestExecRecorder_StartFailsForMissingBinary(t *testing.T) {
	r, err := NewExecRecorder("definitely-not-a-recorder-binary")
	require.NoError(t, err)
	require.Error(t, r.Start(context.Background()))
}

func TestNewExecRecorder_RejectsBadCommand(t *testing.T) {
	_, err := NewExecRecorder("")
	require.Error(t, err)
	_, err = NewExecRecorder("ffmpeg 'unterminated")
	require.Error(t, err)
}

func TestMockRecorder_DeliversScriptedChunksOnStop(t *testing.T) {
	r := NewMockRecorder([]byte("a"), []byte("b"))
	require.NoError(t, r.Start(context.Background()))
	require.True(t, r.Started())

	r.Stop()
	r.Stop() // second stop is a no-op

	var got []byte
	for c := range r.Chunks() {
		got = append(got, c...)
	}
	<-r.Done()
	require.Equal(t, "ab", string(got))
}

func TestFailingRecorder(t *testing.T) {
	want := errors.New("mic denied")
	r := NewFailingRecorder(want)
	require.ErrorIs(t, r.Start(context.Background()), want)
	require.False(t, r.Started())
}
