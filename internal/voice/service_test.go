package voice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/voxchat/voxchat/internal/backend"
	"github.com/voxchat/voxchat/internal/playback"
)

type fakeSynth struct {
	audioFile string
	err       error
	gotText   string
	gotVoice  string
}

func (f *fakeSynth) GenerateVoice(ctx context.Context, text, voiceID string) (string, error) {
	f.gotText = text
	f.gotVoice = voiceID
	return f.audioFile, f.err
}

type statusView struct {
	mu       sync.Mutex
	statuses []string
}

func (v *statusView) AppendUser(string)      {}
func (v *statusView) AppendAssistant(string) {}
func (v *statusView) SpeakingStarted()       {}
func (v *statusView) SpeakingStopped()       {}
func (v *statusView) SetStatus(text string) {
	v.mu.Lock()
	v.statuses = append(v.statuses, text)
	v.mu.Unlock()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestSend_PlaysGeneratedVoice(t *testing.T) {
	synth := &fakeSynth{audioFile: "http://cdn.example/voice.mp3"}
	player := playback.NewMockPlayer(nil)
	s := &Service{Backend: synth, Player: player, View: &statusView{}, VoiceID: "en-AU-joyce", Log: quietLogger()}

	require.NoError(t, s.Send(context.Background(), "  hello there "))
	require.Equal(t, "hello there", synth.gotText)
	require.Equal(t, "en-AU-joyce", synth.gotVoice)
	require.Equal(t, []string{"http://cdn.example/voice.mp3"}, player.Played())
}

func TestSend_EmptyMessageRejected(t *testing.T) {
	synth := &fakeSynth{}
	view := &statusView{}
	s := &Service{Backend: synth, Player: playback.NewMockPlayer(nil), View: view, Log: quietLogger()}

	require.ErrorIs(t, s.Send(context.Background(), "   "), ErrEmptyMessage)
	require.Contains(t, view.statuses, "Please type a message.")
	require.Empty(t, synth.gotText)
}

func TestSend_BackendDetailShown(t *testing.T) {
	synth := &fakeSynth{err: &backend.APIError{StatusCode: 400, Detail: "voice quota exhausted"}}
	view := &statusView{}
	s := &Service{Backend: synth, Player: playback.NewMockPlayer(nil), View: view, Log: quietLogger()}

	require.Error(t, s.Send(context.Background(), "hello"))
	require.Contains(t, view.statuses, "Error: voice quota exhausted")
}

func TestSend_PlaybackFailureDegradesToPrompt(t *testing.T) {
	synth := &fakeSynth{audioFile: "http://cdn.example/voice.mp3"}
	view := &statusView{}
	s := &Service{Backend: synth, Player: playback.NewMockPlayer(errors.New("blocked")), View: view, Log: quietLogger()}

	require.NoError(t, s.Send(context.Background(), "hello"))
	require.Contains(t, view.statuses, "Click play to hear the response.")
}
