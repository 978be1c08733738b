package voice

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/voxchat/voxchat/internal/backend"
	"github.com/voxchat/voxchat/internal/playback"
	"github.com/voxchat/voxchat/internal/transcript"
)

// ErrEmptyMessage is returned when there is no text to synthesize.
var ErrEmptyMessage = errors.New("empty message")

// Synthesizer is the backend surface the typed-message flow needs.
type Synthesizer interface {
	GenerateVoice(ctx context.Context, text, voiceID string) (string, error)
}

// Service turns typed text into spoken audio. It is independent of the
// record/upload turn loop.
type Service struct {
	Backend Synthesizer
	Player  playback.Player
	View    transcript.Renderer
	VoiceID string
	Log     *logrus.Logger
}

// Send synthesizes text with the configured voice and plays the result. A
// blocked playback degrades to a status prompt rather than an error.
func (s *Service) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		s.View.SetStatus("Please type a message.")
		return ErrEmptyMessage
	}

	audioFile, err := s.Backend.GenerateVoice(ctx, text, s.VoiceID)
	if err != nil {
		detail := "Something went wrong"
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			detail = apiErr.Detail
		}
		s.View.SetStatus("Error: " + detail)
		s.log().WithError(err).Error("generate voice failed")
		return err
	}

	if err := s.Player.Play(ctx, audioFile); err != nil {
		s.View.SetStatus("Click play to hear the response.")
		s.log().WithError(err).Warn("voice playback failed")
	}
	return nil
}

func (s *Service) log() *logrus.Logger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
