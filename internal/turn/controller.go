package turn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voxchat/voxchat/internal/backend"
	"github.com/voxchat/voxchat/internal/capture"
	"github.com/voxchat/voxchat/internal/playback"
	"github.com/voxchat/voxchat/internal/transcript"
)

const (
	// DefaultAutoRecordDuration bounds an automatic capture that is never
	// stopped by hand.
	DefaultAutoRecordDuration = 5000 * time.Millisecond
	// DefaultRearmDelay separates a finished reply from the next automatic
	// capture.
	DefaultRearmDelay = 300 * time.Millisecond

	connectionErrorText = "Connection error. Please try again."
)

// Params wires a Controller. SessionID, Backend, Player, Speaker and
// NewRecorder are required; the rest default sensibly.
type Params struct {
	SessionID   string
	Backend     AgentClient
	Player      playback.Player
	Speaker     playback.Speaker
	View        transcript.Renderer
	Prompt      Prompter
	NewRecorder capture.Factory
	Log         *logrus.Logger

	AutoRecordDuration time.Duration
	RearmDelay         time.Duration
	// RecordingExt is the container suffix recordings are named with.
	RecordingExt string
}

// Controller drives the conversation: one capture, one upload, one rendered
// response, one playback — then, for automatic turns, the next capture.
// At most one recording session is alive at any time.
type Controller struct {
	sessionID   string
	backend     AgentClient
	player      playback.Player
	speaker     playback.Speaker
	view        transcript.Renderer
	prompt      Prompter
	newRecorder capture.Factory
	log         *logrus.Logger

	autoDuration time.Duration
	rearmDelay   time.Duration
	ext          string

	mu        sync.Mutex
	state     State
	rec       capture.Recorder
	stopTimer *time.Timer
}

// NewController constructs a Controller from Params.
func NewController(p Params) *Controller {
	if p.View == nil {
		p.View = nopRenderer{}
	}
	if p.Prompt == nil {
		p.Prompt = PrompterFunc(func(string) string { return "" })
	}
	if p.Log == nil {
		p.Log = logrus.New()
	}
	if p.AutoRecordDuration <= 0 {
		p.AutoRecordDuration = DefaultAutoRecordDuration
	}
	if p.RearmDelay <= 0 {
		p.RearmDelay = DefaultRearmDelay
	}
	if p.RecordingExt == "" {
		p.RecordingExt = ".webm"
	}
	return &Controller{
		sessionID:    p.SessionID,
		backend:      p.Backend,
		player:       p.Player,
		speaker:      p.Speaker,
		view:         p.View,
		prompt:       p.Prompt,
		newRecorder:  p.NewRecorder,
		log:          p.Log,
		autoDuration: p.AutoRecordDuration,
		rearmDelay:   p.RearmDelay,
		ext:          p.RecordingExt,
	}
}

// State reports the controller's current position in the cycle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartCapture begins a new recording session. A manual request while
// already capturing toggles to stop; an automatic one is ignored. Requests
// arriving mid-turn are ignored.
func (c *Controller) StartCapture(ctx context.Context, manual bool) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.mu.Lock()
	switch c.state {
	case StateIdle:
	case StateCapturing:
		c.mu.Unlock()
		if manual {
			c.StopCapture()
		}
		return nil
	default:
		st := c.state
		c.mu.Unlock()
		c.log.WithField("state", st.String()).Debug("start capture ignored, turn in flight")
		return nil
	}

	rec, err := c.newRecorder()
	if err == nil {
		err = rec.Start(ctx)
	}
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.view.SetStatus("Microphone access is required.")
		c.log.WithError(err).Error("microphone capture failed")
		return err
	}

	c.state = StateCapturing
	c.rec = rec
	if !manual {
		c.stopTimer = time.AfterFunc(c.autoDuration, c.StopCapture)
	}
	c.mu.Unlock()

	if manual {
		c.view.SetStatus("Recording... stop when you are done.")
	}
	c.log.WithField("manual", manual).Info("recording started")
	go c.runTurn(ctx, rec, manual)
	return nil
}

// StopCapture finalizes the active recording session; it is a no-op when
// nothing is capturing. Completion is asynchronous: the turn proceeds once
// the recorder confirms it has no more data.
func (c *Controller) StopCapture() {
	c.mu.Lock()
	if c.state != StateCapturing {
		c.mu.Unlock()
		return
	}
	c.state = StateFinalizing
	rec := c.rec
	if c.stopTimer != nil {
		c.stopTimer.Stop()
		c.stopTimer = nil
	}
	c.mu.Unlock()

	rec.Stop()
	c.log.Info("recording stopped")
}

// runTurn drains the recorder, then drives the rest of the cycle. An empty
// payload still submits; the backend treats it as a degenerate turn.
func (c *Controller) runTurn(ctx context.Context, rec capture.Recorder, manual bool) {
	var payload bytes.Buffer
	for chunk := range rec.Chunks() {
		payload.Write(chunk)
	}
	<-rec.Done()

	c.mu.Lock()
	// the recorder may have ended on its own, without an explicit stop
	if c.stopTimer != nil {
		c.stopTimer.Stop()
		c.stopTimer = nil
	}
	c.state = StateSending
	c.rec = nil
	c.mu.Unlock()

	c.submitTurn(ctx, payload.Bytes(), manual)
}

// submitTurn issues exactly one agent request for the finalized payload.
// Manual turns additionally archive the recording under a user-chosen name;
// that upload is independent and its failure never fails the turn.
func (c *Controller) submitTurn(ctx context.Context, payload []byte, manual bool) {
	if manual {
		suggestion := DefaultRecordingName()
		name := strings.TrimSpace(c.prompt.PromptFilename(suggestion))
		if name == "" {
			name = suggestion
		}
		go c.archive(ctx, NormalizeRecordingName(name, c.ext), payload)
	} else {
		c.view.SetStatus("Auto message sent.")
	}

	result, err := c.backend.AgentChat(ctx, c.sessionID, payload, "recording"+c.ext)
	if err != nil {
		msg := connectionErrorText
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			msg = apiErr.Detail
		}
		c.view.AppendAssistant(msg)
		c.log.WithError(err).Error("agent chat failed")
		c.setState(StateIdle)
		return
	}

	c.renderTurnResult(result)
	c.setState(StateAwaitingPlayback)
	c.playReply(ctx, result)
	c.setState(StateIdle)

	if !manual {
		// the auto conversation loop: re-arm shortly after the reply ends
		time.AfterFunc(c.rearmDelay, func() {
			_ = c.StartCapture(ctx, false)
		})
	}
}

// renderTurnResult appends the user's transcription before the assistant's
// reply; either line is skipped when absent.
func (c *Controller) renderTurnResult(result backend.ChatResult) {
	if result.Transcription != "" {
		c.view.AppendUser(result.Transcription)
	}
	if result.LLMText != "" {
		c.view.AppendAssistant(result.LLMText)
	}
}

// playReply plays the reply audio with the speaking marker held for exactly
// the playback duration, or routes fallback text through local synthesis
// with no marker. A turn with neither ends silently.
func (c *Controller) playReply(ctx context.Context, result backend.ChatResult) {
	switch {
	case result.MurfAudioURL != "":
		c.view.SpeakingStarted()
		err := c.player.Play(ctx, result.MurfAudioURL)
		c.view.SpeakingStopped()
		if err != nil {
			c.view.SetStatus("Autoplay was blocked. Play the reply manually.")
			c.log.WithError(err).Warn("reply playback failed")
			return
		}
		c.view.SetStatus("Audio played successfully.")
	case result.FallbackText != "":
		c.speaker.Cancel()
		if err := c.speaker.Speak(ctx, result.FallbackText); err != nil {
			c.log.WithError(err).Warn("fallback voice failed")
			return
		}
		c.view.SetStatus("Fallback voice played.")
	}
}

func (c *Controller) archive(ctx context.Context, name string, payload []byte) {
	c.view.SetStatus("Processing... Please wait.")
	res, err := c.backend.UploadAudio(ctx, name, payload)
	if err != nil {
		c.view.SetStatus("Upload failed")
		c.log.WithError(err).Error("recording upload failed")
		return
	}
	c.view.SetStatus(fmt.Sprintf("Uploaded: %s (%d bytes)", res.Filename, res.Size))
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// DefaultRecordingName generates the fallback archive name for a manual
// recording.
func DefaultRecordingName() string {
	return fmt.Sprintf("recording_%d", time.Now().UnixMilli())
}

// NormalizeRecordingName ensures name carries ext exactly once.
func NormalizeRecordingName(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return name + ext
}

type nopRenderer struct{}

func (nopRenderer) AppendUser(string)      {}
func (nopRenderer) AppendAssistant(string) {}
func (nopRenderer) SetStatus(string)       {}
func (nopRenderer) SpeakingStarted()       {}
func (nopRenderer) SpeakingStopped()       {}
