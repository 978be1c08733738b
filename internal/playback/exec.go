package playback

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"
)

// ExecPlayer plays audio by running an external player command with the
// source appended as the final argument (e.g. ffplay, mpv).
type ExecPlayer struct {
	args []string
}

// NewExecPlayer parses command into an argv template.
func NewExecPlayer(command string) (*ExecPlayer, error) {
	args, err := parseCommand(command, "player")
	if err != nil {
		return nil, err
	}
	return &ExecPlayer{args: args}, nil
}

func (p *ExecPlayer) Play(ctx context.Context, src string) error {
	args := append(append([]string{}, p.args[1:]...), src)
	cmd := exec.CommandContext(ctx, p.args[0], args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play %s: %w", src, err)
	}
	return nil
}

// ExecSpeaker synthesizes speech locally by running a speak command with the
// text as the final argument (e.g. espeak, say).
type ExecSpeaker struct {
	args []string

	mu      sync.Mutex
	current context.CancelFunc
}

// NewExecSpeaker parses command into an argv template.
func NewExecSpeaker(command string) (*ExecSpeaker, error) {
	args, err := parseCommand(command, "speaker")
	if err != nil {
		return nil, err
	}
	return &ExecSpeaker{args: args}, nil
}

func (s *ExecSpeaker) Speak(ctx context.Context, text string) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.current = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		cancel()
	}()

	args := append(append([]string{}, s.args[1:]...), text)
	cmd := exec.CommandContext(ctx, s.args[0], args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			// cancelled, not a synthesis failure
			return nil
		}
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

func (s *ExecSpeaker) Cancel() {
	s.mu.Lock()
	cancel := s.current
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func parseCommand(command, what string) ([]string, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse %s command: %w", what, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s command empty", what)
	}
	return args, nil
}
