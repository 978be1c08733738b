package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voxchat/voxchat/internal/backend"
	"github.com/voxchat/voxchat/internal/capture"
	"github.com/voxchat/voxchat/internal/config"
	"github.com/voxchat/voxchat/internal/logging"
	"github.com/voxchat/voxchat/internal/playback"
	"github.com/voxchat/voxchat/internal/session"
	"github.com/voxchat/voxchat/internal/transcript"
	"github.com/voxchat/voxchat/internal/turn"
	"github.com/voxchat/voxchat/internal/voice"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	resumeURL := flag.String("url", "", "resume link carrying a session_id")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	res, err := session.Resolve(*resumeURL)
	if err != nil {
		log.WithError(err).Fatal("resolve session")
	}
	log.WithField("session_id", res.ID).Info("session ready")
	if res.Generated {
		fmt.Printf("resume this conversation with: -url %q\n", res.PageURL)
	}

	view := transcript.NewConsole(os.Stdout)
	client := backend.New(cfg.Backend.BaseURL)

	player, err := playback.NewExecPlayer(cfg.Playback.Command)
	if err != nil {
		log.WithError(err).Fatal("playback command")
	}
	speaker, err := playback.NewExecSpeaker(cfg.Playback.SpeakCommand)
	if err != nil {
		log.WithError(err).Fatal("speak command")
	}

	controller := turn.NewController(turn.Params{
		SessionID:          res.ID,
		Backend:            client,
		Player:             player,
		Speaker:            speaker,
		View:               view,
		Prompt:             stdinPrompter{},
		NewRecorder:        capture.NewExecFactory(cfg.Recording.Command),
		Log:                log,
		AutoRecordDuration: time.Duration(cfg.Recording.AutoDurationMS) * time.Millisecond,
		RearmDelay:         time.Duration(cfg.Recording.RearmDelayMS) * time.Millisecond,
		RecordingExt:       cfg.Recording.Extension,
	})

	voiceSvc := &voice.Service{
		Backend: client,
		Player:  player,
		View:    view,
		VoiceID: cfg.Backend.VoiceID,
		Log:     log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.WithField("signal", sig.String()).Info("shutting down")
		controller.StopCapture()
		cancel()
	}()

	fmt.Println("commands: record | auto | say <text> | quit")
	runPrompt(ctx, controller, voiceSvc, log)
}

// runPrompt reads commands from stdin until quit or shutdown.
func runPrompt(ctx context.Context, controller *turn.Controller, voiceSvc *voice.Service, log *logrus.Logger) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
			switch cmd {
			case "":
			case "record", "r":
				// toggles stop when already recording
				_ = controller.StartCapture(ctx, true)
			case "auto", "a":
				_ = controller.StartCapture(ctx, false)
			case "say":
				if err := voiceSvc.Send(ctx, rest); err != nil {
					log.Errorf("say: %v", err)
				}
			case "quit", "q", "exit":
				controller.StopCapture()
				return
			default:
				fmt.Printf("unknown command %q\n", cmd)
			}
		}
	}
}

// stdinPrompter asks for a recording name on the controlling terminal.
// It reads from /dev/tty so the command loop keeps ownership of stdin; when
// no terminal is available the prompt counts as dismissed.
type stdinPrompter struct{}

func (stdinPrompter) PromptFilename(suggestion string) string {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return ""
	}
	defer tty.Close()

	fmt.Printf("Audio recorded. Name the file [%s]: ", suggestion)
	line, err := bufio.NewReader(tty).ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
