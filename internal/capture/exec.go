package capture

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"
)

const readBufferSize = 4096

// ExecRecorder captures audio by running an external recorder command that
// writes container bytes to stdout (e.g. ffmpeg or arecord). Stop sends an
// interrupt so the recorder can flush its container trailer before exiting.
type ExecRecorder struct {
	args []string

	cmd    *exec.Cmd
	cancel context.CancelFunc
	chunks chan []byte
	done   chan struct{}

	stopOnce sync.Once
}

// NewExecRecorder parses command into an argv; the command is not run until
// Start.
func NewExecRecorder(command string) (*ExecRecorder, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse recorder command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("recorder command empty")
	}
	return &ExecRecorder{
		args:   args,
		chunks: make(chan []byte, 64),
		done:   make(chan struct{}),
	}, nil
}

// NewExecFactory returns a Factory producing one ExecRecorder per call.
func NewExecFactory(command string) Factory {
	return func() (Recorder, error) {
		return NewExecRecorder(command)
	}
}

func (r *ExecRecorder) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	cmd := exec.CommandContext(ctx, r.args[0], r.args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("recorder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start recorder: %w", err)
	}
	r.cmd = cmd

	go r.pump(stdout)
	return nil
}

// pump drains recorder output into the chunk channel, then confirms the
// capture handle is fully released.
func (r *ExecRecorder) pump(stdout io.Reader) {
	defer close(r.done)
	defer close(r.chunks)

	buf := make([]byte, readBufferSize)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			r.chunks <- chunk
		}
		if err != nil {
			break
		}
	}
	_ = r.cmd.Wait()
	r.cancel()
}

func (r *ExecRecorder) Stop() {
	r.stopOnce.Do(func() {
		if r.cmd == nil || r.cmd.Process == nil {
			return
		}
		if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
			// recorder already gone or unsignalable; force it down
			r.cancel()
		}
	})
}

func (r *ExecRecorder) Chunks() <-chan []byte { return r.chunks }

func (r *ExecRecorder) Done() <-chan struct{} { return r.done }
