package transcript

import (
	"fmt"
	"io"
	"sync"
)

// Renderer is the surface conversation output lands on. Append order is
// display order.
type Renderer interface {
	// AppendUser adds the user's transcribed line.
	AppendUser(text string)
	// AppendAssistant adds an assistant line; error bubbles use this too.
	AppendAssistant(text string)
	// SetStatus replaces the one-line status area.
	SetStatus(text string)
	// SpeakingStarted and SpeakingStopped bracket reply audio playback.
	SpeakingStarted()
	SpeakingStopped()
}

// Console renders the transcript as plain lines on a terminal writer.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a renderer writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) AppendUser(text string) {
	c.line("you", text)
}

func (c *Console) AppendAssistant(text string) {
	c.line("ai", text)
}

func (c *Console) SetStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "-- %s\n", text)
}

func (c *Console) SpeakingStarted() {
	c.SetStatus("assistant is speaking...")
}

func (c *Console) SpeakingStopped() {
	c.SetStatus("assistant finished speaking")
}

func (c *Console) line(who, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", who, text)
}
