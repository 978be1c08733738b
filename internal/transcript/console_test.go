package transcript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsole_AppendOrderIsDisplayOrder(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.AppendUser("what's the weather")
	c.AppendAssistant("sunny all day")

	out := buf.String()
	userAt := strings.Index(out, "[you] what's the weather")
	aiAt := strings.Index(out, "[ai] sunny all day")
	require.GreaterOrEqual(t, userAt, 0)
	require.GreaterOrEqual(t, aiAt, 0)
	require.Less(t, userAt, aiAt)
}

func TestConsole_StatusAndSpeakingMarkers(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.SpeakingStarted()
	c.SetStatus("Audio played successfully.")
	c.SpeakingStopped()

	out := buf.String()
	require.Contains(t, out, "-- assistant is speaking...")
	require.Contains(t, out, "-- Audio played successfully.")
	require.Contains(t, out, "-- assistant finished speaking")
}
