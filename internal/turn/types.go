package turn

import (
	"context"

	"github.com/voxchat/voxchat/internal/backend"
)

// AgentClient is the backend surface one conversation turn needs.
type AgentClient interface {
	AgentChat(ctx context.Context, sessionID string, audio []byte, filename string) (backend.ChatResult, error)
	UploadAudio(ctx context.Context, filename string, audio []byte) (backend.UploadResult, error)
}

// Prompter asks the user to name a manual recording. An empty return means
// the prompt was blank or dismissed.
type Prompter interface {
	PromptFilename(suggestion string) string
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(suggestion string) string

func (f PrompterFunc) PromptFilename(suggestion string) string { return f(suggestion) }
