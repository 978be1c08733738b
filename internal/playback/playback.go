package playback

import "context"

// Player plays one audio source (URL or file path) and returns when playback
// has finished. In-flight playback is never cancelled mid-turn; ctx exists
// for process shutdown.
type Player interface {
	Play(ctx context.Context, src string) error
}

// Speaker is the local speech-synthesis fallback used when the agent returns
// text but no audio.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	// Cancel aborts any in-flight synthesis; it must be safe to call when
	// nothing is speaking.
	Cancel()
}
