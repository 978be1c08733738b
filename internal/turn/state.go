package turn

// State is the controller's position in the capture/send/playback cycle.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateFinalizing
	StateSending
	StateAwaitingPlayback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateFinalizing:
		return "finalizing"
	case StateSending:
		return "sending"
	case StateAwaitingPlayback:
		return "awaiting-playback"
	default:
		return "unknown"
	}
}
