package playback

import "errors"

// State is the controller's lifecycle state.
type State int

const (
	Idle State = iota
	Loading
	Playing
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome says how a session ended.
type Outcome int

const (
	// Ended means the audio played to its natural end.
	Ended Outcome = iota
	// Stopped means Stop, Close or cancellation of the caller's context.
	Stopped
	// Superseded means a newer Play replaced the session.
	Superseded
	// Failed means loading or playing failed; Result.Err is set.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ended:
		return "ended"
	case Stopped:
		return "stopped"
	case Superseded:
		return "superseded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is delivered exactly once on Session.Done.
type Result struct {
	ID      string
	Outcome Outcome
	Err     error

	// Fallback is set when a synthesized clip was spoken natively instead.
	Fallback bool
}

var (
	// ErrClosed is returned for Play after Close.
	ErrClosed = errors.New("playback: controller closed")
	// ErrLoadTimeout is returned when loading exceeds Config.LoadTimeout.
	ErrLoadTimeout = errors.New("playback: loading timed out")
	// ErrNoBackend is returned when no backend serves the source kind.
	ErrNoBackend = errors.New("playback: no backend for source")
)
