package playback

import "context"

// Backend loads a Source into a Playback. Acquire covers the Loading
// phase (synthesis, session handshake); ctx bounds only that phase.
type Backend interface {
	Acquire(ctx context.Context, src Source) (Playback, error)
}

// Playback is an acquired resource that has not necessarily started.
type Playback interface {
	// Start makes it audible. Called at most once.
	Start() error
	// Wait blocks until natural end.
	Wait(ctx context.Context) error
	// Stop releases the resource. Safe before Start and more than once.
	Stop() error
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, src Source) (Playback, error)

func (f BackendFunc) Acquire(ctx context.Context, src Source) (Playback, error) {
	return f(ctx, src)
}

// Backends routes each source kind to its backend. A nil field means the
// kind is unsupported.
type Backends struct {
	Clip   Backend
	Live   Backend
	Native Backend
}
