// Package playbacktest provides a scriptable playback backend for tests of
// code built on playback.Controller.
package playbacktest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/abhisek/iqro/internal/playback"
)

// Backend hands out Playbacks that run until Finish or Stop.
type Backend struct {
	mu        sync.Mutex
	fail      map[string]error
	playbacks map[string]*Playback
	sources   []playback.Source
}

var _ playback.Backend = (*Backend)(nil)

// NewBackend creates an empty Backend.
func NewBackend() *Backend {
	return &Backend{
		fail:      map[string]error{},
		playbacks: map[string]*Playback{},
	}
}

// Fail makes Acquire for id return err.
func (b *Backend) Fail(id string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[id] = err
}

func (b *Backend) Acquire(_ context.Context, src playback.Source) (playback.Playback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = append(b.sources, src)
	if err := b.fail[src.SourceID()]; err != nil {
		return nil, err
	}
	p := &Playback{ID: src.SourceID(), end: make(chan struct{})}
	b.playbacks[src.SourceID()] = p
	return p, nil
}

// Playback returns the latest playback acquired for id, or nil.
func (b *Backend) Playback(id string) *Playback {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playbacks[id]
}

// Sources returns every source passed to Acquire.
func (b *Backend) Sources() []playback.Source {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]playback.Source(nil), b.sources...)
}

// Playback is a silent playback that ends on Finish.
type Playback struct {
	ID      string
	started atomic.Bool
	stopped atomic.Bool
	end     chan struct{}
	once    sync.Once
}

func (p *Playback) Start() error {
	p.started.Store(true)
	return nil
}

func (p *Playback) Wait(ctx context.Context) error {
	select {
	case <-p.end:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Playback) Stop() error {
	p.stopped.Store(true)
	p.Finish()
	return nil
}

// Finish ends the playback naturally.
func (p *Playback) Finish() { p.once.Do(func() { close(p.end) }) }

// Started reports whether Start was called.
func (p *Playback) Started() bool { return p.started.Load() }

// Stopped reports whether Stop was called.
func (p *Playback) Stopped() bool { return p.stopped.Load() }
