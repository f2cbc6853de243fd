// Package playback serializes audio so that at most one sound plays at a
// time, whichever backend produces it.
package playback

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config tunes the controller and its backends.
type Config struct {
	// LoadTimeout bounds the Loading phase of each backend attempt.
	LoadTimeout time.Duration
	// CacheSize is the number of synthesized clips kept in memory.
	CacheSize int
}

// DefaultConfig returns the default playback settings.
func DefaultConfig() Config {
	return Config{
		LoadTimeout: 8 * time.Second,
		CacheSize:   64,
	}
}

// ConfigFromEnv reads IQRO_LOAD_TIMEOUT and IQRO_CLIP_CACHE.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if d, err := time.ParseDuration(os.Getenv("IQRO_LOAD_TIMEOUT")); err == nil && d > 0 {
		cfg.LoadTimeout = d
	}
	if n, err := strconv.Atoi(os.Getenv("IQRO_CLIP_CACHE")); err == nil && n > 0 {
		cfg.CacheSize = n
	}
	return cfg
}

// Option configures a Controller.
type Option func(*Controller)

// WithStateHook registers fn for every state transition. Hooks run with
// the controller locked and must not call back into it.
func WithStateHook(fn func(state State, active string)) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, fn)
	}
}

// Controller owns the single active playback session.
type Controller struct {
	cfg      Config
	backends Backends
	log      *zap.SugaredLogger
	hooks    []func(State, string)

	mu      sync.Mutex
	state   State
	active  string
	current *Session
	closed  bool
}

// New creates a Controller.
func New(cfg Config, backends Backends, log *zap.SugaredLogger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultConfig().LoadTimeout
	}
	c := &Controller{cfg: cfg, backends: backends, log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is one Play request.
type Session struct {
	id    string
	token string
	src   Source

	ctx    context.Context
	cancel context.CancelFunc

	started chan struct{}
	done    chan Result
	once    sync.Once

	// Guarded by Controller.mu.
	playback Playback
	fallback bool
}

// ID returns the source identifier.
func (s *Session) ID() string { return s.id }

// Source returns what was requested.
func (s *Session) Source() Source { return s.src }

// Started is closed when the session reaches Playing. It never closes
// for sessions that end before that.
func (s *Session) Started() <-chan struct{} { return s.started }

// Done delivers the session's single Result, then closes.
func (s *Session) Done() <-chan Result { return s.done }

func (s *Session) finish(r Result) {
	s.once.Do(func() {
		r.ID = s.id
		s.done <- r
		close(s.done)
	})
}

// Play stops whatever is active and starts loading src. The returned
// session reports its outcome on Done.
func (c *Controller) Play(ctx context.Context, src Source) *Session {
	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:      src.SourceID(),
		token:   uuid.NewString(),
		src:     src,
		ctx:     sctx,
		cancel:  cancel,
		started: make(chan struct{}),
		done:    make(chan Result, 1),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		s.finish(Result{Outcome: Failed, Err: ErrClosed})
		return s
	}
	prev := c.detach()
	c.current = s
	c.transition(Loading, s.id)
	c.mu.Unlock()

	if prev.session != nil {
		c.log.Debugw("superseding session", "item", prev.session.id, "session", prev.session.token, "by", s.id)
		c.release(prev, Superseded)
	}
	c.log.Debugw("loading", "item", s.id, "session", s.token, "source", src.kind())

	go c.run(s)
	return s
}

// Stop releases the active session, if any, and returns to Idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	d := c.detach()
	c.mu.Unlock()

	if d.session != nil {
		c.log.Debugw("stopped", "item", d.session.id, "session", d.session.token)
		c.release(d, Stopped)
	}
}

// Close stops the active session and refuses further Play calls.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.Stop()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the identifier of the loading or playing item, or "".
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

type detached struct {
	session  *Session
	playback Playback
	fallback bool
}

// detach clears the current session. Caller holds c.mu.
func (c *Controller) detach() detached {
	s := c.current
	if s == nil {
		return detached{}
	}
	c.current = nil
	c.transition(Idle, "")
	return detached{session: s, playback: s.playback, fallback: s.fallback}
}

// release cancels loading, stops the resource and reports the outcome.
func (c *Controller) release(d detached, outcome Outcome) {
	d.session.cancel()
	if d.playback != nil {
		if err := d.playback.Stop(); err != nil {
			c.log.Warnw("releasing playback", "item", d.session.id, "error", err)
		}
	}
	d.session.finish(Result{Outcome: outcome, Fallback: d.fallback})
}

// transition records and publishes a state change. Caller holds c.mu.
func (c *Controller) transition(state State, active string) {
	if state == c.state && active == c.active {
		return
	}
	c.state, c.active = state, active
	for _, h := range c.hooks {
		h(state, active)
	}
}

func (c *Controller) run(s *Session) {
	defer s.cancel()
	pb, fellBack, err := c.acquire(s)

	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		// Stale: whoever replaced the session already reported it.
		if pb != nil {
			c.log.Debugw("discarded stale playback", "item", s.id, "session", s.token)
			pb.Stop()
		}
		return
	}
	if err != nil {
		c.fail(s, nil, err)
		return
	}
	s.fallback = fellBack
	c.mu.Unlock()

	// Start may block (spawning a process, opening the device); Stop and
	// Play must not wait on it.
	err = pb.Start()

	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		c.log.Debugw("discarded stale playback", "item", s.id, "session", s.token)
		pb.Stop()
		return
	}
	if err != nil {
		c.fail(s, pb, err)
		return
	}
	s.playback = pb
	c.transition(Playing, s.id)
	close(s.started)
	c.mu.Unlock()

	werr := pb.Wait(s.ctx)

	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.transition(Idle, "")
	c.mu.Unlock()

	if err := pb.Stop(); err != nil {
		c.log.Warnw("releasing playback", "item", s.id, "error", err)
	}
	switch {
	case werr == nil:
		c.log.Debugw("ended", "item", s.id, "session", s.token)
		s.finish(Result{Outcome: Ended, Fallback: fellBack})
	case s.ctx.Err() != nil:
		s.finish(Result{Outcome: Stopped, Err: s.ctx.Err(), Fallback: fellBack})
	default:
		c.log.Errorw("playback interrupted", "item", s.id, "session", s.token, "error", werr)
		s.finish(Result{Outcome: Failed, Err: werr, Fallback: fellBack})
	}
}

// fail ends the current session s after a load or start error. Caller
// holds c.mu; fail releases it.
func (c *Controller) fail(s *Session, pb Playback, err error) {
	c.current = nil
	if s.ctx.Err() != nil {
		// The caller's context ended; that is a stop, not a failure.
		c.transition(Idle, "")
		c.mu.Unlock()
		if pb != nil {
			pb.Stop()
		}
		s.finish(Result{Outcome: Stopped, Err: s.ctx.Err()})
		return
	}
	c.transition(Error, s.id)
	c.transition(Idle, "")
	c.mu.Unlock()
	if pb != nil {
		pb.Stop()
	}
	c.log.Errorw("playback failed", "item", s.id, "session", s.token, "error", err)
	s.finish(Result{Outcome: Failed, Err: err})
}

// acquire loads the session's source, falling back from remote synthesis
// to native speech.
func (c *Controller) acquire(s *Session) (Playback, bool, error) {
	switch src := s.src.(type) {
	case SynthesizedClip:
		pb, err := c.load(s.ctx, c.backends.Clip, src)
		if err == nil || s.ctx.Err() != nil || c.backends.Native == nil {
			return pb, false, err
		}
		c.log.Warnw("remote synthesis failed, falling back to native speech", "item", src.ID, "error", err)
		pb, nerr := c.load(s.ctx, c.backends.Native, NativeSpeech{ID: src.ID, Text: src.Text, Lang: src.Lang})
		if nerr != nil {
			return nil, false, fmt.Errorf("%w (native fallback: %w)", err, nerr)
		}
		return pb, true, nil
	case LiveSession:
		pb, err := c.load(s.ctx, c.backends.Live, src)
		return pb, false, err
	case NativeSpeech:
		pb, err := c.load(s.ctx, c.backends.Native, src)
		return pb, false, err
	default:
		return nil, false, fmt.Errorf("%w: %T", ErrNoBackend, s.src)
	}
}

// load runs one Acquire under the load timeout. A backend that ignores
// its context is abandoned at the deadline and its late result stopped.
func (c *Controller) load(ctx context.Context, b Backend, src Source) (Playback, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBackend, src.kind())
	}
	lctx, cancel := context.WithTimeout(ctx, c.cfg.LoadTimeout)
	defer cancel()

	type acquired struct {
		pb  Playback
		err error
	}
	ch := make(chan acquired, 1)
	go func() {
		pb, err := b.Acquire(lctx, src)
		ch <- acquired{pb, err}
	}()

	select {
	case a := <-ch:
		if a.err != nil && ctx.Err() == nil && lctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s: %w", ErrLoadTimeout, c.cfg.LoadTimeout, a.err)
		}
		return a.pb, a.err
	case <-lctx.Done():
		go func() {
			if a := <-ch; a.pb != nil {
				c.log.Debugw("discarded stale playback", "item", src.SourceID())
				a.pb.Stop()
			}
		}()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w after %s", ErrLoadTimeout, c.cfg.LoadTimeout)
	}
}
