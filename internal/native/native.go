// Package native speaks text through a speech engine installed on the
// machine, with no network access.
package native

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNoEngine is returned when no supported engine is on PATH.
var ErrNoEngine = errors.New("native: no speech engine found (install espeak-ng)")

// Engines in probe order.
var Engines = []string{"espeak-ng", "espeak", "say", "spd-say"}

// Config selects and tunes the engine.
type Config struct {
	// Engine forces one of Engines; empty probes in order.
	Engine string
	// Rate in words per minute; zero keeps the engine default.
	Rate int
}

// DefaultConfig returns a Config that probes for any engine.
func DefaultConfig() Config {
	return Config{Rate: 130}
}

// ConfigFromEnv reads IQRO_NATIVE_ENGINE and IQRO_NATIVE_RATE.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Engine = os.Getenv("IQRO_NATIVE_ENGINE")
	if v, err := strconv.Atoi(os.Getenv("IQRO_NATIVE_RATE")); err == nil && v > 0 {
		cfg.Rate = v
	}
	return cfg
}

// Engine is a discovered speech program.
type Engine struct {
	name string
	path string
	cfg  Config
	log  *zap.SugaredLogger

	voicesOnce sync.Once
	voices     []Voice
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Detect finds the configured engine, or the first available one.
func Detect(cfg Config, log *zap.SugaredLogger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	candidates := Engines
	if cfg.Engine != "" {
		candidates = []string{cfg.Engine}
	}
	for _, name := range candidates {
		if path, err := lookPath(name); err == nil {
			log.Debugw("native speech engine found", "engine", name, "path", path)
			e := &Engine{name: name, path: path, cfg: cfg, log: log}
			// Listing voices runs the engine once; do it before the first Speak.
			go e.Voices()
			return e, nil
		}
	}
	return nil, ErrNoEngine
}

// Name returns the engine program name.
func (e *Engine) Name() string { return e.name }

// Voices lists installed voices. Engines that cannot list voices
// return nil.
func (e *Engine) Voices() []Voice {
	e.voicesOnce.Do(func() {
		var args []string
		var parse func(string) []Voice
		switch e.name {
		case "espeak-ng", "espeak":
			args, parse = []string{"--voices"}, parseEspeakVoices
		case "say":
			args, parse = []string{"-v", "?"}, parseSayVoices
		default:
			return
		}
		out, err := exec.Command(e.path, args...).Output()
		if err != nil {
			e.log.Warnw("listing native voices failed", "engine", e.name, "error", err)
			return
		}
		e.voices = parse(string(out))
	})
	return e.voices
}

// Speak starts speaking text and returns without waiting.
func (e *Engine) Speak(text, lang string) (*Utterance, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("native: nothing to say")
	}
	args := e.args(text, lang)
	u, err := start(exec.Command(e.path, args...))
	if err != nil {
		return nil, fmt.Errorf("native: start %s: %w", e.name, err)
	}
	e.log.Debugw("native speech started", "engine", e.name, "args", args[:len(args)-1])
	return u, nil
}

func (e *Engine) args(text, lang string) []string {
	var args []string
	voice, ok := SelectVoice(e.Voices(), lang)
	switch e.name {
	case "espeak-ng", "espeak":
		if ok {
			args = append(args, "-v", voice.Name)
		}
		if e.cfg.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(e.cfg.Rate))
		}
	case "say":
		if ok {
			args = append(args, "-v", voice.Name)
		}
		if e.cfg.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(e.cfg.Rate))
		}
	case "spd-say":
		args = append(args, "-w")
		if lang != "" {
			args = append(args, "-l", baseLang(lang))
		}
	}
	return append(args, text)
}

// Utterance is a running speech process.
type Utterance struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error

	mu      sync.Mutex
	stopped bool
}

func start(cmd *exec.Cmd) (*Utterance, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	u := &Utterance{cmd: cmd, done: make(chan struct{})}
	go func() {
		u.err = cmd.Wait()
		close(u.done)
	}()
	return u, nil
}

// Wait blocks until the process exits. A stopped utterance returns nil.
func (u *Utterance) Wait(ctx context.Context) error {
	select {
	case <-u.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	u.mu.Lock()
	stopped := u.stopped
	u.mu.Unlock()
	if stopped {
		return nil
	}
	return u.err
}

// Stop kills the process. Safe after exit and when called twice.
func (u *Utterance) Stop() error {
	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return nil
	}
	u.stopped = true
	u.mu.Unlock()

	select {
	case <-u.done:
		return nil
	default:
	}
	if err := u.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	<-u.done
	return nil
}
