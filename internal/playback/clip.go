package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/iqro/internal/speaker"
	"github.com/abhisek/iqro/internal/tts"
)

// ClipBackend synthesizes SynthesizedClip sources and plays them on a
// speaker, caching clips by voice, language and text.
type ClipBackend struct {
	synth tts.Synthesizer
	dev   speaker.Device
	cache *clipCache
	log   *zap.SugaredLogger
}

// NewClipBackend creates a ClipBackend.
func NewClipBackend(synth tts.Synthesizer, dev speaker.Device, cfg Config, log *zap.SugaredLogger) *ClipBackend {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ClipBackend{synth: synth, dev: dev, cache: newClipCache(cfg.CacheSize), log: log}
}

func (b *ClipBackend) Acquire(ctx context.Context, src Source) (Playback, error) {
	req, ok := src.(SynthesizedClip)
	if !ok {
		return nil, fmt.Errorf("%w: clip backend got %s", ErrNoBackend, src.kind())
	}
	if b.synth == nil {
		return nil, errors.New("remote synthesis not configured")
	}

	key := clipKey(req.Voice, req.Lang, req.Text)
	clip, hit := b.cache.get(key)
	if !hit {
		var err error
		clip, err = b.synth.Synthesize(ctx, req.Text, tts.Voice{Name: req.Voice, Lang: req.Lang})
		if err != nil {
			return nil, fmt.Errorf("synthesize %s: %w", req.ID, err)
		}
		if clip == nil || len(clip.PCM) == 0 {
			return nil, fmt.Errorf("synthesize %s: empty audio", req.ID)
		}
		b.cache.put(key, clip)
	}
	b.log.Debugw("clip ready", "item", req.ID, "cached", hit, "duration", clip.Duration())

	return &streamPlayback{start: func() (speaker.Stream, error) {
		return b.dev.Play(clip.PCM, speaker.Format{SampleRate: clip.SampleRate, Channels: clip.Channels})
	}}, nil
}

// streamPlayback defers starting a speaker.Stream until Start.
type streamPlayback struct {
	start func() (speaker.Stream, error)

	mu      sync.Mutex
	stream  speaker.Stream
	stopped bool
}

func (p *streamPlayback) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return errors.New("playback already stopped")
	}
	s, err := p.start()
	if err != nil {
		return err
	}
	p.stream = s
	return nil
}

func (p *streamPlayback) Wait(ctx context.Context) error {
	p.mu.Lock()
	s := p.stream
	p.mu.Unlock()
	if s == nil {
		return errors.New("playback not started")
	}
	return s.Wait(ctx)
}

func (p *streamPlayback) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.stream == nil {
		return nil
	}
	return p.stream.Stop()
}
