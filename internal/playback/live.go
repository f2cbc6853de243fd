package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/abhisek/iqro/internal/speaker"
	"github.com/abhisek/iqro/internal/tts"
)

// LiveBackend opens live sessions and streams their audio replies to a
// speaker. Loading covers the handshake and the opening prompt.
type LiveBackend struct {
	dialer tts.LiveDialer
	dev    speaker.Device
	log    *zap.SugaredLogger
}

// NewLiveBackend creates a LiveBackend.
func NewLiveBackend(dialer tts.LiveDialer, dev speaker.Device, log *zap.SugaredLogger) *LiveBackend {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LiveBackend{dialer: dialer, dev: dev, log: log}
}

func (b *LiveBackend) Acquire(ctx context.Context, src Source) (Playback, error) {
	req, ok := src.(LiveSession)
	if !ok {
		return nil, fmt.Errorf("%w: live backend got %s", ErrNoBackend, src.kind())
	}
	if b.dialer == nil {
		return nil, errors.New("live sessions not configured")
	}

	conn, err := b.dialer.Dial(ctx, tts.LiveRequest{
		System: req.System,
		Voice:  tts.Voice{Name: req.Voice, Lang: req.Lang},
	})
	if err != nil {
		return nil, fmt.Errorf("open live session: %w", err)
	}
	if req.Prompt != "" {
		if err := conn.SendText(req.Prompt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("send live prompt: %w", err)
		}
	}
	return &livePlayback{
		req:      req,
		conn:     conn,
		dev:      b.dev,
		log:      b.log,
		done:     make(chan struct{}),
		stopping: make(chan struct{}),
	}, nil
}

type livePlayback struct {
	req  LiveSession
	conn tts.LiveConn
	dev  speaker.Device
	log  *zap.SugaredLogger

	out     speaker.Writer
	started atomic.Bool

	done     chan struct{}
	err      error
	stopping chan struct{}
	stopOnce sync.Once
}

func (p *livePlayback) Start() error {
	out, err := p.dev.Open(speaker.Speech)
	if err != nil {
		return err
	}
	p.out = out
	p.started.Store(true)

	if p.req.Mic != nil {
		go p.feedMic()
	}
	go p.pump()
	return nil
}

// feedMic forwards microphone frames until the channel closes.
func (p *livePlayback) feedMic() {
	for {
		select {
		case <-p.stopping:
			return
		case frame, ok := <-p.req.Mic:
			if !ok {
				if err := p.conn.EndAudio(); err != nil {
					p.log.Warnw("ending live audio", "item", p.req.ID, "error", err)
				}
				return
			}
			if err := p.conn.SendAudio(frame); err != nil {
				p.log.Warnw("sending live audio", "item", p.req.ID, "error", err)
				return
			}
		}
	}
}

// pump plays reply audio and surfaces transcripts until the final turn:
// the first completed turn after the user was heard, or simply the first
// one when there is no microphone.
func (p *livePlayback) pump() {
	defer close(p.done)
	heard := p.req.Mic == nil
	for {
		ev, err := p.conn.Recv()
		if err != nil {
			select {
			case <-p.stopping:
			default:
				p.err = err
			}
			break
		}
		if len(ev.Audio) > 0 {
			if _, err := p.out.Write(ev.Audio); err != nil {
				p.err = err
				break
			}
		}
		if ev.InputTranscript != "" {
			heard = true
		}
		p.transcript("user", ev.InputTranscript)
		p.transcript("model", ev.OutputTranscript)
		if ev.TurnComplete && heard {
			break
		}
	}
	p.conn.Close()
	p.out.Close()
	if p.err == nil {
		// Let the buffered reply finish.
		p.out.Wait(context.Background())
	}
}

func (p *livePlayback) transcript(who, text string) {
	if text != "" && p.req.OnTranscript != nil {
		p.req.OnTranscript(Transcript{Speaker: who, Text: text})
	}
}

func (p *livePlayback) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *livePlayback) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		close(p.stopping)
		err = p.conn.Close()
		if p.started.Load() {
			if serr := p.out.Stop(); err == nil {
				err = serr
			}
		}
	})
	return err
}
