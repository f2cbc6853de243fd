package speaker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoFormat Format
	otoErr    error
)

// Oto is a Device backed by ebitengine/oto. Its format is fixed at
// construction.
type Oto struct {
	ctx    *oto.Context
	format Format
}

// NewOto opens the process-wide audio context in the given format.
func NewOto(format Format) (*Oto, error) {
	otoOnce.Do(func() {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx, otoFormat = c, format
	})
	if otoErr != nil {
		return nil, fmt.Errorf("open audio device: %w", otoErr)
	}
	o := &Oto{ctx: otoCtx, format: otoFormat}
	if err := o.check(format); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Oto) check(format Format) error {
	if format != o.format {
		return fmt.Errorf("audio format %s not supported by device opened at %s", format, o.format)
	}
	return nil
}

func (o *Oto) Play(pcm []byte, format Format) (Stream, error) {
	if err := o.check(format); err != nil {
		return nil, err
	}
	s := newOtoStream(o.ctx.NewPlayer(bytes.NewReader(pcm)))
	s.player.Play()
	return s, nil
}

func (o *Oto) Open(format Format) (Writer, error) {
	if err := o.check(format); err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	s := newOtoStream(o.ctx.NewPlayer(pr))
	s.player.Play()
	return &otoWriter{otoStream: s, pw: pw, pr: pr}, nil
}

type otoStream struct {
	player  *oto.Player
	stopped chan struct{}
	once    sync.Once
}

func newOtoStream(p *oto.Player) *otoStream {
	return &otoStream{player: p, stopped: make(chan struct{})}
}

// Wait polls the player; oto has no completion callback.
func (s *otoStream) Wait(ctx context.Context) error {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-s.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			if !s.player.IsPlaying() {
				return nil
			}
		}
	}
}

func (s *otoStream) Stop() error {
	var err error
	s.once.Do(func() {
		close(s.stopped)
		s.player.Pause()
		err = s.player.Close()
	})
	return err
}

type otoWriter struct {
	*otoStream
	pw *io.PipeWriter
	pr *io.PipeReader
}

func (w *otoWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

// Close ends the input; the player keeps going until the buffer drains.
func (w *otoWriter) Close() error {
	return w.pw.Close()
}

func (w *otoWriter) Stop() error {
	// Unblock the player goroutine reading from the pipe.
	w.pr.CloseWithError(io.ErrClosedPipe)
	w.pw.Close()
	return w.otoStream.Stop()
}
