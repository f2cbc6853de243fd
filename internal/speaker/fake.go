package speaker

import (
	"bytes"
	"context"
	"sync"
)

// Fake is an in-memory Device for tests. Streams end when Finish is
// called on them (or immediately when AutoFinish is set).
type Fake struct {
	AutoFinish bool

	mu      sync.Mutex
	streams []*FakeStream
}

func (f *Fake) Play(pcm []byte, format Format) (Stream, error) {
	s := f.add(format)
	s.buf.Write(pcm)
	if f.AutoFinish {
		s.Finish()
	}
	return s, nil
}

func (f *Fake) Open(format Format) (Writer, error) {
	return f.add(format), nil
}

func (f *Fake) add(format Format) *FakeStream {
	s := &FakeStream{Format: format, done: make(chan struct{})}
	f.mu.Lock()
	f.streams = append(f.streams, s)
	f.mu.Unlock()
	return s
}

// Streams returns every stream handed out so far.
func (f *Fake) Streams() []*FakeStream {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeStream(nil), f.streams...)
}

// FakeStream records written audio and how it ended.
type FakeStream struct {
	Format Format

	mu      sync.Mutex
	buf     bytes.Buffer
	stopped bool
	closed  bool
	done    chan struct{}
	once    sync.Once
}

func (s *FakeStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// Close ends input and, like a drained device, finishes the stream.
func (s *FakeStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Finish()
	return nil
}

func (s *FakeStream) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *FakeStream) Stop() error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.Finish()
	return nil
}

// Finish simulates the sound reaching its end.
func (s *FakeStream) Finish() {
	s.once.Do(func() { close(s.done) })
}

// Stopped reports whether Stop was called.
func (s *FakeStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Bytes returns the audio written so far.
func (s *FakeStream) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}
