package tts

import (
	"context"
	"io"
	"sync"
	"time"
)

// MockResult is a canned Synthesize outcome.
type MockResult struct {
	Clip  *Clip
	Err   error
	Delay time.Duration
}

// MockSynthesizer returns canned results in FIFO order. Once the queue
// is empty it returns a short silent clip.
type MockSynthesizer struct {
	mu      sync.Mutex
	results []MockResult
	Calls   []string
}

// NewMockSynthesizer creates a MockSynthesizer.
func NewMockSynthesizer(results ...MockResult) *MockSynthesizer {
	return &MockSynthesizer{results: results}
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string, _ Voice) (*Clip, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	next := MockResult{Clip: Silence(100 * time.Millisecond)}
	if len(m.results) > 0 {
		next = m.results[0]
		m.results = m.results[1:]
	}
	m.mu.Unlock()

	if next.Delay > 0 {
		select {
		case <-time.After(next.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return next.Clip, next.Err
}

// CallCount returns the number of Synthesize calls.
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Silence returns a silent 24 kHz mono clip of length d.
func Silence(d time.Duration) *Clip {
	frames := int(d.Seconds() * 24000)
	return &Clip{PCM: make([]byte, frames*2), SampleRate: 24000, Channels: 1}
}

// MockLive dials MockLiveConns that replay Events. AfterAudioEnd is held
// back until the client calls EndAudio, the way a real session only
// answers once the learner has finished speaking.
type MockLive struct {
	Events        []LiveEvent
	AfterAudioEnd []LiveEvent
	DialErr       error

	mu    sync.Mutex
	Conns []*MockLiveConn
}

func (m *MockLive) Dial(ctx context.Context, req LiveRequest) (LiveConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.DialErr != nil {
		return nil, m.DialErr
	}
	conn := &MockLiveConn{
		events: make(chan LiveEvent, len(m.Events)+len(m.AfterAudioEnd)),
		later:  m.AfterAudioEnd,
		closed: make(chan struct{}),
	}
	for _, ev := range m.Events {
		conn.events <- ev
	}
	m.mu.Lock()
	m.Conns = append(m.Conns, conn)
	m.mu.Unlock()
	return conn, nil
}

// Conn returns the i-th dialed connection.
func (m *MockLive) Conn(i int) *MockLiveConn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Conns[i]
}

// MockLiveConn records what was sent. Recv blocks after the scripted
// events until Close.
type MockLiveConn struct {
	mu        sync.Mutex
	Texts     []string
	Audio     [][]byte
	AudioDone bool

	events    chan LiveEvent
	later     []LiveEvent
	closed    chan struct{}
	closeOnce sync.Once
}

func (c *MockLiveConn) SendText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Texts = append(c.Texts, text)
	return nil
}

func (c *MockLiveConn) SendAudio(pcm []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Audio = append(c.Audio, pcm)
	return nil
}

func (c *MockLiveConn) EndAudio() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AudioDone {
		return nil
	}
	c.AudioDone = true
	for _, ev := range c.later {
		c.events <- ev
	}
	return nil
}

func (c *MockLiveConn) Recv() (LiveEvent, error) {
	select {
	case ev := <-c.events:
		return ev, nil
	case <-c.closed:
		return LiveEvent{}, io.EOF
	}
}

func (c *MockLiveConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// Sent returns what was sent so far.
func (c *MockLiveConn) Sent() (texts []string, audio [][]byte, ended bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Texts...), append([][]byte(nil), c.Audio...), c.AudioDone
}

// Closed reports whether Close was called.
func (c *MockLiveConn) Closed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
