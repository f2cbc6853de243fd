// Package speaker plays PCM audio on the default output device.
package speaker

import (
	"context"
	"fmt"
	"io"
)

// Format describes 16-bit little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// Speech is the format of synthesized and live speech.
var Speech = Format{SampleRate: 24000, Channels: 1}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz x%d", f.SampleRate, f.Channels)
}

// Stream is one playing sound.
type Stream interface {
	// Wait blocks until the sound finishes, is stopped, or ctx is done.
	Wait(ctx context.Context) error
	// Stop silences the sound. Safe to call more than once.
	Stop() error
}

// Writer is a Stream fed incrementally. Close marks the end of input;
// Wait then returns once the buffered audio has drained.
type Writer interface {
	io.WriteCloser
	Stream
}

// Device is an audio output.
type Device interface {
	Play(pcm []byte, format Format) (Stream, error)
	Open(format Format) (Writer, error)
}
