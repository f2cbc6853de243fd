package playback

import (
	"context"
	"fmt"

	"github.com/abhisek/iqro/internal/native"
	"github.com/abhisek/iqro/internal/speaker"
)

// SpeakFunc starts speaking text in lang.
type SpeakFunc func(text, lang string) (speaker.Stream, error)

// EngineSpeaker adapts a native engine to SpeakFunc.
func EngineSpeaker(e *native.Engine) SpeakFunc {
	return func(text, lang string) (speaker.Stream, error) {
		u, err := e.Speak(text, lang)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
}

// NativeBackend plays NativeSpeech sources. A nil SpeakFunc means no
// engine is installed.
type NativeBackend struct {
	speak SpeakFunc
}

// NewNativeBackend creates a NativeBackend.
func NewNativeBackend(speak SpeakFunc) *NativeBackend {
	return &NativeBackend{speak: speak}
}

func (b *NativeBackend) Acquire(ctx context.Context, src Source) (Playback, error) {
	req, ok := src.(NativeSpeech)
	if !ok {
		return nil, fmt.Errorf("%w: native backend got %s", ErrNoBackend, src.kind())
	}
	if b.speak == nil {
		return nil, native.ErrNoEngine
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &streamPlayback{start: func() (speaker.Stream, error) {
		return b.speak(req.Text, req.Lang)
	}}, nil
}
