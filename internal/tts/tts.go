// Package tts talks to remote speech services: one-shot synthesis of a
// clip and bidirectional live sessions.
package tts

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/abhisek/iqro/internal/llm"
)

// Voice selects a prebuilt voice and a language hint.
type Voice struct {
	Name string
	Lang string
}

// Clip is decoded 16-bit little-endian PCM.
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Duration returns the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c == nil || c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	frames := len(c.PCM) / (2 * c.Channels)
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// Synthesizer turns text into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) (*Clip, error)
}

// Config holds remote speech settings.
type Config struct {
	APIKey    string
	Model     string
	LiveModel string
	Voice     string

	// SampleRate of the PCM the service returns.
	SampleRate int
}

// DefaultConfig returns the Gemini speech defaults.
func DefaultConfig() Config {
	return Config{
		Model:      "gemini-2.5-flash-preview-tts",
		LiveModel:  "gemini-2.5-flash-native-audio-preview-09-2025",
		Voice:      "Kore",
		SampleRate: 24000,
	}
}

// ConfigFromEnv overlays IQRO_* variables on DefaultConfig. The API key
// falls back to GEMINI_API_KEY.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.APIKey = os.Getenv("IQRO_GEMINI_API_KEY")
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("IQRO_TTS_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("IQRO_TTS_VOICE"); v != "" {
		cfg.Voice = v
	}
	if v := os.Getenv("IQRO_LIVE_MODEL"); v != "" {
		cfg.LiveModel = v
	}
	return cfg
}

// ErrNoAPIKey is returned when remote speech is requested without a key.
var ErrNoAPIKey = errors.New("tts: no Gemini API key configured (set IQRO_GEMINI_API_KEY)")

func newClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// mapError folds SDK errors into the llm error types so callers handle
// speech and text failures alike.
func mapError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return &llm.ErrRateLimit{Err: err}
	}
	return &llm.ErrProviderUnavailable{Err: err}
}
