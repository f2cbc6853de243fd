package tts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

// GeminiSynthesizer synthesizes speech with a Gemini TTS model.
type GeminiSynthesizer struct {
	client *genai.Client
	cfg    Config
}

// NewGeminiSynthesizer creates a synthesizer. It fails with ErrNoAPIKey
// when no key is configured.
func NewGeminiSynthesizer(ctx context.Context, cfg Config) (*GeminiSynthesizer, error) {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiSynthesizer{client: client, cfg: cfg}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string, voice Voice) (*Clip, error) {
	name := voice.Name
	if name == "" {
		name = g.cfg.Voice
	}
	speech := &genai.SpeechConfig{
		VoiceConfig: &genai.VoiceConfig{
			PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: name},
		},
	}
	if voice.Lang != "" {
		speech.LanguageCode = voice.Lang
	}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model,
		genai.Text(speechPrompt(text, voice.Lang)),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{string(genai.ModalityAudio)},
			SpeechConfig:       speech,
		})
	if err != nil {
		return nil, mapError(err)
	}
	return decodeClip(result, g.cfg.SampleRate)
}

// speechPrompt asks for slow, clear reading so learners can follow along.
func speechPrompt(text, lang string) string {
	if lang == "" {
		return "Say slowly and clearly: " + text
	}
	return fmt.Sprintf("Say slowly and clearly in %s: %s", lang, text)
}

// decodeClip concatenates the inline audio parts of the first candidate.
func decodeClip(result *genai.GenerateContentResponse, defaultRate int) (*Clip, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, errors.New("tts: response has no candidates")
	}
	clip := &Clip{SampleRate: defaultRate, Channels: 1}
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		if rate := mimeRate(part.InlineData.MIMEType); rate > 0 {
			clip.SampleRate = rate
		}
		clip.PCM = append(clip.PCM, part.InlineData.Data...)
	}
	if len(clip.PCM) == 0 {
		return nil, errors.New("tts: response has no audio")
	}
	return clip, nil
}

// mimeRate extracts rate=N from a MIME type such as
// "audio/L16;codec=pcm;rate=24000".
func mimeRate(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || k != "rate" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
