package tts

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// LiveRequest opens a live session.
type LiveRequest struct {
	// System instructs the model for the whole session.
	System string
	Voice  Voice
}

// LiveEvent is one server message, flattened.
type LiveEvent struct {
	Audio            []byte
	InputTranscript  string
	OutputTranscript string
	TurnComplete     bool
}

// LiveConn is an open bidirectional session.
type LiveConn interface {
	// SendText sends a complete user turn.
	SendText(text string) error
	// SendAudio streams a chunk of 16 kHz 16-bit mono microphone PCM.
	SendAudio(pcm []byte) error
	// EndAudio tells the server the microphone stream has ended.
	EndAudio() error
	Recv() (LiveEvent, error)
	Close() error
}

// LiveDialer opens live sessions.
type LiveDialer interface {
	Dial(ctx context.Context, req LiveRequest) (LiveConn, error)
}

// GeminiLive dials Gemini Live sessions.
type GeminiLive struct {
	client *genai.Client
	cfg    Config
}

// NewGeminiLive creates a dialer.
func NewGeminiLive(ctx context.Context, cfg Config) (*GeminiLive, error) {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiLive{client: client, cfg: cfg}, nil
}

func (g *GeminiLive) Dial(ctx context.Context, req LiveRequest) (LiveConn, error) {
	name := req.Voice.Name
	if name == "" {
		name = g.cfg.Voice
	}
	config := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: req.Voice.Lang,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: name},
			},
		},
		InputAudioTranscription:  &genai.AudioTranscriptionConfig{},
		OutputAudioTranscription: &genai.AudioTranscriptionConfig{},
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	session, err := g.client.Live.Connect(ctx, g.cfg.LiveModel, config)
	if err != nil {
		return nil, mapError(err)
	}
	return &geminiConn{session: session}, nil
}

type geminiConn struct {
	session *genai.Session
}

func (c *geminiConn) SendText(text string) error {
	return c.session.SendClientContent(genai.LiveClientContentInput{
		Turns:        []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		TurnComplete: genai.Ptr(true),
	})
}

func (c *geminiConn) SendAudio(pcm []byte) error {
	return c.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Audio: &genai.Blob{MIMEType: "audio/pcm;rate=16000", Data: pcm},
	})
}

func (c *geminiConn) EndAudio() error {
	return c.session.SendRealtimeInput(genai.LiveRealtimeInput{AudioStreamEnd: true})
}

func (c *geminiConn) Recv() (LiveEvent, error) {
	msg, err := c.session.Receive()
	if err != nil {
		return LiveEvent{}, fmt.Errorf("live receive: %w", err)
	}
	var ev LiveEvent
	sc := msg.ServerContent
	if sc == nil {
		return ev, nil
	}
	if sc.ModelTurn != nil {
		for _, part := range sc.ModelTurn.Parts {
			if part != nil && part.InlineData != nil {
				ev.Audio = append(ev.Audio, part.InlineData.Data...)
			}
		}
	}
	if sc.InputTranscription != nil {
		ev.InputTranscript = sc.InputTranscription.Text
	}
	if sc.OutputTranscription != nil {
		ev.OutputTranscript = sc.OutputTranscription.Text
	}
	ev.TurnComplete = sc.TurnComplete
	return ev, nil
}

func (c *geminiConn) Close() error {
	return c.session.Close()
}
