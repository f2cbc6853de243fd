package playback

// Source describes what to play. It is one of SynthesizedClip,
// LiveSession or NativeSpeech.
type Source interface {
	// SourceID identifies the item being played, e.g. "1-0-2".
	SourceID() string
	kind() string
}

// SynthesizedClip is text rendered by the remote synthesizer and played
// on the speaker. If synthesis fails the text is spoken natively.
type SynthesizedClip struct {
	ID    string
	Text  string
	Lang  string
	Voice string
}

// LiveSession is an interactive conversation with the live speech model.
// It ends with the first model reply that follows recognized user speech;
// with a nil Mic it ends after the first reply.
type LiveSession struct {
	ID     string
	System string
	Prompt string
	Lang   string
	Voice  string

	// Mic carries 16 kHz 16-bit mono PCM frames.
	Mic <-chan []byte

	// OnTranscript, if set, is called from the session goroutine.
	OnTranscript func(Transcript)
}

// Transcript is a fragment of recognized speech.
type Transcript struct {
	// Speaker is "user" for microphone input and "model" for replies.
	Speaker string
	Text    string
}

// NativeSpeech is text spoken by the platform speech engine.
type NativeSpeech struct {
	ID   string
	Text string
	Lang string
}

func (s SynthesizedClip) SourceID() string { return s.ID }
func (s LiveSession) SourceID() string     { return s.ID }
func (s NativeSpeech) SourceID() string    { return s.ID }

func (SynthesizedClip) kind() string { return "clip" }
func (LiveSession) kind() string     { return "live" }
func (NativeSpeech) kind() string    { return "native" }
