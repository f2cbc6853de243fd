package native

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectVoice(t *testing.T) {
	voices := []Voice{
		{Name: "Alice", Lang: "en_US"},
		{Name: "Majed", Lang: "ar_001"},
		{Name: "Tarik", Lang: "ar_SA"},
	}
	tests := []struct {
		lang string
		want string
	}{
		{"ar-SA", "Tarik"},
		{"ar_sa", "Tarik"},
		{"ar-EG", "Majed"},
		{"ar", "Majed"},
		{"ms-MY", "Alice"},
		{"", "Alice"},
	}
	for _, tt := range tests {
		v, ok := SelectVoice(voices, tt.lang)
		assert.True(t, ok, tt.lang)
		assert.Equal(t, tt.want, v.Name, tt.lang)
	}

	_, ok := SelectVoice(nil, "ar")
	assert.False(t, ok, "no voices means engine default")
}

func TestParseEspeakVoices(t *testing.T) {
	out := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  ar              --/M      Arabic             sem/ar
`
	voices := parseEspeakVoices(out)
	require.Len(t, voices, 2)
	assert.Equal(t, Voice{Name: "ar", Lang: "ar"}, voices[1])
}

func TestParseSayVoices(t *testing.T) {
	out := "Majed               ar_001    # Hello\nGood News           en_US    # Hi\n"
	voices := parseSayVoices(out)
	require.Len(t, voices, 2)
	assert.Equal(t, Voice{Name: "Majed", Lang: "ar_001"}, voices[0])
	assert.Equal(t, "Good News", voices[1].Name)
}

func TestDetect(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(name string) (string, error) {
		if name == "say" {
			return "/usr/bin/say", nil
		}
		return "", exec.ErrNotFound
	}
	e, err := Detect(DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "say", e.Name())

	_, err = Detect(Config{Engine: "espeak"}, nil)
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestEngineArgs_SpdSay(t *testing.T) {
	e := &Engine{name: "spd-say", cfg: DefaultConfig()}
	assert.Equal(t, []string{"-w", "-l", "ar", "بَ"}, e.args("بَ", "ar-SA"))
}

func TestUtterance_StopKills(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	u, err := start(exec.Command("sleep", "30"))
	require.NoError(t, err)

	require.NoError(t, u.Stop())
	require.NoError(t, u.Stop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, u.Wait(ctx), "stopped utterance waits cleanly")
}

func TestUtterance_NaturalExit(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	u, err := start(exec.Command("true"))
	require.NoError(t, err)
	assert.NoError(t, u.Wait(context.Background()))
	assert.NoError(t, u.Stop(), "stop after exit is a no-op")
}

func TestUtterance_FailureSurfaces(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	u, err := start(exec.Command("false"))
	require.NoError(t, err)
	var exitErr *exec.ExitError
	assert.True(t, errors.As(u.Wait(context.Background()), &exitErr))
}
