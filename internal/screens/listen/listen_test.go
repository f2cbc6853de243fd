package listen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/playback/playbacktest"
)

func newPlayer(t *testing.T) (*playback.Controller, *playbacktest.Backend) {
	t.Helper()
	b := playbacktest.NewBackend()
	c := playback.New(playback.DefaultConfig(), playback.Backends{Clip: b, Native: b}, nil)
	t.Cleanup(c.Close)
	return c, b
}

func TestTrackerNaturalEnd(t *testing.T) {
	c, b := newPlayer(t)
	tr := NewTracker(c)

	cmd := tr.Play(playback.SynthesizedClip{ID: "1-0-0", Text: "ا"}, "alif")
	require.NotNil(t, cmd)
	assert.Contains(t, tr.View(), "Loading alif")
	assert.True(t, tr.Busy())

	msg := cmd()
	require.IsType(t, StartedMsg{}, msg)
	res, next := tr.Update(msg)
	assert.Nil(t, res)
	require.NotNil(t, next)
	assert.Contains(t, tr.View(), "Playing alif")

	b.Playback("1-0-0").Finish()
	res, _ = tr.Update(next())
	require.NotNil(t, res)
	assert.Equal(t, playback.Ended, res.Outcome)
	assert.False(t, tr.Busy())
	assert.Empty(t, tr.View())
}

func TestTrackerIgnoresSupersededSession(t *testing.T) {
	c, _ := newPlayer(t)
	tr := NewTracker(c)

	first := tr.Play(playback.SynthesizedClip{ID: "a"}, "a")
	second := tr.Play(playback.SynthesizedClip{ID: "b"}, "b")

	// a was superseded; its result must not touch the status line.
	for {
		msg := first()
		res, next := tr.Update(msg)
		assert.Nil(t, res)
		if next == nil {
			break
		}
		first = next
	}
	assert.Contains(t, tr.View(), "b")

	msg := second()
	require.IsType(t, StartedMsg{}, msg)
	tr.Update(msg)
	assert.Contains(t, tr.View(), "Playing b")
}

func TestTrackerStopIsNotEnd(t *testing.T) {
	c, _ := newPlayer(t)
	tr := NewTracker(c)

	cmd := tr.Play(playback.SynthesizedClip{ID: "a"}, "a")
	_, next := tr.Update(cmd())
	tr.Stop()

	res, _ := tr.Update(next())
	require.NotNil(t, res)
	assert.Equal(t, playback.Stopped, res.Outcome)
	assert.Equal(t, playback.Idle, c.State())
}

func TestTrackerFailure(t *testing.T) {
	c, b := newPlayer(t)
	b.Fail("x", errors.New("speaker unplugged"))
	tr := NewTracker(c)

	cmd := tr.Play(playback.NativeSpeech{ID: "x", Text: "ba"}, "ba")
	res, _ := tr.Update(cmd())
	require.NotNil(t, res)
	assert.Equal(t, playback.Failed, res.Outcome)
	assert.True(t, strings.Contains(tr.View(), "speaker unplugged"))
}

func TestTrackerWithoutPlayer(t *testing.T) {
	tr := NewTracker(nil)
	assert.Nil(t, tr.Play(playback.NativeSpeech{ID: "x"}, "x"))
	assert.Contains(t, tr.View(), "not available")
	tr.Stop()
}
