package study

import (
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/feedback"
	"github.com/abhisek/iqro/internal/kv"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/playback/playbacktest"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screens/check"
	"github.com/abhisek/iqro/internal/screens/listen"
)

type fixture struct {
	screen    *StudyScreen
	set       *progress.Set
	bookmarks *progress.Bookmarks
	remote    *playbacktest.Backend
	native    *playbacktest.Backend
	player    *playback.Controller
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	storage := kv.NewMemory()
	f := &fixture{
		set:       progress.NewSet(storage, progress.ProgressKey, nil),
		bookmarks: progress.NewBookmarks(storage, nil),
		remote:    playbacktest.NewBackend(),
		native:    playbacktest.NewBackend(),
	}
	f.player = playback.New(playback.DefaultConfig(), playback.Backends{Clip: f.remote, Native: f.native}, nil)
	t.Cleanup(f.player.Close)
	f.screen = New(curriculum.Default(), 1, f.set, f.bookmarks, f.player,
		feedback.NewService(nil, feedback.DefaultConfig(), nil), opts)
	f.screen.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "space":
		return tea.KeyPressMsg{Code: ' '}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// drive runs cmd, feeds its message to the screen and returns the
// follow-up command.
func drive(f *fixture, cmd tea.Cmd) tea.Cmd {
	msg := cmd()
	_, next := f.screen.Update(msg)
	return next
}

func TestFirstItemSelected(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	it, ok := f.screen.Selected()
	require.True(t, ok)
	assert.Equal(t, "1-0-0", it.ID.String())
	assert.Equal(t, "Iqro 1", f.screen.Title())
}

func TestCursorSkipsSectionHeaders(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	for range 3 {
		f.screen.Update(key("down"))
	}
	it, _ := f.screen.Selected()
	assert.Equal(t, "1-1-0", it.ID.String())

	f.screen.Update(key("up"))
	it, _ = f.screen.Selected()
	assert.Equal(t, "1-0-2", it.ID.String())

	for range 10 {
		f.screen.Update(key("up"))
	}
	it, _ = f.screen.Selected()
	assert.Equal(t, "1-0-0", it.ID.String(), "cursor stops at the first item")
}

func TestNaturalEndMarksComplete(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	_, cmd := f.screen.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Contains(t, f.screen.View(80, 30), "Loading a")

	waitDone := drive(f, cmd)
	require.NotNil(t, waitDone)
	assert.Contains(t, f.screen.View(80, 30), "Playing a")

	src := f.remote.Sources()
	require.Len(t, src, 1)
	assert.Equal(t, playback.SynthesizedClip{ID: "1-0-0", Text: "أَ", Lang: "ar"}, src[0])

	f.remote.Playback("1-0-0").Finish()
	drive(f, waitDone)
	assert.True(t, f.set.IsMarked("1-0-0"))
}

func TestManualStopDoesNotMarkComplete(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	_, cmd := f.screen.Update(key("enter"))
	waitDone := drive(f, cmd)
	f.screen.Update(key("s"))
	drive(f, waitDone)

	assert.True(t, f.remote.Playback("1-0-0").Stopped())
	assert.False(t, f.set.IsMarked("1-0-0"))
	assert.Equal(t, playback.Idle, f.player.State())
}

func TestAutoCompleteDisabled(t *testing.T) {
	f := newFixture(t, Options{Lang: "ar"})

	_, cmd := f.screen.Update(key("enter"))
	waitDone := drive(f, cmd)
	f.remote.Playback("1-0-0").Finish()
	drive(f, waitDone)

	assert.False(t, f.set.IsMarked("1-0-0"))
}

func TestNativeKeyUsesDeviceVoice(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.screen.Update(key("down"))

	_, cmd := f.screen.Update(key("n"))
	drive(f, cmd)

	assert.Empty(t, f.remote.Sources())
	require.Len(t, f.native.Sources(), 1)
	assert.Equal(t, playback.NativeSpeech{ID: "1-0-1", Text: "بَ", Lang: "ar"}, f.native.Sources()[0])
}

func TestFallbackNotice(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.remote.Fail("1-0-0", errors.New("quota exceeded"))

	_, cmd := f.screen.Update(key("enter"))
	waitDone := drive(f, cmd)
	f.native.Playback("1-0-0").Finish()
	drive(f, waitDone)

	assert.True(t, f.set.IsMarked("1-0-0"))
	assert.Contains(t, f.screen.View(80, 30), "device voice")
}

func TestSpaceTogglesCompletion(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	f.screen.Update(key("space"))
	assert.True(t, f.set.IsMarked("1-0-0"))
	assert.Contains(t, f.screen.View(80, 30), "1 of 15 done (7%)")

	f.screen.Update(key("space"))
	assert.False(t, f.set.IsMarked("1-0-0"))
}

func TestBookmarkToggle(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	f.screen.Update(key("b"))
	require.Len(t, f.bookmarks.List(), 1)
	bm := f.bookmarks.List()[0]
	assert.Equal(t, "1-0-0", bm.ItemID)
	assert.Equal(t, "Alif, Ba, Ta", bm.SectionTitle)
	assert.Contains(t, f.screen.View(80, 30), "Bookmarked a")

	f.screen.Update(key("b"))
	assert.Empty(t, f.bookmarks.List())
}

func TestSwitchLevelStopsAudio(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	_, cmd := f.screen.Update(key("enter"))
	drive(f, cmd)

	f.screen.Update(key("right"))
	assert.Equal(t, "Iqro 2", f.screen.Title())
	it, _ := f.screen.Selected()
	assert.Equal(t, "2-0-0", it.ID.String())
	assert.True(t, f.remote.Playback("1-0-0").Stopped())

	f.screen.Update(key("left"))
	f.screen.Update(key("left"))
	assert.Equal(t, "Iqro 1", f.screen.Title(), "no level before the first")
}

func TestLeaveStopsAudio(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	_, cmd := f.screen.Update(key("enter"))
	drive(f, cmd)

	f.screen.Leave()
	assert.True(t, f.remote.Playback("1-0-0").Stopped())
	assert.Equal(t, playback.Idle, f.player.State())
}

func TestCheckPushesCheckScreen(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	_, cmd := f.screen.Update(key("c"))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*check.CheckScreen)
	assert.True(t, ok)
}

func TestIgnoresOtherScreensSessions(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	other := listen.NewTracker(f.player)
	cmd := other.Play(playback.SynthesizedClip{ID: "1-0-2"}, "ta")

	f.screen.Update(cmd())
	assert.NotContains(t, f.screen.View(80, 30), "Playing")
}
