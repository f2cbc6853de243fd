package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/kv"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/playback/playbacktest"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/screens/study"
)

func newTestModel(t *testing.T) (AppModel, *playbacktest.Backend, *playback.Controller) {
	t.Helper()
	storage := kv.NewMemory()
	backend := playbacktest.NewBackend()
	player := playback.New(playback.DefaultConfig(), playback.Backends{Clip: backend}, nil)
	t.Cleanup(player.Close)
	m := newAppModel(Options{
		Curriculum: curriculum.Default(),
		Progress:   progress.NewSet(storage, progress.ProgressKey, nil),
		Bookmarks:  progress.NewBookmarks(storage, nil),
		Player:     player,
		Study:      study.DefaultOptions(),
	})
	return m, backend, player
}

// send runs msg through the model and executes returned commands one level
// deep, feeding their messages back in.
func send(m AppModel, msg tea.Msg) AppModel {
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(AppModel)
			}
		}
	}
	return m
}

func TestEscLeavingStudyStopsAudio(t *testing.T) {
	m, backend, player := newTestModel(t)

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter}) // CONTINUE
	require.Equal(t, 2, m.router.Depth())
	require.Equal(t, "Iqro 1", m.router.Active().Title())

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter}) // play 1-0-0, started
	require.Equal(t, playback.Playing, player.State())

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth())
	assert.True(t, backend.Playback("1-0-0").Stopped())
	assert.Equal(t, playback.Idle, player.State())
}

func TestEscAtHomeIsNoOp(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestCtrlCStopsAudio(t *testing.T) {
	m, backend, player := newTestModel(t)
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Equal(t, playback.Playing, player.State())

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, backend.Playback("1-0-0").Stopped())
}

func TestViewTooSmall(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, next.(AppModel).render(), "Terminal too small")
}

func TestViewHeaderStats(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.opts.Progress.Mark("1-0-0")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, next.(AppModel).render(), "✓ 1/")
}
