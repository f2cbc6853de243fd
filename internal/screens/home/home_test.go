package home

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/kv"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screens/bookmarks"
	"github.com/abhisek/iqro/internal/screens/overview"
	"github.com/abhisek/iqro/internal/screens/study"
)

func newDeps() Deps {
	storage := kv.NewMemory()
	return Deps{
		Curriculum: curriculum.Default(),
		Progress:   progress.NewSet(storage, progress.ProgressKey, nil),
		Bookmarks:  progress.NewBookmarks(storage, nil),
		Study:      study.DefaultOptions(),
	}
}

func selectAndEnter(t *testing.T, h *HomeScreen, downs int) tea.Msg {
	t.Helper()
	for range downs {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	return cmd()
}

func TestNextLevel(t *testing.T) {
	deps := newDeps()
	h := New(deps)
	assert.Equal(t, 1, h.NextLevel())

	l1, _ := deps.Curriculum.Level(1)
	for _, id := range l1.ItemIDs() {
		deps.Progress.Mark(id)
	}
	assert.Equal(t, 2, h.NextLevel())

	for _, l := range deps.Curriculum.Levels() {
		for _, id := range l.ItemIDs() {
			deps.Progress.Mark(id)
		}
	}
	levels := deps.Curriculum.Levels()
	assert.Equal(t, levels[len(levels)-1].Number, h.NextLevel())
}

func TestContinueOpensNextLevel(t *testing.T) {
	deps := newDeps()
	l1, _ := deps.Curriculum.Level(1)
	for _, id := range l1.ItemIDs() {
		deps.Progress.Mark(id)
	}

	push, ok := selectAndEnter(t, New(deps), 0).(router.PushScreenMsg)
	require.True(t, ok)
	s, ok := push.Screen.(*study.StudyScreen)
	require.True(t, ok)
	assert.Equal(t, "Iqro 2", s.Title())
}

func TestMenuScreens(t *testing.T) {
	push, ok := selectAndEnter(t, New(newDeps()), 1).(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &overview.OverviewScreen{}, push.Screen)

	push, ok = selectAndEnter(t, New(newDeps()), 2).(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &bookmarks.BookmarksScreen{}, push.Screen)

	assert.IsType(t, tea.QuitMsg{}, selectAndEnter(t, New(newDeps()), 3))
}

func TestViewSummary(t *testing.T) {
	deps := newDeps()
	deps.Progress.Mark("1-0-0")
	view := New(deps).View(100, 30)
	assert.Contains(t, view, "I Q R O")
	assert.Contains(t, view, "1 of")
	assert.Contains(t, view, "next: Iqro 1")
}
