package overview

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/kv"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screen"
)

type stubScreen struct{ level int }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "" }
func (s *stubScreen) Title() string                          { return "stub" }

func TestRatiosPerLevel(t *testing.T) {
	cur := curriculum.Default()
	set := progress.NewSet(kv.NewMemory(), progress.ProgressKey, nil)
	set.Mark("1-0-0")
	set.Mark("1-0-1")
	set.Mark("2-0-0")

	o := New(cur, set, nil)
	ratios := o.Ratios()
	require.Len(t, ratios, len(cur.Levels()))

	assert.Equal(t, 1, ratios[0].Level)
	assert.Equal(t, 2, ratios[0].Count)
	assert.Equal(t, 13, ratios[0].Percent)
	assert.Equal(t, 1, ratios[1].Count)
	for _, r := range ratios[2:] {
		assert.Zero(t, r.Count)
	}
	assert.Contains(t, o.View(100, 30), "13%")
}

func TestEnterOpensLevel(t *testing.T) {
	var opened int
	o := New(curriculum.Default(), progress.NewSet(kv.NewMemory(), progress.ProgressKey, nil),
		func(level int) screen.Screen {
			opened = level
			return &stubScreen{level: level}
		})

	o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := o.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, 2, opened)
	assert.Equal(t, 2, push.Screen.(*stubScreen).level)
}

func TestDegradedNotice(t *testing.T) {
	storage := kv.NewMemory()
	storage.FailSet = true
	set := progress.NewSet(storage, progress.ProgressKey, nil)
	set.Mark("1-0-0")

	o := New(curriculum.Default(), set, nil)
	assert.Contains(t, o.View(100, 30), "memory only")
}
