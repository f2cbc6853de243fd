package bookmarks

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/kv"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/playback/playbacktest"
	"github.com/abhisek/iqro/internal/progress"
)

func newList(t *testing.T, ids ...string) *progress.Bookmarks {
	t.Helper()
	cur := curriculum.Default()
	list := progress.NewBookmarks(kv.NewMemory(), nil)
	for i, id := range ids {
		it, err := cur.Item(id)
		require.NoError(t, err)
		list.Toggle(progress.BookmarkFor(it, time.Unix(int64(i), 0)))
	}
	return list
}

func TestEmptyList(t *testing.T) {
	b := New(newList(t), nil, "ar", "")
	assert.Contains(t, b.View(80, 20), "No bookmarks yet")

	_, cmd := b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestEnterPlaysSelectedBookmark(t *testing.T) {
	backend := playbacktest.NewBackend()
	player := playback.New(playback.DefaultConfig(), playback.Backends{Clip: backend}, nil)
	t.Cleanup(player.Close)
	b := New(newList(t, "1-0-1", "2-1-0"), player, "ar", "Kore")

	b.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, waitDone := b.Update(cmd())
	require.NotNil(t, waitDone)

	src := backend.Sources()
	require.Len(t, src, 1)
	assert.Equal(t, playback.SynthesizedClip{ID: "2-1-0", Text: "كَلَ", Lang: "ar", Voice: "Kore"}, src[0])
	assert.Contains(t, b.View(80, 20), "Playing kala")

	b.Leave()
	b.Update(waitDone())
	assert.True(t, backend.Playback("2-1-0").Stopped())
	assert.NotContains(t, b.View(80, 20), "Playing")
}

func TestRemoveKeepsCursorInRange(t *testing.T) {
	list := newList(t, "1-0-0", "1-0-1")
	b := New(list, nil, "ar", "")

	b.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	b.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})

	require.Len(t, list.List(), 1)
	assert.Equal(t, "1-0-0", list.List()[0].ItemID)
	assert.Equal(t, 0, b.cursor)

	b.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	assert.Empty(t, list.List())
}
