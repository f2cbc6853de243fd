package bookmarks

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screen"
	"github.com/abhisek/iqro/internal/screens/listen"
	"github.com/abhisek/iqro/internal/ui/layout"
	"github.com/abhisek/iqro/internal/ui/theme"
)

// BookmarksScreen lists saved items, oldest first.
type BookmarksScreen struct {
	list   *progress.Bookmarks
	audio  *listen.Tracker
	lang   string
	voice  string
	cursor int
	offset int
}

var (
	_ screen.Screen = (*BookmarksScreen)(nil)
	_ screen.Leaver = (*BookmarksScreen)(nil)
)

// New creates a BookmarksScreen.
func New(list *progress.Bookmarks, player listen.Player, lang, voice string) *BookmarksScreen {
	return &BookmarksScreen{list: list, audio: listen.NewTracker(player), lang: lang, voice: voice}
}

func (b *BookmarksScreen) Init() tea.Cmd {
	return nil
}

func (b *BookmarksScreen) Title() string {
	return "Bookmarks"
}

// KeyHints returns the key binding hints for the footer.
func (b *BookmarksScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Listen"},
		{Key: "d", Description: "Remove"},
		{Key: "s", Description: "Stop"},
		{Key: "Esc", Description: "Back"},
	}
}

// Leave stops any audio started here.
func (b *BookmarksScreen) Leave() {
	b.audio.Stop()
}

func (b *BookmarksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listen.StartedMsg, listen.DoneMsg:
		_, cmd := b.audio.Update(msg)
		return b, cmd
	case tea.KeyMsg:
		entries := b.list.List()
		switch msg.String() {
		case "up", "k":
			b.cursor = max(b.cursor-1, 0)
		case "down", "j":
			b.cursor = min(b.cursor+1, max(len(entries)-1, 0))
		case "enter":
			if b.cursor < len(entries) {
				bm := entries[b.cursor]
				return b, b.audio.Play(playback.SynthesizedClip{
					ID:    bm.ItemID,
					Text:  bm.Arabic,
					Lang:  b.lang,
					Voice: b.voice,
				}, bm.Transliteration)
			}
		case "d", "delete":
			if b.cursor < len(entries) {
				b.list.Remove(entries[b.cursor].ItemID)
				b.cursor = min(b.cursor, max(len(entries)-2, 0))
			}
		case "s":
			b.audio.Stop()
		case "q":
			return b, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return b, nil
}

func (b *BookmarksScreen) View(width, height int) string {
	entries := b.list.List()
	if len(entries) == 0 {
		return theme.Subtitle.Width(width).Render("\nNo bookmarks yet. Press b on an item while studying.")
	}

	listHeight := max(height-2, 1)
	start, end := layout.Window(b.cursor, b.offset, len(entries), listHeight)
	b.offset = start

	lines := make([]string, 0, end-start+2)
	for i := start; i < end; i++ {
		bm := entries[i]
		text := fmt.Sprintf("Iqro %d  %-10s %s  %s", bm.Level, bm.Transliteration,
			theme.Arabic.Render(bm.Arabic), theme.Hint.Render(bm.SectionTitle))
		if i == b.cursor {
			lines = append(lines, theme.Selected.Render("  ▸ ")+text)
		} else {
			lines = append(lines, "    "+text)
		}
	}
	lines = append(lines, "", b.audio.View())
	return strings.Join(lines, "\n")
}
