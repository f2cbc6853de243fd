package study

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/feedback"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screen"
	"github.com/abhisek/iqro/internal/screens/check"
	"github.com/abhisek/iqro/internal/screens/listen"
	"github.com/abhisek/iqro/internal/ui/layout"
	"github.com/abhisek/iqro/internal/ui/theme"
)

// Options tunes the study screen.
type Options struct {
	// AutoComplete marks an item complete when its audio plays to the end.
	AutoComplete bool
	Voice        string
	Lang         string
}

// DefaultOptions returns the study defaults.
func DefaultOptions() Options {
	return Options{AutoComplete: true, Lang: "ar"}
}

type row struct {
	header string
	item   *curriculum.Item
}

// StudyScreen lists the items of one level and plays them.
type StudyScreen struct {
	cur       *curriculum.Curriculum
	level     curriculum.Level
	set       *progress.Set
	bookmarks *progress.Bookmarks
	feedback  *feedback.Service
	audio     *listen.Tracker
	opts      Options
	now       func() time.Time

	rows   []row
	cursor int
	offset int
	notice string
}

var (
	_ screen.Screen = (*StudyScreen)(nil)
	_ screen.Leaver = (*StudyScreen)(nil)
)

// New creates a StudyScreen opened on the given level. fb may be nil to
// hide pronunciation checks.
func New(cur *curriculum.Curriculum, level int, set *progress.Set, bookmarks *progress.Bookmarks, player listen.Player, fb *feedback.Service, opts Options) *StudyScreen {
	s := &StudyScreen{
		cur:       cur,
		set:       set,
		bookmarks: bookmarks,
		feedback:  fb,
		audio:     listen.NewTracker(player),
		opts:      opts,
		now:       time.Now,
	}
	if l, ok := cur.Level(level); ok {
		s.setLevel(l)
	} else if levels := cur.Levels(); len(levels) > 0 {
		s.setLevel(levels[0])
	}
	return s
}

func (s *StudyScreen) setLevel(l curriculum.Level) {
	s.level = l
	s.rows = s.rows[:0]
	for si := range l.Sections {
		sec := &l.Sections[si]
		s.rows = append(s.rows, row{header: sec.Title})
		for ii := range sec.Items {
			s.rows = append(s.rows, row{item: &sec.Items[ii]})
		}
	}
	s.cursor, s.offset = 0, 0
	s.moveCursor(1)
}

func (s *StudyScreen) Init() tea.Cmd {
	return nil
}

func (s *StudyScreen) Title() string {
	return fmt.Sprintf("Iqro %d", s.level.Number)
}

// KeyHints returns the key binding hints for the footer.
func (s *StudyScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Item"},
		{Key: "←→", Description: "Level"},
		{Key: "Enter", Description: "Listen"},
		{Key: "n", Description: "Device voice"},
		{Key: "Space", Description: "Done"},
		{Key: "b", Description: "Bookmark"},
		{Key: "s", Description: "Stop"},
	}
	if s.feedback != nil {
		hints = append(hints, layout.KeyHint{Key: "c", Description: "Check"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Leave stops any audio started here.
func (s *StudyScreen) Leave() {
	s.audio.Stop()
}

// Selected returns the item under the cursor.
func (s *StudyScreen) Selected() (curriculum.Item, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].item == nil {
		return curriculum.Item{}, false
	}
	return *s.rows[s.cursor].item, true
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listen.StartedMsg, listen.DoneMsg:
		res, cmd := s.audio.Update(msg)
		if res != nil {
			s.handleResult(*res)
		}
		return s, cmd
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *StudyScreen) handleResult(r playback.Result) {
	switch r.Outcome {
	case playback.Ended:
		if s.opts.AutoComplete {
			s.set.Mark(r.ID)
		}
		if r.Fallback {
			s.notice = "Played with the device voice"
		}
	case playback.Stopped, playback.Superseded:
		// Not listened to the end.
	}
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s.notice = ""
	switch msg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "left", "[":
		s.switchLevel(-1)
	case "right", "]":
		s.switchLevel(1)
	case "enter":
		if it, ok := s.Selected(); ok {
			return s, s.audio.Play(playback.SynthesizedClip{
				ID:    it.ID.String(),
				Text:  it.Arabic,
				Lang:  s.opts.Lang,
				Voice: s.opts.Voice,
			}, it.Transliteration)
		}
	case "n":
		if it, ok := s.Selected(); ok {
			return s, s.audio.Play(playback.NativeSpeech{
				ID:   it.ID.String(),
				Text: it.Arabic,
				Lang: s.opts.Lang,
			}, it.Transliteration)
		}
	case "space", " ":
		if it, ok := s.Selected(); ok {
			s.set.Toggle(it.ID.String())
		}
	case "b":
		if it, ok := s.Selected(); ok {
			if s.bookmarks.Toggle(progress.BookmarkFor(it, s.now())) {
				s.notice = "Bookmarked " + it.Transliteration
			} else {
				s.notice = "Removed bookmark " + it.Transliteration
			}
		}
	case "s":
		s.audio.Stop()
	case "c":
		if it, ok := s.Selected(); ok && s.feedback != nil {
			s.audio.Stop()
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: check.New(it, s.feedback)}
			}
		}
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// moveCursor moves the cursor by delta, skipping section headers.
func (s *StudyScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].item != nil {
			s.cursor = next
			return
		}
		next += delta
	}
}

func (s *StudyScreen) switchLevel(delta int) {
	levels := s.cur.Levels()
	for i, l := range levels {
		if l.Number != s.level.Number {
			continue
		}
		if j := i + delta; j >= 0 && j < len(levels) {
			s.audio.Stop()
			s.setLevel(levels[j])
		}
		return
	}
}

func (s *StudyScreen) View(width, height int) string {
	ratio := s.set.CompletionRatio(s.level.Number, s.level.ItemIDs())
	title := theme.Title.Width(width).Render(s.level.Title)
	summary := theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%d of %d done (%d%%)", ratio.Count, ratio.Total, ratio.Percent))

	status := s.audio.View()
	if status == "" && s.notice != "" {
		status = theme.Hint.Render(s.notice)
	}
	if s.set.Degraded() {
		status += "  " + theme.Hint.Render("(progress is not being saved)")
	}

	listHeight := max(height-5, 1)
	start, end := layout.Window(s.cursor, s.offset, len(s.rows), listHeight)
	s.offset = start

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, s.renderRow(s.rows[i], i == s.cursor))
	}

	return strings.Join([]string{title, summary, "", strings.Join(lines, "\n"), "", status}, "\n")
}

func (s *StudyScreen) renderRow(r row, selected bool) string {
	if r.item == nil {
		return theme.SectionHeader.Render("  " + r.header)
	}
	id := r.item.ID.String()

	mark := "  ○"
	markStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.set.IsMarked(id) {
		mark = "  ●"
		markStyle = theme.Correct
	}
	star := "  "
	if s.bookmarks.IsMarked(id) {
		star = " ★"
	}

	label := fmt.Sprintf("%-10s %s", r.item.Transliteration, theme.Arabic.Render(r.item.Arabic))
	if selected {
		label = theme.Selected.Render("▸ ") + theme.Selected.Render(label)
	} else {
		label = "  " + theme.Unselected.Render(label)
	}
	return markStyle.Render(mark) + lipgloss.NewStyle().Foreground(theme.Accent).Render(star) + " " + label
}
