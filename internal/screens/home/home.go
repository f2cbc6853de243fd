package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/feedback"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screen"
	"github.com/abhisek/iqro/internal/screens/bookmarks"
	"github.com/abhisek/iqro/internal/screens/listen"
	"github.com/abhisek/iqro/internal/screens/overview"
	"github.com/abhisek/iqro/internal/screens/study"
	"github.com/abhisek/iqro/internal/ui/components"
	"github.com/abhisek/iqro/internal/ui/theme"
)

const banner = "اقْرَأْ"

// Deps are the services shared by every screen.
type Deps struct {
	Curriculum *curriculum.Curriculum
	Progress   *progress.Set
	Bookmarks  *progress.Bookmarks
	Player     listen.Player
	Feedback   *feedback.Service
	Study      study.Options
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			next := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "CONTINUE", Action: push(func() screen.Screen { return h.studyScreen(h.NextLevel()) })},
		{Label: "PROGRESS", Action: push(func() screen.Screen {
			return overview.New(deps.Curriculum, deps.Progress, func(level int) screen.Screen {
				return h.studyScreen(level)
			})
		})},
		{Label: "BOOKMARKS", Action: push(func() screen.Screen {
			return bookmarks.New(deps.Bookmarks, deps.Player, deps.Study.Lang, deps.Study.Voice)
		})},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) studyScreen(level int) screen.Screen {
	d := h.deps
	return study.New(d.Curriculum, level, d.Progress, d.Bookmarks, d.Player, d.Feedback, d.Study)
}

// NextLevel returns the first level that is not yet complete, or the
// last level when everything is done.
func (h *HomeScreen) NextLevel() int {
	levels := h.deps.Curriculum.Levels()
	if len(levels) == 0 {
		return 1
	}
	for _, l := range levels {
		r := h.deps.Progress.CompletionRatio(l.Number, l.ItemIDs())
		if r.Count < r.Total {
			return l.Number
		}
	}
	return levels[len(levels)-1].Number
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	title := center.Render(theme.Arabic.Render(banner) + "\n" + theme.Title.Render("I Q R O"))

	var done, total int
	for _, l := range h.deps.Curriculum.Levels() {
		r := h.deps.Progress.CompletionRatio(l.Number, l.ItemIDs())
		done += r.Count
		total += r.Total
	}
	summary := center.Render(theme.Hint.Render(fmt.Sprintf(
		"%d of %d items read · %d bookmarked · next: Iqro %d",
		done, total, len(h.deps.Bookmarks.List()), h.NextLevel())))

	menu := center.Render(theme.Card.Render(h.menu.View()))

	content := strings.Join([]string{title, summary, menu}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
