package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/feedback"
	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screen"
	"github.com/abhisek/iqro/internal/screens/home"
	"github.com/abhisek/iqro/internal/screens/study"
	"github.com/abhisek/iqro/internal/ui/layout"
)

// Options holds dependencies for the app.
type Options struct {
	Curriculum *curriculum.Curriculum
	Progress   *progress.Set
	Bookmarks  *progress.Bookmarks
	// Player is closed when the program exits.
	Player   *playback.Controller
	Feedback *feedback.Service
	Study    study.Options
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	deps := home.Deps{
		Curriculum: opts.Curriculum,
		Progress:   opts.Progress,
		Bookmarks:  opts.Bookmarks,
		Feedback:   opts.Feedback,
		Study:      opts.Study,
	}
	if opts.Player != nil {
		deps.Player = opts.Player
	}
	return AppModel{
		router: router.New(home.New(deps)),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.LeaveAll()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// stats summarises progress across the whole curriculum.
func (m AppModel) stats() layout.Stats {
	var s layout.Stats
	for _, l := range m.opts.Curriculum.Levels() {
		r := m.opts.Progress.CompletionRatio(l.Number, l.ItemIDs())
		s.Completed += r.Count
		s.Total += r.Total
	}
	s.Bookmarks = len(m.opts.Bookmarks.List())
	return s
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and closes the player on exit.
func Run(opts Options) error {
	if opts.Player != nil {
		defer opts.Player.Close()
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	return err
}
