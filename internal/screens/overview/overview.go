package overview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/progress"
	"github.com/abhisek/iqro/internal/router"
	"github.com/abhisek/iqro/internal/screen"
	"github.com/abhisek/iqro/internal/ui/components"
	"github.com/abhisek/iqro/internal/ui/layout"
	"github.com/abhisek/iqro/internal/ui/theme"
)

// OverviewScreen shows completion per level.
type OverviewScreen struct {
	cur    *curriculum.Curriculum
	set    *progress.Set
	cursor int
	// open builds the study screen for a level.
	open func(level int) screen.Screen
}

var _ screen.Screen = (*OverviewScreen)(nil)

// New creates an OverviewScreen. open may be nil.
func New(cur *curriculum.Curriculum, set *progress.Set, open func(level int) screen.Screen) *OverviewScreen {
	return &OverviewScreen{cur: cur, set: set, open: open}
}

func (o *OverviewScreen) Init() tea.Cmd {
	return nil
}

func (o *OverviewScreen) Title() string {
	return "Progress"
}

// KeyHints returns the key binding hints for the footer.
func (o *OverviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Level"},
		{Key: "Enter", Description: "Study"},
		{Key: "Esc", Description: "Back"},
	}
}

// Ratios returns the completion of every level in order.
func (o *OverviewScreen) Ratios() []progress.Ratio {
	levels := o.cur.Levels()
	out := make([]progress.Ratio, len(levels))
	for i, l := range levels {
		out[i] = o.set.CompletionRatio(l.Number, l.ItemIDs())
	}
	return out
}

func (o *OverviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}
	levels := o.cur.Levels()
	switch kmsg.String() {
	case "up", "k":
		o.cursor = max(o.cursor-1, 0)
	case "down", "j":
		o.cursor = min(o.cursor+1, max(len(levels)-1, 0))
	case "enter":
		if o.open != nil && o.cursor < len(levels) {
			next := o.open(levels[o.cursor].Number)
			return o, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	case "q":
		return o, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return o, nil
}

func (o *OverviewScreen) View(width, height int) string {
	levels := o.cur.Levels()
	barWidth := min(width-8, 70)

	lines := []string{theme.Title.Width(width).Render("Your reading journey"), ""}
	for i, r := range o.Ratios() {
		label := fmt.Sprintf("Iqro %d", r.Level)
		bar := components.NewProgressBar(label, r.Count, r.Total, r.Percent, barWidth).View()
		prefix := "    "
		if i == o.cursor {
			prefix = theme.Selected.Render("  ▸ ")
		}
		lines = append(lines, prefix+bar)
		lines = append(lines, "      "+theme.Hint.Render(levels[i].Title))
	}
	if o.set.Degraded() {
		lines = append(lines, "", theme.Hint.Render("  Progress is kept in memory only; it could not be saved."))
	}
	return strings.Join(lines, "\n")
}
