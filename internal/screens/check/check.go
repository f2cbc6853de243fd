package check

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/feedback"
	"github.com/abhisek/iqro/internal/screen"
	"github.com/abhisek/iqro/internal/ui/components"
	"github.com/abhisek/iqro/internal/ui/layout"
	"github.com/abhisek/iqro/internal/ui/theme"
)

const evaluateTimeout = 30 * time.Second

// evaluatedMsg carries the grade for one submission.
type evaluatedMsg struct {
	seq    int
	heard  string
	result *feedback.Result
	err    error
}

// CheckScreen grades what the learner read aloud, typed as heard.
type CheckScreen struct {
	item    curriculum.Item
	service *feedback.Service
	input   components.TextInput

	seq     int
	pending bool
	heard   string
	result  *feedback.Result
	err     error
}

var _ screen.Screen = (*CheckScreen)(nil)

// New creates a CheckScreen for item.
func New(item curriculum.Item, service *feedback.Service) *CheckScreen {
	return &CheckScreen{
		item:    item,
		service: service,
		input:   components.NewTextInput("type what was read, e.g. "+item.Transliteration, 64),
	}
}

func (c *CheckScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *CheckScreen) Title() string {
	return "Check " + c.item.Transliteration
}

// KeyHints returns the key binding hints for the footer.
func (c *CheckScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Check"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *CheckScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluatedMsg:
		if msg.seq != c.seq {
			return c, nil
		}
		c.pending = false
		c.heard, c.result, c.err = msg.heard, msg.result, msg.err
		return c, nil
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return c, c.submit()
		}
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *CheckScreen) submit() tea.Cmd {
	heard := c.input.Value()
	if heard == "" {
		return nil
	}
	c.seq++
	c.pending = true
	c.input.Reset()

	seq, item, service := c.seq, c.item, c.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), evaluateTimeout)
		defer cancel()
		res, err := service.Evaluate(ctx, item, heard)
		return evaluatedMsg{seq: seq, heard: heard, result: res, err: err}
	}
}

func (c *CheckScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render(c.item.SectionTitle))
	b.WriteString("\n\n")
	b.WriteString(theme.Arabic.Width(width).Align(lipgloss.Center).Render(c.item.Arabic))
	b.WriteString("\n\n  ")
	b.WriteString(c.input.View())
	b.WriteString("\n\n")

	switch {
	case c.pending:
		b.WriteString(theme.Hint.Render("  Checking…"))
	case c.err != nil:
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("  Could not check: %v", c.err)))
	case c.result != nil:
		b.WriteString(renderResult(c.heard, c.result))
	}
	return b.String()
}

func renderResult(heard string, r *feedback.Result) string {
	style := theme.Incorrect
	label := "Try again"
	switch r.Verdict {
	case feedback.Correct:
		style, label = theme.Correct, "Well done!"
	case feedback.Close:
		style, label = theme.Close, "Almost"
	}
	lines := []string{
		"  " + style.Render(fmt.Sprintf("%s  %d/100", label, r.Score)),
		"  " + theme.Hint.Render(fmt.Sprintf("heard %q", heard)),
	}
	for _, tip := range r.Tips {
		lines = append(lines, "  • "+theme.Body.Render(tip))
	}
	return strings.Join(lines, "\n")
}
