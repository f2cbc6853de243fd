// Package listen connects screens to the playback controller. It tracks
// the session a screen started and turns its lifecycle into tea messages.
package listen

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iqro/internal/playback"
	"github.com/abhisek/iqro/internal/ui/theme"
)

// Player is the part of playback.Controller that screens use.
type Player interface {
	Play(ctx context.Context, src playback.Source) *playback.Session
	Stop()
}

var _ Player = (*playback.Controller)(nil)

// StartedMsg reports that a session became audible.
type StartedMsg struct {
	Session *playback.Session
}

// DoneMsg carries a session's final result.
type DoneMsg struct {
	Session *playback.Session
	Result  playback.Result
}

// watch waits for the session to start or finish, whichever comes first.
func watch(s *playback.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.Started():
			return StartedMsg{Session: s}
		case r := <-s.Done():
			return DoneMsg{Session: s, Result: r}
		}
	}
}

func waitDone(s *playback.Session) tea.Cmd {
	return func() tea.Msg {
		return DoneMsg{Session: s, Result: <-s.Done()}
	}
}

var errNoPlayer = errors.New("audio is not available")

// Tracker follows the latest session started from one screen. Messages
// for older sessions are ignored.
type Tracker struct {
	player  Player
	current *playback.Session
	label   string
	state   playback.State
	err     error
}

// NewTracker creates a Tracker. A nil player reports every Play as an error.
func NewTracker(p Player) *Tracker {
	return &Tracker{player: p}
}

// Play starts src and labels the status line with label.
func (t *Tracker) Play(src playback.Source, label string) tea.Cmd {
	t.label = label
	t.err = nil
	if t.player == nil {
		t.current = nil
		t.state = playback.Error
		t.err = errNoPlayer
		return nil
	}
	t.current = t.player.Play(context.Background(), src)
	t.state = playback.Loading
	return watch(t.current)
}

// Stop stops the active audio, whoever started it.
func (t *Tracker) Stop() {
	if t.player != nil {
		t.player.Stop()
	}
}

// Busy reports whether the tracked session is loading or playing.
func (t *Tracker) Busy() bool {
	return t.state == playback.Loading || t.state == playback.Playing
}

// Update consumes StartedMsg and DoneMsg. It returns the final result of
// the tracked session once, and a follow-up command while it runs.
func (t *Tracker) Update(msg tea.Msg) (*playback.Result, tea.Cmd) {
	switch msg := msg.(type) {
	case StartedMsg:
		if msg.Session != t.current {
			return nil, nil
		}
		t.state = playback.Playing
		return nil, waitDone(msg.Session)
	case DoneMsg:
		if msg.Session != t.current {
			return nil, nil
		}
		t.current = nil
		t.state = playback.Idle
		if msg.Result.Outcome == playback.Failed {
			t.state = playback.Error
			t.err = msg.Result.Err
		}
		r := msg.Result
		return &r, nil
	}
	return nil, nil
}

// View renders the status line.
func (t *Tracker) View() string {
	switch t.state {
	case playback.Loading:
		return theme.Hint.Render(fmt.Sprintf("Loading %s…", t.label))
	case playback.Playing:
		return theme.Correct.Render("▶ Playing " + t.label)
	case playback.Error:
		return theme.Incorrect.Render(fmt.Sprintf("Could not play %s: %v", t.label, t.err))
	}
	return ""
}
