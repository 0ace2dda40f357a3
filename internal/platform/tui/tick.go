// Package tui is the terminal client: a Bubble Tea model that talks to the
// lobby manager through a session, served over SSH or run locally.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pacsnake/internal/multiplayer"
)

// noticeTTL is how long a notice stays on screen.
const noticeTTL = 5 * time.Second

// noticeExpiredMsg clears the notice with the matching sequence number.
type noticeExpiredMsg struct{ seq int }

func expireNotice(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// sessionClosedMsg reports that the session was closed from the server side,
// for example because the same id connected elsewhere.
type sessionClosedMsg struct{}

// waitForEvent returns a command that blocks until the next session event.
func waitForEvent(sess *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-sess.Events():
			return evt
		case <-sess.Done():
			return sessionClosedMsg{}
		}
	}
}
