package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacsnake/internal/game"
	"github.com/vovakirdan/pacsnake/internal/multiplayer"
)

type stillScheduler struct{}

type stillTimer struct{}

func (stillTimer) Stop() bool { return true }

func (stillScheduler) AfterFunc(time.Duration, func()) game.Timer { return stillTimer{} }

type harness struct {
	t       *testing.T
	manager *multiplayer.Manager
	sess    *multiplayer.ChannelSession
	model   Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	m, err := multiplayer.NewManager(multiplayer.ManagerConfig{
		MaxLobbies: 4,
		Rules:      game.DefaultRules(),
		Scheduler:  stillScheduler{},
		Logger:     log.New(io.Discard),
	}, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(m.Stop)

	sess := multiplayer.NewChannelSession("tester-1", 64)
	if err := m.RenamePlayer(sess.ID(), "Ann"); err != nil {
		t.Fatal(err)
	}
	m.Connect(sess)

	h := &harness{t: t, manager: m, sess: sess, model: NewModel(m, sess, 100, 30)}
	h.pump()
	return h
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, _ := h.model.Update(msg)
	model, ok := next.(Model)
	if !ok {
		h.t.Fatalf("Update returned %T", next)
	}
	h.model = model
}

// pump feeds every queued session event to the model.
func (h *harness) pump() {
	h.t.Helper()
	for {
		select {
		case evt := <-h.sess.Events():
			h.send(evt)
		default:
			return
		}
	}
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		switch k {
		case "enter":
			h.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			h.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "up":
			h.send(tea.KeyMsg{Type: tea.KeyUp})
		default:
			h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
	h.pump()
}

func (h *harness) refreshList() {
	h.send(multiplayer.LobbyListEvent{Lobbies: h.manager.ListSummaries()})
}

func TestModelGreeting(t *testing.T) {
	h := newHarness(t)
	if h.model.name != "Ann" {
		t.Errorf("name = %q, want Ann", h.model.name)
	}
	if !strings.Contains(h.model.View(), "No lobbies yet") {
		t.Error("empty list hint missing")
	}
}

func TestModelCreateJoinReadyLeave(t *testing.T) {
	h := newHarness(t)

	h.press("n")
	if h.model.prompt != promptCreate {
		t.Fatal("create prompt not open")
	}
	h.press("den", "enter")
	if h.model.prompt != promptNone {
		t.Error("prompt still open after enter")
	}
	if _, err := h.manager.Get("den"); err != nil {
		t.Fatalf("lobby not created: %v", err)
	}
	if !strings.Contains(h.model.notice, "New lobby was created: den") {
		t.Errorf("notice = %q", h.model.notice)
	}

	h.refreshList()
	if !strings.Contains(h.model.View(), "den") {
		t.Error("lobby missing from table")
	}

	h.press("enter")
	if h.model.lobby != "den" {
		t.Fatalf("lobby = %q after join, want den", h.model.lobby)
	}
	view := h.model.View()
	if !strings.Contains(view, "Ann") || !strings.Contains(view, "not ready") {
		t.Errorf("lobby view missing roster:\n%s", view)
	}

	h.press("r")
	if h.model.snap.State != game.StateCountdown {
		t.Fatalf("state = %s after ready, want countdown", h.model.snap.State)
	}
	if !strings.Contains(h.model.View(), "ROUND 1 STARTS IN 3") {
		t.Error("countdown banner missing")
	}

	h.press("b")
	if h.model.lobby != "" {
		t.Errorf("lobby = %q after leaving", h.model.lobby)
	}
	if _, in := h.manager.LobbyOf(h.sess.ID()); in {
		t.Error("manager still has the player in a lobby")
	}
}

func TestModelFailedJoinShowsNotice(t *testing.T) {
	h := newHarness(t)
	if _, err := h.manager.Add("full"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []multiplayer.SessionID{"a", "b", "c", "d"} {
		if err := h.manager.JoinLobby("full", id, string(id), nil); err != nil {
			t.Fatal(err)
		}
	}
	h.refreshList()

	h.press("enter")
	if h.model.lobby != "" {
		t.Errorf("joined a full lobby")
	}
	if h.model.notice != "Could not join lobby: full as it is already full" {
		t.Errorf("notice = %q", h.model.notice)
	}
}

func TestModelRename(t *testing.T) {
	h := newHarness(t)

	h.press("c")
	if h.model.input.Value() != "Ann" {
		t.Errorf("rename prompt prefilled with %q", h.model.input.Value())
	}
	h.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	h.press("Viper", "enter")

	if h.model.name != "Viper" {
		t.Errorf("name = %q, want Viper", h.model.name)
	}
	if got := h.manager.Name(h.sess.ID()); got != "Viper" {
		t.Errorf("manager name = %q", got)
	}
}

func TestModelPromptCancel(t *testing.T) {
	h := newHarness(t)
	h.press("n", "x", "esc")
	if h.model.prompt != promptNone {
		t.Error("esc did not close the prompt")
	}
	if h.manager.LobbyCount() != 0 {
		t.Error("cancelled prompt created a lobby")
	}
}

func TestModelIgnoresOtherLobbies(t *testing.T) {
	h := newHarness(t)
	h.model.lobby = "mine"
	h.send(multiplayer.GameEvent{
		Kind:     game.EventStateUpdated,
		Lobby:    "other",
		Snapshot: game.Snapshot{Lobby: "other", State: game.StateRunning},
	})
	if h.model.snap.Lobby == "other" {
		t.Error("model applied another lobby's snapshot")
	}
}

func TestModelNoticeExpires(t *testing.T) {
	h := newHarness(t)
	h.send(multiplayer.MessageEvent{Message: "first"})
	seq := h.model.noticeSeq
	h.send(multiplayer.MessageEvent{Message: "second"})

	h.send(noticeExpiredMsg{seq: seq})
	if h.model.notice != "second" {
		t.Errorf("stale expiry cleared the newer notice: %q", h.model.notice)
	}
	h.send(noticeExpiredMsg{seq: h.model.noticeSeq})
	if h.model.notice != "" {
		t.Errorf("notice = %q after expiry", h.model.notice)
	}
}

func TestModelQuitClosesSession(t *testing.T) {
	h := newHarness(t)
	h.press("q")
	if !h.model.quitting {
		t.Error("model not quitting")
	}
	select {
	case <-h.sess.Done():
	default:
		t.Error("session still open")
	}
}
