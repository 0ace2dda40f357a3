package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vovakirdan/pacsnake/internal/core"
	"github.com/vovakirdan/pacsnake/internal/game"
	"github.com/vovakirdan/pacsnake/internal/multiplayer"
)

// Layout constants
const (
	minTableHeight = 3
	maxTableHeight = 16
	chromeHeight   = 8 // title, blank lines, notice and help around the table
	sessionBuffer  = 256
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	readyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
)

// prompt is the text field currently open, if any.
type prompt int

const (
	promptNone prompt = iota
	promptCreate
	promptRename
)

// Model is the terminal client. It shows the lobby list until the player
// joins a lobby, then the lobby roster or the board depending on the lobby
// state. All game logic stays in the manager; the model only sends commands
// and draws the events it receives.
type Model struct {
	manager *multiplayer.Manager
	sess    *multiplayer.ChannelSession
	id      multiplayer.SessionID
	name    string

	keys   KeyMap
	help   help.Model
	table  table.Model
	input  textinput.Model
	prompt prompt

	lobbies []game.Summary
	lobby   string // "" while on the lobby list
	snap    game.Snapshot

	notice    string
	noticeSeq int

	width    int
	height   int
	quitting bool
}

// NewModel creates a client bound to an already connected session.
func NewModel(manager *multiplayer.Manager, sess *multiplayer.ChannelSession, width, height int) Model {
	in := textinput.New()
	in.CharLimit = 24
	in.Width = 24

	m := Model{
		manager: manager,
		sess:    sess,
		id:      sess.ID(),
		name:    manager.Name(sess.ID()),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   in,
		width:   width,
		height:  height,
	}
	m.table = newLobbyTable(m.tableHeight())
	return m
}

func newLobbyTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Lobby", Width: 20},
			{Title: "State", Width: 13},
			{Title: "Speed", Width: 8},
			{Title: "Players", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m Model) tableHeight() int {
	return core.Clamp(m.height-chromeHeight, minTableHeight, maxTableHeight)
}

// Init starts listening for session events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.sess)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case multiplayer.SessionEvent:
		cmd := m.handleEvent(msg)
		return m, tea.Batch(cmd, waitForEvent(m.sess))
	}
	return m, nil
}

func (m *Model) handleEvent(evt multiplayer.SessionEvent) tea.Cmd {
	switch e := evt.(type) {
	case multiplayer.SessionOpenedEvent:
		m.id = e.ID
		m.name = e.Name
	case multiplayer.LobbyListEvent:
		m.lobbies = e.Lobbies
		m.refreshTable()
	case multiplayer.JoinedLobbyEvent:
		m.lobby = e.Lobby
	case multiplayer.LeftLobbyEvent:
		m.leftLobby()
	case multiplayer.LobbyHeaderEvent:
		if e.Lobby == "" {
			m.leftLobby()
		} else {
			m.lobby = e.Lobby
		}
	case multiplayer.NameUpdatedEvent:
		m.name = e.Name
		return m.setNotice("Name changed to " + e.Name)
	case multiplayer.MessageEvent:
		return m.setNotice(e.Message)
	case multiplayer.GameEvent:
		// Events still in flight from a lobby we already left are dropped.
		if e.Lobby == m.lobby {
			m.snap = e.Snapshot
		}
	}
	return nil
}

func (m *Model) leftLobby() {
	m.lobby = ""
	m.snap = game.Snapshot{}
}

func (m *Model) refreshTable() {
	rows := make([]table.Row, 0, len(m.lobbies))
	for _, l := range m.lobbies {
		rows = append(rows, table.Row{
			l.Name,
			string(l.State),
			l.Speed.Name,
			fmt.Sprintf("%d/%d", l.PlayerCount, l.MaxPlayers),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	return expireNotice(m.noticeSeq)
}

// dispatch sends cmd to the manager and turns a failure into a notice.
func (m *Model) dispatch(cmd multiplayer.Command) (tea.Cmd, bool) {
	if err := m.manager.Dispatch(m.id, cmd); err != nil {
		return m.setNotice(multiplayer.Describe(cmd, err)), false
	}
	return nil, true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		m.sess.Close()
		return m, tea.Quit
	}

	if m.lobby == "" {
		return m.handleListKey(msg, action)
	}
	return m.handleLobbyKey(action)
}

func (m Model) handleListKey(msg tea.KeyMsg, action core.Action) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionUp:
		m.table.MoveUp(1)
	case core.ActionDown:
		m.table.MoveDown(1)
	case core.ActionJoin:
		name, ok := m.selectedLobby()
		if !ok {
			return m, nil
		}
		cmd, ok := m.dispatch(multiplayer.JoinLobbyCmd{Lobby: name})
		if ok {
			m.lobby = name
		}
		return m, cmd
	case core.ActionClose:
		if name, ok := m.selectedLobby(); ok {
			cmd, _ := m.dispatch(multiplayer.CloseLobbyCmd{Name: name})
			return m, cmd
		}
	case core.ActionCreate:
		cmd := m.openPrompt(promptCreate, "lobby name", "")
		return m, cmd
	case core.ActionRename:
		cmd := m.openPrompt(promptRename, "your name", m.name)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLobbyKey(action core.Action) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch action {
	case core.ActionBack:
		if cmd, ok := m.dispatch(multiplayer.LeaveLobbyCmd{}); !ok {
			return m, cmd
		}
		m.leftLobby()
	case core.ActionReady:
		cmd, _ = m.dispatch(multiplayer.ToggleReadyCmd{})
	case core.ActionSpeed:
		cmd, _ = m.dispatch(multiplayer.ChangeSpeedCmd{})
	default:
		if dir, ok := action.Direction(); ok && !m.snap.State.Idle() {
			cmd, _ = m.dispatch(multiplayer.SetDirectionCmd{Direction: dir})
		}
	}
	return m, cmd
}

func (m *Model) openPrompt(p prompt, placeholder, value string) tea.Cmd {
	m.prompt = p
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		m.sess.Close()
		return m, tea.Quit
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		p := m.prompt
		m.closePrompt()
		var cmd tea.Cmd
		switch p {
		case promptCreate:
			cmd, _ = m.dispatch(multiplayer.CreateLobbyCmd{Name: value})
		case promptRename:
			cmd, _ = m.dispatch(multiplayer.RenameCmd{Name: value})
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

func (m Model) selectedLobby() (string, bool) {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("P A C - S N A K E"))
	b.WriteString(dimStyle.Render("  " + m.name))
	b.WriteString("\n\n")

	switch {
	case m.lobby == "":
		b.WriteString(m.listView())
	case m.snap.State.Idle() || m.snap.State == "":
		b.WriteString(m.lobbyView())
	default:
		b.WriteString(m.gameView())
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) helpView() string {
	switch {
	case m.prompt != promptNone:
		return dimStyle.Render("enter confirm • esc cancel")
	case m.lobby == "":
		return m.help.View(listKeys{m.keys})
	case m.snap.State.Idle() || m.snap.State == "":
		return m.help.View(lobbyKeys{m.keys})
	}
	return m.help.View(gameKeys{m.keys})
}

func (m Model) listView() string {
	var b strings.Builder
	if len(m.lobbies) == 0 {
		b.WriteString(dimStyle.Render("No lobbies yet. Press n to create one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	if m.prompt != promptNone {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) lobbyView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lobby %s   speed %s   first to %d\n\n",
		titleStyle.Render(m.lobby), m.snap.Speed.Name, m.snap.RoundsToWin)

	for _, p := range m.snap.Players {
		marker := colorStyles[core.SlotPalette(p.Slot).Terminal].Render("■")
		status := dimStyle.Render("not ready")
		if p.Ready {
			status = readyStyle.Render("ready")
		}
		you := ""
		if p.Name == m.name {
			you = dimStyle.Render(" (you)")
		}
		fmt.Fprintf(&b, " %s %-16s %s%s\n", marker, p.Name, status, you)
	}
	if len(m.snap.Players) == 1 {
		b.WriteString(dimStyle.Render("\nReady up alone for a practice run."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) gameView() string {
	snap := m.snap
	bw, bh := BoardExtent(snap.BoardSize)
	lines := Scoreboard(snap)

	sideW := 0
	for _, l := range lines {
		sideW = max(sideW, len(l))
	}
	scr := core.NewScreen(bw+3+sideW, max(bh, len(lines))+2)

	scr.DrawText(0, 0, fmt.Sprintf("%s  round %d  first to %d  %s",
		m.lobby, snap.CurrentRound, snap.RoundsToWin, snap.Speed.Name))
	DrawBoard(scr, snap, 0, 1)

	for i, l := range lines {
		x := bw + 3
		if i > 0 {
			slot := snap.Players[i-1].Slot
			scr.SetColored(bw+1, 1+i, '■', core.SlotPalette(slot).Terminal)
		}
		scr.DrawText(x, 1+i, l)
	}

	out := RenderScreen(scr)
	if banner := Banner(snap); banner != "" {
		out += "\n" + titleStyle.Render(banner)
	}
	return out
}

// Run plays in the current terminal against an in-process manager.
func Run(manager *multiplayer.Manager, name string, width, height int) error {
	id := multiplayer.SessionID(uuid.NewString())
	if name != "" {
		if err := manager.RenamePlayer(id, name); err != nil {
			return err
		}
	}
	sess := multiplayer.NewChannelSession(id, sessionBuffer)
	manager.Connect(sess)
	defer sess.Close()

	p := tea.NewProgram(NewModel(manager, sess, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
