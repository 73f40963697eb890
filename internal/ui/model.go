// ABOUTME: Bubbletea model for the engine console TUI
// ABOUTME: Defines application state, key handling, and rendering
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/polyplay-audio/polyplay-go/pkg/engine"
)

// Model represents the console state
type Model struct {
	controller *engine.Controller

	// Players, in creation order
	ids      []engine.PlayerID
	players  map[engine.PlayerID]engine.Snapshot
	selected int

	// Last action outcome shown in the status line
	status string

	// Dimensions
	width  int
	height int
}

// tickMsg drives periodic snapshot refresh
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.refresh()
		return m, tick()
	}

	return m, nil
}

// View renders the console
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := m.renderHeader()
	s += m.renderPlayers()
	s += m.renderStatus()
	s += m.renderHelp()

	return s
}

// renderHeader renders the title bar
func (m Model) renderHeader() string {
	return fmt.Sprintf(`┌─ Polyplay Console ───────────────────────────────────┐
│ Players: %-43d │
├──────────────────────────────────────────────────────┤
`, len(m.ids))
}

// renderPlayers renders one line per player
func (m Model) renderPlayers() string {
	if len(m.ids) == 0 {
		return "│ (no players, press c to create one)                  │\n"
	}

	s := ""
	for i, id := range m.ids {
		snap := m.players[id]
		cursor := " "
		if i == m.selected {
			cursor = ">"
		}

		name := snap.AssetName
		if name == "" {
			name = "(no audio)"
		}

		s += fmt.Sprintf("│ %s #%-3d %-8s dev=%-7s %-25s │\n",
			cursor, id, stateName(snap), truncate(snap.DeviceID, 7), truncate(name, 25))
	}
	return s
}

// renderStatus renders the last action outcome
func (m Model) renderStatus() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ %-52s │
`, truncate(m.status, 52))
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ c:Create  x:Destroy  space:Toggle  s:Stop  q:Quit    │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.ids)-1 {
			m.selected++
		}
	case "c":
		id, err := m.controller.CreatePlayer()
		if err != nil {
			m.status = err.Error()
			break
		}
		m.ids = append(m.ids, id)
		m.selected = len(m.ids) - 1
		m.status = fmt.Sprintf("created player #%d", id)
		m.refresh()
	case "x":
		id, ok := m.current()
		if !ok {
			break
		}
		if err := m.controller.DestroyPlayer(id); err != nil {
			m.status = err.Error()
			break
		}
		m.ids = append(m.ids[:m.selected], m.ids[m.selected+1:]...)
		delete(m.players, id)
		if m.selected >= len(m.ids) && m.selected > 0 {
			m.selected--
		}
		m.status = fmt.Sprintf("destroyed player #%d", id)
	case " ":
		id, ok := m.current()
		if !ok {
			break
		}
		snap, err := m.controller.TogglePlayback(id)
		if err != nil {
			m.status = err.Error()
			break
		}
		m.players[id] = snap
		m.status = fmt.Sprintf("player #%d: %s", id, stateName(snap))
	case "s":
		id, ok := m.current()
		if !ok {
			break
		}
		snap, err := m.controller.Stop(id)
		if err != nil {
			m.status = err.Error()
			break
		}
		m.players[id] = snap
		m.status = fmt.Sprintf("player #%d stopped", id)
	}

	return m, nil
}

// current returns the selected player handle
func (m Model) current() (engine.PlayerID, bool) {
	if m.selected < 0 || m.selected >= len(m.ids) {
		return 0, false
	}
	return m.ids[m.selected], true
}

// refresh re-reads every player's snapshot
func (m *Model) refresh() {
	for _, id := range m.ids {
		snap, err := m.controller.State(id)
		if err != nil {
			continue
		}
		m.players[id] = snap
	}
}

// stateName maps a snapshot onto a short display label
func stateName(snap engine.Snapshot) string {
	switch {
	case !snap.HasAudio && snap.IsEmpty:
		return "idle"
	case snap.IsPlaying:
		return "playing"
	case snap.IsPaused && !snap.IsEmpty:
		return "paused"
	default:
		return "stopped"
	}
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
