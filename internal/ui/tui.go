// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the engine console
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/polyplay-audio/polyplay-go/pkg/engine"
)

// NewModel creates a console model bound to a controller
func NewModel(controller *engine.Controller) Model {
	return Model{
		controller: controller,
		players:    make(map[engine.PlayerID]engine.Snapshot),
		status:     "ready",
	}
}

// Run starts the console
func Run(controller *engine.Controller) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controller), tea.WithAltScreen())
	return p, nil
}
