package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamegrid/flamegrid/internal/config"
	"github.com/flamegrid/flamegrid/internal/trace"
)

// Run opens the viewer over a loaded trace and blocks until the user quits.
func Run(cfg *config.Config, tr *trace.Trace) error {
	model := NewModel(cfg, tr)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}
