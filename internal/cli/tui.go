package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mitchellh/go-ps"

	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/logger"
	"github.com/habitdeck/habitdeck/internal/session"
	"github.com/habitdeck/habitdeck/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// One client session reconciles against the backend at a time; two
	// TUIs would each hold diverging optimistic state.
	if pid, running := otherInstance(); running {
		return fmt.Errorf("another %s session is already running (pid %d)", constants.AppName, pid)
	}

	model := tui.NewModel(ctx.Service, session.Options{
		Today:     ctx.Today,
		WeekStart: ctx.WeekStart,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func otherInstance() (int, bool) {
	processes, err := ps.Processes()
	if err != nil {
		// can't tell; let the session start rather than block the user
		logger.Warn("Process scan failed", "error", err)
		return 0, false
	}

	self := os.Getpid()
	for _, p := range processes {
		if p.Pid() != self && p.Executable() == constants.AppName {
			return p.Pid(), true
		}
	}
	return 0, false
}
