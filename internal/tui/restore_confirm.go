package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"waterx/internal/config"
	"waterx/internal/logger"
)

// autoConfirmMsg confirms a dialog without user input
type autoConfirmMsg struct{}

// RestoreConfirmModel asks the user to confirm replacing all data with the
// contents of a backup file
type RestoreConfirmModel struct {
	config    *config.Config
	logger    logger.Logger
	parent    tea.Model
	file      string
	onConfirm func() (tea.Model, tea.Cmd)
	onCancel  func()
}

// NewRestoreConfirm creates the confirmation dialog for file
func NewRestoreConfirm(
	cfg *config.Config, log logger.Logger, parent tea.Model,
	file string,
	onConfirm func() (tea.Model, tea.Cmd),
	onCancel func(),
) RestoreConfirmModel {
	return RestoreConfirmModel{
		config:    cfg,
		logger:    log,
		parent:    parent,
		file:      file,
		onConfirm: onConfirm,
		onCancel:  onCancel,
	}
}

func (m RestoreConfirmModel) Init() tea.Cmd {
	if m.config != nil && m.config.TUIAutoConfirm {
		return func() tea.Msg {
			return autoConfirmMsg{}
		}
	}
	return nil
}

func (m RestoreConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tuiDebugLog(m.config, m.logger, "restore_confirm", msg)
	switch msg := msg.(type) {
	case autoConfirmMsg:
		return m.confirm()

	case tea.InterruptMsg:
		return m.cancel()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "y", "Y":
			return m.confirm()
		case "esc", "n", "N", "q", "ctrl+c":
			return m.cancel()
		}
	}

	return m, nil
}

func (m RestoreConfirmModel) confirm() (tea.Model, tea.Cmd) {
	m.logger.Info("Restore confirmed", "file", m.file)
	if m.onConfirm != nil {
		return m.onConfirm()
	}
	return m.parent, nil
}

func (m RestoreConfirmModel) cancel() (tea.Model, tea.Cmd) {
	if m.onCancel != nil {
		m.onCancel()
	}
	return m.parent, nil
}

func (m RestoreConfirmModel) View() string {
	var s strings.Builder

	s.WriteString("\n")
	s.WriteString(StatusErrorStyle.Render("═══════════════════════════════════════════════════════════════"))
	s.WriteString("\n")
	s.WriteString(StatusErrorStyle.Render("  [DANGER] RESTORE SYSTEM DATA"))
	s.WriteString("\n")
	s.WriteString(StatusErrorStyle.Render("═══════════════════════════════════════════════════════════════"))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("  Restore from: %s\n\n", filepath.Base(m.file)))
	s.WriteString("  This will:\n")
	s.WriteString(StatusErrorStyle.Render("    1. Replace ALL current data with the contents of this file\n"))
	s.WriteString("    2. Reload the application\n\n")
	s.WriteString(StatusWarningStyle.Render("  This action cannot be undone."))
	s.WriteString("\n\n")

	s.WriteString(ListSelectedStyle.Render("  [Enter/y] Yes, restore data"))
	s.WriteString("    ")
	s.WriteString(ListNormalStyle.Render("[Esc/n] Cancel"))
	s.WriteString("\n")

	return s.String()
}
