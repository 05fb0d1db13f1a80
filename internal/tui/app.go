// Package tui is the interactive admin settings screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"waterx/internal/backup"
	"waterx/internal/config"
	apperrors "waterx/internal/errors"
	"waterx/internal/fs"
	"waterx/internal/logger"
	"waterx/internal/nav"
	"waterx/internal/page"
	"waterx/internal/profile"
	"waterx/internal/session"
	"waterx/internal/settings"
)

// SettingsPage is the settings page as seen by the TUI
type SettingsPage interface {
	Load(ctx context.Context) error
	ProfileForm() profile.Form
	SetProfileForm(f profile.Form)
	BrandingForm() page.BrandingForm
	SetBrandingForm(f page.BrandingForm)
	SubmitProfile(ctx context.Context) error
	SubmitBranding(ctx context.Context) error
}

// Workflow is the backup controller as seen by the TUI
type Workflow interface {
	Snapshot() backup.Snapshot
	Export(ctx context.Context) (string, error)
	SelectFile(path string) error
	RequestRestore() bool
	PendingFile() string
	Cancel()
	Confirm(ctx context.Context) error
}

// Deps are the components the shell drives
type Deps struct {
	Page     SettingsPage
	Store    interface{ State() settings.State }
	Backup   Workflow
	Identity interface{ Current() *session.User }
	Toasts   *Toasts
	Files    afero.Fs // where backup files are listed from
}

// Menu entries, in display order
const (
	itemProfile = iota
	itemBranding
	itemExport
	itemSelect
	itemRestore
	itemQuit
)

var menuChoices = []string{
	"Edit profile",
	"Branding",
	"Export backup",
	"Select backup file",
	"Restore",
	"Quit",
}

type loadDoneMsg struct{ err error }

type exportDoneMsg struct {
	path string
	err  error
}

type restoreDoneMsg struct{ err error }

// AppModel is the settings shell
type AppModel struct {
	config *config.Config
	logger logger.Logger
	ctx    context.Context
	deps   Deps

	choices  []string
	cursor   int
	busy     string // running operation, "" when idle
	message  string
	quitting bool
}

// NewAppModel creates the shell
func NewAppModel(ctx context.Context, cfg *config.Config, log logger.Logger, deps Deps) *AppModel {
	if log == nil {
		log = logger.NewNullLogger()
	}
	if deps.Toasts == nil {
		deps.Toasts = NewToasts()
	}
	if deps.Files == nil {
		deps.Files = fs.OS()
	}
	return &AppModel{
		config:  cfg,
		logger:  log,
		ctx:     ctx,
		deps:    deps,
		choices: menuChoices,
		busy:    "load",
	}
}

// Init loads the page
func (m *AppModel) Init() tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{err: m.deps.Page.Load(m.ctx)}
	}
}

// Busy reports whether an operation is running
func (m *AppModel) Busy() bool {
	return m.busy != "" || m.deps.Backup.Snapshot().State.Busy()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tuiDebugLog(m.config, m.logger, "shell", msg)
	switch msg := msg.(type) {
	case tea.InterruptMsg:
		m.quitting = true
		return m, tea.Quit

	case loadDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.message = errorStyle.Render(fmt.Sprintf("[FAIL] %s", apperrors.Message(msg.err, "Could not load settings")))
		}
		return m, nil

	case exportDoneMsg:
		m.busy = ""
		if msg.err == nil {
			m.message = successStyle.Render("[OK] Saved to " + msg.path)
		} else {
			m.message = ""
		}
		return m, nil

	case restoreDoneMsg:
		m.busy = ""
		m.message = ""
		if msg.err != nil {
			m.logger.Debug("Restore from TUI failed", "error", msg.err)
		}
		if m.config != nil && m.config.TUIAutoConfirm {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Busy() {
				m.message = warningStyle.Render(fmt.Sprintf("[WAIT] %s in progress", m.busy))
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "x":
			m.deps.Toasts.Dismiss()
			m.message = ""

		case "enter", " ":
			return m.choose(m.cursor)
		}
	}

	return m, nil
}

// choose runs the menu item at idx
func (m *AppModel) choose(idx int) (tea.Model, tea.Cmd) {
	if idx == itemQuit {
		if m.Busy() {
			m.message = warningStyle.Render(fmt.Sprintf("[WAIT] %s in progress", m.busy))
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	if m.Busy() {
		m.message = warningStyle.Render("[WAIT] Please wait for the current operation to finish")
		return m, nil
	}
	m.message = ""

	switch idx {
	case itemProfile:
		form := newProfileForm(m)
		return form, form.Init()

	case itemBranding:
		form := newBrandingForm(m)
		return form, form.Init()

	case itemExport:
		m.busy = "export"
		return m, func() tea.Msg {
			path, err := m.deps.Backup.Export(m.ctx)
			return exportDoneMsg{path: path, err: err}
		}

	case itemSelect:
		browser := NewFileSelect(m.config, m.logger, m, m.deps.Files, m.backupDir(), m.deps.Backup.SelectFile)
		return browser, browser.Init()

	case itemRestore:
		if !m.deps.Backup.RequestRestore() {
			return m, nil
		}
		confirm := NewRestoreConfirm(m.config, m.logger, m, m.deps.Backup.PendingFile(),
			func() (tea.Model, tea.Cmd) {
				m.busy = "restore"
				return m, func() tea.Msg {
					return restoreDoneMsg{err: m.deps.Backup.Confirm(m.ctx)}
				}
			},
			m.deps.Backup.Cancel)
		return confirm, confirm.Init()
	}
	return m, nil
}

func (m *AppModel) backupDir() string {
	if m.config == nil {
		return "."
	}
	return m.config.BackupDir
}

func (m *AppModel) header() nav.Header {
	h := nav.Header{AppName: nav.AppName}
	if m.deps.Store != nil {
		if st := m.deps.Store.State(); st.LogoURL != nil {
			h.LogoURL = *st.LogoURL
		}
	}
	if m.deps.Identity != nil {
		if u := m.deps.Identity.Current(); u != nil {
			h.User = u.Name
			h.Role = u.Role
		}
	}
	return h
}

// navLine renders the role-gated section links with Settings highlighted
func (m *AppModel) navLine(role string) string {
	links := nav.Visible(nav.DefaultLinks, role)
	if len(links) == 0 {
		return detailStyle.Render("  Not signed in")
	}
	active := nav.Active(links, "/settings")
	parts := make([]string, 0, len(links))
	for _, l := range links {
		if active != nil && l.Href == active.Href {
			parts = append(parts, ListSelectedStyle.Render("["+l.Label+"]"))
		} else {
			parts = append(parts, menuStyle.Render(l.Label))
		}
	}
	return "  " + strings.Join(parts, " ")
}

// statusLine describes the backup workflow
func (m *AppModel) statusLine() string {
	snap := m.deps.Backup.Snapshot()
	switch {
	case m.busy == "load":
		return StatusActiveStyle.Render("[WAIT] Loading settings...")
	case snap.State == backup.Exporting:
		return StatusActiveStyle.Render("[WAIT] Exporting backup...")
	case snap.State == backup.Restoring:
		return StatusActiveStyle.Render("[WAIT] Restoring " + snap.File + "...")
	case snap.State == backup.Reloading:
		return StatusActiveStyle.Render("[WAIT] Reloading...")
	case snap.File != "":
		return detailStyle.Render("  Selected: " + snap.File)
	default:
		return detailStyle.Render("  No backup file selected")
	}
}

// View renders the shell
func (m *AppModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	h := m.header()

	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(h.String()))
	b.WriteString("\n")
	b.WriteString(m.navLine(h.Role))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(PrefixConfig + " Settings"))
	b.WriteString("\n\n")

	busy := m.Busy()
	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s", cursor, choice)
		switch {
		case busy && i != itemQuit:
			b.WriteString(ListDisabledStyle.Render(line))
		case m.cursor == i:
			b.WriteString(selectedStyle.Render(line))
		default:
			b.WriteString(menuStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if toast := renderToast(m.deps.Toasts.Current()); toast != "" {
		b.WriteString("\n  ")
		b.WriteString(toast)
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString("\n  ")
		b.WriteString(m.message)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(ShortcutStyle.Render("[KEYS] Up/Down: Navigate | Enter: Select | x: Dismiss | q: Quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the interactive shell and blocks until it exits
func Run(ctx context.Context, cfg *config.Config, log logger.Logger, deps Deps) error {
	m := NewAppModel(ctx, cfg, log, deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithoutSignalHandler(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running interactive mode: %w", err)
	}
	return nil
}
