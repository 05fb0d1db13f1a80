package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"waterx/internal/config"
	"waterx/internal/logger"
)

// BackupFile is a candidate file in the backup directory
type BackupFile struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
}

type fileListMsg struct {
	files []BackupFile
	err   error
}

// FileSelectModel lists exported backups and lets the user pick one, or
// type a path to a file elsewhere
type FileSelectModel struct {
	config   *config.Config
	logger   logger.Logger
	parent   tea.Model
	fsys     afero.Fs
	dir      string
	onSelect func(path string) error

	files        []BackupFile
	cursor       int
	loading      bool
	err          error
	typing       bool
	editingValue string
	message      string
}

// NewFileSelect creates a file picker over dir
func NewFileSelect(cfg *config.Config, log logger.Logger, parent tea.Model, fsys afero.Fs, dir string, onSelect func(string) error) FileSelectModel {
	return FileSelectModel{
		config:   cfg,
		logger:   log,
		parent:   parent,
		fsys:     fsys,
		dir:      dir,
		onSelect: onSelect,
		loading:  true,
	}
}

func (m FileSelectModel) Init() tea.Cmd {
	return listBackupFiles(m.fsys, m.dir)
}

// listBackupFiles returns the .json files in dir, newest first
func listBackupFiles(fsys afero.Fs, dir string) tea.Cmd {
	return func() tea.Msg {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			return fileListMsg{err: fmt.Errorf("cannot read backup directory: %w", err)}
		}

		var files []BackupFile
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
				continue
			}
			files = append(files, BackupFile{
				Name:     e.Name(),
				Path:     filepath.Join(dir, e.Name()),
				Size:     e.Size(),
				Modified: e.ModTime(),
			})
		}

		sort.Slice(files, func(i, j int) bool {
			return files[i].Modified.After(files[j].Modified)
		})
		return fileListMsg{files: files}
	}
}

func (m FileSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tuiDebugLog(m.config, m.logger, "file_select", msg)
	switch msg := msg.(type) {
	case fileListMsg:
		m.loading = false
		m.err = msg.err
		m.files = msg.files
		if msg.err == nil && len(m.files) == 0 {
			m.message = infoStyle.Render("[INFO] No backup files found. Press p to enter a path.")
		}
		return m, nil

	case tea.InterruptMsg:
		return m.parent, nil

	case tea.KeyMsg:
		if m.typing {
			return m.handlePathInput(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m.parent, nil

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}

		case "p":
			m.typing = true
			m.editingValue = ""
			m.message = ""

		case "r":
			m.loading = true
			return m, listBackupFiles(m.fsys, m.dir)

		case "enter", " ":
			if m.cursor < len(m.files) {
				return m.choose(m.files[m.cursor].Path)
			}
		}
	}

	return m, nil
}

func (m FileSelectModel) handlePathInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.typing = false
		m.editingValue = ""
	case "enter":
		m.typing = false
		return m.choose(strings.TrimSpace(m.editingValue))
	case "backspace", "ctrl+h":
		if len(m.editingValue) > 0 {
			m.editingValue = m.editingValue[:len(m.editingValue)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.editingValue += msg.String()
		}
	}
	return m, nil
}

// choose records path and returns to the shell
func (m FileSelectModel) choose(path string) (tea.Model, tea.Cmd) {
	if path == "" {
		return m, nil
	}
	if err := m.onSelect(path); err != nil {
		m.message = errorStyle.Render(fmt.Sprintf("[FAIL] %s", err.Error()))
		return m, nil
	}
	m.logger.Debug("Backup file chosen", "file", path)
	return m.parent, nil
}

func (m FileSelectModel) View() string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("\n%s\n\n", titleStyle.Render(PrefixSelect+" Select Backup File")))
	s.WriteString(detailStyle.Render("  " + m.dir))
	s.WriteString("\n\n")

	switch {
	case m.loading:
		s.WriteString(infoStyle.Render("  Loading backup files..."))
		s.WriteString("\n")
	case m.err != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("  [FAIL] %v", m.err)))
		s.WriteString("\n")
	default:
		for i, f := range m.files {
			cursor := " "
			style := ListNormalStyle
			if m.cursor == i {
				cursor = ">"
				style = ListSelectedStyle
			}
			line := fmt.Sprintf("%s %-40s %10s  %s", cursor, f.Name, humanize.Bytes(uint64(f.Size)), humanize.Time(f.Modified))
			s.WriteString(style.Render(line))
			s.WriteString("\n")
		}
	}

	if m.typing {
		s.WriteString("\n")
		s.WriteString(LabelStyle.Render("  Path: "))
		s.WriteString(m.editingValue)
		s.WriteString("_\n")
	}

	if m.message != "" {
		s.WriteString("\n  ")
		s.WriteString(m.message)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(ShortcutStyle.Render("[KEYS] Enter: Select | p: Enter path | r: Refresh | Esc: Back"))
	s.WriteString("\n")
	return s.String()
}
