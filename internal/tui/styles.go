package tui

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// GLOBAL TUI STYLE DEFINITIONS
// =============================================================================
// - Bold text for labels and headers
// - Colors for semantic meaning (green=success, red=error, yellow=warning)
// - Simple text prefixes like [OK], [FAIL], [WARN] instead of icons
// =============================================================================

// Color Palette (ANSI 256 colors for terminal compatibility)
const (
	ColorWhite   = lipgloss.Color("15")  // Bright white
	ColorGray    = lipgloss.Color("250") // Light gray
	ColorDim     = lipgloss.Color("244") // Dim gray
	ColorDimmer  = lipgloss.Color("240") // Darker gray
	ColorSuccess = lipgloss.Color("2")   // Green
	ColorError   = lipgloss.Color("1")   // Red
	ColorWarning = lipgloss.Color("3")   // Yellow
	ColorInfo    = lipgloss.Color("6")   // Cyan
	ColorAccent  = lipgloss.Color("4")   // Blue
)

// TitleStyle - main view title (bold white on gray background)
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorDimmer).
	Padding(0, 1)

// HeaderStyle - shell header line (bold accent)
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorAccent)

// LabelStyle - field labels (bold cyan)
var LabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorInfo)

// StatusActiveStyle - operation in progress (bold cyan)
var StatusActiveStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorInfo)

// StatusSuccessStyle - success messages (bold green)
var StatusSuccessStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorSuccess)

// StatusErrorStyle - error messages (bold red)
var StatusErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorError)

// StatusWarningStyle - warning messages (bold yellow)
var StatusWarningStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWarning)

// ListNormalStyle - unselected list items
var ListNormalStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ListSelectedStyle - selected/cursor item (bold white)
var ListSelectedStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Bold(true)

// ListDisabledStyle - menu items unavailable while an operation runs
var ListDisabledStyle = lipgloss.NewStyle().
	Foreground(ColorDimmer)

// ShortcutStyle - keyboard shortcuts footer (dim)
var ShortcutStyle = lipgloss.NewStyle().
	Foreground(ColorDim)

var (
	titleStyle    = TitleStyle
	menuStyle     = ListNormalStyle
	selectedStyle = lipgloss.NewStyle().Foreground(ColorWhite).Background(ColorDimmer).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(ColorDim).Italic(true)
	infoStyle     = lipgloss.NewStyle().Foreground(ColorInfo)
	successStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorError)
	warningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
)

// Status prefixes
const (
	PrefixConfig = "[CONFIG]"
	PrefixSelect = "[SELECT]"
	PrefixOK     = "[OK]"
	PrefixFail   = "[FAIL]"
	PrefixWait   = "[WAIT]"
	PrefixWarn   = "[WARN]"
	PrefixInfo   = "[INFO]"
)
