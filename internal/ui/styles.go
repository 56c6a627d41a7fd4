package ui

import (
	"chroncli/internal/config"
	"chroncli/internal/display"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBg        lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Component styles
	SplashTitleStyle lipgloss.Style
	SplashBoxStyle   lipgloss.Style
	SplashTextStyle  lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style
	StatusStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style

	attrs map[display.Attr]lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{attrs: make(map[display.Attr]lipgloss.Style)}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorAccent = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.ColorBg = colorOrDefault(theme.Background, "#1F2937")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()
	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.SplashTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 2)

	s.SplashBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(1, 4).
		Align(lipgloss.Center)

	s.SplashTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)
}

// Attr maps a cell attribute set to a lipgloss style. Results are cached.
func (s *Styles) Attr(a display.Attr) lipgloss.Style {
	if st, ok := s.attrs[a]; ok {
		return st
	}

	st := lipgloss.NewStyle()
	if a.Has(display.AttrDim) {
		st = st.Foreground(s.ColorMuted)
	}
	if a.Has(display.AttrAccent) {
		st = st.Foreground(s.ColorPrimary)
	}
	if a.Has(display.AttrStrike) {
		st = st.Foreground(s.ColorTextMuted).Strikethrough(true)
	}
	if a.Has(display.AttrAlert) {
		st = st.Foreground(s.ColorDanger)
	}
	if a.Has(display.AttrBold) {
		st = st.Bold(true)
	}
	if a.Has(display.AttrReverse) {
		st = st.Reverse(true)
	}

	s.attrs[a] = st
	return st
}

// applyHelp copies the help bar palette onto a help model.
func (s *Styles) applyHelp(h *help.Model) {
	h.Styles.ShortKey = s.HelpKeyStyle
	h.Styles.ShortDesc = s.HelpStyle
	h.Styles.ShortSeparator = s.HelpStyle
	h.Styles.FullKey = s.HelpKeyStyle
	h.Styles.FullDesc = s.HelpStyle
	h.Styles.FullSeparator = s.HelpStyle
	h.Styles.Ellipsis = s.HelpStyle
}
