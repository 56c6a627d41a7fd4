package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var banner = []string{
	` ___ _                     ___ _    ___ `,
	`/ __| |_  _ _ ___ _ _     / __| |  |_ _|`,
	`| (__| ' \| '_/ _ \ ' \  | (__| |__ | | `,
	` \___|_||_|_| \___/_||_|  \___|____|___|`,
}

// renderSplash draws the startup card centered in the terminal.
func (a *App) renderSplash() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(a.styles.ColorPrimary).Bold(true).Render(strings.Join(banner, "\n")))
	b.WriteString("\n\n")
	b.WriteString(a.styles.SplashTitleStyle.Render("chroncli"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.SplashTextStyle.Render("terminal calendar & task scheduler"))

	card := a.styles.SplashBoxStyle.Render(b.String())
	if a.width == 0 || a.height == 0 {
		return card
	}
	return RenderCentered(card, a.width, a.height)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
