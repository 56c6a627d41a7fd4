// Package ui provides the terminal interface for chroncli.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and config overrides.
package ui

import (
	"strings"

	"chroncli/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys. "space" is accepted as an
// alias for " ", which is how Bubble Tea names the space bar.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// helpLabel renders the first key of a binding for help text.
func helpLabel(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	switch keys[0] {
	case " ":
		return "space"
	case "up":
		return "↑"
	case "down":
		return "↓"
	}
	return keys[0]
}

func binding(custom string, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpLabel(keys), desc))
}

// =============================================================================
// Global Keys
// =============================================================================

// GlobalKeyMap defines keys the app handles before any pane sees them.
type GlobalKeyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Help      key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Quit:      binding(cfg.Quit, "quit", "q"),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	}
}

// =============================================================================
// Task List Keys
// =============================================================================

// ListKeyMap defines keys for the task list in list mode.
type ListKeyMap struct {
	Add    key.Binding
	Delete key.Binding
	Toggle key.Binding
	Up     key.Binding
	Down   key.Binding
}

// DefaultListKeyMap returns the default list bindings.
func DefaultListKeyMap() ListKeyMap {
	return NewListKeyMap(&config.KeysConfig{})
}

// NewListKeyMap creates list bindings from config.
func NewListKeyMap(cfg *config.KeysConfig) ListKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return ListKeyMap{
		Add:    binding(cfg.Add, "add", "a"),
		Delete: binding(cfg.Delete, "delete", "d"),
		Toggle: binding(cfg.Toggle, "toggle", " ", "space"),
		Up:     binding(cfg.Up, "up", "up", "k"),
		Down:   binding(cfg.Down, "down", "down", "j"),
	}
}

// =============================================================================
// Entry Form Keys
// =============================================================================

// EntryKeyMap defines keys for the new-task form.
type EntryKeyMap struct {
	NextField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

// DefaultEntryKeyMap returns the default entry bindings.
func DefaultEntryKeyMap() EntryKeyMap {
	return NewEntryKeyMap(&config.KeysConfig{})
}

// NewEntryKeyMap creates entry bindings from config.
func NewEntryKeyMap(cfg *config.KeysConfig) EntryKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return EntryKeyMap{
		NextField: binding(cfg.NextField, "next field", "enter"),
		Submit:    binding(cfg.Submit, "save", "tab"),
		Cancel:    binding(cfg.Cancel, "cancel", "esc"),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "erase")),
	}
}

// ShortHelp implements help.KeyMap.
func (k EntryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k EntryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextField, k.Submit, k.Cancel, k.Backspace}}
}

// =============================================================================
// Calendar Keys
// =============================================================================

// CalendarKeyMap defines month navigation keys.
type CalendarKeyMap struct {
	Prev key.Binding
	Next key.Binding
}

// DefaultCalendarKeyMap returns the default calendar bindings.
func DefaultCalendarKeyMap() CalendarKeyMap {
	return NewCalendarKeyMap(&config.KeysConfig{})
}

// NewCalendarKeyMap creates calendar bindings from config.
func NewCalendarKeyMap(cfg *config.KeysConfig) CalendarKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return CalendarKeyMap{
		Prev: binding(cfg.PrevMonth, "prev month", "p"),
		Next: binding(cfg.NextMonth, "next month", "n"),
	}
}

// =============================================================================
// Help Bar
// =============================================================================

// listHelpKeys is the help bar content while browsing.
type listHelpKeys struct {
	list   ListKeyMap
	cal    CalendarKeyMap
	global GlobalKeyMap
}

// ShortHelp implements help.KeyMap.
func (k listHelpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.list.Add, k.list.Delete, k.list.Toggle, k.cal.Prev, k.cal.Next, k.global.Quit, k.global.Help}
}

// FullHelp implements help.KeyMap.
func (k listHelpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.list.Add, k.list.Delete, k.list.Toggle},
		{k.list.Up, k.list.Down},
		{k.cal.Prev, k.cal.Next},
		{k.global.Quit, k.global.ForceQuit, k.global.Help},
	}
}
