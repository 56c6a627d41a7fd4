package ui

import (
	"path/filepath"
	"testing"
	"time"

	"chroncli/internal/config"
	"chroncli/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// fixedNow is the clock used across UI tests: Wednesday 14 February 2024.
var fixedNow = time.Date(2024, time.February, 14, 9, 30, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStore creates an empty Store in a temporary directory.
func createTestStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(filepath.Join(t.TempDir(), "tasks.json"))
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// addTasks inserts tasks starting at 09:00 on 2024-02-10, one hour apart.
func addTasks(t *testing.T, store *storage.Store, names ...string) {
	t.Helper()
	base := time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local)
	for i, n := range names {
		if err := store.Add(storage.Task{Name: n, Start: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Add(%q) error = %v", n, err)
		}
	}
}

// newTestApp returns an app without splash, sized 100x30, on the fixed clock.
func newTestApp(t *testing.T, store *storage.Store) *App {
	t.Helper()
	setupTest(t)
	app := NewApp(store, createTestStyles(), &AppConfig{
		Keys:       &config.KeysConfig{},
		ErrorPause: 2 * time.Second,
		ListRatio:  50,
	})
	app.SetNowFunc(clock)
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func keyRunes(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeText sends each rune of s as its own key press.
func typeText(app *App, s string) {
	for _, r := range s {
		app.Update(keyRunes(string(r)))
	}
}

// isQuit reports whether cmd produces tea.QuitMsg.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
