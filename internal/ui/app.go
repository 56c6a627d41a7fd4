// Package ui provides the terminal interface for chroncli.
// This file contains the main App model which owns both panes, routes keys
// and composes the frame using the Bubble Tea architecture.
package ui

import (
	"log"
	"time"

	"chroncli/internal/config"
	"chroncli/internal/display"
	"chroncli/internal/storage"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys           *config.KeysConfig
	ShowSplash     bool
	SplashDuration time.Duration
	ErrorPause     time.Duration
	ListRatio      int

	// Notice is shown in the status line at startup, e.g. a load warning.
	Notice string
}

// NewAppConfig derives the app settings from the loaded configuration.
func NewAppConfig(cfg *config.Config) *AppConfig {
	return &AppConfig{
		Keys:           &cfg.Keys,
		ShowSplash:     cfg.UX.ShowSplash,
		SplashDuration: cfg.UX.SplashDuration,
		ErrorPause:     cfg.UX.ErrorPause,
		ListRatio:      cfg.UX.ListRatio,
	}
}

// App is the main application model. Keys are handled one at a time and
// both panes are redrawn before the next message is processed.
type App struct {
	store    *storage.Store
	styles   *Styles
	config   *AppConfig
	taskPane *TaskPane
	calPane  *CalendarPane
	taskSurf *display.Canvas
	calSurf  *display.Canvas
	help     help.Model
	keys     GlobalKeyMap

	width  int
	height int

	// Input hold: while set, keys queue and replay when the hold ends.
	holding bool
	holdSeq int
	splash  bool
	queue   []tea.KeyMsg

	status    string
	statusErr bool
	statusSeq int

	quitting bool
	err      error
}

// NewApp creates the application around an already loaded store.
func NewApp(store *storage.Store, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = NewAppConfig(config.Default())
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.ListRatio <= 0 {
		cfg.ListRatio = 50
	}

	h := help.New()
	styles.applyHelp(&h)

	a := &App{
		store:    store,
		styles:   styles,
		config:   cfg,
		taskPane: NewTaskPaneWithKeys(store, cfg.Keys),
		calPane:  NewCalendarPane(store, cfg.Keys),
		taskSurf: display.NewCanvas(0, 0),
		calSurf:  display.NewCanvas(0, 0),
		help:     h,
		keys:     NewGlobalKeyMap(cfg.Keys),
	}
	return a
}

// SetNowFunc overrides the clock of both panes.
func (a *App) SetNowFunc(now func() time.Time) {
	a.taskPane.SetNowFunc(now)
	a.calPane.SetNowFunc(now)
}

// Err returns the error that ended the program, if any.
func (a *App) Err() error {
	return a.err
}

// Init shows the splash and clears the startup notice later.
func (a *App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if a.config.Notice != "" {
		cmds = append(cmds, a.setStatus(a.config.Notice, true))
	}
	if a.config.ShowSplash && a.config.SplashDuration > 0 {
		a.splash = true
		cmds = append(cmds, a.hold(a.config.SplashDuration))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.layout()
		return a, nil

	case holdEndMsg:
		if !a.holding || msg.seq != a.holdSeq {
			return a, nil
		}
		a.holding = false
		a.splash = false
		return a, a.drain()

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.status, a.statusErr = "", false
			a.layout()
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, a.quit()
		}
		if a.holding {
			a.queue = append(a.queue, msg)
			return a, nil
		}
		return a, a.handleKey(msg)
	}
	return a, nil
}

// handleKey routes one key: quit, then the task pane, then the calendar.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	listMode := a.taskPane.Mode() == ModeList
	if listMode && key.Matches(msg, a.keys.Quit) {
		return a.quit()
	}

	outcome, err := a.taskPane.HandleKey(msg)
	if err != nil {
		return a.fail(err)
	}
	switch outcome {
	case keyHandled:
		a.layout()
		return nil
	case keyRejected:
		a.taskPane.Draw(a.taskSurf)
		return a.hold(a.config.ErrorPause)
	}

	if a.calPane.HandleKey(msg) {
		a.calPane.Draw(a.calSurf)
		return nil
	}

	if listMode && key.Matches(msg, a.keys.Help) {
		a.help.ShowAll = !a.help.ShowAll
		a.layout()
		return nil
	}

	log.Printf("key %q dropped in %s mode", msg.String(), a.taskPane.Mode())
	return nil
}

// hold starts an input hold of d. Zero or negative d holds nothing.
func (a *App) hold(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	a.holding = true
	a.holdSeq++
	return holdCmd(d, a.holdSeq)
}

// drain replays queued keys until the queue empties or a new hold begins.
func (a *App) drain() tea.Cmd {
	var cmds []tea.Cmd
	for len(a.queue) > 0 && !a.holding && !a.quitting {
		k := a.queue[0]
		a.queue = a.queue[1:]
		if cmd := a.handleKey(k); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.queue = nil
	return tea.Quit
}

// fail records a fatal error and ends the program.
func (a *App) fail(err error) tea.Cmd {
	log.Printf("fatal: %v", err)
	a.err = err
	return a.quit()
}

// setStatus shows msg in place of the help bar until its clear tick.
func (a *App) setStatus(msg string, isErr bool) tea.Cmd {
	a.status = msg
	a.statusErr = isErr
	a.layout()
	return a.scheduleStatusClear()
}

func (a *App) scheduleStatusClear() tea.Cmd {
	a.statusSeq++
	ttl := statusTTL
	if a.statusErr {
		ttl = statusErrorTTL
	}
	return clearStatusCmd(ttl, a.statusSeq)
}

// layout sizes both surfaces to the terminal and redraws them.
func (a *App) layout() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	paneH := max(0, a.height-lipgloss.Height(a.renderHelpBar()))
	listW := a.width * a.config.ListRatio / 100
	calW := a.width - listW

	if w, h := a.taskSurf.Size(); w != listW || h != paneH {
		a.taskSurf.Resize(listW, paneH)
	}
	if w, h := a.calSurf.Size(); w != calW || h != paneH {
		a.calSurf.Resize(calW, paneH)
	}
	a.taskPane.SetSize(listW, paneH)

	a.taskPane.Draw(a.taskSurf)
	a.calPane.Draw(a.calSurf)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.splash {
		return a.renderSplash()
	}
	if a.width == 0 {
		return "Loading..."
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		a.taskSurf.Render(a.styles.Attr),
		a.calSurf.Render(a.styles.Attr),
	)
	return panes + "\n" + a.renderHelpBar()
}

func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	switch a.taskPane.Mode() {
	case ModeEntry:
		return a.help.ShortHelpView(a.taskPane.entryKeys.ShortHelp())
	default:
		return a.help.View(listHelpKeys{list: a.taskPane.keys, cal: a.calPane.keys, global: a.keys})
	}
}

// Run starts the Bubble Tea program and returns the error that ended it.
func Run(store *storage.Store, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, styles, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return app.Err()
}
