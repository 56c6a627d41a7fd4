package ui

import (
	"fmt"
	"log"
	"time"

	"chroncli/internal/config"
	"chroncli/internal/display"
	"chroncli/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// Mode is the task pane's input state.
type Mode int

const (
	ModeList Mode = iota
	ModeEntry
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeEntry:
		return "entry"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// keyOutcome tells the app what a pane did with a key.
type keyOutcome int

const (
	keyIgnored  keyOutcome = iota
	keyHandled             // state changed; redraw
	keyRejected            // entry failed validation; error is on screen
)

// Rows used by the border, header and footer around the task rows.
const (
	listTop    = 3
	listChrome = 6
)

// TaskPane is the left pane: a scrollable task list and the new-task form.
type TaskPane struct {
	store     *storage.Store
	keys      ListKeyMap
	entryKeys EntryKeyMap
	now       func() time.Time

	mode     Mode
	selected int
	offset   int
	width    int
	height   int

	form     entryForm
	entryErr error
}

// NewTaskPane creates a task pane with default key bindings.
func NewTaskPane(store *storage.Store) *TaskPane {
	return NewTaskPaneWithKeys(store, &config.KeysConfig{})
}

// NewTaskPaneWithKeys creates a task pane with custom key bindings.
func NewTaskPaneWithKeys(store *storage.Store, keyCfg *config.KeysConfig) *TaskPane {
	return &TaskPane{
		store:     store,
		keys:      NewListKeyMap(keyCfg),
		entryKeys: NewEntryKeyMap(keyCfg),
		now:       time.Now,
	}
}

// SetNowFunc overrides the clock used to pre-fill the form.
func (p *TaskPane) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	p.now = now
}

// SetSize sets the pane dimensions and re-clamps the scroll window.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.clamp()
}

// Mode returns the current input mode.
func (p *TaskPane) Mode() Mode {
	return p.mode
}

// Selected returns the selected index and the scroll offset.
func (p *TaskPane) Selected() (selected, offset int) {
	return p.selected, p.offset
}

// EntryError returns the validation error on screen, if any.
func (p *TaskPane) EntryError() error {
	return p.entryErr
}

// pageSize is the number of task rows that fit.
func (p *TaskPane) pageSize() int {
	return max(1, p.height-listChrome)
}

// clamp restores 0 <= selected < len and offset <= selected < offset+page.
func (p *TaskPane) clamp() {
	n := p.store.Len()
	if n == 0 {
		p.selected, p.offset = 0, 0
		return
	}
	page := p.pageSize()

	p.selected = min(max(p.selected, 0), n-1)
	p.offset = min(max(p.offset, 0), max(0, n-page))
	if p.selected < p.offset {
		p.offset = p.selected
	}
	if p.selected >= p.offset+page {
		p.offset = p.selected - page + 1
	}
}

func (p *TaskPane) enterEntry() {
	p.mode = ModeEntry
	p.form = newEntryForm(p.now())
	p.entryErr = nil
}

func (p *TaskPane) enterList() {
	p.mode = ModeList
	p.form = entryForm{}
	p.entryErr = nil
	p.clamp()
}

// HandleKey applies one key. A non-nil error means a save failed.
func (p *TaskPane) HandleKey(msg tea.KeyMsg) (keyOutcome, error) {
	switch p.mode {
	case ModeList:
		return p.handleListKey(msg)
	case ModeEntry:
		return p.handleEntryKey(msg)
	}
	return keyIgnored, nil
}

func (p *TaskPane) handleListKey(msg tea.KeyMsg) (keyOutcome, error) {
	switch {
	case key.Matches(msg, p.keys.Add):
		p.enterEntry()
		return keyHandled, nil

	case key.Matches(msg, p.keys.Delete):
		if p.store.Len() == 0 {
			return keyHandled, nil
		}
		if _, err := p.store.Delete(p.selected); err != nil {
			return keyHandled, fmt.Errorf("delete task: %w", err)
		}
		if p.selected >= p.store.Len() && p.selected > 0 {
			p.selected--
		}
		p.clamp()
		return keyHandled, nil

	case key.Matches(msg, p.keys.Toggle):
		if p.store.Len() == 0 {
			return keyHandled, nil
		}
		if _, err := p.store.ToggleCompleted(p.selected); err != nil {
			return keyHandled, fmt.Errorf("toggle task: %w", err)
		}
		return keyHandled, nil

	case key.Matches(msg, p.keys.Up):
		if p.selected > 0 {
			p.selected--
			if p.selected < p.offset {
				p.offset = p.selected
			}
		}
		return keyHandled, nil

	case key.Matches(msg, p.keys.Down):
		if p.selected < p.store.Len()-1 {
			p.selected++
			if page := p.pageSize(); p.selected >= p.offset+page {
				p.offset = p.selected - page + 1
			}
		}
		return keyHandled, nil
	}
	return keyIgnored, nil
}

func (p *TaskPane) handleEntryKey(msg tea.KeyMsg) (keyOutcome, error) {
	switch {
	case key.Matches(msg, p.entryKeys.Cancel):
		p.enterList()
		return keyHandled, nil

	case key.Matches(msg, p.entryKeys.Submit):
		task, err := p.form.task()
		if err != nil {
			p.entryErr = err
			log.Printf("entry rejected: %v", err)
			return keyRejected, nil
		}
		if err := p.store.Add(task); err != nil {
			return keyHandled, fmt.Errorf("save task: %w", err)
		}
		log.Printf("task added: %q at %s", task.Name, task.Start.Format(time.RFC3339))
		p.enterList()
		return keyHandled, nil

	case key.Matches(msg, p.entryKeys.NextField):
		p.entryErr = nil
		p.form.next()
		return keyHandled, nil

	case key.Matches(msg, p.entryKeys.Backspace):
		p.entryErr = nil
		p.form.backspace()
		return keyHandled, nil
	}

	if text := printable(msg); text != "" {
		p.entryErr = nil
		p.form.insert(text)
		return keyHandled, nil
	}
	return keyIgnored, nil
}

// Draw renders the pane onto s and refreshes it.
func (p *TaskPane) Draw(s display.Surface) {
	w, h := s.Size()
	s.Clear()
	putCentered(s, w, 1, "Task List", display.AttrBold|display.AttrAccent)

	switch p.mode {
	case ModeList:
		p.drawList(s, w, h)
	case ModeEntry:
		p.drawEntry(s, w, h)
	}

	s.Box()
	s.Refresh()
}

func (p *TaskPane) drawList(s display.Surface, w, h int) {
	tasks := p.store.Tasks()
	if len(tasks) == 0 {
		s.Put(2, listTop, fmt.Sprintf("No tasks. Press '%s' to add a task.", p.keys.Add.Help().Key), display.AttrDim)
	}

	page := p.pageSize()
	for i := 0; i < page && p.offset+i < len(tasks); i++ {
		idx := p.offset + i
		attr := display.AttrNone
		if tasks[idx].Completed {
			attr = display.AttrStrike
		}
		if idx == p.selected {
			attr |= display.AttrReverse
		}
		s.Put(2, listTop+i, taskLine(tasks[idx], w-4), attr)
	}

	controls := fitHint(w-4,
		fmt.Sprintf("[%s] add", p.keys.Add.Help().Key),
		fmt.Sprintf("[%s] delete", p.keys.Delete.Help().Key),
		fmt.Sprintf("[%s] toggle", p.keys.Toggle.Help().Key),
		fmt.Sprintf("[%s/%s] move", p.keys.Up.Help().Key, p.keys.Down.Help().Key))
	putCentered(s, w, h-3, controls, display.AttrDim)

	if len(tasks) > page {
		last := min(p.offset+page, len(tasks))
		putCentered(s, w, h-2, fmt.Sprintf("%d-%d of %d", p.offset+1, last, len(tasks)), display.AttrDim)
	}
}

func (p *TaskPane) drawEntry(s display.Surface, w, h int) {
	for f := FieldName; f < fieldCount; f++ {
		labelY := listTop + int(f)*3
		labelAttr := display.AttrNone
		if f == p.form.active {
			labelAttr = display.AttrBold
			s.Put(2, labelY+1, ">", display.AttrAccent|display.AttrBold)
		}
		s.Put(2, labelY, f.Label(), labelAttr)

		value := p.form.value(f)
		if f == p.form.active {
			value += "_"
		}
		s.Put(4, labelY+1, runewidth.Truncate(value, max(0, w-6), "…"), display.AttrNone)
	}

	controls := fitHint(w-4,
		fmt.Sprintf("[%s] save", p.entryKeys.Submit.Help().Key),
		fmt.Sprintf("[%s] cancel", p.entryKeys.Cancel.Help().Key),
		fmt.Sprintf("[%s] next field", p.entryKeys.NextField.Help().Key))
	putCentered(s, w, h-3, controls, display.AttrDim)

	if p.entryErr != nil {
		s.Put(2, h-2, errorText(p.entryErr), display.AttrAlert|display.AttrBold)
	}
}

// taskLine formats one list row to fit width cells.
func taskLine(t storage.Task, width int) string {
	box := "[ ]"
	if t.Completed {
		box = "[X]"
	}
	when := t.Start.Format("2006-01-02 15:04")
	if t.End != nil {
		when += "-" + t.End.Format("15:04")
	}
	prefix := box + " " + when + " "
	name := runewidth.Truncate(t.Name, max(0, width-runewidth.StringWidth(prefix)), "...")
	return prefix + name
}

// fitHint joins as many leading parts as fit in width cells. The help bar
// lists every binding, so trailing ones may be dropped.
func fitHint(width int, parts ...string) string {
	hint := ""
	for _, part := range parts {
		next := part
		if hint != "" {
			next = hint + " " + part
		}
		if runewidth.StringWidth(next) > width {
			break
		}
		hint = next
	}
	return hint
}

// putCentered writes text horizontally centered on row y, inside the pane
// border.
func putCentered(s display.Surface, width, y int, text string, attr display.Attr) {
	text = runewidth.Truncate(text, max(0, width-4), "…")
	x := max(2, (width-runewidth.StringWidth(text))/2)
	s.Put(x, y, text, attr)
}
