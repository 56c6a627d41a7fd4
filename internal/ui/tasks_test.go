package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"chroncli/internal/display"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestPane(t *testing.T, names ...string) *TaskPane {
	t.Helper()
	store := createTestStore(t)
	addTasks(t, store, names...)
	p := NewTaskPane(store)
	p.SetNowFunc(clock)
	p.SetSize(50, 20)
	return p
}

func press(t *testing.T, p *TaskPane, msg tea.KeyMsg) keyOutcome {
	t.Helper()
	out, err := p.HandleKey(msg)
	if err != nil {
		t.Fatalf("HandleKey(%q) error = %v", msg.String(), err)
	}
	return out
}

func TestTaskPaneEntryTypesQuitKey(t *testing.T) {
	p := newTestPane(t)
	press(t, p, keyRunes("a"))
	if p.Mode() != ModeEntry {
		t.Fatalf("mode = %v, want entry", p.Mode())
	}

	press(t, p, keyRunes("q"))
	press(t, p, keyRunes("a"))
	press(t, p, keyRunes("d"))
	if got := p.form.value(FieldName); got != "qad" {
		t.Errorf("name = %q, want qad", got)
	}
}

func TestTaskPaneEntryCancel(t *testing.T) {
	p := newTestPane(t)
	press(t, p, keyRunes("a"))
	press(t, p, keyRunes("x"))
	press(t, p, keyType(tea.KeyEsc))

	if p.Mode() != ModeList {
		t.Fatalf("mode = %v, want list", p.Mode())
	}
	if p.store.Len() != 0 {
		t.Errorf("cancel should not save, store has %d tasks", p.store.Len())
	}

	press(t, p, keyRunes("a"))
	if got := p.form.value(FieldName); got != "" {
		t.Errorf("reopened form should be empty, got %q", got)
	}
}

func TestTaskPaneEntrySubmit(t *testing.T) {
	p := newTestPane(t)
	press(t, p, keyRunes("a"))
	for _, r := range "Standup" {
		press(t, p, keyRunes(string(r)))
	}
	press(t, p, keyType(tea.KeyEnter)) // date
	press(t, p, keyType(tea.KeyEnter)) // start
	press(t, p, keyType(tea.KeyEnter)) // end
	for _, r := range "10:15" {
		press(t, p, keyRunes(string(r)))
	}

	if out := press(t, p, keyType(tea.KeyTab)); out != keyHandled {
		t.Fatalf("submit outcome = %v, want handled", out)
	}
	if p.Mode() != ModeList {
		t.Fatalf("mode = %v, want list", p.Mode())
	}

	task, ok := p.store.At(0)
	if !ok {
		t.Fatal("task was not saved")
	}
	if task.Name != "Standup" {
		t.Errorf("Name = %q", task.Name)
	}
	if got := task.Start.Format("2006-01-02 15:04"); got != "2024-02-14 09:30" {
		t.Errorf("Start = %s", got)
	}
	if task.End == nil || task.End.Format("15:04") != "10:15" {
		t.Errorf("End = %v, want 10:15", task.End)
	}
}

func TestTaskPaneEntryRejected(t *testing.T) {
	p := newTestPane(t)
	press(t, p, keyRunes("a"))
	press(t, p, keyType(tea.KeyEnter))
	for range "2024-02-14" {
		press(t, p, keyType(tea.KeyBackspace))
	}
	for _, r := range "2024-02-30" {
		press(t, p, keyRunes(string(r)))
	}

	if out := press(t, p, keyType(tea.KeyTab)); out != keyRejected {
		t.Fatalf("submit outcome = %v, want rejected", out)
	}
	if p.Mode() != ModeEntry {
		t.Errorf("rejected entry should stay in entry mode")
	}
	if p.EntryError() != ErrInvalidDateTime {
		t.Errorf("EntryError() = %v", p.EntryError())
	}
	if p.store.Len() != 0 {
		t.Errorf("rejected entry saved %d tasks", p.store.Len())
	}
	if got := p.form.value(FieldDate); got != "2024-02-30" {
		t.Errorf("buffers should be kept, date = %q", got)
	}

	press(t, p, keyType(tea.KeyBackspace))
	if p.EntryError() != nil {
		t.Errorf("editing should clear the error")
	}
}

func TestTaskPaneDelete(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []string
		selected int
		want     []string
		wantSel  int
	}{
		{"middle", []string{"a", "b", "c"}, 1, []string{"a", "c"}, 1},
		{"first", []string{"a", "b", "c"}, 0, []string{"b", "c"}, 0},
		{"last moves up", []string{"a", "b", "c"}, 2, []string{"a", "b"}, 1},
		{"only", []string{"a"}, 0, nil, 0},
		{"empty", nil, 0, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPane(t, tt.tasks...)
			for i := 0; i < tt.selected; i++ {
				press(t, p, keyType(tea.KeyDown))
			}
			press(t, p, keyRunes("d"))

			var got []string
			for _, task := range p.store.Tasks() {
				got = append(got, task.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("tasks = %v, want %v", got, tt.want)
			}
			if sel, _ := p.Selected(); sel != tt.wantSel {
				t.Errorf("selected = %d, want %d", sel, tt.wantSel)
			}
		})
	}
}

func TestTaskPaneToggle(t *testing.T) {
	p := newTestPane(t, "a", "b")
	press(t, p, keyRunes("j"))
	press(t, p, keyRunes(" "))

	task, _ := p.store.At(1)
	if !task.Completed {
		t.Error("second task should be completed")
	}
	first, _ := p.store.At(0)
	if first.Completed {
		t.Error("first task should be untouched")
	}

	press(t, p, keyRunes(" "))
	task, _ = p.store.At(1)
	if task.Completed {
		t.Error("second toggle should clear completion")
	}
}

func TestTaskPaneNavigationBounds(t *testing.T) {
	p := newTestPane(t, "a", "b", "c")
	press(t, p, keyType(tea.KeyUp))
	if sel, _ := p.Selected(); sel != 0 {
		t.Errorf("up at top: selected = %d", sel)
	}
	for i := 0; i < 5; i++ {
		press(t, p, keyType(tea.KeyDown))
	}
	if sel, _ := p.Selected(); sel != 2 {
		t.Errorf("down past end: selected = %d", sel)
	}
}

func TestTaskPaneScrollWindow(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = string(rune('a' + i%26))
	}
	p := newTestPane(t, names...)
	p.SetSize(50, 10) // 4 rows

	check := func(step int) {
		t.Helper()
		sel, off := p.Selected()
		n, page := p.store.Len(), p.pageSize()
		if n == 0 {
			if sel != 0 || off != 0 {
				t.Fatalf("step %d: empty list with selected=%d offset=%d", step, sel, off)
			}
			return
		}
		if sel < 0 || sel >= n {
			t.Fatalf("step %d: selected %d out of range [0,%d)", step, sel, n)
		}
		if off > sel || sel >= off+page {
			t.Fatalf("step %d: selected %d not visible in [%d,%d)", step, sel, off, off+page)
		}
	}

	rng := rand.New(rand.NewSource(7))

	// add submits the form with a random start so new tasks land anywhere
	// in the sorted list.
	added := 0
	add := func(step int) {
		t.Helper()
		press(t, p, keyRunes("a"))
		press(t, p, keyRunes(string(rune('A'+rng.Intn(26)))))
		press(t, p, keyType(tea.KeyEnter)) // date
		press(t, p, keyType(tea.KeyEnter)) // start
		for range "09:30" {
			press(t, p, keyType(tea.KeyBackspace))
		}
		for _, r := range fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60)) {
			press(t, p, keyRunes(string(r)))
		}
		press(t, p, keyType(tea.KeyTab))
		if p.Mode() != ModeList {
			t.Fatalf("step %d: add left the form open: %v", step, p.entryErr)
		}
		added++
	}

	ops := []tea.KeyMsg{keyType(tea.KeyUp), keyType(tea.KeyDown), keyType(tea.KeyDown), keyRunes("d"), keyRunes(" ")}
	const steps = 600
	for step := 0; step < steps; step++ {
		switch {
		case p.store.Len() == 0 || rng.Intn(6) == 0:
			add(step)
		default:
			press(t, p, ops[rng.Intn(len(ops))])
		}
		check(step)
		if step == steps/2 {
			if p.store.Len() == 0 {
				t.Fatalf("step %d: list empty at resize", step)
			}
			p.SetSize(50, 7)
			check(step)
		}
	}
	if added == 0 || p.store.Len() == 0 {
		t.Errorf("walk added %d tasks and ended with %d", added, p.store.Len())
	}
}

func TestTaskPaneDrawNarrowHint(t *testing.T) {
	setupTest(t)
	p := newTestPane(t, "Write report")
	p.SetSize(40, 20)

	c := display.NewCanvas(40, 20)
	p.Draw(c)
	row := c.Lines()[17]
	if !strings.Contains(row, "[a] add [d] delete [space] toggle") {
		t.Errorf("hint row = %q", row)
	}
	if strings.Contains(row, "move") {
		t.Errorf("hint should drop bindings that do not fit: %q", row)
	}
	if r := []rune(row); r[0] != '│' || r[1] != ' ' || r[len(r)-1] != '│' {
		t.Errorf("hint overwrites the border: %q", row)
	}
}

func TestFitHint(t *testing.T) {
	tests := []struct {
		width int
		want  string
	}{
		{30, "[a] add [d] delete"},
		{18, "[a] add [d] delete"},
		{17, "[a] add"},
		{3, ""},
	}
	for _, tt := range tests {
		if got := fitHint(tt.width, "[a] add", "[d] delete", "[space] toggle"); got != tt.want {
			t.Errorf("fitHint(%d) = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestTaskPaneDrawList(t *testing.T) {
	setupTest(t)
	p := newTestPane(t, "Write report", "Lunch")
	press(t, p, keyRunes(" "))

	c := display.NewCanvas(50, 20)
	p.Draw(c)
	out := c.String()

	for _, want := range []string{
		"Task List",
		"[X] 2024-02-10 09:00 Write report",
		"[ ] 2024-02-10 10:00 Lunch",
		"[a] add [d] delete [space] toggle [↑/↓] move",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if !c.AttrAt(2, listTop).Has(display.AttrReverse) {
		t.Error("selected row should be reversed")
	}
	if !c.AttrAt(2, listTop).Has(display.AttrStrike) {
		t.Error("completed row should be struck through")
	}
	if c.AttrAt(2, listTop+1).Has(display.AttrReverse) {
		t.Error("unselected row should not be reversed")
	}
	if c.Refreshes() != 1 {
		t.Errorf("Refreshes() = %d, want 1", c.Refreshes())
	}
}

func TestTaskPaneDrawEmpty(t *testing.T) {
	p := newTestPane(t)
	c := display.NewCanvas(50, 20)
	p.Draw(c)
	if !strings.Contains(c.String(), "No tasks. Press 'a' to add a task.") {
		t.Errorf("missing empty message:\n%s", c.String())
	}
}

func TestTaskPaneDrawScrollIndicator(t *testing.T) {
	p := newTestPane(t, "a", "b", "c", "d", "e", "f")
	p.SetSize(40, 10)
	c := display.NewCanvas(40, 10)
	p.Draw(c)
	if !strings.Contains(c.String(), "1-4 of 6") {
		t.Errorf("missing scroll indicator:\n%s", c.String())
	}
}

func TestTaskPaneDrawEntry(t *testing.T) {
	p := newTestPane(t)
	press(t, p, keyRunes("a"))
	press(t, p, keyRunes("x"))

	c := display.NewCanvas(50, 20)
	p.Draw(c)
	out := c.String()
	for _, want := range []string{
		"Task Name:",
		"> x_",
		"Date (YYYY-MM-DD):",
		"2024-02-14",
		"Time (HH:MM):",
		"09:30",
		"End Time (HH:MM, optional):",
		"[tab] save [esc] cancel [enter] next field",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTaskPaneDrawEntryError(t *testing.T) {
	p := newTestPane(t)
	press(t, p, keyRunes("a"))
	press(t, p, keyType(tea.KeyEnter))
	press(t, p, keyRunes("x"))
	press(t, p, keyType(tea.KeyTab))

	c := display.NewCanvas(50, 20)
	p.Draw(c)
	if !strings.Contains(c.String(), "Error: Invalid date or time format") {
		t.Errorf("missing error line:\n%s", c.String())
	}
	if !c.AttrAt(2, 18).Has(display.AttrAlert) {
		t.Error("error line should use the alert attribute")
	}
}

func TestTaskLineTruncates(t *testing.T) {
	p := newTestPane(t, "a very long task name that will not fit")
	task, _ := p.store.At(0)
	line := taskLine(task, 30)
	if !strings.HasSuffix(line, "...") {
		t.Errorf("line = %q, want truncated", line)
	}
	if len([]rune(line)) > 30 {
		t.Errorf("line width %d > 30", len([]rune(line)))
	}
}
