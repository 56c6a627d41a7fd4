package ui

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"chroncli/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// Validation errors for the new-task form.
var (
	ErrInvalidDateTime  = errors.New("invalid date or time format")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
)

// entryLayout accepts one- or two-digit month, day, hour and minute.
const entryLayout = "2006-1-2 15:4"

// Field indexes the form's input buffers.
type Field int

const (
	FieldName Field = iota
	FieldDate
	FieldStart
	FieldEnd
	fieldCount
)

// Label is the prompt shown above the field.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Task Name:"
	case FieldDate:
		return "Date (YYYY-MM-DD):"
	case FieldStart:
		return "Time (HH:MM):"
	case FieldEnd:
		return "End Time (HH:MM, optional):"
	}
	return ""
}

// entryForm holds the four text buffers of the new-task form.
type entryForm struct {
	values [fieldCount]string
	active Field
}

// newEntryForm pre-fills date and start time from now.
func newEntryForm(now time.Time) entryForm {
	var f entryForm
	f.values[FieldDate] = now.Format("2006-01-02")
	f.values[FieldStart] = now.Format("15:04")
	return f
}

func (f *entryForm) next() {
	f.active = (f.active + 1) % fieldCount
}

func (f *entryForm) insert(text string) {
	f.values[f.active] += text
}

func (f *entryForm) backspace() {
	v := f.values[f.active]
	if v == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(v)
	f.values[f.active] = v[:len(v)-size]
}

func (f entryForm) value(field Field) string {
	return f.values[field]
}

func (f entryForm) task() (storage.Task, error) {
	return ParseEntry(f.values[FieldName], f.values[FieldDate], f.values[FieldStart], f.values[FieldEnd])
}

// ParseEntry validates the form buffers and builds a task in local time.
// An empty end leaves Task.End nil.
func ParseEntry(name, date, start, end string) (storage.Task, error) {
	startAt, err := time.ParseInLocation(entryLayout, date+" "+start, time.Local)
	if err != nil {
		return storage.Task{}, ErrInvalidDateTime
	}

	task := storage.Task{Name: name, Start: startAt}
	if end == "" {
		return task, nil
	}

	endAt, err := time.ParseInLocation(entryLayout, date+" "+end, time.Local)
	if err != nil {
		return storage.Task{}, ErrInvalidDateTime
	}
	if !endAt.After(startAt) {
		return storage.Task{}, ErrEndNotAfterStart
	}
	task.End = &endAt
	return task, nil
}

// printable returns the text a key contributes to a buffer, or "" for keys
// that are not ordinary characters.
func printable(msg tea.KeyMsg) string {
	if msg.Alt {
		return ""
	}
	switch msg.Type {
	case tea.KeySpace:
		return " "
	case tea.KeyRunes:
		var sb strings.Builder
		for _, r := range msg.Runes {
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			}
		}
		return sb.String()
	}
	return ""
}

// errorText is the inline message shown for a rejected entry.
func errorText(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	return "Error: " + string(unicode.ToUpper(r)) + msg[size:]
}
