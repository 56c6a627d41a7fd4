package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"chroncli/internal/fsutil"
)

// ErrCorrupt marks a tasks file that could not be decoded. Load wraps it in
// the warning it returns after resetting to an empty collection.
var ErrCorrupt = errors.New("task file is corrupt")

const dataFilePerm os.FileMode = 0600

// Store owns the ordered task sequence and its backing JSON file.
// Tasks are always sorted by start time; every mutation saves synchronously.
type Store struct {
	path  string
	tasks []Task
	now   func() time.Time // injectable clock for deterministic tests
}

// New returns an empty store backed by path. Nothing is read until Load.
func New(path string) *Store {
	return &Store{path: path, tasks: []Task{}, now: time.Now}
}

// Open creates a store and loads it. The store is always usable; a non-nil
// error is a load warning (see Load).
func Open(path string) (*Store, error) {
	s := New(path)
	return s, s.Load()
}

// SetNowFunc overrides the clock used for corrupt-file timestamps.
// Passing nil resets it to time.Now.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory tasks with the contents of the backing file.
// A missing file yields an empty store. Anything unreadable or malformed also
// yields an empty store, with the original moved aside and a warning wrapping
// ErrCorrupt returned.
func (s *Store) Load() error {
	s.tasks = []Task{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %v", ErrCorrupt, s.path, err)
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		return s.recoverCorrupt(err)
	}
	SortTasks(tasks)
	s.tasks = tasks
	return nil
}

// ReadFile decodes a tasks file without touching it. Unlike Load, a
// malformed file is reported as an error wrapping ErrCorrupt.
func ReadFile(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tasks, err := decodeTasks(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	SortTasks(tasks)
	return tasks, nil
}

func decodeTasks(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("file is empty")
	}

	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if records == nil {
		return nil, errors.New("not a task list")
	}

	tasks := make([]Task, 0, len(records))
	for i, rec := range records {
		t, err := rec.task()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *Store) recoverCorrupt(cause error) error {
	moved := fsutil.MoveAside(s.path, "corrupt", s.now())
	if moved == "" {
		return fmt.Errorf("%w: %v (starting empty)", ErrCorrupt, cause)
	}
	return fmt.Errorf("%w: %v (starting empty; original moved to %s)", ErrCorrupt, cause, moved)
}

// Save rewrites the backing file with the full ordered sequence.
func (s *Store) Save() error {
	records := make([]taskRecord, 0, len(s.tasks))
	for _, t := range s.tasks {
		records = append(records, recordFromTask(t))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize tasks: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Add inserts task in start order and saves.
func (s *Store) Add(task Task) error {
	return s.AddMany([]Task{task})
}

// AddMany inserts several tasks with a single save.
func (s *Store) AddMany(tasks []Task) error {
	for _, t := range tasks {
		s.tasks = append(s.tasks, t.Normalize())
	}
	SortTasks(s.tasks)
	return s.Save()
}

// Delete removes the task at index. Out-of-range indexes are a no-op and
// report false.
func (s *Store) Delete(index int) (bool, error) {
	if index < 0 || index >= len(s.tasks) {
		return false, nil
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	return true, s.Save()
}

// ToggleCompleted flips the completion flag of the task at index.
// Out-of-range indexes are a no-op and report false.
func (s *Store) ToggleCompleted(index int) (bool, error) {
	if index < 0 || index >= len(s.tasks) {
		return false, nil
	}
	s.tasks[index].Completed = !s.tasks[index].Completed
	return true, s.Save()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// At returns the task at index.
func (s *Store) At(index int) (Task, bool) {
	if index < 0 || index >= len(s.tasks) {
		return Task{}, false
	}
	return s.tasks[index], true
}

// Tasks returns a copy of the ordered sequence.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// TasksOn returns the tasks starting on day's calendar date, in order.
func (s *Store) TasksOn(day time.Time) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.On(day) {
			out = append(out, t)
		}
	}
	return out
}

// CountOn is len(TasksOn(day)) without the allocation.
func (s *Store) CountOn(day time.Time) int {
	n := 0
	for _, t := range s.tasks {
		if t.On(day) {
			n++
		}
	}
	return n
}

// TasksBetween returns tasks whose start lies in [from, to).
func (s *Store) TasksBetween(from, to time.Time) []Task {
	var out []Task
	for _, t := range s.tasks {
		if !t.Start.Before(from) && t.Start.Before(to) {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks orders tasks by start time, keeping insertion order for ties.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Start.Before(tasks[j].Start)
	})
}
