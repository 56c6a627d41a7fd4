package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// timestampLayout is the on-disk form: local wall-clock, no offset.
const timestampLayout = "2006-01-02T15:04:05"

// Task is a single scheduled item.
type Task struct {
	Name      string
	Start     time.Time
	End       *time.Time // nil when the task has no end time
	Completed bool
}

// On reports whether the task starts on the calendar date of day.
func (t Task) On(day time.Time) bool {
	y1, m1, d1 := t.Start.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Normalize drops seconds and sub-second precision from both timestamps.
func (t Task) Normalize() Task {
	t.Start = t.Start.Truncate(time.Minute)
	if t.End != nil {
		end := t.End.Truncate(time.Minute)
		t.End = &end
	}
	return t
}

// taskRecord is the JSON shape of a task in tasks.json. Every key is
// required; end_time is null for a task without an end.
type taskRecord struct {
	Name      *string         `json:"name"`
	StartTime *string         `json:"start_time"`
	EndTime   json.RawMessage `json:"end_time"`
	Completed *bool           `json:"completed"`
}

var jsonNull = json.RawMessage("null")

func recordFromTask(t Task) taskRecord {
	name := t.Name
	start := t.Start.Format(timestampLayout)
	done := t.Completed
	rec := taskRecord{Name: &name, StartTime: &start, EndTime: jsonNull, Completed: &done}
	if t.End != nil {
		end, _ := json.Marshal(t.End.Format(timestampLayout))
		rec.EndTime = end
	}
	return rec
}

func (r taskRecord) task() (Task, error) {
	if r.Name == nil {
		return Task{}, errors.New("missing name")
	}
	if r.StartTime == nil {
		return Task{}, errors.New("missing start_time")
	}
	if r.EndTime == nil {
		return Task{}, errors.New("missing end_time")
	}
	if r.Completed == nil {
		return Task{}, errors.New("missing completed")
	}

	start, err := parseTimestamp(*r.StartTime)
	if err != nil {
		return Task{}, fmt.Errorf("start_time: %w", err)
	}
	t := Task{Name: *r.Name, Start: start, Completed: *r.Completed}

	var endTime *string
	if err := json.Unmarshal(r.EndTime, &endTime); err != nil {
		return Task{}, fmt.Errorf("end_time: %w", err)
	}
	if endTime != nil {
		end, err := parseTimestamp(*endTime)
		if err != nil {
			return Task{}, fmt.Errorf("end_time: %w", err)
		}
		t.End = &end
	}
	return t, nil
}

// parseTimestamp accepts the naive local layout and RFC 3339.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(timestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t.In(time.Local), nil
}
