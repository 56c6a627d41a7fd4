// Package reports builds month agendas from the task store and formats them
// as Markdown or JSON.
package reports

import (
	"time"

	"chroncli/internal/calendar"
)

// MonthReport is the agenda for one calendar month.
type MonthReport struct {
	Month       string      `json:"month"` // 2006-01
	Title       string      `json:"title"`
	Days        []DayAgenda `json:"days"`
	Summary     Summary     `json:"summary"`
	GeneratedAt time.Time   `json:"generated_at"`

	grid calendar.Grid
}

// DayAgenda lists the tasks starting on one date. Days without tasks are
// left out of a report.
type DayAgenda struct {
	Date      string      `json:"date"`
	DayOfWeek string      `json:"day_of_week"`
	Tasks     []TaskEntry `json:"tasks"`
	Completed int         `json:"completed"`
}

// TaskEntry is a task as it appears in a report.
type TaskEntry struct {
	Name      string `json:"name"`
	Start     string `json:"start"`
	End       string `json:"end,omitempty"`
	Completed bool   `json:"completed"`
}

// Summary holds month totals.
type Summary struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
	BusiestDay     string  `json:"busiest_day,omitempty"`
	BusiestCount   int     `json:"busiest_count,omitempty"`
}
