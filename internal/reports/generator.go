package reports

import (
	"time"

	"chroncli/internal/calendar"
	"chroncli/internal/storage"
)

// Generator creates reports from the task store.
type Generator struct {
	store *storage.Store
	now   func() time.Time
}

// NewGenerator creates a new report generator.
func NewGenerator(store *storage.Store) *Generator {
	return &Generator{store: store, now: time.Now}
}

// SetNowFunc overrides the clock used for GeneratedAt and today's marker.
func (g *Generator) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	g.now = now
}

// monthBounds returns the cursor for a month and the half-open range
// [start, end) of its local days.
func monthBounds(year int, month time.Month) (calendar.Cursor, time.Time, time.Time) {
	cursor := calendar.Cursor{Year: year, Month: month, Day: 1}
	start := cursor.FirstDay()
	return cursor, start, start.AddDate(0, 1, 0)
}

// GenerateMonth builds the agenda for year and month.
func (g *Generator) GenerateMonth(year int, month time.Month) *MonthReport {
	cursor, start, end := monthBounds(year, month)
	now := g.now()

	report := &MonthReport{
		Month:       start.Format("2006-01"),
		Title:       cursor.Title(),
		Days:        []DayAgenda{},
		GeneratedAt: now,
		grid:        calendar.Layout(cursor, now, g.store.CountOn),
	}

	for _, task := range g.store.TasksBetween(start, end) {
		date := task.Start.Format("2006-01-02")
		if n := len(report.Days); n == 0 || report.Days[n-1].Date != date {
			report.Days = append(report.Days, DayAgenda{
				Date:      date,
				DayOfWeek: task.Start.Format("Mon"),
				Tasks:     []TaskEntry{},
			})
		}
		day := &report.Days[len(report.Days)-1]
		day.Tasks = append(day.Tasks, entryFor(task))
		if task.Completed {
			day.Completed++
		}
	}

	report.Summary = summarize(report.Days)
	return report
}

func entryFor(t storage.Task) TaskEntry {
	e := TaskEntry{Name: t.Name, Start: t.Start.Format("15:04"), Completed: t.Completed}
	if t.End != nil {
		e.End = t.End.Format("15:04")
	}
	return e
}

func summarize(days []DayAgenda) Summary {
	var s Summary
	for _, d := range days {
		s.Total += len(d.Tasks)
		s.Completed += d.Completed
		// Ties go to the earlier day.
		if len(d.Tasks) > s.BusiestCount {
			s.BusiestDay, s.BusiestCount = d.Date, len(d.Tasks)
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}
