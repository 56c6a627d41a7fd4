package reports

import (
	"fmt"
	"strings"

	"chroncli/internal/calendar"
)

// FormatMonthMarkdown renders a month report: an overview grid with task
// counts, the agenda by day, and totals.
func FormatMonthMarkdown(report *MonthReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", report.Title)
	writeGrid(&b, report)

	b.WriteString("## Agenda\n\n")
	if len(report.Days) == 0 {
		b.WriteString("_No tasks this month._\n\n")
	}
	for _, day := range report.Days {
		fmt.Fprintf(&b, "### %s %s\n\n", day.DayOfWeek, day.Date)
		for _, t := range day.Tasks {
			box := " "
			if t.Completed {
				box = "x"
			}
			when := t.Start
			if t.End != "" {
				when += "-" + t.End
			}
			fmt.Fprintf(&b, "- [%s] %s %s\n", box, when, t.Name)
		}
		b.WriteString("\n")
	}

	s := report.Summary
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Tasks: %d\n", s.Total)
	fmt.Fprintf(&b, "- Completed: %d (%.0f%%)\n", s.Completed, s.CompletionRate)
	fmt.Fprintf(&b, "- Pending: %d\n", s.Pending)
	if s.BusiestDay != "" {
		fmt.Fprintf(&b, "- Busiest day: %s (%d %s)\n", s.BusiestDay, s.BusiestCount, plural(s.BusiestCount, "task"))
	}
	return b.String()
}

// writeGrid writes the month as a Monday-first table. Days with tasks show
// their count, today is bold.
func writeGrid(b *strings.Builder, report *MonthReport) {
	g := report.grid
	if g.Days == 0 {
		return
	}

	b.WriteString("| " + strings.Join(calendar.Weekdays[:], " | ") + " |\n")
	b.WriteString(strings.Repeat("|---", calendar.Cols) + "|\n")
	for week := 0; week < g.Weeks(); week++ {
		cells := make([]string, calendar.Cols)
		for d := 0; d < calendar.Cols; d++ {
			cell := g.Cells[week][d]
			if cell.Blank() {
				continue
			}
			text := fmt.Sprint(cell.Day)
			if cell.Count > 0 {
				text += fmt.Sprintf(" [%d]", cell.Count)
			}
			if cell.Today {
				text = "**" + text + "**"
			}
			cells[d] = text
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
