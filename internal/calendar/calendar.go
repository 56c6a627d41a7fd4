// Package calendar computes month grids and month-to-month navigation.
// It knows nothing about terminals or persistence.
package calendar

import (
	"strconv"
	"time"
)

// Rows and Cols are the fixed grid dimensions: six weeks, Monday first.
const (
	Rows = 6
	Cols = 7
)

// Weekdays are the column headers, Monday first.
var Weekdays = [Cols]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Cursor is the displayed month plus a retained day-of-month.
type Cursor struct {
	Year  int
	Month time.Month
	Day   int
}

// CursorFor returns the cursor positioned on t's date.
func CursorFor(t time.Time) Cursor {
	y, m, d := t.Date()
	return Cursor{Year: y, Month: m, Day: d}
}

// Next moves one month forward, clamping Day to the new month's length.
func (c Cursor) Next() Cursor {
	if c.Month == time.December {
		return c.moveTo(c.Year+1, time.January)
	}
	return c.moveTo(c.Year, c.Month+1)
}

// Prev moves one month back, clamping Day to the new month's length.
func (c Cursor) Prev() Cursor {
	if c.Month == time.January {
		return c.moveTo(c.Year-1, time.December)
	}
	return c.moveTo(c.Year, c.Month-1)
}

func (c Cursor) moveTo(year int, month time.Month) Cursor {
	day := c.Day
	if n := DaysIn(year, month); day > n {
		day = n
	}
	if day < 1 {
		day = 1
	}
	return Cursor{Year: year, Month: month, Day: day}
}

// Title is the month heading, e.g. "February 2024".
func (c Cursor) Title() string {
	return c.Month.String() + " " + strconv.Itoa(c.Year)
}

// FirstDay is midnight local time on the first of the month.
func (c Cursor) FirstDay() time.Time {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.Local)
}

// DaysIn returns the number of days in month: the first of the following
// month minus one day.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// FirstWeekday returns the column of day 1, 0 for Monday through 6 for Sunday.
func FirstWeekday(year int, month time.Month) int {
	wd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % 7
}

// Cell is one slot of the grid. Day is 0 for blank slots.
type Cell struct {
	Day   int
	Date  time.Time
	Count int
	Today bool
}

// Blank reports whether the cell falls outside the month.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Grid is a laid-out month.
type Grid struct {
	Cursor Cursor
	Days   int
	First  int
	Cells  [Rows][Cols]Cell
}

// Counter returns the number of tasks on a date. A nil Counter counts zero.
type Counter func(day time.Time) int

// Layout places each day of c's month at (week, weekday) and fills in task
// counts. today marks at most one cell, and only when c shows today's month.
func Layout(c Cursor, today time.Time, count Counter) Grid {
	g := Grid{
		Cursor: c,
		Days:   DaysIn(c.Year, c.Month),
		First:  FirstWeekday(c.Year, c.Month),
	}

	ty, tm, td := today.Date()
	showsToday := ty == c.Year && tm == c.Month

	for w := 0; w < Rows; w++ {
		for d := 0; d < Cols; d++ {
			day := d - g.First + 1 + Cols*w
			if day < 1 || day > g.Days {
				continue
			}
			date := time.Date(c.Year, c.Month, day, 0, 0, 0, 0, time.Local)
			cell := Cell{Day: day, Date: date, Today: showsToday && day == td}
			if count != nil {
				cell.Count = count(date)
			}
			g.Cells[w][d] = cell
		}
	}
	return g
}

// Weeks returns how many grid rows contain at least one day.
func (g Grid) Weeks() int {
	return (g.First + g.Days + Cols - 1) / Cols
}

