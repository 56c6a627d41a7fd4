package ui

import (
	"fmt"
	"time"

	"chroncli/internal/calendar"
	"chroncli/internal/config"
	"chroncli/internal/display"
	"chroncli/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	calTitleRow  = 1
	calHeaderRow = 3
	calFirstRow  = 5
	calMaxRowH   = 3
)

// CalendarPane is the right pane: a month grid with per-day task counts.
type CalendarPane struct {
	store  *storage.Store
	keys   CalendarKeyMap
	now    func() time.Time
	cursor calendar.Cursor
}

// NewCalendarPane opens on the current month.
func NewCalendarPane(store *storage.Store, keyCfg *config.KeysConfig) *CalendarPane {
	c := &CalendarPane{store: store, keys: NewCalendarKeyMap(keyCfg), now: time.Now}
	c.cursor = calendar.CursorFor(c.now())
	return c
}

// SetNowFunc overrides the clock and moves the cursor to its month.
func (c *CalendarPane) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	c.now = now
	c.cursor = calendar.CursorFor(now())
}

// Cursor returns the displayed month.
func (c *CalendarPane) Cursor() calendar.Cursor {
	return c.cursor
}

// Next shows the following month.
func (c *CalendarPane) Next() {
	c.cursor = c.cursor.Next()
}

// Prev shows the preceding month.
func (c *CalendarPane) Prev() {
	c.cursor = c.cursor.Prev()
}

// HandleKey navigates on the prev/next keys and reports whether it did.
func (c *CalendarPane) HandleKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, c.keys.Prev):
		c.Prev()
		return true
	case key.Matches(msg, c.keys.Next):
		c.Next()
		return true
	}
	return false
}

// Draw renders the month onto s and refreshes it.
func (c *CalendarPane) Draw(s display.Surface) {
	w, h := s.Size()
	s.Clear()

	grid := calendar.Layout(c.cursor, c.now(), c.store.CountOn)
	putCentered(s, w, calTitleRow, grid.Cursor.Title(), display.AttrBold|display.AttrAccent)

	colW := max(1, (w-4)/calendar.Cols)
	for d, name := range calendar.Weekdays {
		s.Put(2+d*colW, calHeaderRow, truncate(name, colW-1), display.AttrBold)
	}

	// Shrink rows until every week fits above the navigation hint. When even
	// single-line weeks do not fit, the hint gives up its row and the weeks
	// are clipped at the bottom border.
	bottom := h - 2
	rowH := calMaxRowH
	for rowH > 1 && calFirstRow+grid.Weeks()*rowH > bottom {
		rowH--
	}
	showNav := calFirstRow+grid.Weeks()*rowH <= bottom

	for week := 0; week < calendar.Rows; week++ {
		y := calFirstRow + week*rowH
		if y > bottom {
			break
		}
		for d := 0; d < calendar.Cols; d++ {
			cell := grid.Cells[week][d]
			if cell.Blank() {
				continue
			}
			x := 2 + d*colW
			day := fmt.Sprintf("%2d", cell.Day)
			attr := display.AttrNone
			if cell.Today {
				attr = display.AttrReverse
			}
			s.Put(x, y, day, attr)
			if cell.Count > 0 {
				badge := fmt.Sprintf("[%d]", cell.Count)
				if rowH > 1 {
					s.Put(x, y+1, truncate(badge, colW-1), display.AttrBold|display.AttrAccent)
				} else {
					s.Put(x+len(day), y, truncate(badge, colW-len(day)-1), display.AttrBold|display.AttrAccent)
				}
			}
		}
	}

	if showNav {
		nav := fmt.Sprintf("< Prev [%s] | Next [%s] >", c.keys.Prev.Help().Key, c.keys.Next.Help().Key)
		putCentered(s, w, bottom, nav, display.AttrDim)
	}

	s.Box()
	s.Refresh()
}

// truncate cuts ASCII text to n bytes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
