// Package display provides the drawing surface the panes render into.
package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Attr is a set of text attributes for a run of cells.
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << iota
	AttrReverse
	AttrDim
	AttrAccent
	AttrStrike
	AttrAlert
)

// Has reports whether all bits of other are set.
func (a Attr) Has(other Attr) bool {
	return a&other == other
}

// Surface is a rectangular, addressable drawing area. Writes land in a back
// buffer and become visible on Refresh.
type Surface interface {
	Size() (width, height int)
	Clear()
	Put(x, y int, text string, attr Attr)
	Box()
	Refresh()
}

type cell struct {
	r    rune
	attr Attr
	wide bool // second column of a double-width rune
}

var blank = cell{r: ' '}

// Canvas is an in-memory Surface. The committed frame is read back with Lines
// or Render.
type Canvas struct {
	width, height int
	back          [][]cell
	front         [][]cell
	refreshes     int
}

// NewCanvas returns a blank canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize discards both buffers and reallocates them blank.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width, c.height = width, height
	c.back = newBuffer(width, height)
	c.front = newBuffer(width, height)
}

func newBuffer(width, height int) [][]cell {
	buf := make([][]cell, height)
	for y := range buf {
		row := make([]cell, width)
		for x := range row {
			row[x] = blank
		}
		buf[y] = row
	}
	return buf
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Clear blanks the back buffer.
func (c *Canvas) Clear() {
	for y := range c.back {
		for x := range c.back[y] {
			c.back[y][x] = blank
		}
	}
}

// Put writes text starting at column x of row y. Anything outside the canvas
// is clipped; a double-width rune that would straddle the right edge is dropped.
func (c *Canvas) Put(x, y int, text string, attr Attr) {
	if y < 0 || y >= c.height {
		return
	}
	row := c.back[y]
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.width {
			return
		}
		if x >= 0 {
			c.unsplit(row, x, w)
			row[x] = cell{r: r, attr: attr}
			if w == 2 {
				row[x+1] = cell{r: ' ', attr: attr, wide: true}
			}
		}
		x += w
	}
}

// unsplit blanks the halves of any double-width rune partly covered by a
// write of width w at x.
func (c *Canvas) unsplit(row []cell, x, w int) {
	if row[x].wide && x > 0 {
		row[x-1] = blank
	}
	if end := x + w; end < len(row) && row[end].wide {
		row[end] = blank
	}
}

// Box draws a dim rounded border around the canvas edge.
func (c *Canvas) Box() {
	if c.width < 2 || c.height < 2 {
		return
	}
	b := lipgloss.RoundedBorder()
	right, bottom := c.width-1, c.height-1

	for x := 1; x < right; x++ {
		c.Put(x, 0, b.Top, AttrDim)
		c.Put(x, bottom, b.Bottom, AttrDim)
	}
	for y := 1; y < bottom; y++ {
		c.Put(0, y, b.Left, AttrDim)
		c.Put(right, y, b.Right, AttrDim)
	}
	c.Put(0, 0, b.TopLeft, AttrDim)
	c.Put(right, 0, b.TopRight, AttrDim)
	c.Put(0, bottom, b.BottomLeft, AttrDim)
	c.Put(right, bottom, b.BottomRight, AttrDim)
}

// Refresh commits the back buffer as the visible frame.
func (c *Canvas) Refresh() {
	for y := range c.back {
		copy(c.front[y], c.back[y])
	}
	c.refreshes++
}

// Refreshes counts committed frames.
func (c *Canvas) Refreshes() int {
	return c.refreshes
}

// Lines returns the committed frame as plain text, one string per row.
func (c *Canvas) Lines() []string {
	lines := make([]string, len(c.front))
	for y, row := range c.front {
		var sb strings.Builder
		for _, cl := range row {
			if cl.wide {
				continue
			}
			sb.WriteRune(cl.r)
		}
		lines[y] = sb.String()
	}
	return lines
}

// String is the committed frame joined by newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// AttrAt returns the committed attribute at (x, y).
func (c *Canvas) AttrAt(x, y int) Attr {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return AttrNone
	}
	return c.front[y][x].attr
}

// Render returns the committed frame with each run of equal attributes
// rendered through style.
func (c *Canvas) Render(style func(Attr) lipgloss.Style) string {
	lines := make([]string, len(c.front))
	for y, row := range c.front {
		var out, run strings.Builder
		cur := AttrNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(style(cur).Render(run.String()))
			run.Reset()
		}
		for _, cl := range row {
			if cl.wide {
				continue
			}
			if cl.attr != cur {
				flush()
				cur = cl.attr
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = out.String()
	}
	return strings.Join(lines, "\n")
}
