package layout

import (
	"fmt"
	"strconv"
)

// Cell is one table entry. The concrete type selects how the cell is drawn:
// Text is left-aligned, Numeric is centered, and Link is drawn in the link
// color with a clickable hot-zone registered over the rendered label.
//
// Cells are immutable once submitted to a render; the engine derives wrapped
// lines from them but never mutates them.
type Cell interface {
	display() string
}

// Text is a plain, left-aligned text cell.
type Text string

func (t Text) display() string { return string(t) }

// Numeric is a center-aligned cell holding an already formatted number.
type Numeric string

func (n Numeric) display() string { return string(n) }

// Link is a cell whose Label is drawn as a hyperlink to URL.
type Link struct {
	Label string
	URL   string
}

func (l Link) display() string { return l.Label }

// Row is an ordered sequence of cells; its length must match the table's
// header count.
type Row []Cell

// TextRow builds a Row of plain text cells.
func TextRow(values ...string) Row {
	r := make(Row, len(values))
	for i, v := range values {
		r[i] = Text(v)
	}
	return r
}

// CellOf coerces an arbitrary value to a Cell. Cells pass through unchanged,
// numbers become Numeric cells, and everything else is rendered with
// fmt.Sprint. Coercion never fails.
func CellOf(v any) Cell {
	switch c := v.(type) {
	case Cell:
		return c
	case string:
		return Text(c)
	case float64:
		return Numeric(strconv.FormatFloat(c, 'f', -1, 64))
	case float32:
		return Numeric(strconv.FormatFloat(float64(c), 'f', -1, 32))
	case int:
		return Numeric(strconv.Itoa(c))
	case int64:
		return Numeric(strconv.FormatInt(c, 10))
	case nil:
		return Text("")
	default:
		return Text(fmt.Sprint(v))
	}
}
