package layout

import "fmt"

// TableSpec describes one table: an optional title bar, a header row, body
// rows, and per-column widths. The sum of Widths is the table width used for
// every row. The engine borrows the spec and never mutates it.
type TableSpec struct {
	Title   string
	Headers []string
	Widths  []float64
	Rows    []Row
	Style   TableStyle
}

// Validate checks the structural invariants: at least one column, one width
// per header, positive widths, and every row as long as the header row.
func (spec *TableSpec) Validate() error {
	if len(spec.Headers) == 0 {
		return ErrNoColumns
	}
	if len(spec.Widths) != len(spec.Headers) {
		return fmt.Errorf("%w: %d widths for %d headers", ErrWidthMismatch, len(spec.Widths), len(spec.Headers))
	}
	for i, w := range spec.Widths {
		if w <= 0 {
			return fmt.Errorf("%w: column %d", ErrInvalidWidth, i)
		}
	}
	for i, row := range spec.Rows {
		if len(row) != len(spec.Headers) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrColumnMismatch, i, len(row), len(spec.Headers))
		}
	}
	return nil
}

// Width is the total table width, the sum of the column widths.
func (spec *TableSpec) Width() float64 {
	total := 0.0
	for _, w := range spec.Widths {
		total += w
	}
	return total
}

// measuredRow caches the wrapped lines and resulting height for one row
// while it is being rendered. It never outlives the row.
type measuredRow struct {
	height float64
	lines  [][]string // wrapped lines per cell
}

// measureRow wraps every cell at its column width and derives the row
// height: max(minimum height, line count * line spacing + padding). Content
// differs row to row, so this is recomputed per row.
func (s *Session) measureRow(row Row, widths []float64, style TableStyle, header bool) measuredRow {
	font := style.Font
	minH := style.MinRowHeight
	if header {
		font = style.HeaderFont
		minH = style.MinHeaderRow
	}

	lines := make([][]string, len(row))
	maxLines := 1
	for i, cell := range row {
		avail := widths[i] - 2*style.CellPadding
		if avail < 1 {
			avail = 1
		}
		ls := Wrap(s.metrics, cell.display(), font, avail)
		lines[i] = ls
		if len(ls) > maxLines {
			maxLines = len(ls)
		}
	}

	h := float64(maxLines)*style.LineSpacing + style.RowPadding
	if h < minH {
		h = minH
	}
	return measuredRow{height: h, lines: lines}
}

// RowHeight computes the vertical extent a body row will occupy, for callers
// that size content around a table before rendering it.
func (s *Session) RowHeight(row Row, widths []float64, style TableStyle) float64 {
	return s.measureRow(row, widths, style.withDefaults(), false).height
}

// RenderTable draws spec onto the session's surface with the table's left
// edge at x and its top edge at y, flowing onto continuation pages as
// needed. Headers are re-emitted on every continuation page, a continued
// note is placed in the bottom margin of every page the table runs past, and
// no row is ever split across two pages. It returns the final Y offset so
// the caller can stack further content directly beneath the table.
func (s *Session) RenderTable(spec *TableSpec, x, y float64) (float64, error) {
	const op = "RenderTable"
	if err := spec.Validate(); err != nil {
		return y, newRenderError(op, err)
	}

	style := spec.Style.withDefaults()
	width := spec.Width()
	headerRow := make(Row, len(spec.Headers))
	for i, h := range spec.Headers {
		headerRow[i] = Text(h)
	}

	s.cur.Y = y

	// Avoid orphaned headers: when the title/header block plus one minimal
	// row cannot fit in the remaining space, open the next page before
	// drawing anything. Nothing has rendered yet, so no continued note.
	headerBlock := s.measureRow(headerRow, spec.Widths, style, true).height + style.MinRowHeight
	if spec.Title != "" {
		headerBlock += style.TitleHeight
	}
	if s.cur.Y-headerBlock < s.geom.BottomMargin && s.cur.Y < s.geom.TopY() {
		s.breakPage()
	}
	atTop := s.cur.Y >= s.geom.TopY()

	st := &renderState{}
	if err := st.begin(); err != nil {
		return s.cur.Y, newRenderError(op, err)
	}
	if err := s.emitHeaders(spec, headerRow, style, st, x, width); err != nil {
		return s.cur.Y, newRenderError(op, err)
	}
	// A table that begins at the top of a page, including one the orphan
	// guard just opened, is already on its own page; an over-tall first row
	// renders here rather than after a futile break.
	st.freshPage = atTop

	for st.nextRow < len(spec.Rows) {
		row := spec.Rows[st.nextRow]
		mr := s.measureRow(row, spec.Widths, style, false)

		if s.cur.Y-mr.height < s.geom.BottomMargin && !st.freshPage {
			// The pending row does not fit. A row taller than a whole page
			// still renders on its own fresh page (st.freshPage above)
			// instead of looping here forever.
			if err := st.requestBreak(); err != nil {
				return s.cur.Y, newRenderError(op, err)
			}
			s.drawContinuedNote(x, style)
			s.breakPage()
			if err := st.pageStarted(); err != nil {
				return s.cur.Y, newRenderError(op, err)
			}
			if err := s.emitHeaders(spec, headerRow, style, st, x, width); err != nil {
				return s.cur.Y, newRenderError(op, err)
			}
			continue
		}

		s.renderRow(row, mr, spec.Widths, style, x, st.rendered, false)
		st.rowRendered()
	}

	if err := st.finish(); err != nil {
		return s.cur.Y, newRenderError(op, err)
	}
	return s.cur.Y, nil
}

// emitHeaders draws the title bar (first page only, unless the style repeats
// it) and the header row at the cursor, then hands the state machine to body
// rendering.
func (s *Session) emitHeaders(spec *TableSpec, headerRow Row, style TableStyle, st *renderState, x, width float64) error {
	if spec.Title != "" && (st.headerEmissions == 0 || style.RepeatTitle) {
		s.drawTitleBar(spec.Title, style, x, width)
	}
	mr := s.measureRow(headerRow, spec.Widths, style, true)
	s.renderRow(headerRow, mr, spec.Widths, style, x, 0, true)
	st.headerEmissions++
	return st.headersDrawn()
}

func (s *Session) drawTitleBar(title string, style TableStyle, x, width float64) {
	h := style.TitleHeight
	y0 := s.cur.Y
	s.surf.SetFillColor(style.TitleFill)
	s.surf.Rect(x, y0-h, width, h, true, false)
	s.surf.SetFillColor(style.TitleText)
	baseline := y0 - h/2 - style.TitleFont.Size*(ascentRatio-0.5)
	s.surf.Text(x+style.CellPadding, baseline, title, style.TitleFont)
	s.cur.Y = y0 - h
}

// renderRow draws one row at the cursor: background fill, cell borders, then
// cell text. Short cells in a tall row are vertically centered rather than
// pinned to the top.
func (s *Session) renderRow(row Row, mr measuredRow, widths []float64, style TableStyle, x float64, bodyIdx int, header bool) {
	y0 := s.cur.Y
	h := mr.height

	font := style.Font
	textColor := style.TextColor
	if header {
		font = style.HeaderFont
		textColor = style.HeaderText
	}

	total := 0.0
	for _, w := range widths {
		total += w
	}

	switch {
	case header:
		s.surf.SetFillColor(style.HeaderFill)
		s.surf.Rect(x, y0-h, total, h, true, false)
	case style.AltRowFill != nil && bodyIdx%2 == 1:
		s.surf.SetFillColor(*style.AltRowFill)
		s.surf.Rect(x, y0-h, total, h, true, false)
	}

	s.surf.SetStrokeColor(style.BorderColor)
	cx := x
	for i := range row {
		s.surf.Rect(cx, y0-h, widths[i], h, false, true)
		cx += widths[i]
	}

	cx = x
	for i, cell := range row {
		lines := mr.lines[i]
		vOff := (h - float64(len(lines))*style.LineSpacing) / 2

		link, isLink := cell.(Link)
		_, isNum := cell.(Numeric)
		color := textColor
		if isLink {
			color = style.LinkColor
		}
		s.surf.SetFillColor(color)

		for li, line := range lines {
			lineTop := y0 - vOff - float64(li)*style.LineSpacing
			baseline := lineTop - ascentRatio*style.LineSpacing
			tx := cx + style.CellPadding

			var lw float64
			if isNum || isLink {
				if w, err := s.metrics.MeasureText(line, font); err == nil {
					lw = w
				} else {
					lw = float64(len(line)) * font.Size * 0.5
				}
			}
			if isNum {
				if avail := widths[i] - 2*style.CellPadding; lw < avail {
					tx = cx + style.CellPadding + (avail-lw)/2
				}
			}

			s.surf.Text(tx, baseline, line, font)
			if isLink && li == 0 {
				registerLink(s.surf, link.URL, tx, baseline, lw, font)
			}
		}
		cx += widths[i]
	}

	s.cur.Y = y0 - h
}

// drawContinuedNote places the continuation footer in the reserved bottom
// margin of the page being closed.
func (s *Session) drawContinuedNote(x float64, style TableStyle) {
	font := Font{Family: style.Font.Family, Style: "I", Size: 8}
	s.surf.SetFillColor(Color{R: 120, G: 120, B: 120})
	s.surf.Text(x, s.geom.BottomMargin-14, style.ContinuedNote, font)
}
