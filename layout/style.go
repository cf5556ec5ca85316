// Package layout renders tabular and free-flowing text content onto a
// paginated drawing surface.
//
// The surface is deliberately low level: it can fill rectangles, place a
// string at a position, measure a string, start a new page, and register a
// clickable region. Everything else - word wrapping, row height computation,
// page-break decisions, header re-emission on continuation pages, and
// hyperlink hot-zone placement - lives here.
//
// A Session owns the cursor for one document and is not safe for concurrent
// use; independent documents each get their own Session and Surface.
package layout

// Color is an RGB color value.
type Color struct {
	R, G, B int
}

// Font specifies a font face for measuring and drawing text.
type Font struct {
	Family string
	Style  string  // "" (regular), "B", "I", "BI"
	Size   float64 // in points
}

// TableStyle defines the visual appearance of a table.
//
// Zero values are replaced by DefaultStyle values at render time, so callers
// only need to set the fields they care about.
type TableStyle struct {
	Font       Font // body cells
	HeaderFont Font // header row
	TitleFont  Font // title bar

	TextColor   Color
	HeaderText  Color
	TitleText   Color
	LinkColor   Color
	BorderColor Color

	TitleFill  Color
	HeaderFill Color
	AltRowFill *Color // background for odd body rows; nil disables shading

	LineSpacing  float64 // vertical extent of one wrapped line
	CellPadding  float64 // horizontal inset on each side of cell text
	RowPadding   float64 // vertical padding added to a row's content height
	MinRowHeight float64 // body rows never shrink below this
	MinHeaderRow float64 // header row minimum height

	TitleHeight float64
	RepeatTitle bool // re-draw the title bar on continuation pages

	ContinuedNote string // footer note before a page break; empty uses the default
}

// DefaultStyle returns the style used when a TableSpec leaves its Style
// field zero. Point units.
func DefaultStyle() TableStyle {
	return TableStyle{
		Font:       Font{Family: "Helvetica", Size: 9},
		HeaderFont: Font{Family: "Helvetica", Style: "B", Size: 9},
		TitleFont:  Font{Family: "Helvetica", Style: "B", Size: 11},

		TextColor:   Color{33, 33, 33},
		HeaderText:  Color{255, 255, 255},
		TitleText:   Color{255, 255, 255},
		LinkColor:   Color{21, 101, 192},
		BorderColor: Color{189, 189, 189},

		TitleFill:  Color{13, 71, 161},
		HeaderFill: Color{63, 81, 181},
		AltRowFill: &Color{R: 245, G: 245, B: 245},

		LineSpacing:  11,
		CellPadding:  4,
		RowPadding:   6,
		MinRowHeight: 16,
		MinHeaderRow: 18,

		TitleHeight: 20,

		ContinuedNote: "continued on next page",
	}
}

// withDefaults fills zero-valued fields from DefaultStyle.
func (st TableStyle) withDefaults() TableStyle {
	def := DefaultStyle()
	if st.Font == (Font{}) {
		st.Font = def.Font
	}
	if st.HeaderFont == (Font{}) {
		st.HeaderFont = def.HeaderFont
	}
	if st.TitleFont == (Font{}) {
		st.TitleFont = def.TitleFont
	}
	if st.TextColor == (Color{}) {
		st.TextColor = def.TextColor
	}
	if st.HeaderText == (Color{}) {
		st.HeaderText = def.HeaderText
	}
	if st.TitleText == (Color{}) {
		st.TitleText = def.TitleText
	}
	if st.LinkColor == (Color{}) {
		st.LinkColor = def.LinkColor
	}
	if st.BorderColor == (Color{}) {
		st.BorderColor = def.BorderColor
	}
	if st.TitleFill == (Color{}) {
		st.TitleFill = def.TitleFill
	}
	if st.HeaderFill == (Color{}) {
		st.HeaderFill = def.HeaderFill
	}
	if st.LineSpacing <= 0 {
		st.LineSpacing = def.LineSpacing
	}
	if st.CellPadding <= 0 {
		st.CellPadding = def.CellPadding
	}
	if st.RowPadding <= 0 {
		st.RowPadding = def.RowPadding
	}
	if st.MinRowHeight <= 0 {
		st.MinRowHeight = def.MinRowHeight
	}
	if st.MinHeaderRow <= 0 {
		st.MinHeaderRow = def.MinHeaderRow
	}
	if st.TitleHeight <= 0 {
		st.TitleHeight = def.TitleHeight
	}
	if st.ContinuedNote == "" {
		st.ContinuedNote = def.ContinuedNote
	}
	return st
}
