package layout

// Surface is the low-level page-drawing capability the engine renders onto.
//
// Coordinates use a bottom-left origin in the surface's unit (points for the
// production PDF surface): y values grow upward, and the engine's cursor
// starts high on the page and decreases as content is drawn. Rect and
// LinkURL take the lower-left corner of their rectangle; Text takes the
// baseline position.
//
// A Surface carries its own page cursor and must not be used from more than
// one goroutine at a time.
type Surface interface {
	SetFillColor(c Color)
	SetStrokeColor(c Color)
	Rect(x, y, w, h float64, fill, stroke bool)
	Text(x, y float64, text string, font Font)
	MeasureText(text string, font Font) (float64, error)
	AddPage()
	LinkURL(url string, x, y, w, h float64)
}

// PageGeometry describes the drawable region of every page.
type PageGeometry struct {
	Width        float64
	Height       float64
	TopMargin    float64
	BottomMargin float64 // reserved space; large enough for a continued-note footer
}

// TopY is the fixed top-of-page offset the cursor resets to on a page break.
func (g PageGeometry) TopY() float64 {
	return g.Height - g.TopMargin
}

// Usable is the vertical space available for content on a full page.
func (g PageGeometry) Usable() float64 {
	return g.TopY() - g.BottomMargin
}

// A4 page geometry in points with margins sized for the default styles.
func A4() PageGeometry {
	return PageGeometry{Width: 595.28, Height: 841.89, TopMargin: 48, BottomMargin: 54}
}

// Cursor is the engine's current drawing position: the page number (starting
// at 1) and the Y offset, which decreases as content is drawn and resets to
// the top-of-page offset on a page break.
type Cursor struct {
	Page int
	Y    float64
}

// Session binds a Surface, its page geometry, and a Cursor for the duration
// of one document. Layout functions receive it explicitly; there is no
// shared global drawing context.
//
// The Session borrows the Surface and never outlives the document render. It
// is single-threaded by design: each drawing call's position depends on the
// previous call's outcome.
type Session struct {
	surf    Surface
	metrics Metrics
	geom    PageGeometry
	cur     Cursor
}

// SessionOption configures a new Session.
type SessionOption func(*Session)

// WithMetrics overrides the font metrics provider. By default the Surface
// itself measures text.
func WithMetrics(m Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession creates a Session drawing onto surf. The surface is expected to
// have its first page open; the cursor starts at the top of page 1.
func NewSession(surf Surface, geom PageGeometry, opts ...SessionOption) *Session {
	s := &Session{
		surf:    surf,
		metrics: surf,
		geom:    geom,
		cur:     Cursor{Page: 1, Y: geom.TopY()},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cursor reports the current page number and Y offset.
func (s *Session) Cursor() Cursor { return s.cur }

// Geometry returns the page geometry the session lays out against.
func (s *Session) Geometry() PageGeometry { return s.geom }

// SetY moves the cursor within the current page, for callers that position
// content manually between tables.
func (s *Session) SetY(y float64) { s.cur.Y = y }

// Advance moves the cursor down by dy, breaking to a new page when the
// remaining space is exhausted.
func (s *Session) Advance(dy float64) {
	s.cur.Y -= dy
	if s.cur.Y < s.geom.BottomMargin {
		s.breakPage()
	}
}

// BreakPage forces a page break, for callers placing full-width content
// such as images between tables.
func (s *Session) BreakPage() { s.breakPage() }

// breakPage starts a new page and resets the cursor to the top offset.
func (s *Session) breakPage() {
	s.surf.AddPage()
	s.cur.Page++
	s.cur.Y = s.geom.TopY()
}

// lineHeight is the vertical extent of one line of free text.
func lineHeight(font Font) float64 {
	return font.Size * 1.4
}

// WriteText flows text below the cursor, wrapped to maxWidth and breaking
// pages as needed. It returns the resulting Y offset. The same wrap engine
// backs table cells, so free text and tables line up consistently.
func (s *Session) WriteText(text string, x, maxWidth float64, font Font, color Color) float64 {
	lh := lineHeight(font)
	s.surf.SetFillColor(color)
	for _, line := range Wrap(s.metrics, text, font, maxWidth) {
		if s.cur.Y-lh < s.geom.BottomMargin {
			s.breakPage()
			s.surf.SetFillColor(color)
		}
		s.surf.Text(x, s.cur.Y-ascentRatio*lh, line, font)
		s.cur.Y -= lh
	}
	return s.cur.Y
}
