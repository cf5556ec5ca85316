// Package pdfsurface implements the layout drawing surface on top of a PDF
// document.
//
// The layout engine works in a bottom-left origin coordinate system; fpdf
// works top-down. This package owns the flip so neither the engine nor
// report code ever sees fpdf coordinates.
package pdfsurface

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/routerisk/routerisk/layout"
)

// Surface draws onto a PDF document and carries the document's page cursor.
// Not safe for concurrent use.
type Surface struct {
	pdf    *fpdf.Fpdf
	width  float64
	height float64

	letterhead    string // source PDF whose first page backs every page
	letterheadTpl int

	images map[string]bool // registered image names
}

// Option configures a new Surface.
type Option func(*Surface)

// WithLetterhead imports the first page of the given PDF and draws it as the
// background of every page, so reports come out on company stationery.
func WithLetterhead(path string) Option {
	return func(s *Surface) { s.letterhead = path }
}

// New creates an A4 portrait surface in point units with its first page
// open, ready for a layout.Session.
func New(opts ...Option) *Surface {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0) // the layout engine decides page breaks
	pdf.SetCreator("routerisk", true)

	s := &Surface{pdf: pdf, images: make(map[string]bool)}
	for _, opt := range opts {
		opt(s)
	}
	s.width, s.height = pdf.GetPageSize()

	pdf.AddPage()
	s.applyLetterhead()
	return s
}

func (s *Surface) applyLetterhead() {
	if s.letterhead == "" {
		return
	}
	if s.letterheadTpl == 0 {
		s.letterheadTpl = gofpdi.ImportPage(s.pdf, s.letterhead, 1, "/MediaBox")
	}
	gofpdi.UseImportedTemplate(s.pdf, s.letterheadTpl, 0, 0, s.width, s.height)
}

// SetInfo sets the document metadata.
func (s *Surface) SetInfo(title, author, subject string) {
	s.pdf.SetTitle(title, true)
	s.pdf.SetAuthor(author, true)
	s.pdf.SetSubject(subject, true)
}

// PageSize reports the page dimensions in points.
func (s *Surface) PageSize() (w, h float64) {
	return s.width, s.height
}

// SetFillColor sets the color used for filled rectangles and text.
func (s *Surface) SetFillColor(c layout.Color) {
	s.pdf.SetFillColor(c.R, c.G, c.B)
	s.pdf.SetTextColor(c.R, c.G, c.B)
}

// SetStrokeColor sets the color used for rectangle outlines.
func (s *Surface) SetStrokeColor(c layout.Color) {
	s.pdf.SetDrawColor(c.R, c.G, c.B)
}

// Rect draws a rectangle whose lower-left corner is (x, y).
func (s *Surface) Rect(x, y, w, h float64, fill, stroke bool) {
	var style string
	switch {
	case fill && stroke:
		style = "FD"
	case fill:
		style = "F"
	default:
		style = "D"
	}
	s.pdf.Rect(x, s.height-y-h, w, h, style)
}

// Text draws text with its baseline at (x, y) in the current fill color.
func (s *Surface) Text(x, y float64, text string, font layout.Font) {
	s.pdf.SetFont(font.Family, font.Style, font.Size)
	s.pdf.Text(x, s.height-y, text)
}

// MeasureText reports the rendered width of text in points.
func (s *Surface) MeasureText(text string, font layout.Font) (float64, error) {
	s.pdf.SetFont(font.Family, font.Style, font.Size)
	w := s.pdf.GetStringWidth(text)
	if s.pdf.Err() {
		return 0, s.pdf.Error()
	}
	return w, nil
}

// AddPage starts a new page and re-applies the letterhead background.
func (s *Surface) AddPage() {
	s.pdf.AddPage()
	s.applyLetterhead()
}

// LinkURL registers a clickable region with lower-left corner (x, y).
func (s *Surface) LinkURL(url string, x, y, w, h float64) {
	s.pdf.LinkString(x, s.height-y-h, w, h, url)
}

// Image places img with its lower-left corner at (x, y), scaled to w by h
// points. The name keys the image resource within the document; drawing the
// same name twice reuses the registered data.
func (s *Surface) Image(img image.Image, name string, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if !s.images[name] {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
		s.pdf.RegisterImageOptionsReader(name, opts, &buf)
		s.images[name] = true
	}
	s.pdf.ImageOptions(name, x, s.height-y-h, w, h, false, opts, 0, "")
	if s.pdf.Err() {
		return s.pdf.Error()
	}
	return nil
}

// Err reports any deferred drawing error accumulated by the document.
func (s *Surface) Err() error {
	if s.pdf.Err() {
		return s.pdf.Error()
	}
	return nil
}

// Output writes the finished document to w.
func (s *Surface) Output(w io.Writer) error {
	return s.pdf.Output(w)
}
