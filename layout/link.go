package layout

// Baseline placement within a line box. Helvetica-class faces put roughly
// 80% of the em above the baseline.
const (
	ascentRatio  = 0.8
	descentRatio = 0.2
)

// registerLink computes the clickable hot-zone for a rendered piece of link
// text and registers it with the surface.
//
// The rectangle covers the actual rendered bounding box of the label - x
// origin, measured width, ascent above and descent below the baseline - not
// the enclosing cell, so clicking elsewhere in the cell does nothing. A link
// always lives inside a single row, and rows never split across pages, so
// one registration per render is sufficient.
func registerLink(surf Surface, url string, x, baseline, width float64, font Font) {
	if url == "" || width <= 0 {
		return
	}
	surf.LinkURL(url, x, baseline-descentRatio*font.Size, width, font.Size)
}
