package pdfsurface_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/routerisk/routerisk/layout"
	"github.com/routerisk/routerisk/pdfsurface"
)

func TestMeasureText(t *testing.T) {
	surf := pdfsurface.New()
	font := layout.Font{Family: "Helvetica", Size: 10}

	w, err := surf.MeasureText("route", font)
	require.NoError(t, err)
	require.Greater(t, w, 0.0)

	wide, err := surf.MeasureText("route risk assessment", font)
	require.NoError(t, err)
	require.Greater(t, wide, w)
}

func TestRenderedDocumentOutput(t *testing.T) {
	surf := pdfsurface.New()
	surf.SetInfo("Route Risk Assessment", "routerisk", "unit test")
	_, h := surf.PageSize()

	sess := layout.NewSession(surf, layout.A4())
	spec := &layout.TableSpec{
		Title:   "Emergency Services",
		Headers: []string{"Type", "Name", "Phone", "Map"},
		Widths:  []float64{90, 200, 90, 119},
		Rows: []layout.Row{
			{layout.Text("hospital"), layout.Text("District General"), layout.Numeric("108"),
				layout.Link{Label: "view", URL: "https://www.openstreetmap.org/?mlat=17.4&mlon=78.5"}},
		},
	}
	finalY, err := sess.RenderTable(spec, 48, h-80)
	require.NoError(t, err)
	require.Less(t, finalY, h-80)
	require.NoError(t, surf.Err())

	var buf bytes.Buffer
	require.NoError(t, surf.Output(&buf))
	require.NotZero(t, buf.Len())
}

func TestImagePlacement(t *testing.T) {
	surf := pdfsurface.New()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(2, 2, color.Black)

	require.NoError(t, surf.Image(img, "marker", 100, 600, 32, 32))
	// Same name again must reuse the registered resource.
	require.NoError(t, surf.Image(img, "marker", 200, 600, 32, 32))

	var buf bytes.Buffer
	require.NoError(t, surf.Output(&buf))
	require.NotZero(t, buf.Len())
}
