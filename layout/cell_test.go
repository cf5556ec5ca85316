package layout_test

import (
	"testing"

	"github.com/routerisk/routerisk/layout"
)

func TestCellOf(t *testing.T) {
	link := layout.Link{Label: "view", URL: "https://maps.example/42"}
	cases := []struct {
		in   any
		want layout.Cell
	}{
		{"plain", layout.Text("plain")},
		{7, layout.Numeric("7")},
		{int64(-3), layout.Numeric("-3")},
		{2.5, layout.Numeric("2.5")},
		{float32(1.5), layout.Numeric("1.5")},
		{nil, layout.Text("")},
		{link, link},
		{layout.Numeric("already"), layout.Numeric("already")},
		{true, layout.Text("true")},
	}
	for _, tc := range cases {
		if got := layout.CellOf(tc.in); got != tc.want {
			t.Errorf("CellOf(%v) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestCellOfRendersInTable(t *testing.T) {
	surf := newRecordingSurface()
	sess := layout.NewSession(surf, tallGeom())

	spec := &layout.TableSpec{
		Headers: []string{"Metric", "Score"},
		Widths:  []float64{100, 100},
		Rows:    []layout.Row{{layout.CellOf("overall"), layout.CellOf(9)}},
	}
	if _, err := sess.RenderTable(spec, 40, 700); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := len(surf.textOps("9")); got != 1 {
		t.Errorf("coerced numeric drawn %d times, want 1", got)
	}
	// Coerced numbers are Numeric cells and center like one.
	if num := surf.textOps("9"); len(num) == 1 && num[0].x < 160 {
		t.Errorf("coerced numeric drawn at x=%v, want centered in column", num[0].x)
	}
}
