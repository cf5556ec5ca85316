// Package report assembles the route risk assessment PDF: a cover page with
// the score summary and verification codes, followed by one table per hazard
// category.
package report

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/ruudk/golang-pdf417"

	"github.com/routerisk/routerisk/layout"
	"github.com/routerisk/routerisk/model"
	"github.com/routerisk/routerisk/pdfsurface"
)

const (
	leftMargin   = 48
	sectionGap   = 24
	contentWidth = 499 // A4 width minus both margins
)

// Builder renders one report document. Not safe for concurrent use.
type Builder struct {
	surf        *pdfsurface.Surface
	sess        *layout.Session
	liveMapBase string
	log         *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLiveMapBase sets the base URL for the clickable map links; hazard rows
// link to <base>/?mlat=<lat>&mlon=<lng>.
func WithLiveMapBase(base string) Option {
	return func(b *Builder) { b.liveMapBase = base }
}

// WithLogger sets the logger used for progress reporting.
func WithLogger(log *slog.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// New creates a builder writing onto surf.
func New(surf *pdfsurface.Surface, opts ...Option) *Builder {
	b := &Builder{
		surf:        surf,
		sess:        layout.NewSession(surf, layout.A4()),
		liveMapBase: "https://www.openstreetmap.org",
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders the full report for one analyzed route. The optional strip
// is the stitched map imagery for the route overview.
func (b *Builder) Build(route *model.Route, a *model.Analysis, strip image.Image) error {
	b.surf.SetInfo(
		fmt.Sprintf("Route Risk Assessment - %s", route.Name),
		"routerisk",
		fmt.Sprintf("%s to %s", route.FromCode, route.ToCode),
	)

	y, err := b.cover(route)
	if err != nil {
		return err
	}
	if strip != nil {
		y = b.mapStrip(strip, y)
	}

	sections := []struct {
		name string
		run  func(float64) (float64, error)
	}{
		{"sharp turns", func(y float64) (float64, error) { return b.sharpTurns(a.SharpTurns, y) }},
		{"blind spots", func(y float64) (float64, error) { return b.blindSpots(a.BlindSpots, y) }},
		{"accident prone areas", func(y float64) (float64, error) { return b.accidentAreas(a.AccidentAreas, y) }},
		{"road conditions", func(y float64) (float64, error) { return b.roadConditions(a.RoadConditions, y) }},
		{"dead zones", func(y float64) (float64, error) { return b.deadZones(a.Network, y) }},
		{"weather", func(y float64) (float64, error) { return b.weather(a.Weather, y) }},
		{"traffic", func(y float64) (float64, error) { return b.traffic(a.Traffic, y) }},
		{"eco sensitive zones", func(y float64) (float64, error) { return b.ecoZones(a.EcoZones, y) }},
		{"emergency services", func(y float64) (float64, error) { return b.emergencyServices(a.EmergencyServices, y) }},
		{"compliance checklist", b.complianceChecklist},
		{"emergency contacts", b.emergencyContacts},
	}
	for _, sec := range sections {
		b.sess.Advance(sectionGap)
		if _, err := sec.run(b.sess.Cursor().Y); err != nil {
			return fmt.Errorf("report: %s: %w", sec.name, err)
		}
	}

	if err := b.surf.Err(); err != nil {
		return fmt.Errorf("report: drawing: %w", err)
	}
	b.log.Info("report rendered", "route", route.ID, "pages", b.sess.Cursor().Page)
	return nil
}

func (b *Builder) cover(route *model.Route) (float64, error) {
	geom := b.sess.Geometry()
	y := geom.TopY()

	title := layout.Font{Family: "Helvetica", Style: "B", Size: 18}
	y = b.sess.WriteText("Route Risk Assessment", leftMargin, contentWidth, title, layout.Color{R: 30, G: 30, B: 30})
	sub := layout.Font{Family: "Helvetica", Size: 11}
	y = b.sess.WriteText(route.Name, leftMargin, contentWidth, sub, layout.Color{R: 90, G: 90, B: 90})
	y -= sectionGap

	meta := &layout.TableSpec{
		Title:   "Route Details",
		Headers: []string{"Field", "Value"},
		Widths:  []float64{140, 359},
		Rows: []layout.Row{
			layout.TextRow("Customer", route.CustomerName),
			layout.TextRow("From", fmt.Sprintf("%s  %s", route.FromCode, route.FromAddress)),
			layout.TextRow("To", fmt.Sprintf("%s  %s", route.ToCode, route.ToAddress)),
			layout.TextRow("Location", route.Location),
			{layout.Text("Distance"), layout.Numeric(fmt.Sprintf("%.1f km", route.TotalKm))},
			{layout.Text("Duration"), layout.Numeric(fmt.Sprintf("%.0f min", route.DurationMin))},
			layout.TextRow("Terrain", route.Terrain),
		},
	}
	y, err := b.sess.RenderTable(meta, leftMargin, y)
	if err != nil {
		return 0, fmt.Errorf("report: route details: %w", err)
	}
	y -= sectionGap

	risk := &layout.TableSpec{
		Title:   fmt.Sprintf("Risk Summary  -  %s", route.Risk.Level),
		Headers: []string{"Category", "Score (0-10)"},
		Widths:  []float64{339, 160},
		Rows: []layout.Row{
			{layout.Text("Sharp turns"), layout.Numeric(score(route.Risk.SharpTurns))},
			{layout.Text("Blind spots"), layout.Numeric(score(route.Risk.BlindSpots))},
			{layout.Text("Accident prone areas"), layout.Numeric(score(route.Risk.AccidentProne))},
			{layout.Text("Road conditions"), layout.Numeric(score(route.Risk.RoadConditions))},
			{layout.Text("Emergency coverage"), layout.Numeric(score(route.Risk.EmergencyServices))},
			{layout.Text("Network coverage"), layout.Numeric(score(route.Risk.NetworkCoverage))},
			{layout.Text("Overall"), layout.Numeric(score(route.Risk.Overall))},
		},
	}
	y, err = b.sess.RenderTable(risk, leftMargin, y)
	if err != nil {
		return 0, fmt.Errorf("report: risk summary: %w", err)
	}

	return b.verificationCodes(route, y-sectionGap)
}

// verificationCodes draws a QR code linking to the live route map and a
// PDF417 manifest encoding the scored result, so a printed copy can be
// checked against the stored record.
func (b *Builder) verificationCodes(route *model.Route, y float64) (float64, error) {
	geom := b.sess.Geometry()
	if y-72 < geom.BottomMargin {
		// Codes stay on the cover; skip rather than spill onto page two.
		return y, nil
	}

	qrCode, err := qr.Encode(b.mapLink(firstPoint(route)), qr.M, qr.Auto)
	if err != nil {
		return y, fmt.Errorf("report: qr: %w", err)
	}
	qrCode, err = barcode.Scale(qrCode, 192, 192)
	if err != nil {
		return y, fmt.Errorf("report: qr scale: %w", err)
	}
	if err := b.surf.Image(qrCode, "qr-"+route.ID, leftMargin, y-72, 72, 72); err != nil {
		return y, fmt.Errorf("report: qr image: %w", err)
	}

	manifest := fmt.Sprintf("RRA1|%s|%s|%s|%.1f",
		route.ID, route.Name, route.Risk.Level, route.Risk.Overall)
	code417 := pdf417.Encode(manifest, 4, 2)
	if err := b.surf.Image(code417, "manifest-"+route.ID, leftMargin+96, y-72, 180, 60); err != nil {
		return y, fmt.Errorf("report: manifest image: %w", err)
	}

	y -= 72
	b.sess.SetY(y)
	return y, nil
}

func (b *Builder) mapStrip(strip image.Image, y float64) float64 {
	bounds := strip.Bounds()
	if bounds.Dx() == 0 {
		return y
	}
	h := contentWidth * float64(bounds.Dy()) / float64(bounds.Dx())
	geom := b.sess.Geometry()

	y -= sectionGap
	if y-h < geom.BottomMargin {
		b.sess.BreakPage()
		y = geom.TopY()
	}
	if err := b.surf.Image(strip, "route-map", leftMargin, y-h, contentWidth, h); err != nil {
		b.log.Warn("map strip dropped", "err", err)
		return y
	}
	b.sess.SetY(y - h)
	return y - h
}

func (b *Builder) sharpTurns(turns []model.SharpTurn, y float64) (float64, error) {
	if len(turns) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(turns))
	for _, t := range turns {
		rows = append(rows, layout.Row{
			layout.Numeric(km(t.DistanceKm)),
			layout.Numeric(fmt.Sprintf("%.0f°", t.AngleDeg)),
			layout.Text(t.Direction),
			layout.Text(t.Severity),
			layout.Numeric(fmt.Sprintf("%d km/h", t.SafeSpeedKmh)),
			layout.Link{Label: "map", URL: b.mapLinkAt(t.Latitude, t.Longitude)},
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   fmt.Sprintf("Sharp Turns (%d)", len(turns)),
		Headers: []string{"At", "Angle", "Dir", "Severity", "Max Speed", "Map"},
		Widths:  []float64{70, 70, 70, 110, 110, 69},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) blindSpots(spots []model.BlindSpot, y float64) (float64, error) {
	if len(spots) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(spots))
	for _, s := range spots {
		rows = append(rows, layout.Row{
			layout.Numeric(km(s.DistanceKm)),
			layout.Text(s.SpotType),
			layout.Numeric(fmt.Sprintf("%d m", s.VisibilityM)),
			layout.Text(s.DriverAction),
			layout.Link{Label: "map", URL: b.mapLinkAt(s.Latitude, s.Longitude)},
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   fmt.Sprintf("Blind Spots (%d)", len(spots)),
		Headers: []string{"At", "Type", "Visibility", "Driver Action", "Map"},
		Widths:  []float64{70, 90, 80, 190, 69},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) accidentAreas(areas []model.AccidentProneArea, y float64) (float64, error) {
	if len(areas) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(areas))
	for _, a := range areas {
		rows = append(rows, layout.Row{
			layout.Numeric(km(a.DistanceKm)),
			layout.CellOf(a.RiskScore),
			layout.Text(a.Reason),
			layout.Link{Label: "map", URL: b.mapLinkAt(a.Latitude, a.Longitude)},
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   "Accident Prone Areas",
		Headers: []string{"At", "Risk", "Reason", "Map"},
		Widths:  []float64{70, 60, 300, 69},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) roadConditions(conds []model.RoadCondition, y float64) (float64, error) {
	if len(conds) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(conds))
	for _, c := range conds {
		rows = append(rows, layout.Row{
			layout.Numeric(fmt.Sprintf("%s - %s", km(c.FromKm), km(c.ToKm))),
			layout.Text(c.Surface),
			layout.Text(c.Quality),
			layout.CellOf(c.RiskScore),
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   "Road Conditions",
		Headers: []string{"Segment", "Surface", "Quality", "Risk"},
		Widths:  []float64{160, 140, 120, 79},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) deadZones(points []model.NetworkPoint, y float64) (float64, error) {
	var rows []layout.Row
	for _, p := range points {
		if !p.IsDeadZone {
			continue
		}
		rows = append(rows, layout.Row{
			layout.Numeric(km(p.DistanceKm)),
			layout.Numeric(fmt.Sprintf("%d/10", p.SignalStrength)),
			layout.Text(p.SignalCategory),
			layout.Text(p.CommRisk),
		})
	}
	if len(rows) == 0 {
		return y, nil
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   fmt.Sprintf("Communication Dead Zones (%d)", len(rows)),
		Headers: []string{"At", "Signal", "Category", "Risk"},
		Widths:  []float64{80, 80, 170, 169},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) weather(conds []model.WeatherCondition, y float64) (float64, error) {
	if len(conds) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(conds))
	for _, w := range conds {
		rows = append(rows, layout.Row{
			layout.Numeric(km(w.DistanceKm)),
			layout.Text(w.Condition),
			layout.Numeric(fmt.Sprintf("%.0f C", w.TempC)),
			layout.Numeric(fmt.Sprintf("%.0f km", w.VisibilityKm)),
			layout.Numeric(fmt.Sprintf("%.0f km/h", w.WindKmh)),
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   "Weather Along Route",
		Headers: []string{"At", "Condition", "Temp", "Visibility", "Wind"},
		Widths:  []float64{70, 189, 80, 80, 80},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) traffic(points []model.TrafficPoint, y float64) (float64, error) {
	if len(points) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, layout.Row{
			layout.Numeric(km(p.DistanceKm)),
			layout.Text(p.Congestion),
			layout.Numeric(fmt.Sprintf("%.0f km/h", p.AvgSpeedKmh)),
			layout.Numeric(fmt.Sprintf("%.0f min", p.DelayMin)),
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   "Traffic",
		Headers: []string{"At", "Congestion", "Avg Speed", "Delay"},
		Widths:  []float64{80, 219, 100, 100},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) ecoZones(zones []model.EcoSensitiveZone, y float64) (float64, error) {
	if len(zones) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(zones))
	for _, z := range zones {
		rows = append(rows, layout.Row{
			layout.Text(z.Name),
			layout.Text(z.ZoneType),
			layout.Numeric(fmt.Sprintf("%s - %s", km(z.FromKm), km(z.ToKm))),
			layout.Text(z.Restrictions),
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   "Eco Sensitive Zones",
		Headers: []string{"Name", "Type", "Segment", "Restrictions"},
		Widths:  []float64{130, 90, 110, 169},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) emergencyServices(services []model.EmergencyService, y float64) (float64, error) {
	if len(services) == 0 {
		return y, nil
	}
	rows := make([]layout.Row, 0, len(services))
	for _, s := range services {
		rows = append(rows, layout.Row{
			layout.Text(s.ServiceType),
			layout.Text(s.Name),
			layout.Numeric(s.Phone),
			layout.Numeric(km(s.FromRouteKm)),
			layout.Numeric(fmt.Sprintf("%d min", s.ResponseTimeMin)),
			layout.Link{Label: "map", URL: b.mapLinkAt(s.Latitude, s.Longitude)},
		})
	}
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   fmt.Sprintf("Emergency Services (%d)", len(services)),
		Headers: []string{"Type", "Name", "Phone", "Off Route", "Response", "Map"},
		Widths:  []float64{80, 140, 70, 70, 70, 69},
		Rows:    rows,
	}, leftMargin, y)
}

func (b *Builder) complianceChecklist(y float64) (float64, error) {
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   "Driver Compliance Checklist",
		Headers: []string{"Item", "Requirement"},
		Widths:  []float64{200, 299},
		Rows: []layout.Row{
			layout.TextRow("Driving license", "Valid, correct vehicle class"),
			layout.TextRow("Vehicle fitness certificate", "Current, carried in cabin"),
			layout.TextRow("First aid kit", "Stocked and sealed"),
			layout.TextRow("Rest stops", "Mandatory break every 3 hours"),
			layout.TextRow("Route briefing", "This assessment reviewed before departure"),
			layout.TextRow("Communication check", "Phone charged; dead zones noted above"),
		},
	}, leftMargin, y)
}

func (b *Builder) emergencyContacts(y float64) (float64, error) {
	return b.sess.RenderTable(&layout.TableSpec{
		Title:   "Emergency Contact Numbers",
		Headers: []string{"Service", "Number"},
		Widths:  []float64{339, 160},
		Rows: []layout.Row{
			{layout.Text("Police"), layout.Numeric("100")},
			{layout.Text("Ambulance"), layout.Numeric("108")},
			{layout.Text("Fire"), layout.Numeric("101")},
			{layout.Text("Highway Patrol"), layout.Numeric("1033")},
		},
	}, leftMargin, y)
}

func (b *Builder) mapLinkAt(lat, lng float64) string {
	return fmt.Sprintf("%s/?mlat=%.5f&mlon=%.5f", b.liveMapBase, lat, lng)
}

func (b *Builder) mapLink(c model.Coordinate) string {
	return b.mapLinkAt(c.Latitude, c.Longitude)
}

func firstPoint(route *model.Route) model.Coordinate {
	if len(route.Points) > 0 {
		return route.Points[0]
	}
	return model.Coordinate{}
}

func km(v float64) string    { return fmt.Sprintf("%.1f km", v) }
func score(v float64) string { return fmt.Sprintf("%.1f", v) }
