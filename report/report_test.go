package report_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/routerisk/routerisk/model"
	"github.com/routerisk/routerisk/pdfsurface"
	"github.com/routerisk/routerisk/report"
)

func sampleRoute() *model.Route {
	return &model.Route{
		ID:           "64f1c2d3e4a5b6c7d8e9f0a1",
		Name:         "HYD-VJA",
		FromCode:     "HYD1",
		ToCode:       "VJA2",
		FromAddress:  "Hyderabad plant",
		ToAddress:    "Vijayawada depot",
		CustomerName: "Coastal Steel",
		Location:     "Telangana",
		TotalKm:      271.4,
		DurationMin:  335,
		Terrain:      "rural plains",
		Points: []model.Coordinate{
			{Latitude: 17.385, Longitude: 78.4867, StepID: 1},
			{Latitude: 16.5062, Longitude: 80.648, StepID: 2},
		},
		Risk: model.RiskScores{
			SharpTurns: 7.2, BlindSpots: 6.0, AccidentProne: 8.0,
			RoadConditions: 4.0, EmergencyServices: 2.0, NetworkCoverage: 5.0,
			Overall: 6.1, Level: "HIGH",
		},
	}
}

func sampleAnalysis(routeID string) *model.Analysis {
	a := &model.Analysis{RouteID: routeID}
	for i := 0; i < 30; i++ {
		a.SharpTurns = append(a.SharpTurns, model.SharpTurn{
			Latitude: 17.3 + float64(i)*0.01, Longitude: 78.5,
			AngleDeg: 95, Direction: "right", Severity: "high",
			RiskScore: 8, DistanceKm: float64(i) * 8.5, SafeSpeedKmh: 25,
			DriverAction: "Reduce speed to 25 km/h for sharp right turn",
		})
	}
	a.BlindSpots = []model.BlindSpot{
		{Latitude: 17.1, Longitude: 78.9, SpotType: "sharp_curve", VisibilityM: 50,
			RiskScore: 8, DistanceKm: 42.3, DriverAction: "Reduce speed and honk before curve"},
	}
	a.AccidentAreas = []model.AccidentProneArea{
		{Latitude: 17.0, Longitude: 79.0, DistanceKm: 55, RiskScore: 9, Reason: "3 hazards within 1 km"},
	}
	a.EmergencyServices = []model.EmergencyService{
		{ServiceType: "hospital", Name: "District General Hospital", Phone: "108",
			Latitude: 16.9, Longitude: 79.2, FromRouteKm: 3.1, ResponseTimeMin: 12},
		{ServiceType: "police", Name: "Highway Outpost 7", Phone: "100",
			Latitude: 16.8, Longitude: 79.4, FromRouteKm: 0.4, ResponseTimeMin: 8},
	}
	a.RoadConditions = []model.RoadCondition{
		{FromKm: 0, ToKm: 120, Surface: "asphalt", Quality: "good", RiskScore: 2},
		{FromKm: 120, ToKm: 180, Surface: "gravel", Quality: "poor", RiskScore: 6},
	}
	a.Network = []model.NetworkPoint{
		{DistanceKm: 140, SignalStrength: 1, SignalCategory: "no_signal", IsDeadZone: true, CommRisk: "high"},
		{DistanceKm: 200, SignalStrength: 8, SignalCategory: "good", CommRisk: "low"},
	}
	a.Weather = []model.WeatherCondition{
		{DistanceKm: 0, Condition: "clear", TempC: 31, VisibilityKm: 10, WindKmh: 12},
	}
	a.Traffic = []model.TrafficPoint{
		{DistanceKm: 10, Congestion: "heavy", AvgSpeedKmh: 18, DelayMin: 22},
	}
	a.EcoZones = []model.EcoSensitiveZone{
		{Name: "Krishna wetlands", ZoneType: "wetland", FromKm: 230, ToKm: 245,
			Restrictions: "No honking, 40 km/h limit"},
	}
	return a
}

func stripImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 512, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 512; x++ {
			img.Set(x, y, color.RGBA{R: 220, G: 230, B: 220, A: 255})
		}
	}
	return img
}

func TestBuildFullReport(t *testing.T) {
	surf := pdfsurface.New()
	b := report.New(surf, report.WithLiveMapBase("https://www.openstreetmap.org"))

	route := sampleRoute()
	err := b.Build(route, sampleAnalysis(route.ID), stripImage())
	require.NoError(t, err)
	require.NoError(t, surf.Err())

	var buf bytes.Buffer
	require.NoError(t, surf.Output(&buf))
	require.NotZero(t, buf.Len())
}

func TestBuildEmptyAnalysis(t *testing.T) {
	surf := pdfsurface.New()
	b := report.New(surf)

	route := sampleRoute()
	err := b.Build(route, &model.Analysis{RouteID: route.ID}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, surf.Output(&buf))
	require.NotZero(t, buf.Len())
}

func TestBuildGrowsWithContent(t *testing.T) {
	small := renderedSize(t, &model.Analysis{})
	big := renderedSize(t, sampleAnalysis(""))
	require.Greater(t, big, small, "more hazards must produce a larger document")
}

func renderedSize(t *testing.T, a *model.Analysis) int {
	t.Helper()
	surf := pdfsurface.New()
	route := sampleRoute()
	require.NoError(t, report.New(surf).Build(route, a, nil))
	var buf bytes.Buffer
	require.NoError(t, surf.Output(&buf))
	return buf.Len()
}

func TestBuildManyRoutesDistinctImages(t *testing.T) {
	// Image resources are keyed per route so two reports on one surface do
	// not collide.
	surf := pdfsurface.New()
	for i := 0; i < 2; i++ {
		route := sampleRoute()
		route.ID = fmt.Sprintf("%024d", i)
		require.NoError(t, report.New(surf).Build(route, &model.Analysis{}, nil))
		surf.AddPage()
	}
	var buf bytes.Buffer
	require.NoError(t, surf.Output(&buf))
	require.NotZero(t, buf.Len())
}
