package risk_test

import (
	"math"
	"strings"
	"testing"

	"github.com/routerisk/routerisk/model"
	"github.com/routerisk/routerisk/risk"
)

func pt(lat, lng float64) model.Coordinate {
	return model.Coordinate{Latitude: lat, Longitude: lng}
}

func TestDistanceEquatorDegree(t *testing.T) {
	// One degree of longitude on the equator is about 111.19 km.
	d := risk.Distance(pt(0, 0), pt(0, 1))
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("Distance = %v km, want ~111.19", d)
	}
	if risk.Distance(pt(17.4, 78.5), pt(17.4, 78.5)) != 0 {
		t.Error("distance to self not zero")
	}
}

func TestBearingCardinal(t *testing.T) {
	cases := []struct {
		from, to model.Coordinate
		want     float64
	}{
		{pt(0, 0), pt(1, 0), 0},
		{pt(0, 0), pt(0, 1), 90},
		{pt(1, 0), pt(0, 0), 180},
		{pt(0, 1), pt(0, 0), 270},
	}
	for _, c := range cases {
		got := risk.Bearing(c.from, c.to)
		if math.Abs(got-c.want) > 0.5 {
			t.Errorf("Bearing(%v, %v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAnalyzeSharpTurnsRightAngle(t *testing.T) {
	// North then due east: a 90 degree right turn.
	points := []model.Coordinate{pt(0, 0), pt(0.01, 0), pt(0.01, 0.01)}
	turns := risk.AnalyzeSharpTurns(points)
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	turn := turns[0]
	if math.Abs(turn.AngleDeg-90) > 1 {
		t.Errorf("angle = %v, want ~90", turn.AngleDeg)
	}
	if turn.Direction != "right" {
		t.Errorf("direction = %q, want right", turn.Direction)
	}
	if turn.RiskScore != 7 || turn.SafeSpeedKmh != 30 {
		t.Errorf("grade = %d/%d km/h, want 7/30", turn.RiskScore, turn.SafeSpeedKmh)
	}
	if turn.Severity != "moderate" {
		t.Errorf("severity = %q, want moderate", turn.Severity)
	}
	if !strings.Contains(turn.DriverAction, "30 km/h") {
		t.Errorf("driver action %q does not name the safe speed", turn.DriverAction)
	}
}

func TestAnalyzeSharpTurnsStraightRoad(t *testing.T) {
	points := []model.Coordinate{pt(0, 0), pt(0.01, 0), pt(0.02, 0), pt(0.03, 0)}
	if turns := risk.AnalyzeSharpTurns(points); len(turns) != 0 {
		t.Errorf("straight road produced %d turns", len(turns))
	}
}

func TestTurnSeverityGrades(t *testing.T) {
	cases := map[float64]string{
		130: "extreme",
		100: "high",
		80:  "moderate",
		65:  "low",
	}
	for angle, want := range cases {
		if got := risk.TurnSeverity(angle); got != want {
			t.Errorf("TurnSeverity(%v) = %q, want %q", angle, got, want)
		}
	}
}

func TestIdentifyBlindSpotsSharpCurve(t *testing.T) {
	// Bearing swings from north to east across the lookahead window.
	points := []model.Coordinate{
		pt(0, 0),
		pt(0.010, 0),
		pt(0.020, 0.005),
		pt(0.025, 0.015),
		pt(0.025, 0.025),
	}
	spots := risk.IdentifyBlindSpots(points)
	if len(spots) != 1 {
		t.Fatalf("got %d blind spots, want 1", len(spots))
	}
	spot := spots[0]
	if spot.SpotType != "sharp_curve" {
		t.Errorf("spot type = %q, want sharp_curve", spot.SpotType)
	}
	if spot.VisibilityM != 50 || spot.RiskScore != 8 {
		t.Errorf("visibility/risk = %d/%d, want 50/8", spot.VisibilityM, spot.RiskScore)
	}
	if spot.DriverAction != "Reduce speed and honk before curve" {
		t.Errorf("unexpected driver action %q", spot.DriverAction)
	}
}

func TestIdentifyBlindSpotsStraightRoad(t *testing.T) {
	var points []model.Coordinate
	for i := 0; i < 10; i++ {
		points = append(points, pt(float64(i)*0.01, 0))
	}
	if spots := risk.IdentifyBlindSpots(points); len(spots) != 0 {
		t.Errorf("straight road produced %d blind spots", len(spots))
	}
}

func TestIdentifyAccidentProneClusters(t *testing.T) {
	turns := []model.SharpTurn{
		{DistanceKm: 0.5, RiskScore: 7},
		{DistanceKm: 1.2, RiskScore: 9},
	}
	spots := []model.BlindSpot{
		{DistanceKm: 14.0, RiskScore: 6},
	}
	areas := risk.IdentifyAccidentProne(turns, spots)
	if len(areas) != 1 {
		t.Fatalf("got %d areas, want 1", len(areas))
	}
	if areas[0].RiskScore != 9 {
		t.Errorf("cluster risk = %d, want max hazard score 9", areas[0].RiskScore)
	}
	if !strings.Contains(areas[0].Reason, "2 hazards") {
		t.Errorf("reason %q does not state the cluster size", areas[0].Reason)
	}
}

func TestIdentifyAccidentProneIsolatedHazards(t *testing.T) {
	turns := []model.SharpTurn{{DistanceKm: 1, RiskScore: 7}}
	spots := []model.BlindSpot{{DistanceKm: 20, RiskScore: 6}}
	if areas := risk.IdentifyAccidentProne(turns, spots); len(areas) != 0 {
		t.Errorf("isolated hazards produced %d areas", len(areas))
	}
}

func TestLevelThresholds(t *testing.T) {
	cases := map[float64]string{
		9.0: "CRITICAL",
		8.0: "CRITICAL",
		6.5: "HIGH",
		4.0: "MEDIUM",
		3.9: "LOW",
		0:   "LOW",
	}
	for score, want := range cases {
		if got := risk.Level(score); got != want {
			t.Errorf("Level(%v) = %q, want %q", score, got, want)
		}
	}
}

func TestServiceGap(t *testing.T) {
	if got := risk.ServiceGap(nil); got != 10 {
		t.Errorf("no services = %v, want 10", got)
	}
	near := []model.EmergencyService{{FromRouteKm: 3}, {FromRouteKm: 40}}
	if got := risk.ServiceGap(near); got != 2 {
		t.Errorf("nearest 3 km = %v, want 2", got)
	}
	far := []model.EmergencyService{{FromRouteKm: 60}}
	if got := risk.ServiceGap(far); got != 9 {
		t.Errorf("nearest 60 km = %v, want 9", got)
	}
}

func TestScoreRouteEmptyAnalysis(t *testing.T) {
	scores := risk.ScoreRoute(&model.Analysis{})
	// Only the emergency-service gap contributes: 10 * 0.10.
	if scores.Overall != 1.0 {
		t.Errorf("overall = %v, want 1.0", scores.Overall)
	}
	if scores.Level != "LOW" {
		t.Errorf("level = %q, want LOW", scores.Level)
	}
}

func TestScoreRouteWeighted(t *testing.T) {
	a := &model.Analysis{
		SharpTurns:        []model.SharpTurn{{RiskScore: 8}},
		BlindSpots:        []model.BlindSpot{{RiskScore: 6}},
		AccidentAreas:     []model.AccidentProneArea{{RiskScore: 8}},
		RoadConditions:    []model.RoadCondition{{RiskScore: 4}},
		EmergencyServices: []model.EmergencyService{{FromRouteKm: 3}},
		Network: []model.NetworkPoint{
			{IsDeadZone: true}, {IsDeadZone: false},
		},
	}
	scores := risk.ScoreRoute(a)
	// 8*.25 + 6*.20 + 8*.20 + 4*.15 + 2*.10 + 5*.10 = 6.1
	if scores.Overall != 6.1 {
		t.Errorf("overall = %v, want 6.1", scores.Overall)
	}
	if scores.Level != "HIGH" {
		t.Errorf("level = %q, want HIGH", scores.Level)
	}
}
