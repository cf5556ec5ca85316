// Package risk derives hazard data from raw route geometry: sharp turns,
// blind spots, accident-prone clusters, and the aggregate route score.
package risk

import (
	"fmt"
	"math"

	"github.com/routerisk/routerisk/model"
)

const (
	earthRadiusKm = 6371

	// Turns sharper than this count as sharp turns.
	SharpTurnThresholdDeg = 60

	// Bearing change across a lookahead window that marks a blind spot.
	blindCurveDeg      = 30
	blindSharpCurveDeg = 60
	blindWindow        = 5
)

// Distance returns the great-circle distance in kilometers between two
// coordinates.
func Distance(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial bearing in degrees, normalized to [0, 360),
// travelling from a to b.
func Bearing(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// TurnSeverity maps a turn angle to the label used in reports.
func TurnSeverity(angle float64) string {
	switch {
	case angle > 120:
		return "extreme"
	case angle > 90:
		return "high"
	case angle > 75:
		return "moderate"
	default:
		return "low"
	}
}

func gradeTurn(angle float64) (score, speedKmh int) {
	switch {
	case angle > 120:
		return 9, 20
	case angle > 90:
		return 8, 25
	case angle > 75:
		return 7, 30
	default:
		return 5, 40
	}
}

// AnalyzeSharpTurns walks consecutive point triples and reports every turn
// whose bearing change exceeds SharpTurnThresholdDeg.
func AnalyzeSharpTurns(points []model.Coordinate) []model.SharpTurn {
	var turns []model.SharpTurn
	travelled := 0.0
	for i := 1; i < len(points)-1; i++ {
		travelled += Distance(points[i-1], points[i])

		b1 := Bearing(points[i-1], points[i])
		b2 := Bearing(points[i], points[i+1])
		angle := math.Abs(b2 - b1)
		if angle > 180 {
			angle = 360 - angle
		}
		if angle <= SharpTurnThresholdDeg {
			continue
		}

		direction := "left"
		if b2 > b1 {
			direction = "right"
		}
		score, speed := gradeTurn(angle)
		turns = append(turns, model.SharpTurn{
			Latitude:     points[i].Latitude,
			Longitude:    points[i].Longitude,
			AngleDeg:     math.Round(angle*10) / 10,
			Direction:    direction,
			Severity:     TurnSeverity(angle),
			RiskScore:    score,
			DistanceKm:   math.Round(travelled*100) / 100,
			SafeSpeedKmh: speed,
			DriverAction: fmt.Sprintf("Reduce speed to %d km/h for sharp %s turn", speed, direction),
		})
	}
	return turns
}

// IdentifyBlindSpots scans a lookahead window of points for sustained bearing
// change, which on ground level means the driver cannot see through the curve.
func IdentifyBlindSpots(points []model.Coordinate) []model.BlindSpot {
	var spots []model.BlindSpot
	travelled := 0.0
	for i := 0; i+blindWindow <= len(points); i++ {
		if i > 0 {
			travelled += Distance(points[i-1], points[i])
		}

		first := Bearing(points[i], points[i+1])
		last := Bearing(points[i+blindWindow-2], points[i+blindWindow-1])
		change := math.Abs(last - first)
		if change > 180 {
			change = 360 - change
		}
		if change <= blindCurveDeg {
			continue
		}

		spot := model.BlindSpot{
			Latitude:     points[i].Latitude,
			Longitude:    points[i].Longitude,
			SpotType:     "curve",
			VisibilityM:  100,
			RiskScore:    6,
			DistanceKm:   math.Round(travelled*100) / 100,
			DriverAction: "Reduce speed and honk before curve",
		}
		if change > blindSharpCurveDeg {
			spot.SpotType = "sharp_curve"
			spot.VisibilityM = 50
			spot.RiskScore = 8
		}
		spots = append(spots, spot)

		// Skip past the window so one long curve yields one spot.
		i += blindWindow - 1
	}
	return spots
}

// IdentifyAccidentProne clusters sharp turns and blind spots that fall within
// one kilometer of each other; two or more hazards in a cluster mark the
// stretch as accident prone.
func IdentifyAccidentProne(turns []model.SharpTurn, spots []model.BlindSpot) []model.AccidentProneArea {
	type hazard struct {
		lat, lng, km float64
		score        int
	}
	var hazards []hazard
	for _, t := range turns {
		hazards = append(hazards, hazard{t.Latitude, t.Longitude, t.DistanceKm, t.RiskScore})
	}
	for _, s := range spots {
		hazards = append(hazards, hazard{s.Latitude, s.Longitude, s.DistanceKm, s.RiskScore})
	}
	if len(hazards) < 2 {
		return nil
	}

	var areas []model.AccidentProneArea
	used := make([]bool, len(hazards))
	for i := range hazards {
		if used[i] {
			continue
		}
		cluster := []int{i}
		for j := i + 1; j < len(hazards); j++ {
			if !used[j] && math.Abs(hazards[j].km-hazards[i].km) <= 1.0 {
				cluster = append(cluster, j)
			}
		}
		if len(cluster) < 2 {
			continue
		}
		maxScore := 0
		for _, idx := range cluster {
			used[idx] = true
			if hazards[idx].score > maxScore {
				maxScore = hazards[idx].score
			}
		}
		areas = append(areas, model.AccidentProneArea{
			Latitude:   hazards[i].lat,
			Longitude:  hazards[i].lng,
			DistanceKm: hazards[i].km,
			RiskScore:  maxScore,
			Reason:     fmt.Sprintf("%d hazards within 1 km", len(cluster)),
		})
	}
	return areas
}

// Level maps an overall score to the grade printed on reports.
func Level(score float64) string {
	switch {
	case score >= 8:
		return "CRITICAL"
	case score >= 6:
		return "HIGH"
	case score >= 4:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func meanTurnScore(turns []model.SharpTurn) float64 {
	if len(turns) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range turns {
		sum += float64(t.RiskScore)
	}
	return sum / float64(len(turns))
}

func meanSpotScore(spots []model.BlindSpot) float64 {
	if len(spots) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range spots {
		sum += float64(s.RiskScore)
	}
	return sum / float64(len(spots))
}

func meanAreaScore(areas []model.AccidentProneArea) float64 {
	if len(areas) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range areas {
		sum += float64(a.RiskScore)
	}
	return sum / float64(len(areas))
}

func networkScore(points []model.NetworkPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	dead := 0
	for _, p := range points {
		if p.IsDeadZone {
			dead++
		}
	}
	return 10 * float64(dead) / float64(len(points))
}

func roadScore(conds []model.RoadCondition) float64 {
	if len(conds) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range conds {
		sum += float64(c.RiskScore)
	}
	return sum / float64(len(conds))
}

// ServiceGap scores emergency coverage: the farther the nearest services sit
// from the route, the higher the risk.
func ServiceGap(services []model.EmergencyService) float64 {
	if len(services) == 0 {
		return 10
	}
	nearest := math.Inf(1)
	for _, s := range services {
		if s.FromRouteKm < nearest {
			nearest = s.FromRouteKm
		}
	}
	switch {
	case nearest > 50:
		return 9
	case nearest > 25:
		return 7
	case nearest > 10:
		return 5
	default:
		return 2
	}
}

// ScoreRoute aggregates per-category scores into the overall weighted risk
// for one analyzed route. Weights favor geometry hazards over ambient ones.
func ScoreRoute(a *model.Analysis) model.RiskScores {
	scores := model.RiskScores{
		SharpTurns:        round1(meanTurnScore(a.SharpTurns)),
		BlindSpots:        round1(meanSpotScore(a.BlindSpots)),
		AccidentProne:     round1(meanAreaScore(a.AccidentAreas)),
		RoadConditions:    round1(roadScore(a.RoadConditions)),
		EmergencyServices: round1(ServiceGap(a.EmergencyServices)),
		NetworkCoverage:   round1(networkScore(a.Network)),
	}
	overall := scores.SharpTurns*0.25 +
		scores.BlindSpots*0.20 +
		scores.AccidentProne*0.20 +
		scores.RoadConditions*0.15 +
		scores.EmergencyServices*0.10 +
		scores.NetworkCoverage*0.10
	scores.Overall = round1(overall)
	scores.Level = Level(scores.Overall)
	return scores
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
