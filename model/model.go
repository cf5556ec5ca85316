// Package model defines the route and route-analysis records the store
// persists and the report renders.
package model

import "time"

// ProcessingStatus tracks a route through import, analysis, and reporting.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Coordinate is one ordered waypoint of a route.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	StepID    int     `json:"stepId"`
}

// RiskScores aggregates per-category risk on a 0-10 scale.
type RiskScores struct {
	SharpTurns        float64 `json:"sharpTurns"`
	BlindSpots        float64 `json:"blindSpots"`
	AccidentProne     float64 `json:"accidentProne"`
	RoadConditions    float64 `json:"roadConditions"`
	EmergencyServices float64 `json:"emergencyServices"`
	NetworkCoverage   float64 `json:"networkCoverage"`
	Overall           float64 `json:"overall"`
	Level             string  `json:"riskLevel"` // LOW, MEDIUM, HIGH, CRITICAL
}

// Route is the central record of the application.
type Route struct {
	ID            string   `json:"id"`
	Name          string   `json:"routeName"`
	FromCode      string   `json:"fromCode"`
	ToCode        string   `json:"toCode"`
	FromAddress   string   `json:"fromAddress"`
	ToAddress     string   `json:"toAddress"`
	CustomerName  string   `json:"customerName"`
	Location      string   `json:"location"`
	TotalKm       float64  `json:"totalDistance"`
	DurationMin   float64  `json:"estimatedDuration"`
	Terrain       string   `json:"terrain"`
	MajorHighways []string `json:"majorHighways"`

	Points []Coordinate `json:"routePoints"`

	Status           ProcessingStatus `json:"processingStatus"`
	ProcessingErrors []string         `json:"processingErrors,omitempty"`
	PDFGenerated     bool             `json:"pdfGenerated"`
	PDFPath          string           `json:"pdfPath,omitempty"`

	Risk RiskScores `json:"riskScores"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SharpTurn is a detected turn whose angle exceeds the sharp-turn threshold.
type SharpTurn struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	AngleDeg     float64 `json:"turnAngle"`
	Direction    string  `json:"turnDirection"` // left, right
	Severity     string  `json:"severity"`
	RiskScore    int     `json:"riskScore"`
	DistanceKm   float64 `json:"distanceFromStartKm"`
	SafeSpeedKmh int     `json:"recommendedSpeed"`
	DriverAction string  `json:"driverActionRequired"`
}

// BlindSpot is a stretch with reduced forward visibility.
type BlindSpot struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	SpotType     string  `json:"spotType"` // curve, sharp_curve, crest
	VisibilityM  int     `json:"visibilityDistance"`
	RiskScore    int     `json:"riskScore"`
	DistanceKm   float64 `json:"distanceFromStartKm"`
	DriverAction string  `json:"driverActionRequired"`
}

// AccidentProneArea marks a cluster of hazards treated as one danger zone.
type AccidentProneArea struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distanceFromStartKm"`
	RiskScore  int     `json:"riskScore"`
	Reason     string  `json:"reason"`
}

// EmergencyService is a hospital, police station, or similar near the route.
type EmergencyService struct {
	ServiceType     string  `json:"serviceType"` // hospital, police, fire_station, fuel
	Name            string  `json:"name"`
	Phone           string  `json:"phoneNumber"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	FromRouteKm     float64 `json:"distanceFromRouteKm"`
	AlongRouteKm    float64 `json:"distanceFromStartKm"`
	ResponseTimeMin int     `json:"responseTimeMinutes"`
}

// RoadCondition describes the surface quality of one route segment.
type RoadCondition struct {
	FromKm    float64 `json:"fromKm"`
	ToKm      float64 `json:"toKm"`
	Surface   string  `json:"surfaceType"`
	Quality   string  `json:"quality"` // good, fair, poor, critical
	RiskScore int     `json:"riskScore"`
}

// NetworkPoint is a sampled mobile-coverage measurement along the route.
type NetworkPoint struct {
	DistanceKm     float64 `json:"distanceFromStartKm"`
	SignalStrength int     `json:"signalStrength"` // 1-10
	SignalCategory string  `json:"signalCategory"` // no_signal, weak, good
	IsDeadZone     bool    `json:"isDeadZone"`
	CommRisk       string  `json:"communicationRisk"`
}

// WeatherCondition is a sampled forecast point along the route.
type WeatherCondition struct {
	DistanceKm   float64 `json:"distanceFromStartKm"`
	Condition    string  `json:"condition"`
	TempC        float64 `json:"temperatureC"`
	VisibilityKm float64 `json:"visibilityKm"`
	WindKmh      float64 `json:"windSpeedKmh"`
	RiskScore    int     `json:"riskScore"`
}

// TrafficPoint is a sampled congestion measurement along the route.
type TrafficPoint struct {
	DistanceKm  float64 `json:"distanceFromStartKm"`
	Congestion  string  `json:"congestionLevel"` // free_flow, light, moderate, heavy
	AvgSpeedKmh float64 `json:"averageSpeedKmh"`
	DelayMin    float64 `json:"delayMinutes"`
}

// EcoSensitiveZone is a protected area the route passes through.
type EcoSensitiveZone struct {
	Name         string  `json:"name"`
	ZoneType     string  `json:"zoneType"` // wildlife, forest, wetland
	FromKm       float64 `json:"fromKm"`
	ToKm         float64 `json:"toKm"`
	Restrictions string  `json:"restrictions"`
}

// Analysis is everything derived for one route, persisted alongside it and
// fed to the report builder.
type Analysis struct {
	RouteID           string              `json:"routeId"`
	SharpTurns        []SharpTurn         `json:"sharpTurns"`
	BlindSpots        []BlindSpot         `json:"blindSpots"`
	AccidentAreas     []AccidentProneArea `json:"accidentProneAreas"`
	EmergencyServices []EmergencyService  `json:"emergencyServices"`
	RoadConditions    []RoadCondition     `json:"roadConditions"`
	Network           []NetworkPoint      `json:"networkCoverage"`
	Weather           []WeatherCondition  `json:"weatherConditions"`
	Traffic           []TrafficPoint      `json:"trafficData"`
	EcoZones          []EcoSensitiveZone  `json:"ecoSensitiveZones"`
	GeneratedAt       time.Time           `json:"generatedAt"`
}
