package models

import (
	"fmt"
	"math"
	"time"
)

// HealthSample is one point of a monthly trend (engine health or fuel efficiency), in percent
type HealthSample struct {
	Label  string  `json:"name" yaml:"name"`                         // calendar month, e.g. "Jan"
	Period string  `json:"period,omitempty" yaml:"period,omitempty"` // "2006-01", empty for undated history
	Value  float64 `json:"value" yaml:"value"`                       // 0-100
}

// PeriodLayout formats HealthSample.Period
const PeriodLayout = "2006-01"

// PeriodOf returns the year and month of t as a HealthSample period
func PeriodOf(t time.Time) string {
	return t.Format(PeriodLayout)
}

// ClampPercent holds v to 0-100. NaN becomes 0.
func ClampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Clamped returns the sample with its value held to 0-100
func (s HealthSample) Clamped() HealthSample {
	s.Value = ClampPercent(s.Value)
	return s
}

// MaintenanceProjection tells when an engine is expected to need maintenance
type MaintenanceProjection struct {
	MonthsUntilMaintenance int       `json:"monthsUntilMaintenance"`
	MaintenanceDate        time.Time `json:"maintenanceDate"`
	UrgencyNote            string    `json:"urgencyNote"`
}

// Aircraft is a fleet entry as shown on the dashboard
type Aircraft struct {
	ID                    string         `json:"id" yaml:"id"`
	Name                  string         `json:"name" yaml:"name"`
	Model                 string         `json:"model" yaml:"model"`
	FlightCycles          int64          `json:"flightCycles" yaml:"flight_cycles"`
	FlightHours           int64          `json:"flightHours" yaml:"flight_hours"`
	PayloadWeight         int64          `json:"payloadWeight" yaml:"payload_weight"`
	FlightIndex           float64        `json:"flightIndex" yaml:"flight_index"`
	LastEngineReplacement time.Time      `json:"lastEngineReplacement" yaml:"last_engine_replacement"`
	EngineHealth          []HealthSample `json:"engineHealth" yaml:"engine_health"`     // chronological, most recent last
	FuelEfficiency        []HealthSample `json:"fuelEfficiency" yaml:"fuel_efficiency"` // chronological, most recent last
	Parts                 []PartStatus   `json:"parts" yaml:"parts"`
}

// AircraftSummary is the selector entry for an aircraft
type AircraftSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary returns the selector entry
func (a *Aircraft) Summary() AircraftSummary {
	return AircraftSummary{ID: a.ID, Name: a.Name}
}

// ReadingRecord is a stored sensor reading for one aircraft
type ReadingRecord struct {
	ID         string        `json:"id" msgpack:"id"`
	AircraftID string        `json:"aircraftId" msgpack:"aircraftId"`
	RecordedAt time.Time     `json:"recordedAt" msgpack:"recordedAt"`
	Reading    SensorReading `json:"reading" msgpack:"reading"`
}

// PredictionRecord is a stored failure prediction for one aircraft
type PredictionRecord struct {
	ID           string              `json:"id"`
	AircraftID   string              `json:"aircraftId"`
	CreatedAt    time.Time           `json:"createdAt"`
	FeatureIndex float64             `json:"featureIndex"`
	PartFailures []FailureDescriptor `json:"partFailures"`
	Forecast     []RulForecastPoint  `json:"forecast,omitempty"`
}

// Airport is a route endpoint
type Airport struct {
	Code      string  `json:"id" yaml:"code"` // exactly 4 characters
	Name      string  `json:"name" yaml:"name"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
}

// Validate checks the airport code length
func (a Airport) Validate() error {
	if len(a.Code) != AirportCodeLen {
		return fmt.Errorf("airport code must be exactly %d characters: %q", AirportCodeLen, a.Code)
	}
	return nil
}
