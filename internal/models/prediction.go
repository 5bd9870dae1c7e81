package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const (
	// MaxCount is the upper bound the prediction service accepts for cycle, hour and weight counts
	MaxCount = math.MaxInt32

	// AirportCodeLen is the exact length of origin and destination codes
	AirportCodeLen = 4
)

// FailureDescriptor is one part failure returned by the prediction service
type FailureDescriptor struct {
	Part               string `json:"part"`
	FailureProbability string `json:"failureProbability"` // decimal in [0,1] as text
	Reason             string `json:"reason,omitempty"`
}

// UnmarshalJSON tolerates null and numeric fields
func (d *FailureDescriptor) UnmarshalJSON(data []byte) error {
	var raw struct {
		Part               *string         `json:"part"`
		FailureProbability json.RawMessage `json:"failureProbability"`
		Reason             *string         `json:"reason"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = FailureDescriptor{}
	if raw.Part != nil {
		d.Part = *raw.Part
	}
	if raw.Reason != nil {
		d.Reason = *raw.Reason
	}
	if len(raw.FailureProbability) > 0 && string(raw.FailureProbability) != "null" {
		var s string
		if err := json.Unmarshal(raw.FailureProbability, &s); err == nil {
			d.FailureProbability = s
		} else {
			// some deployments send a bare number
			d.FailureProbability = string(raw.FailureProbability)
		}
	}
	return nil
}

// FailurePredictionRequest is the body of POST /failure
type FailurePredictionRequest struct {
	AircraftModel string        `json:"aircraftModel"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	FlightCycles  int64         `json:"flightCycles"`
	FlightHours   int64         `json:"flightHours"`
	PayloadWeight int64         `json:"payloadWeight"`
	DepartureTime string        `json:"departureTime"`
	ArrivalTime   string        `json:"arrivalTime"`
	SensorsData   SensorReading `json:"sensorsData"`
}

// Validate checks the request against the service's published constraints
func (r FailurePredictionRequest) Validate() error {
	if r.AircraftModel == "" {
		return fmt.Errorf("aircraftModel is required")
	}
	if len(r.Origin) != AirportCodeLen {
		return fmt.Errorf("origin must be exactly %d characters: %q", AirportCodeLen, r.Origin)
	}
	if len(r.Destination) != AirportCodeLen {
		return fmt.Errorf("destination must be exactly %d characters: %q", AirportCodeLen, r.Destination)
	}
	if err := validateCount("flightCycles", r.FlightCycles); err != nil {
		return err
	}
	if err := validateCount("flightHours", r.FlightHours); err != nil {
		return err
	}
	if err := validateCount("payloadWeight", r.PayloadWeight); err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, r.DepartureTime); err != nil {
		return fmt.Errorf("departureTime must be ISO-8601: %w", err)
	}
	if _, err := time.Parse(time.RFC3339, r.ArrivalTime); err != nil {
		return fmt.Errorf("arrivalTime must be ISO-8601: %w", err)
	}
	if err := r.SensorsData.Validate(); err != nil {
		return fmt.Errorf("sensorsData: %w", err)
	}
	return nil
}

// FailurePredictionResponse is the body returned by POST /failure
type FailurePredictionResponse struct {
	PartFailures []FailureDescriptor `json:"partFailures"`
	FeatureIndex float64             `json:"featureIndex"`
}

// RulForecastRequest is the body of POST /rul
type RulForecastRequest struct {
	AircraftModel               string        `json:"aircraftModel"`
	FlightCycles                int64         `json:"flightCycles"`
	FlightHours                 int64         `json:"flightHours"`
	LastReplacementDateOfEngine string        `json:"lastReplacementDateOfEngine"`
	SensorsData                 SensorReading `json:"sensorsData"`
}

// Validate checks the request against the service's published constraints
func (r RulForecastRequest) Validate() error {
	if r.AircraftModel == "" {
		return fmt.Errorf("aircraftModel is required")
	}
	if err := validateCount("flightCycles", r.FlightCycles); err != nil {
		return err
	}
	if err := validateCount("flightHours", r.FlightHours); err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, r.LastReplacementDateOfEngine); err != nil {
		return fmt.Errorf("lastReplacementDateOfEngine must be ISO-8601: %w", err)
	}
	if err := r.SensorsData.Validate(); err != nil {
		return fmt.Errorf("sensorsData: %w", err)
	}
	return nil
}

// RulForecastPoint is one element of the remaining-useful-life forecast.
// EngineHealthPercentage is already expressed on a 0-100 scale.
type RulForecastPoint struct {
	Date                   time.Time `json:"date"`
	EngineHealthPercentage float64   `json:"engineHealthPercentage"`
	IsOkayToFlight         bool      `json:"isOkayToFlight"`
}

func validateCount(field string, v int64) error {
	if v < 1 || v > MaxCount {
		return fmt.Errorf("%s must be between 1 and %d: %d", field, MaxCount, v)
	}
	return nil
}

// UnmarshalJSON accepts timestamps with or without a zone offset
func (p *RulForecastPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date                   string  `json:"date"`
		EngineHealthPercentage float64 `json:"engineHealthPercentage"`
		IsOkayToFlight         bool    `json:"isOkayToFlight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseTimestamp(raw.Date)
	if err != nil {
		return err
	}
	*p = RulForecastPoint{
		Date:                   date,
		EngineHealthPercentage: raw.EngineHealthPercentage,
		IsOkayToFlight:         raw.IsOkayToFlight,
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants the prediction service emits.
// Timestamps without an offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp: %q", s)
}
