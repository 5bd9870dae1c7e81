package prediction

import (
	"errors"
	"time"

	"aircare/internal/models"
)

// Flight is the route and schedule part of a failure prediction
type Flight struct {
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
}

// FlightFromSelection builds a flight for a complete selection departing at departure
func FlightFromSelection(sel models.Selection, departure time.Time, duration time.Duration) (Flight, error) {
	if !sel.HasRoute() {
		return Flight{}, errors.New("select a departure and an arrival airport")
	}
	return Flight{
		Origin:      sel.Departure,
		Destination: sel.Arrival,
		Departure:   departure,
		Arrival:     departure.Add(duration),
	}, nil
}

// NewFailureRequest assembles the failure prediction body for an aircraft
func NewFailureRequest(ac *models.Aircraft, reading models.SensorReading, f Flight) models.FailurePredictionRequest {
	return models.FailurePredictionRequest{
		AircraftModel: ac.Model,
		Origin:        f.Origin,
		Destination:   f.Destination,
		FlightCycles:  ac.FlightCycles,
		FlightHours:   ac.FlightHours,
		PayloadWeight: ac.PayloadWeight,
		DepartureTime: f.Departure.UTC().Format(time.RFC3339),
		ArrivalTime:   f.Arrival.UTC().Format(time.RFC3339),
		SensorsData:   reading,
	}
}

// NewRULRequest assembles the RUL forecast body for an aircraft
func NewRULRequest(ac *models.Aircraft, reading models.SensorReading) models.RulForecastRequest {
	return models.RulForecastRequest{
		AircraftModel:               ac.Model,
		FlightCycles:                ac.FlightCycles,
		FlightHours:                 ac.FlightHours,
		LastReplacementDateOfEngine: ac.LastEngineReplacement.UTC().Format(time.RFC3339),
		SensorsData:                 reading,
	}
}
