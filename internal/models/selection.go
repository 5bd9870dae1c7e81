package models

import "fmt"

// Selection is the operator's current choice of aircraft and route.
// Values are immutable; the With* methods return updated copies.
type Selection struct {
	AircraftID string `json:"aircraftId"`
	Departure  string `json:"departure"`
	Arrival    string `json:"arrival"`
}

// WithAircraft selects an aircraft, keeping the route
func (s Selection) WithAircraft(id string) Selection {
	s.AircraftID = id
	return s
}

// WithDeparture selects the departure airport. An arrival equal to the new
// departure is cleared.
func (s Selection) WithDeparture(code string) Selection {
	s.Departure = code
	if s.Arrival == code {
		s.Arrival = ""
	}
	return s
}

// WithArrival selects the arrival airport. It requires a departure and
// refuses the departure airport itself.
func (s Selection) WithArrival(code string) (Selection, error) {
	if s.Departure == "" {
		return s, fmt.Errorf("select a departure before the arrival")
	}
	if code == s.Departure {
		return s, fmt.Errorf("arrival must differ from departure %q", code)
	}
	s.Arrival = code
	return s, nil
}

// HasRoute reports whether both route endpoints are chosen
func (s Selection) HasRoute() bool {
	return s.Departure != "" && s.Arrival != ""
}
