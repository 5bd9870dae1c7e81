package api

import (
	"errors"
	"net/http"

	"aircare/internal/classifier"
	"aircare/internal/database"
	"aircare/internal/fleet"
	"aircare/internal/maintenance"
	"aircare/internal/models"

	"github.com/labstack/echo/v4"
)

// loadAircraft fetches an aircraft, mapping a missing row to 404
func (h *Handler) loadAircraft(c echo.Context, id string) (*models.Aircraft, error) {
	ac, err := h.aircraft.Get(c.Request().Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NewNotFoundError("aircraft", id)
	}
	if err != nil {
		return nil, NewInternalError("failed to load aircraft", err)
	}
	return ac, nil
}

// HandleListAircraft returns the selector entries of the fleet
func (h *Handler) HandleListAircraft(c echo.Context) error {
	list, err := h.aircraft.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list aircraft", err)
	}

	summaries := make([]models.AircraftSummary, 0, len(list))
	for _, ac := range list {
		summaries = append(summaries, ac.Summary())
	}
	return c.JSON(http.StatusOK, summaries)
}

// HandleGetAircraft returns one aircraft with trends and part statuses
func (h *Handler) HandleGetAircraft(c echo.Context) error {
	ac, err := h.loadAircraft(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ac)
}

// HandleListAirports returns the selectable route endpoints
func (h *Handler) HandleListAirports(c echo.Context) error {
	airports := h.catalog.Airports
	if airports == nil {
		airports = []models.Airport{}
	}
	return c.JSON(http.StatusOK, airports)
}

type channelInfo struct {
	Key         string       `json:"key"`
	DisplayName string       `json:"displayName"`
	Unit        string       `json:"unit"`
	Range       models.Range `json:"range"`
}

// HandleListChannels returns the telemetry channel catalog
func (h *Handler) HandleListChannels(c echo.Context) error {
	channels := models.AllChannels()
	out := make([]channelInfo, 0, len(channels))
	for _, ch := range channels {
		out = append(out, channelInfo{
			Key:         ch.Key(),
			DisplayName: ch.DisplayName(),
			Unit:        ch.Unit(),
			Range:       ch.Range(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

type projectionResponse struct {
	AircraftID    string                       `json:"aircraftId"`
	CurrentHealth float64                      `json:"currentHealth"`
	Projection    models.MaintenanceProjection `json:"projection"`
}

// HandleProjection projects the next maintenance of one aircraft from today
func (h *Handler) HandleProjection(c echo.Context) error {
	ac, err := h.loadAircraft(c, c.Param("id"))
	if err != nil {
		return err
	}

	now := h.now()
	return c.JSON(http.StatusOK, projectionResponse{
		AircraftID:    ac.ID,
		CurrentHealth: maintenance.CurrentHealthAt(ac.EngineHealth, now),
		Projection:    maintenance.ProjectAt(ac.EngineHealth, now),
	})
}

type dashboardResponse struct {
	Aircraft       models.AircraftSummary       `json:"aircraft"`
	Selection      models.Selection             `json:"selection"`
	EngineHealth   []models.HealthSample        `json:"engineHealth"`
	FuelEfficiency []models.HealthSample        `json:"fuelEfficiency"`
	FlightIndex    float64                      `json:"flightIndex"`
	Parts          []models.PartStatus          `json:"parts"`
	CurrentHealth  float64                      `json:"currentHealth"`
	Projection     models.MaintenanceProjection `json:"projection"`
	Reading        *models.ReadingRecord        `json:"reading,omitempty"`
	FaultyZones    models.FlagSet               `json:"faultyZones"`
	Faults         []classifier.ZoneFault       `json:"faults"`
	Channels       []classifier.ChannelState    `json:"channels"`
	Route          *fleet.RouteView             `json:"route,omitempty"`
}

// HandleDashboard assembles everything the operator view shows for one
// aircraft and, when both endpoints are given, one route. Without an aircraft
// query the first aircraft of the fleet is shown.
func (h *Handler) HandleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	sel, err := h.selectionFromQuery(c)
	if err != nil {
		return err
	}

	var ac *models.Aircraft
	if sel.AircraftID == "" {
		list, err := h.aircraft.List(ctx)
		if err != nil {
			return NewInternalError("failed to list aircraft", err)
		}
		if len(list) == 0 {
			return NewNotFoundError("aircraft", "any")
		}
		ac = list[0]
		sel = sel.WithAircraft(ac.ID)
	} else if ac, err = h.loadAircraft(c, sel.AircraftID); err != nil {
		return err
	}

	now := h.now()
	resp := dashboardResponse{
		Aircraft:       ac.Summary(),
		Selection:      sel,
		EngineHealth:   nonNilSamples(ac.EngineHealth),
		FuelEfficiency: ac.FuelEfficiency,
		FlightIndex:    ac.FlightIndex,
		Parts:          ac.Parts,
		CurrentHealth:  maintenance.CurrentHealthAt(ac.EngineHealth, now),
		Projection:     maintenance.ProjectAt(ac.EngineHealth, now),
		FaultyZones:    models.NewFlagSet(),
		Faults:         []classifier.ZoneFault{},
		Channels:       []classifier.ChannelState{},
	}
	if len(resp.FuelEfficiency) == 0 {
		resp.FuelEfficiency = maintenance.FuelEfficiencyTrend(ac.EngineHealth)
	}
	resp.FuelEfficiency = nonNilSamples(resp.FuelEfficiency)
	if resp.Parts == nil {
		resp.Parts = []models.PartStatus{}
	}

	latest, err := h.readings.Latest(ctx, ac.ID)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return NewInternalError("failed to load latest reading", err)
	default:
		resp.Reading = latest
		resp.FaultyZones = classifier.ClassifyFromReading(latest.Reading)
		if faults := classifier.Faults(latest.Reading); faults != nil {
			resp.Faults = faults
		}
		resp.Channels = classifier.ChannelReport(latest.Reading)
	}

	if sel.HasRoute() {
		view, ok := h.catalog.Route(sel.Departure, sel.Arrival)
		if !ok {
			return NewValidationError("to", nil)
		}
		resp.Route = &view
	}

	return c.JSON(http.StatusOK, resp)
}

// selectionFromQuery applies the aircraft, from and to query parameters in
// the order an operator would pick them
func (h *Handler) selectionFromQuery(c echo.Context) (models.Selection, error) {
	sel := models.Selection{}.WithAircraft(c.QueryParam("aircraft"))

	if from := c.QueryParam("from"); from != "" {
		if _, ok := h.catalog.Airport(from); !ok {
			return sel, NewValidationError("from", nil)
		}
		sel = sel.WithDeparture(from)
	}

	if to := c.QueryParam("to"); to != "" {
		if _, ok := h.catalog.Airport(to); !ok {
			return sel, NewValidationError("to", nil)
		}
		next, err := sel.WithArrival(to)
		if err != nil {
			return sel, NewValidationError("to", err)
		}
		sel = next
	}
	return sel, nil
}

func nonNilSamples(s []models.HealthSample) []models.HealthSample {
	if s == nil {
		return []models.HealthSample{}
	}
	return s
}
