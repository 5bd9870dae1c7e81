package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"aircare/internal/database"
	"aircare/internal/models"
	"aircare/internal/prediction"

	"github.com/labstack/echo/v4"
)

type predictRequest struct {
	Departure     string                `json:"departure"`
	Arrival       string                `json:"arrival"`
	DepartureTime string                `json:"departureTime,omitempty"`
	Reading       *models.SensorReading `json:"reading,omitempty"`
}

type predictResponse struct {
	AircraftID    string                    `json:"aircraftId"`
	Selection     models.Selection          `json:"selection"`
	DepartureTime time.Time                 `json:"departureTime"`
	ArrivalTime   time.Time                 `json:"arrivalTime"`
	FeatureIndex  float64                   `json:"featureIndex"`
	Parts         []models.PartStatus       `json:"parts"`
	Forecast      []models.RulForecastPoint `json:"forecast"`
	classification
}

// predictFallback is the 502 body: the gateway error plus what can be told
// without the prediction service
type predictFallback struct {
	*APIError
	Parts []models.PartStatus `json:"parts"`
	classification
}

// HandlePredict asks the prediction service about one aircraft on the chosen
// route and folds the answer into the stored fleet
func (h *Handler) HandlePredict(c echo.Context) error {
	ctx := c.Request().Context()

	ac, err := h.loadAircraft(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req predictRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	sel, err := h.selectRoute(ac.ID, req.Departure, req.Arrival)
	if err != nil {
		return err
	}

	departure := h.now().UTC()
	if req.DepartureTime != "" {
		if departure, err = models.ParseTimestamp(req.DepartureTime); err != nil {
			return NewValidationError("departureTime", err)
		}
		departure = departure.UTC()
	}
	flight, err := prediction.FlightFromSelection(sel, departure, h.flightDuration)
	if err != nil {
		return NewBadRequestError("incomplete route", err)
	}

	var reading models.SensorReading
	if req.Reading != nil {
		reading = *req.Reading
	} else {
		latest, err := h.readings.Latest(ctx, ac.ID)
		if errors.Is(err, database.ErrNotFound) {
			return NewBadRequestError("no sensor reading available for aircraft "+ac.ID, nil)
		}
		if err != nil {
			return NewInternalError("failed to load latest reading", err)
		}
		reading = latest.Reading
	}
	local := classify(reading)

	failureReq := prediction.NewFailureRequest(ac, reading.Clamp(), flight)
	if err := failureReq.Validate(); err != nil {
		return NewBadRequestError("aircraft cannot be submitted for prediction", err)
	}

	resp, err := h.gateway.PredictFailure(ctx, failureReq)
	if err != nil {
		slog.Warn("Failure prediction unavailable", "aircraft", ac.ID, "error", err)
		parts := ac.Parts
		if parts == nil {
			parts = []models.PartStatus{}
		}
		return c.JSON(http.StatusBadGateway, predictFallback{
			APIError:       NewBadGatewayError("failure prediction unavailable", err),
			Parts:          parts,
			classification: local,
		})
	}

	forecast, err := h.gateway.ForecastRUL(ctx, prediction.NewRULRequest(ac, reading.Clamp()))
	if err != nil {
		slog.Warn("RUL forecast unavailable", "aircraft", ac.ID, "error", err)
	}

	parts, err := h.recorder.Record(ctx, &models.PredictionRecord{
		AircraftID:   ac.ID,
		CreatedAt:    h.now().UTC(),
		FeatureIndex: resp.FeatureIndex,
		PartFailures: resp.PartFailures,
		Forecast:     forecast,
	})
	if err != nil {
		return NewInternalError("failed to store prediction", err)
	}
	if forecast == nil {
		forecast = []models.RulForecastPoint{}
	}

	return c.JSON(http.StatusOK, predictResponse{
		AircraftID:     ac.ID,
		Selection:      sel,
		DepartureTime:  flight.Departure,
		ArrivalTime:    flight.Arrival,
		FeatureIndex:   resp.FeatureIndex,
		Parts:          parts,
		Forecast:       forecast,
		classification: local,
	})
}

// HandleLatestPrediction returns the newest stored prediction of an aircraft
func (h *Handler) HandleLatestPrediction(c echo.Context) error {
	ac, err := h.loadAircraft(c, c.Param("id"))
	if err != nil {
		return err
	}

	rec, err := h.predictions.Latest(c.Request().Context(), ac.ID)
	if errors.Is(err, database.ErrNotFound) {
		return NewNotFoundError("prediction", ac.ID)
	}
	if err != nil {
		return NewInternalError("failed to load prediction", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// selectRoute validates both endpoints against the catalog and the selection rules
func (h *Handler) selectRoute(aircraftID, departure, arrival string) (models.Selection, error) {
	sel := models.Selection{}.WithAircraft(aircraftID)

	if _, ok := h.catalog.Airport(departure); !ok {
		return sel, NewValidationError("departure", nil)
	}
	sel = sel.WithDeparture(departure)

	if _, ok := h.catalog.Airport(arrival); !ok {
		return sel, NewValidationError("arrival", nil)
	}
	sel, err := sel.WithArrival(arrival)
	if err != nil {
		return sel, NewValidationError("arrival", err)
	}
	return sel, nil
}
