package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aircare/internal/database"
	"aircare/internal/fleet"
	"aircare/internal/models"
	"aircare/internal/prediction"
)

// RefresherConfig holds the reference flight used for scheduled predictions
type RefresherConfig struct {
	Interval       time.Duration
	Origin         string
	Destination    string
	FlightDuration time.Duration
}

// PredictionRefresher periodically asks the prediction service about every
// aircraft that has a stored reading, and folds the answer back into the fleet.
type PredictionRefresher struct {
	aircraft database.AircraftRepository
	readings database.ReadingRepository
	recorder *fleet.Recorder
	gateway  prediction.Gateway
	cfg      RefresherConfig
	now      func() time.Time
}

func NewPredictionRefresher(
	aircraft database.AircraftRepository,
	readings database.ReadingRepository,
	gateway prediction.Gateway,
	cfg RefresherConfig,
) *PredictionRefresher {
	return &PredictionRefresher{
		aircraft: aircraft,
		readings: readings,
		recorder: fleet.NewRecorder(aircraft),
		gateway:  gateway,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (r *PredictionRefresher) Name() string {
	return "prediction_refresher"
}

func (r *PredictionRefresher) Interval() time.Duration {
	return r.cfg.Interval
}

// Run refreshes every aircraft. Prediction service failures leave the aircraft
// as it was; storage failures are returned.
func (r *PredictionRefresher) Run(ctx context.Context) error {
	list, err := r.aircraft.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list fleet: %w", err)
	}

	var errs []error
	refreshed := 0
	for _, ac := range list {
		ok, err := r.refresh(ctx, ac)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			refreshed++
		}
	}

	slog.Info("Prediction refresh finished", "aircraft", len(list), "refreshed", refreshed)
	return errors.Join(errs...)
}

func (r *PredictionRefresher) refresh(ctx context.Context, ac *models.Aircraft) (bool, error) {
	latest, err := r.readings.Latest(ctx, ac.ID)
	if errors.Is(err, database.ErrNotFound) {
		slog.Debug("No reading yet, skipping prediction", "aircraft", ac.ID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	departure := r.now().UTC()
	flight := prediction.Flight{
		Origin:      r.cfg.Origin,
		Destination: r.cfg.Destination,
		Departure:   departure,
		Arrival:     departure.Add(r.cfg.FlightDuration),
	}

	resp, err := r.gateway.PredictFailure(ctx, prediction.NewFailureRequest(ac, latest.Reading, flight))
	if err != nil {
		slog.Warn("Failure prediction unavailable, keeping previous statuses", "aircraft", ac.ID, "error", err)
		return false, nil
	}

	record := &models.PredictionRecord{
		AircraftID:   ac.ID,
		CreatedAt:    departure,
		FeatureIndex: resp.FeatureIndex,
		PartFailures: resp.PartFailures,
	}

	forecast, err := r.gateway.ForecastRUL(ctx, prediction.NewRULRequest(ac, latest.Reading))
	if err != nil {
		slog.Warn("RUL forecast unavailable", "aircraft", ac.ID, "error", err)
	} else {
		record.Forecast = forecast
	}

	if _, err := r.recorder.Record(ctx, record); err != nil {
		return false, err
	}

	slog.Debug("Prediction stored", "aircraft", ac.ID, "parts", len(resp.PartFailures), "forecast", len(record.Forecast))
	return true, nil
}
