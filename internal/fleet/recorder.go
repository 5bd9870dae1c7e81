package fleet

import (
	"context"
	"time"

	"aircare/internal/classifier"
	"aircare/internal/database"
	"aircare/internal/maintenance"
	"aircare/internal/models"
)

// Recorder folds prediction results back into the stored fleet
type Recorder struct {
	aircraft database.AircraftRepository
}

func NewRecorder(aircraft database.AircraftRepository) *Recorder {
	return &Recorder{aircraft: aircraft}
}

// Record stores the prediction together with the part statuses it implies and
// the forecast months after the record's month. It returns the part statuses.
func (r *Recorder) Record(ctx context.Context, rec *models.PredictionRecord) ([]models.PartStatus, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	parts := classifier.DescribeFailures(rec.PartFailures)
	engine := maintenance.TrendFromForecast(maintenance.ForecastAfter(rec.Forecast, rec.CreatedAt))

	if err := r.aircraft.ApplyPrediction(ctx, rec, database.PredictionUpdate{
		Parts:          parts,
		EngineHealth:   engine,
		FuelEfficiency: maintenance.FuelEfficiencyTrend(engine),
	}); err != nil {
		return nil, err
	}
	return parts, nil
}
