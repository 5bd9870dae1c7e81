package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aircare/internal/models"

	"github.com/google/uuid"
)

type PredictionRepository interface {
	Insert(ctx context.Context, rec *models.PredictionRecord) error
	Latest(ctx context.Context, aircraftID string) (*models.PredictionRecord, error)
}

type predictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

// predictionPayload is the JSON column holding the service response
type predictionPayload struct {
	PartFailures []models.FailureDescriptor `json:"partFailures"`
	Forecast     []models.RulForecastPoint  `json:"forecast,omitempty"`
}

// Insert stores a prediction, assigning an id and timestamp when missing
func (r *predictionRepository) Insert(ctx context.Context, rec *models.PredictionRecord) error {
	return insertPrediction(ctx, r.db, rec)
}

func insertPrediction(ctx context.Context, q querier, rec *models.PredictionRecord) error {
	if rec.AircraftID == "" {
		return errors.New("prediction without aircraft id")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	payload, err := json.Marshal(predictionPayload{PartFailures: rec.PartFailures, Forecast: rec.Forecast})
	if err != nil {
		return fmt.Errorf("failed to encode prediction: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		`INSERT INTO predictions (id, aircraft_id, created_at, feature_index, payload) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.AircraftID, rec.CreatedAt, rec.FeatureIndex, string(payload),
	); err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// Latest returns the newest prediction of an aircraft, or ErrNotFound
func (r *predictionRepository) Latest(ctx context.Context, aircraftID string) (*models.PredictionRecord, error) {
	var (
		rec     models.PredictionRecord
		payload string
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, aircraft_id, created_at, feature_index, payload
		FROM predictions WHERE aircraft_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, aircraftID,
	).Scan(&rec.ID, &rec.AircraftID, &rec.CreatedAt, &rec.FeatureIndex, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("predictions of %s: %w", aircraftID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction: %w", err)
	}

	var p predictionPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to decode prediction payload: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.PartFailures = p.PartFailures
	rec.Forecast = p.Forecast
	return &rec, nil
}
