package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aircare/internal/maintenance"
	"aircare/internal/models"
)

// Series names a stored monthly trend
type Series string

const (
	SeriesEngineHealth   Series = "engine_health"
	SeriesFuelEfficiency Series = "fuel_efficiency"
)

// PredictionUpdate is what one stored prediction changes on its aircraft
type PredictionUpdate struct {
	// Parts replace the stored statuses when non-empty
	Parts          []models.PartStatus
	EngineHealth   []models.HealthSample
	FuelEfficiency []models.HealthSample
}

type AircraftRepository interface {
	Upsert(ctx context.Context, aircraft []*models.Aircraft) error
	List(ctx context.Context) ([]*models.Aircraft, error)
	Get(ctx context.Context, id string) (*models.Aircraft, error)
	IsTablePopulated(ctx context.Context) (bool, error)
	UpdateParts(ctx context.Context, id string, parts []models.PartStatus, flightIndex float64) error
	MergeSeries(ctx context.Context, id string, series Series, samples []models.HealthSample) error
	ApplyPrediction(ctx context.Context, rec *models.PredictionRecord, update PredictionUpdate) error
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type aircraftRepository struct {
	db *sql.DB
}

func NewAircraftRepository(db *sql.DB) AircraftRepository {
	return &aircraftRepository{db: db}
}

// Upsert inserts or updates aircraft and replaces their trends in a single transaction
func (r *aircraftRepository) Upsert(ctx context.Context, aircraft []*models.Aircraft) error {
	if len(aircraft) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO aircraft (
		id, name, model, flight_cycles, flight_hours, payload_weight,
		flight_index, last_engine_replacement, parts, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		model = excluded.model,
		flight_cycles = excluded.flight_cycles,
		flight_hours = excluded.flight_hours,
		payload_weight = excluded.payload_weight,
		flight_index = excluded.flight_index,
		last_engine_replacement = excluded.last_engine_replacement,
		parts = excluded.parts,
		updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, ac := range aircraft {
		if ac.ID == "" {
			return errors.New("aircraft id is required")
		}
		parts, err := encodeParts(ac.Parts)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			ac.ID, ac.Name, ac.Model, ac.FlightCycles, ac.FlightHours, ac.PayloadWeight,
			ac.FlightIndex, ac.LastEngineReplacement.UTC(), parts, now,
		); err != nil {
			return fmt.Errorf("failed to upsert aircraft %s: %w", ac.ID, err)
		}
		if err := replaceSeries(ctx, tx, ac.ID, SeriesEngineHealth, ac.EngineHealth); err != nil {
			return err
		}
		if err := replaceSeries(ctx, tx, ac.ID, SeriesFuelEfficiency, ac.FuelEfficiency); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// replaceSeries rewrites a stored trend, holding every value to 0-100
func replaceSeries(ctx context.Context, tx *sql.Tx, id string, series Series, samples []models.HealthSample) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM health_samples WHERE aircraft_id = ? AND series = ?`, id, series,
	); err != nil {
		return fmt.Errorf("failed to clear %s of %s: %w", series, id, err)
	}
	for i, s := range samples {
		s = s.Clamped()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO health_samples (aircraft_id, series, position, label, period, value) VALUES (?, ?, ?, ?, ?, ?)`,
			id, series, i, s.Label, s.Period, s.Value,
		); err != nil {
			return fmt.Errorf("failed to insert %s sample: %w", series, err)
		}
	}
	return nil
}

const aircraftColumns = `id, name, model, flight_cycles, flight_hours, payload_weight,
	flight_index, last_engine_replacement, parts`

// List returns the fleet in insertion order
func (r *aircraftRepository) List(ctx context.Context) ([]*models.Aircraft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+aircraftColumns+` FROM aircraft ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft: %w", err)
	}
	defer rows.Close()

	var fleet []*models.Aircraft
	for rows.Next() {
		ac, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aircraft: %w", err)
	}

	for _, ac := range fleet {
		if err := r.loadSeries(ctx, ac); err != nil {
			return nil, err
		}
	}
	return fleet, nil
}

// Get returns one aircraft with its trends, or ErrNotFound
func (r *aircraftRepository) Get(ctx context.Context, id string) (*models.Aircraft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+aircraftColumns+` FROM aircraft WHERE id = ?`, id)
	ac, err := scanAircraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("aircraft %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadSeries(ctx, ac); err != nil {
		return nil, err
	}
	return ac, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAircraft(s scanner) (*models.Aircraft, error) {
	var (
		ac          models.Aircraft
		replacement sql.NullTime
		parts       string
	)
	if err := s.Scan(
		&ac.ID, &ac.Name, &ac.Model, &ac.FlightCycles, &ac.FlightHours, &ac.PayloadWeight,
		&ac.FlightIndex, &replacement, &parts,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan aircraft: %w", err)
	}
	if replacement.Valid {
		ac.LastEngineReplacement = replacement.Time.UTC()
	}
	if err := json.Unmarshal([]byte(parts), &ac.Parts); err != nil {
		return nil, fmt.Errorf("failed to decode parts of %s: %w", ac.ID, err)
	}
	return &ac, nil
}

func (r *aircraftRepository) loadSeries(ctx context.Context, ac *models.Aircraft) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT series, label, period, value FROM health_samples WHERE aircraft_id = ? ORDER BY series, position`, ac.ID)
	if err != nil {
		return fmt.Errorf("failed to query trends of %s: %w", ac.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			series Series
			sample models.HealthSample
		)
		if err := rows.Scan(&series, &sample.Label, &sample.Period, &sample.Value); err != nil {
			return fmt.Errorf("failed to scan trend sample: %w", err)
		}
		switch series {
		case SeriesEngineHealth:
			ac.EngineHealth = append(ac.EngineHealth, sample)
		case SeriesFuelEfficiency:
			ac.FuelEfficiency = append(ac.FuelEfficiency, sample)
		}
	}
	return rows.Err()
}

func querySeries(ctx context.Context, q querier, id string, series Series) ([]models.HealthSample, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT label, period, value FROM health_samples WHERE aircraft_id = ? AND series = ? ORDER BY position`, id, series)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s of %s: %w", series, id, err)
	}
	defer rows.Close()

	var samples []models.HealthSample
	for rows.Next() {
		var sample models.HealthSample
		if err := rows.Scan(&sample.Label, &sample.Period, &sample.Value); err != nil {
			return nil, fmt.Errorf("failed to scan trend sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func (r *aircraftRepository) IsTablePopulated(ctx context.Context) (bool, error) {
	var ignored int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM aircraft LIMIT 1").Scan(&ignored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check aircraft table: %w", err)
	}
	return true, nil
}

// UpdateParts replaces the part statuses and flight index of an aircraft
func (r *aircraftRepository) UpdateParts(ctx context.Context, id string, parts []models.PartStatus, flightIndex float64) error {
	return updateParts(ctx, r.db, id, parts, flightIndex)
}

func updateParts(ctx context.Context, q querier, id string, parts []models.PartStatus, flightIndex float64) error {
	encoded, err := encodeParts(parts)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`UPDATE aircraft SET parts = ?, flight_index = ?, updated_at = ? WHERE id = ?`,
		encoded, flightIndex, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update parts of %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("aircraft %s: %w", id, ErrNotFound)
	}
	return nil
}

// MergeSeries merges samples into a stored trend with maintenance.MergeTrend,
// so dated samples replace the same month of the same year and the trend stays
// in date order.
func (r *aircraftRepository) MergeSeries(ctx context.Context, id string, series Series, samples []models.HealthSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := aircraftExists(ctx, tx, id); err != nil {
		return err
	}
	if err := mergeSeries(ctx, tx, id, series, samples); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ApplyPrediction writes a prediction and its effect on the aircraft in one
// transaction. Parts are replaced only when update.Parts is non-empty.
func (r *aircraftRepository) ApplyPrediction(ctx context.Context, rec *models.PredictionRecord, update PredictionUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := aircraftExists(ctx, tx, rec.AircraftID); err != nil {
		return err
	}
	if len(update.Parts) > 0 {
		if err := updateParts(ctx, tx, rec.AircraftID, update.Parts, rec.FeatureIndex); err != nil {
			return err
		}
	}
	if len(update.EngineHealth) > 0 {
		if err := mergeSeries(ctx, tx, rec.AircraftID, SeriesEngineHealth, update.EngineHealth); err != nil {
			return err
		}
	}
	if len(update.FuelEfficiency) > 0 {
		if err := mergeSeries(ctx, tx, rec.AircraftID, SeriesFuelEfficiency, update.FuelEfficiency); err != nil {
			return err
		}
	}
	if err := insertPrediction(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func aircraftExists(ctx context.Context, q querier, id string) error {
	var exists int
	if err := q.QueryRowContext(ctx, `SELECT 1 FROM aircraft WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("aircraft %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to look up aircraft %s: %w", id, err)
	}
	return nil
}

func mergeSeries(ctx context.Context, tx *sql.Tx, id string, series Series, samples []models.HealthSample) error {
	stored, err := querySeries(ctx, tx, id, series)
	if err != nil {
		return err
	}
	return replaceSeries(ctx, tx, id, series, maintenance.MergeTrend(stored, samples))
}

func encodeParts(parts []models.PartStatus) (string, error) {
	if parts == nil {
		parts = []models.PartStatus{}
	}
	data, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("failed to encode parts: %w", err)
	}
	return string(data), nil
}
