package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aircare/internal/models"

	"github.com/google/uuid"
)

type ReadingRepository interface {
	InsertBatch(ctx context.Context, records []*models.ReadingRecord) error
	Latest(ctx context.Context, aircraftID string) (*models.ReadingRecord, error)
	History(ctx context.Context, aircraftID string, limit int) ([]*models.ReadingRecord, error)
}

// DefaultHistoryLimit caps History when no limit is given
const DefaultHistoryLimit = 100

type readingRepository struct {
	db *sql.DB
}

func NewReadingRepository(db *sql.DB) ReadingRepository {
	return &readingRepository{db: db}
}

// InsertBatch stores readings in a single transaction. Values are clamped to
// their channel ranges; missing ids and timestamps are filled in place.
func (r *readingRepository) InsertBatch(ctx context.Context, records []*models.ReadingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO sensor_readings (
		id, aircraft_id, recorded_at,
		oil_pressure, oil_temperature, cylinder_head_temperature, engine_vibration,
		fuel_flow_rate, engine_rpm, hydraulic_pressure, cabin_pressure_differential,
		outside_air_temperature
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.AircraftID == "" {
			return errors.New("reading without aircraft id")
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.RecordedAt.IsZero() {
			rec.RecordedAt = time.Now()
		}
		rec.RecordedAt = rec.RecordedAt.UTC()
		rec.Reading = rec.Reading.Clamp()

		v := rec.Reading
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.AircraftID, rec.RecordedAt,
			v.OilPressure, v.OilTemperature, v.CylinderHeadTemperature, v.EngineVibration,
			v.FuelFlowRate, v.EngineRPM, v.HydraulicPressure, v.CabinPressureDifferential,
			v.OutsideAirTemperature,
		); err != nil {
			return fmt.Errorf("failed to insert reading: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const readingColumns = `id, aircraft_id, recorded_at,
	oil_pressure, oil_temperature, cylinder_head_temperature, engine_vibration,
	fuel_flow_rate, engine_rpm, hydraulic_pressure, cabin_pressure_differential,
	outside_air_temperature`

// Latest returns the most recent reading of an aircraft, or ErrNotFound
func (r *readingRepository) Latest(ctx context.Context, aircraftID string) (*models.ReadingRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+readingColumns+` FROM sensor_readings
		WHERE aircraft_id = ? ORDER BY recorded_at DESC, rowid DESC LIMIT 1`, aircraftID)
	rec, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("readings of %s: %w", aircraftID, ErrNotFound)
	}
	return rec, err
}

// History returns up to limit readings, most recent first
func (r *readingRepository) History(ctx context.Context, aircraftID string, limit int) ([]*models.ReadingRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+readingColumns+` FROM sensor_readings
		WHERE aircraft_id = ? ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, aircraftID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	records := make([]*models.ReadingRecord, 0)
	for rows.Next() {
		rec, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}
	return records, nil
}

func scanReading(s scanner) (*models.ReadingRecord, error) {
	var rec models.ReadingRecord
	v := &rec.Reading
	if err := s.Scan(
		&rec.ID, &rec.AircraftID, &rec.RecordedAt,
		&v.OilPressure, &v.OilTemperature, &v.CylinderHeadTemperature, &v.EngineVibration,
		&v.FuelFlowRate, &v.EngineRPM, &v.HydraulicPressure, &v.CabinPressureDifferential,
		&v.OutsideAirTemperature,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan reading: %w", err)
	}
	rec.RecordedAt = rec.RecordedAt.UTC()
	return &rec, nil
}
