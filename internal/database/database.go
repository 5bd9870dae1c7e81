package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when the requested aircraft or record does not exist
var ErrNotFound = errors.New("not found")

// DB owns the SQLite connection and the schema
type DB struct {
	db *sql.DB
}

// New creates and initializes a new database connection
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// optimizeSQLite sets the journal and cache pragmas
func optimizeSQLite(db *sql.DB) error {
	pragmas := []struct {
		stmt string
		what string
	}{
		// WAL lets the API read while the collector writes
		{"PRAGMA journal_mode=WAL", "enable WAL mode"},
		{"PRAGMA cache_size=-64000", "set cache size"},
		{"PRAGMA synchronous=NORMAL", "set synchronous mode"},
		{"PRAGMA temp_store=MEMORY", "set temp_store"},
		{"PRAGMA busy_timeout=5000", "set busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			return fmt.Errorf("failed to %s: %w", p.what, err)
		}
	}
	return nil
}

// SQL exposes the underlying handle for repositories and metrics
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the database schema if it doesn't exist
func (d *DB) initSchema() error {
	tables := []struct {
		name   string
		schema string
	}{
		{"aircraft", `CREATE TABLE IF NOT EXISTS aircraft (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			model TEXT NOT NULL,
			flight_cycles INTEGER NOT NULL DEFAULT 0,
			flight_hours INTEGER NOT NULL DEFAULT 0,
			payload_weight INTEGER NOT NULL DEFAULT 0,
			flight_index REAL NOT NULL DEFAULT 0,
			last_engine_replacement TIMESTAMP,
			parts TEXT NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
		{"health_samples", `CREATE TABLE IF NOT EXISTS health_samples (
			aircraft_id TEXT NOT NULL,
			series TEXT NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			period TEXT NOT NULL DEFAULT '',
			value REAL NOT NULL,
			PRIMARY KEY (aircraft_id, series, position)
		);`},
		{"sensor_readings", `CREATE TABLE IF NOT EXISTS sensor_readings (
			id TEXT PRIMARY KEY,
			aircraft_id TEXT NOT NULL,
			recorded_at TIMESTAMP NOT NULL,
			oil_pressure REAL NOT NULL,
			oil_temperature REAL NOT NULL,
			cylinder_head_temperature REAL NOT NULL,
			engine_vibration REAL NOT NULL,
			fuel_flow_rate REAL NOT NULL,
			engine_rpm REAL NOT NULL,
			hydraulic_pressure REAL NOT NULL,
			cabin_pressure_differential REAL NOT NULL,
			outside_air_temperature REAL NOT NULL
		);`},
		{"predictions", `CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			aircraft_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			feature_index REAL NOT NULL,
			payload TEXT NOT NULL
		);`},
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_sensor_readings_aircraft_recorded ON sensor_readings(aircraft_id, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_aircraft_created ON predictions(aircraft_id, created_at)`,
	}

	for _, t := range tables {
		if _, err := d.db.Exec(t.schema); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}

	for _, idx := range indexes {
		if _, err := d.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
