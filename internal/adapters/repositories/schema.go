package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the trip and cache tables. The DDL is valid on both
// SQLite and Postgres and safe to run repeatedly.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		cycle_used_hours DOUBLE PRECISION NOT NULL,
		start_date TIMESTAMP NOT NULL,
		distance_source TEXT NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL,
		estimated_drive_time DOUBLE PRECISION NOT NULL,
		total_trip_time DOUBLE PRECISION NOT NULL,
		fuel_stops INTEGER NOT NULL,
		rest_stops INTEGER NOT NULL,
		days_needed INTEGER NOT NULL,
		feasible BOOLEAN NOT NULL,
		remaining_cycle_hours DOUBLE PRECISION NOT NULL
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		stop_type TEXT NOT NULL,
		label TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (trip_id, sequence)
	);
	`

	createLogsQuery := `
	CREATE TABLE IF NOT EXISTS daily_logs (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		day_index INTEGER NOT NULL,
		log_date TIMESTAMP NOT NULL,
		driver_name TEXT NOT NULL,
		carrier_name TEXT NOT NULL,
		vehicle_number TEXT NOT NULL,
		total_miles DOUBLE PRECISION NOT NULL,
		cycle_hours DOUBLE PRECISION NOT NULL,
		warning_window_hours DOUBLE PRECISION,
		warning_limit DOUBLE PRECISION,
		PRIMARY KEY (trip_id, day_index)
	);
	`

	createSegmentsQuery := `
	CREATE TABLE IF NOT EXISTS duty_segments (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		day_index INTEGER NOT NULL,
		sequence INTEGER NOT NULL,
		status TEXT NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		location TEXT NOT NULL,
		PRIMARY KEY (trip_id, day_index, sequence)
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_miles DOUBLE PRECISION NOT NULL,
		duration_hours DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQueries := []string{
		`CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin ON distance_cache(destination, origin);`,
	}

	statements := []string{
		createTripsQuery,
		createStopsQuery,
		createLogsQuery,
		createSegmentsQuery,
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
	}
	statements = append(statements, createIndexQueries...)

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
