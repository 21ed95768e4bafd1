package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/platform/obs"
)

const defaultListLimit = 50

// SQLTripRepository implements ports.TripRepository on SQLite or Postgres.
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLTripRepository(conn *sql.DB, dialect db.Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, Dialect: dialect}
}

// SaveTrip writes the trip header, stops, logs and segments in one
// transaction. Saving an existing ID replaces its children.
func (r *SQLTripRepository) SaveTrip(ctx context.Context, trip *domain.TripRecord) (err error) {
	defer obs.Time(ctx, "trips.SaveTrip")(&err)

	if r.DB == nil {
		return errors.New("trip repository: DB is nil")
	}
	if trip == nil || trip.ID == "" {
		return errors.New("save trip: trip id must not be empty")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"duty_segments", "daily_logs", "route_stops"} {
		q := r.Dialect.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE trip_id = ?;`, table))
		if _, err := tx.ExecContext(ctx, q, trip.ID); err != nil {
			return fmt.Errorf("save trip: clear %s: %w", table, err)
		}
	}

	s := trip.Summary
	_, err = tx.ExecContext(ctx, r.Dialect.Rebind(`
	INSERT INTO trips (
		id, status, created_at, current_location, pickup_location, dropoff_location,
		cycle_used_hours, start_date, distance_source, total_distance, estimated_drive_time,
		total_trip_time, fuel_stops, rest_stops, days_needed, feasible, remaining_cycle_hours
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET status = excluded.status,
		current_location = excluded.current_location,
		pickup_location = excluded.pickup_location,
		dropoff_location = excluded.dropoff_location,
		cycle_used_hours = excluded.cycle_used_hours,
		start_date = excluded.start_date,
		distance_source = excluded.distance_source,
		total_distance = excluded.total_distance,
		estimated_drive_time = excluded.estimated_drive_time,
		total_trip_time = excluded.total_trip_time,
		fuel_stops = excluded.fuel_stops,
		rest_stops = excluded.rest_stops,
		days_needed = excluded.days_needed,
		feasible = excluded.feasible,
		remaining_cycle_hours = excluded.remaining_cycle_hours;
	`),
		trip.ID, string(trip.Status), trip.CreatedAt.UTC(), trip.CurrentLocation, trip.PickupLocation,
		trip.DropoffLocation, trip.CycleUsedHours, trip.StartDate.UTC(), string(trip.DistanceSource),
		s.TotalDistance, s.EstimatedDriveTime, s.TotalTripTime, s.FuelStops, s.RestStops,
		s.DaysNeeded, s.Feasible, s.RemainingCycleHours,
	)
	if err != nil {
		return fmt.Errorf("save trip: insert trip %s: %w", trip.ID, err)
	}

	if err := r.insertStops(ctx, tx, trip); err != nil {
		return err
	}
	if err := r.insertLogs(ctx, tx, trip); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save trip: commit tx: %w", err)
	}
	return nil
}

func (r *SQLTripRepository) insertStops(ctx context.Context, tx *sql.Tx, trip *domain.TripRecord) error {
	if len(trip.Stops) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, r.Dialect.Rebind(`
	INSERT INTO route_stops (trip_id, sequence, stop_type, label, duration_minutes, lon, lat)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save trip: prepare stops: %w", err)
	}
	defer stmt.Close()

	for _, st := range trip.Stops {
		if _, err := stmt.ExecContext(ctx, trip.ID, st.Sequence, string(st.Type), st.Label,
			st.DurationMinutes, st.Coordinates.Lon, st.Coordinates.Lat); err != nil {
			return fmt.Errorf("save trip: insert stop %d: %w", st.Sequence, err)
		}
	}
	return nil
}

func (r *SQLTripRepository) insertLogs(ctx context.Context, tx *sql.Tx, trip *domain.TripRecord) error {
	if len(trip.Logs) == 0 {
		return nil
	}

	logStmt, err := tx.PrepareContext(ctx, r.Dialect.Rebind(`
	INSERT INTO daily_logs (
		trip_id, day_index, log_date, driver_name, carrier_name, vehicle_number,
		total_miles, cycle_hours, warning_window_hours, warning_limit
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save trip: prepare logs: %w", err)
	}
	defer logStmt.Close()

	segStmt, err := tx.PrepareContext(ctx, r.Dialect.Rebind(`
	INSERT INTO duty_segments (trip_id, day_index, sequence, status, start_time, end_time, location)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save trip: prepare segments: %w", err)
	}
	defer segStmt.Close()

	for _, l := range trip.Logs {
		var window, limit sql.NullFloat64
		if l.Warning != nil {
			window = sql.NullFloat64{Float64: l.Warning.WindowHours, Valid: true}
			limit = sql.NullFloat64{Float64: l.Warning.Limit, Valid: true}
		}

		if _, err := logStmt.ExecContext(ctx, trip.ID, l.DayIndex, l.Date.UTC(), l.DriverName,
			l.CarrierName, l.VehicleNumber, l.TotalMiles, l.CycleHours, window, limit); err != nil {
			return fmt.Errorf("save trip: insert log day %d: %w", l.DayIndex, err)
		}

		for _, seg := range l.Segments {
			if _, err := segStmt.ExecContext(ctx, trip.ID, l.DayIndex, seg.Sequence, string(seg.Status),
				seg.Start.UTC(), seg.End.UTC(), seg.Location); err != nil {
				return fmt.Errorf("save trip: insert segment %d/%d: %w", l.DayIndex, seg.Sequence, err)
			}
		}
	}
	return nil
}

const tripColumns = `
	id, status, created_at, current_location, pickup_location, dropoff_location,
	cycle_used_hours, start_date, distance_source, total_distance, estimated_drive_time,
	total_trip_time, fuel_stops, rest_stops, days_needed, feasible, remaining_cycle_hours`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.TripRecord, error) {
	var (
		t                    domain.TripRecord
		status, source       string
		createdAt, startDate time.Time
	)
	err := row.Scan(
		&t.ID, &status, &createdAt, &t.CurrentLocation, &t.PickupLocation, &t.DropoffLocation,
		&t.CycleUsedHours, &startDate, &source, &t.Summary.TotalDistance, &t.Summary.EstimatedDriveTime,
		&t.Summary.TotalTripTime, &t.Summary.FuelStops, &t.Summary.RestStops, &t.Summary.DaysNeeded,
		&t.Summary.Feasible, &t.Summary.RemainingCycleHours,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TripStatus(status)
	t.DistanceSource = domain.DistanceSource(source)
	t.CreatedAt = createdAt.UTC()
	t.StartDate = startDate.UTC()
	return &t, nil
}

// GetTrip loads a trip with its stops and daily logs.
func (r *SQLTripRepository) GetTrip(ctx context.Context, id string) (_ *domain.TripRecord, err error) {
	defer obs.Time(ctx, "trips.GetTrip")(&err)

	if r.DB == nil {
		return nil, errors.New("trip repository: DB is nil")
	}

	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT `+tripColumns+` FROM trips WHERE id = ?;`), id)
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	if trip.Stops, err = r.loadStops(ctx, id); err != nil {
		return nil, err
	}
	if trip.Logs, err = r.loadLogs(ctx, id); err != nil {
		return nil, err
	}

	return trip, nil
}

func (r *SQLTripRepository) loadStops(ctx context.Context, id string) ([]domain.RouteStop, error) {
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(`
	SELECT sequence, stop_type, label, duration_minutes, lon, lat
	FROM route_stops
	WHERE trip_id = ?
	ORDER BY sequence;
	`), id)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: query stops: %w", id, err)
	}
	defer rows.Close()

	stops := make([]domain.RouteStop, 0, 8)
	for rows.Next() {
		var st domain.RouteStop
		var typ string
		if err := rows.Scan(&st.Sequence, &typ, &st.Label, &st.DurationMinutes,
			&st.Coordinates.Lon, &st.Coordinates.Lat); err != nil {
			return nil, fmt.Errorf("get trip %s: scan stop: %w", id, err)
		}
		st.Type = domain.StopType(typ)
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get trip %s: stop iteration: %w", id, err)
	}
	return stops, nil
}

func (r *SQLTripRepository) loadLogs(ctx context.Context, id string) ([]domain.DailyLog, error) {
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(`
	SELECT day_index, log_date, driver_name, carrier_name, vehicle_number,
		total_miles, cycle_hours, warning_window_hours, warning_limit
	FROM daily_logs
	WHERE trip_id = ?
	ORDER BY day_index;
	`), id)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: query logs: %w", id, err)
	}
	defer rows.Close()

	logs := make([]domain.DailyLog, 0, 4)
	byDay := make(map[int]int)
	for rows.Next() {
		var l domain.DailyLog
		var date time.Time
		var window, limit sql.NullFloat64
		if err := rows.Scan(&l.DayIndex, &date, &l.DriverName, &l.CarrierName, &l.VehicleNumber,
			&l.TotalMiles, &l.CycleHours, &window, &limit); err != nil {
			return nil, fmt.Errorf("get trip %s: scan log: %w", id, err)
		}
		l.Date = date.UTC()
		if window.Valid {
			l.Warning = &domain.CycleWarning{
				DayIndex:    l.DayIndex,
				Date:        l.Date,
				WindowHours: window.Float64,
				Limit:       limit.Float64,
			}
		}
		byDay[l.DayIndex] = len(logs)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get trip %s: log iteration: %w", id, err)
	}
	rows.Close()

	segRows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(`
	SELECT day_index, sequence, status, start_time, end_time, location
	FROM duty_segments
	WHERE trip_id = ?
	ORDER BY day_index, sequence;
	`), id)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: query segments: %w", id, err)
	}
	defer segRows.Close()

	for segRows.Next() {
		var day int
		var seg domain.DutySegment
		var status string
		if err := segRows.Scan(&day, &seg.Sequence, &status, &seg.Start, &seg.End, &seg.Location); err != nil {
			return nil, fmt.Errorf("get trip %s: scan segment: %w", id, err)
		}
		i, ok := byDay[day]
		if !ok {
			logging.FromContext(ctx).Warn("orphan duty segment",
				slog.String("trip_id", id), slog.Int("day_index", day))
			continue
		}
		seg.Status = domain.DutyStatus(status)
		seg.Start = seg.Start.UTC()
		seg.End = seg.End.UTC()
		logs[i].Segments = append(logs[i].Segments, seg)
	}
	if err := segRows.Err(); err != nil {
		return nil, fmt.Errorf("get trip %s: segment iteration: %w", id, err)
	}

	return logs, nil
}

// ListTrips returns trip headers, newest first. A non-positive limit uses the default.
func (r *SQLTripRepository) ListTrips(ctx context.Context, limit int) (_ []*domain.TripRecord, err error) {
	defer obs.Time(ctx, "trips.ListTrips")(&err)

	if r.DB == nil {
		return nil, errors.New("trip repository: DB is nil")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(`
	SELECT `+tripColumns+`
	FROM trips
	ORDER BY created_at DESC, id
	LIMIT ?;
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.TripRecord, 0, limit)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

func (r *SQLTripRepository) UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error {
	if r.DB == nil {
		return errors.New("trip repository: DB is nil")
	}
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	res, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(`UPDATE trips SET status = ? WHERE id = ?;`), string(status), id)
	if err != nil {
		return fmt.Errorf("update trip status %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update trip status %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}
