package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// SQLDistanceCache is a SQL-backed cache for origin->destination distance
// results. The same queries run on SQLite and Postgres; placeholders are
// rebound for the dialect.
type SQLDistanceCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLDistanceCache(conn *sql.DB, dialect db.Dialect) *SQLDistanceCache {
	return &SQLDistanceCache{DB: conn, Dialect: dialect}
}

// Fetch cached distances for one origin and multiple destinations.
func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq, placeholders := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	q := s.Dialect.Rebind(fmt.Sprintf(`
	SELECT destination, distance_miles, duration_hours
	FROM distance_cache
	WHERE origin = ?
		AND destination IN (%s);
	`, placeholders))

	args := make([]any, 0, 1+len(uniq))
	args = append(args, origin)
	for _, d := range uniq {
		args = append(args, d)
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(uniq))
	for rows.Next() {
		var dest string
		var miles, hours float64
		if err := rows.Scan(&dest, &miles, &hours); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		out[dest] = ports.DistanceResult{Miles: miles, Hours: hours}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distance cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO distance_cache (origin, destination, distance_miles, duration_hours)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_miles = excluded.distance_miles,
		duration_hours = excluded.duration_hours;
	`))
	if err != nil {
		return fmt.Errorf("insert distance cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, r.Miles, r.Hours); err != nil {
			return fmt.Errorf("insert distance cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distance cache commit: %w", err)
	}

	return nil
}
