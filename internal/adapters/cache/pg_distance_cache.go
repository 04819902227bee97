package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// PGDistanceCache stores ORS matrix results per routing profile. Rows older
// than maxAge are treated as misses so road changes eventually show up.
type PGDistanceCache struct {
	DB      *sql.DB
	Profile string
	MaxAge  time.Duration
}

func NewPGDistanceCache(db *sql.DB, profile string, maxAge time.Duration) *PGDistanceCache {
	return &PGDistanceCache{DB: db, Profile: profile, MaxAge: maxAge}
}

func (s *PGDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if origin == "" {
		return nil, errors.New("distance cache: origin must not be empty")
	}

	keys := uniqueKeys(destinations)
	if len(keys) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT destination, distance_meters, duration_seconds
	FROM distance_cache
	WHERE profile = $1
		AND origin = $2
		AND destination = ANY($3::text[])
		AND fetched_at > $4;
	`, s.Profile, origin, keys, cutoff(s.MaxAge))
	if err != nil {
		return nil, fmt.Errorf("distance cache: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(keys))
	for rows.Next() {
		var dest string
		var r ports.DistanceResult
		if err := rows.Scan(&dest, &r.DistanceMeters, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("distance cache: scan: %w", err)
		}
		out[dest] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distance cache: rows: %w", err)
	}
	return out, nil
}

func (s *PGDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if origin == "" {
		return errors.New("distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	return inTx(ctx, s.DB, `
	INSERT INTO distance_cache (profile, origin, destination, distance_meters, duration_seconds, fetched_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (profile, origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		fetched_at = EXCLUDED.fetched_at;
	`, func(stmt *sql.Stmt) error {
		for dest, r := range results {
			if strings.TrimSpace(dest) == "" {
				return errors.New("empty destination key")
			}
			if _, err := stmt.ExecContext(ctx, s.Profile, origin, dest, r.DistanceMeters, r.DurationSeconds); err != nil {
				return fmt.Errorf("dest=%q: %w", dest, err)
			}
		}
		return nil
	})
}

// inTx prepares query in a transaction and hands it to exec.
func inTx(ctx context.Context, db *sql.DB, query string, exec func(*sql.Stmt) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	if err := exec(stmt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func uniqueKeys(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// cutoff returns the oldest acceptable fetched_at; zero maxAge keeps rows forever.
func cutoff(maxAge time.Duration) time.Time {
	if maxAge <= 0 {
		return time.Time{}
	}
	return time.Now().Add(-maxAge)
}
