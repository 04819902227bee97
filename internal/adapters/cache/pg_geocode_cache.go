package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
)

// PGGeocodeCache maps normalized place names to coordinates. Geocodes do not
// expire.
type PGGeocodeCache struct {
	DB *sql.DB
}

func NewPGGeocodeCache(db *sql.DB) *PGGeocodeCache {
	return &PGGeocodeCache{DB: db}
}

func (s *PGGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	keys := uniqueKeys(addresses)
	if len(keys) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT address, lon, lat
	FROM geocode_cache
	WHERE address = ANY($1::text[]);
	`, keys)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(keys))
	for rows.Next() {
		var addr string
		var c domain.Coordinates
		if err := rows.Scan(&addr, &c.Lon, &c.Lat); err != nil {
			return nil, fmt.Errorf("geocode cache: scan: %w", err)
		}
		out[addr] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache: rows: %w", err)
	}
	return out, nil
}

func (s *PGGeocodeCache) PutMany(ctx context.Context, coords map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(coords) == 0 {
		return nil
	}

	return inTx(ctx, s.DB, `
	INSERT INTO geocode_cache (address, lon, lat)
	VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`, func(stmt *sql.Stmt) error {
		for addr, c := range coords {
			if strings.TrimSpace(addr) == "" {
				return errors.New("empty address key")
			}
			if _, err := stmt.ExecContext(ctx, addr, c.Lon, c.Lat); err != nil {
				return fmt.Errorf("address=%q: %w", addr, err)
			}
		}
		return nil
	})
}
