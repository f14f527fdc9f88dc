package searchlog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordFeedSnapshot logs one ingest run's feed statistics, mirroring the
// teacher's import_log row per GTFS import.
func RecordFeedSnapshot(ctx context.Context, pool *pgxpool.Pool, platforms, stations, trips, explicitWalks int) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO feed_snapshot (ingested_at, platform_count, station_count, trip_count, explicit_walk_count)
		VALUES (NOW(), $1, $2, $3, $4)
	`, platforms, stations, trips, explicitWalks)
	return err
}
