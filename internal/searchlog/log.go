// Package searchlog records one audit row per search request, modeled
// on the import_log table pattern: an opening INSERT at request time
// followed by a completing UPDATE once the engine returns.
package searchlog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/passbi/meetpoint/internal/models"
	"github.com/passbi/meetpoint/internal/search"
)

// Begin inserts a "running" row for an incoming search request and
// returns its ID so Complete can close it out.
func Begin(ctx context.Context, pool *pgxpool.Pool, startTimeSec, personCount int) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO search_log (requested_at, start_time_sec, person_count, status)
		VALUES (NOW(), $1, $2, 'running')
		RETURNING id
	`, startTimeSec, personCount).Scan(&id)
	return id, err
}

// Complete finalizes a search_log row with the engine's result.
func Complete(ctx context.Context, pool *pgxpool.Pool, id int64, result search.Result, duration time.Duration, cacheHit bool, errMsg string) error {
	status := string(result.Status)
	if status == "" {
		status = "ERROR"
	}

	_, err := pool.Exec(ctx, `
		UPDATE search_log
		SET completed_at = NOW(),
		    status = $2,
		    meeting_platform = $3,
		    duration_ms = $4,
		    cache_hit = $5,
		    error_msg = $6
		WHERE id = $1
	`, id, status, result.MeetingPlatform, int(duration.Milliseconds()), cacheHit, errMsg)
	return err
}

// Recent returns the most recent n search_log rows, newest first.
func Recent(ctx context.Context, pool *pgxpool.Pool, n int) ([]models.SearchLogEntry, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, requested_at, start_time_sec, person_count, status,
		       COALESCE(meeting_platform, ''), COALESCE(duration_ms, 0),
		       COALESCE(cache_hit, false), COALESCE(error_msg, '')
		FROM search_log
		ORDER BY requested_at DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SearchLogEntry
	for rows.Next() {
		var e models.SearchLogEntry
		if err := rows.Scan(&e.ID, &e.RequestedAt, &e.StartTimeSec, &e.PersonCount,
			&e.Status, &e.MeetingPlatform, &e.DurationMs, &e.CacheHit, &e.ErrorMsg); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
