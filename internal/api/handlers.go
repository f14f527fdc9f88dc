package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/passbi/meetpoint/internal/db"
	"github.com/passbi/meetpoint/internal/search"
	"github.com/passbi/meetpoint/internal/searchcache"
	"github.com/passbi/meetpoint/internal/searchlog"
)

// Health handles the /health endpoint.
func Health(c *fiber.Ctx) error {
	ctx := c.Context()

	dbErr := db.HealthCheck(ctx)
	dbStatus := "ok"
	if dbErr != nil {
		dbStatus = dbErr.Error()
	}

	cacheErr := searchcache.HealthCheck(ctx)
	cacheStatus := "ok"
	if cacheErr != nil {
		cacheStatus = cacheErr.Error()
	}

	f, _ := currentFeed()
	feedStatus := "loaded"
	if f == nil {
		feedStatus = "not loaded"
	}

	status := "healthy"
	httpStatus := 200
	if dbErr != nil || cacheErr != nil || f == nil {
		status = "unhealthy"
		httpStatus = 503
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"database": dbStatus,
			"cache":    cacheStatus,
			"feed":     feedStatus,
		},
	})
}

// StationMatch is one candidate returned by the station-search endpoint.
type StationMatch struct {
	StationID     string `json:"station_id"`
	Name          string `json:"name"`
	PlatformCount int    `json:"platform_count"`
}

// StationSearchResponse wraps the ordered candidate list.
type StationSearchResponse struct {
	Query   string         `json:"query"`
	Matches []StationMatch `json:"matches"`
}

// StationSearch handles GET /v2/stations/search?q=... , surfacing every
// station whose display name contains q rather than silently picking the
// best match, so a caller can disambiguate before running a search.
func StationSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "missing required parameter: q",
		})
	}

	f, _ := currentFeed()
	if f == nil {
		return c.Status(503).JSON(fiber.Map{
			"error": "feed not loaded",
		})
	}

	ids := f.ResolveStationCandidates(query)
	matches := make([]StationMatch, 0, len(ids))
	for _, id := range ids {
		st := f.Stations[id]
		matches = append(matches, StationMatch{
			StationID:     st.ID,
			Name:          st.Name,
			PlatformCount: len(st.Platforms),
		})
	}

	return c.JSON(StationSearchResponse{Query: query, Matches: matches})
}

// PersonRequest is one entry of a meeting-search request body.
type PersonRequest struct {
	Label        string `json:"label"`
	StationQuery string `json:"station_query"`
}

// MeetRequest is the /v2/meet request body.
type MeetRequest struct {
	StartTimeSec int             `json:"start_time_sec"`
	People       []PersonRequest `json:"people"`
}

// MeetResponse is the /v2/meet response body: the engine Result plus a
// cache_hit flag the result itself doesn't carry.
type MeetResponse struct {
	search.Result
	CacheHit bool `json:"cache_hit"`
}

// MeetingSearch handles POST /v2/meet: resolves every person's station,
// runs the earliest-meeting-point engine, and records the outcome to the
// search audit log. A cache lookaside avoids recomputing identical
// requests, guarded by a distributed lock against a thundering herd.
func MeetingSearch(c *fiber.Ctx) error {
	var req MeetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.People) < 2 {
		return c.Status(400).JSON(fiber.Map{
			"error": "at least two people are required",
		})
	}

	f, cfg := currentFeed()
	if f == nil {
		return c.Status(503).JSON(fiber.Map{
			"error": "feed not loaded",
		})
	}

	people := make([]search.PersonSpec, len(req.People))
	for i, p := range req.People {
		people[i] = search.PersonSpec{Label: p.Label, StationQuery: p.StationQuery}
	}

	ctx := c.Context()
	cacheKey := searchcache.SearchKey(req.StartTimeSec, people)

	if cached, err := searchcache.GetResult(ctx, cacheKey); err != nil {
		log.Printf("search cache read failed: %v", err)
	} else if cached != nil {
		return c.JSON(toMeetResponse(*cached, true))
	}

	lockKey := searchcache.LockKey(cacheKey)
	acquired, lockErr := searchcache.AcquireLock(ctx, lockKey, 5*time.Second)
	if lockErr != nil {
		log.Printf("failed to acquire search lock: %v", lockErr)
	} else if !acquired {
		if cached, err := searchcache.WaitForLock(ctx, cacheKey, 3*time.Second); err == nil && cached != nil {
			return c.JSON(toMeetResponse(*cached, true))
		}
	}
	defer func() {
		if acquired {
			searchcache.ReleaseLock(ctx, lockKey)
		}
	}()

	var logID int64
	var logErr error
	if pool, err := db.GetDB(); err == nil {
		logID, logErr = searchlog.Begin(ctx, pool, req.StartTimeSec, len(people))
		if logErr != nil {
			log.Printf("search log begin failed: %v", logErr)
		}
	}

	started := time.Now()
	engine := search.NewEngine(f, cfg, nil)
	result, err := engine.Run(req.StartTimeSec, people)
	duration := time.Since(started)

	if logErr == nil {
		if pool, poolErr := db.GetDB(); poolErr == nil {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}
			if completeErr := searchlog.Complete(ctx, pool, logID, result, duration, false, errMsg); completeErr != nil {
				log.Printf("search log complete failed: %v", completeErr)
			}
		}
	}

	if err != nil {
		return c.Status(422).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if result.Status == search.StatusOK {
		if cacheErr := searchcache.SetResult(ctx, cacheKey, &result, 10*time.Minute); cacheErr != nil {
			log.Printf("failed to cache search result: %v", cacheErr)
		}
	}

	return c.JSON(toMeetResponse(result, false))
}

func toMeetResponse(r search.Result, cacheHit bool) MeetResponse {
	return MeetResponse{Result: r, CacheHit: cacheHit}
}
