// Package models holds the domain types shared by the feed, graph,
// search and transport layers.
package models

import "time"

// RouteType is the normalized GTFS route_type enum (see §6).
type RouteType string

const (
	RouteTram  RouteType = "TRAM"
	RouteRail  RouteType = "RAIL"
	RouteBus   RouteType = "BUS"
	RouteMetro RouteType = "METRO"
	RouteOther RouteType = "OTHER"
)

// NormalizeRouteType maps a raw GTFS route_type code to the normalized enum.
func NormalizeRouteType(code int) RouteType {
	switch code {
	case 0, 900:
		return RouteTram
	case 2, 100:
		return RouteRail
	case 3, 700:
		return RouteBus
	case 400:
		return RouteMetro
	default:
		return RouteOther
	}
}

// WalkSource identifies which table produced a walk edge.
type WalkSource string

const (
	SourcePathways  WalkSource = "PATHWAYS"
	SourceTransfers WalkSource = "TRANSFERS"
	SourceGeo       WalkSource = "GEO"
)

// Platform is a physical vehicle boarding/alighting point (a GTFS stop).
// Immutable after ingest.
type Platform struct {
	ID        string
	StationID string
	Name      string
	Label     string
	Lat       float64
	Lon       float64
}

// Station is a logical grouping of platforms sharing a station_id.
// Immutable after ingest.
type Station struct {
	ID        string
	Name      string
	Platforms []string // platform IDs, first-seen order
}

// Route carries normalized route metadata.
type Route struct {
	ID        string
	ShortName string
	LongName  string
	Type      RouteType
	AgencyID  string
}

// Trip is one scheduled vehicle run. Trip identity is immutable; its
// stop sequence is held separately (see StopTimeRow).
type Trip struct {
	ID        string
	RouteID   string
	Headsign  string
	Direction int
}

// StopTimeRow is one row of a trip's stop sequence. ArrivalSec < 0 means
// the row had no parseable arrival_time and cannot serve as a ride
// terminus.
type StopTimeRow struct {
	TripID       string
	PlatformID   string
	StopSequence int
	ArrivalSec   int
	DepartureSec int
}

// HasArrival reports whether this row may serve as a ride terminus.
func (r StopTimeRow) HasArrival() bool {
	return r.ArrivalSec >= 0
}

// WalkEdge is a directed pedestrian connection between two platforms,
// floored at 30s irrespective of source.
type WalkEdge struct {
	From      string
	To        string
	DurationS int
	Source    WalkSource
}

// SearchLogEntry is one row of the search audit log (internal/searchlog),
// modeled on the teacher's ImportLog.
type SearchLogEntry struct {
	ID              int64
	RequestedAt     time.Time
	StartTimeSec    int
	PersonCount     int
	Status          string // OK | CAP | NONE
	MeetingPlatform string
	DurationMs      int
	CacheHit        bool
	ErrorMsg        string
}
