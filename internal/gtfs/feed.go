package gtfs

import (
	"sort"

	"github.com/passbi/meetpoint/internal/models"
)

// Feed is the normalized, read-only in-memory view of a GTFS feed built
// by a single ingestion pass over RawTables.
type Feed struct {
	Platforms map[string]models.Platform
	Stations  map[string]models.Station
	Routes    map[string]models.Route
	Trips     map[string]models.Trip

	// StopTimesByTrip is sorted by stop_sequence ascending, per trip.
	StopTimesByTrip map[string][]models.StopTimeRow

	// StopTimesByPlatform is sorted by departure_sec ascending, per
	// platform, for ride enumeration and seed selection.
	StopTimesByPlatform map[string][]models.StopTimeRow

	// ExplicitWalk holds every (from,to) pair already covered by a
	// pathway or transfer edge, so GEO enumeration can skip it.
	ExplicitWalk map[[2]string]models.WalkEdge

	Grid *Grid
}

// BuildFeed normalizes raw CSV rows into a Feed. An empty stops table, an
// empty stop_id, or an unparseable or out-of-range coordinate is fatal via
// the returned error. Stop_time rows with an unknown stop, an unparseable
// stop_sequence or an unparseable departure time, and pathway/transfer
// rows with an unknown stop or an unparseable duration, are dropped
// silently.
func BuildFeed(raw RawTables) (*Feed, error) {
	if len(raw.Stops) == 0 {
		return nil, &FeedMalformedError{File: "stops.txt", Reason: "no rows"}
	}

	platforms := make(map[string]models.Platform, len(raw.Stops))
	descByStation := map[string]*modalCounter{}
	nameByStation := map[string]*modalCounter{}
	childOrder := map[string][]string{}
	stationOrder := []string{}
	seenStation := map[string]bool{}

	for _, rs := range raw.Stops {
		if rs.StopID == "" {
			return nil, &FeedMalformedError{File: "stops.txt", Reason: "empty stop_id"}
		}
		lat, ok1 := parseFloatStrict(rs.Lat)
		lon, ok2 := parseFloatStrict(rs.Lon)
		if !ok1 || !ok2 {
			return nil, &FeedMalformedError{File: "stops.txt", Reason: "unparseable lat/lon for " + rs.StopID}
		}
		if !validCoordinate(lat, lon) {
			return nil, &FeedMalformedError{File: "stops.txt", Reason: "out-of-range coordinates for " + rs.StopID}
		}

		stationID := rs.ParentStation
		if stationID == "" {
			stationID = rs.StopID
		}

		platforms[rs.StopID] = models.Platform{
			ID:        rs.StopID,
			StationID: stationID,
			Name:      rs.StopName,
			Label:     rs.StopDesc,
			Lat:       lat,
			Lon:       lon,
		}

		if !seenStation[stationID] {
			seenStation[stationID] = true
			stationOrder = append(stationOrder, stationID)
		}
		childOrder[stationID] = append(childOrder[stationID], rs.StopID)

		if rs.StopDesc != "" {
			if descByStation[stationID] == nil {
				descByStation[stationID] = newModalCounter()
			}
			descByStation[stationID].add(rs.StopDesc)
		}
		if rs.StopName != "" {
			if nameByStation[stationID] == nil {
				nameByStation[stationID] = newModalCounter()
			}
			nameByStation[stationID].add(rs.StopName)
		}
	}

	stations := make(map[string]models.Station, len(stationOrder))
	for _, sid := range stationOrder {
		name := ""
		if c := descByStation[sid]; c != nil {
			name = c.mode()
		}
		if name == "" {
			if c := nameByStation[sid]; c != nil {
				name = c.mode()
			}
		}
		if name == "" {
			name = childOrder[sid][0]
		}
		stations[sid] = models.Station{
			ID:        sid,
			Name:      name,
			Platforms: childOrder[sid],
		}
	}

	routes := make(map[string]models.Route, len(raw.Routes))
	for _, rr := range raw.Routes {
		code, _ := parseIntLoose(rr.RouteType)
		routes[rr.RouteID] = models.Route{
			ID:        rr.RouteID,
			ShortName: rr.ShortName,
			LongName:  rr.LongName,
			Type:      models.NormalizeRouteType(code),
			AgencyID:  rr.AgencyID,
		}
	}

	trips := make(map[string]models.Trip, len(raw.Trips))
	for _, rt := range raw.Trips {
		dir, _ := parseIntLoose(rt.DirectionID)
		trips[rt.TripID] = models.Trip{
			ID:        rt.TripID,
			RouteID:   rt.RouteID,
			Headsign:  rt.Headsign,
			Direction: dir,
		}
	}

	byTrip := map[string][]models.StopTimeRow{}
	for _, rst := range raw.StopTimes {
		if _, ok := platforms[rst.StopID]; !ok {
			continue
		}
		seq, ok := parseIntLoose(rst.StopSequence)
		if !ok {
			continue
		}
		dep, depOK := ParseTime(rst.DepartureTime)
		if !depOK {
			continue
		}
		arr, arrOK := ParseTime(rst.ArrivalTime)
		if !arrOK {
			arr = -1
		}
		byTrip[rst.TripID] = append(byTrip[rst.TripID], models.StopTimeRow{
			TripID:       rst.TripID,
			PlatformID:   rst.StopID,
			StopSequence: seq,
			ArrivalSec:   arr,
			DepartureSec: dep,
		})
	}

	byPlatform := map[string][]models.StopTimeRow{}
	for tripID, rows := range byTrip {
		sort.Slice(rows, func(i, j int) bool { return rows[i].StopSequence < rows[j].StopSequence })
		byTrip[tripID] = rows
		for _, r := range rows {
			byPlatform[r.PlatformID] = append(byPlatform[r.PlatformID], r)
		}
	}
	for platformID, rows := range byPlatform {
		sort.Slice(rows, func(i, j int) bool { return rows[i].DepartureSec < rows[j].DepartureSec })
		byPlatform[platformID] = rows
	}

	explicit := map[[2]string]models.WalkEdge{}
	for _, rp := range raw.Pathways {
		if _, ok := platforms[rp.FromStopID]; !ok {
			continue
		}
		if _, ok := platforms[rp.ToStopID]; !ok {
			continue
		}
		t, ok := parseIntLoose(rp.TraversalTime)
		if !ok {
			continue
		}
		key := [2]string{rp.FromStopID, rp.ToStopID}
		explicit[key] = models.WalkEdge{
			From:      rp.FromStopID,
			To:        rp.ToStopID,
			DurationS: floorDuration(t),
			Source:    models.SourcePathways,
		}
	}
	for _, rt := range raw.Transfers {
		if _, ok := platforms[rt.FromStopID]; !ok {
			continue
		}
		if _, ok := platforms[rt.ToStopID]; !ok {
			continue
		}
		t, ok := parseIntLoose(rt.MinTransferTimeS)
		if !ok {
			continue
		}
		key := [2]string{rt.FromStopID, rt.ToStopID}
		if _, exists := explicit[key]; exists {
			continue
		}
		explicit[key] = models.WalkEdge{
			From:      rt.FromStopID,
			To:        rt.ToStopID,
			DurationS: floorDuration(t),
			Source:    models.SourceTransfers,
		}
	}

	grid := NewGrid(platforms)

	return &Feed{
		Platforms:           platforms,
		Stations:            stations,
		Routes:              routes,
		Trips:               trips,
		StopTimesByTrip:      byTrip,
		StopTimesByPlatform:  byPlatform,
		ExplicitWalk:         explicit,
		Grid:                 grid,
	}, nil
}

func floorDuration(seconds int) int {
	if seconds < 30 {
		return 30
	}
	return seconds
}

// modalCounter tracks value frequency while remembering first-occurrence
// order, so ties break by whichever value was seen first (§3).
type modalCounter struct {
	order  []string
	counts map[string]int
}

func newModalCounter() *modalCounter {
	return &modalCounter{counts: map[string]int{}}
}

func (c *modalCounter) add(v string) {
	if c.counts[v] == 0 {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *modalCounter) mode() string {
	best := ""
	bestCount := 0
	for _, v := range c.order {
		if c.counts[v] > bestCount {
			best = v
			bestCount = c.counts[v]
		}
	}
	return best
}
