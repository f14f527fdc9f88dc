package search

import (
	"container/heap"

	"github.com/passbi/meetpoint/internal/gtfs"
)

// firstReached records when a platform was first settled for a person:
// the absolute arrival time and the accumulated elapsed cost that
// reached it.
type firstReached struct {
	Arrival int
	Elapsed int
}

// Frontier is one traveller's private search state: a priority queue of
// candidate next actions, the set of settled platforms, the predecessor
// map used for reconstruction, and the first-reached record per
// platform. Frontier, visited, parent and reachedFirst are created at
// seed time and live only for the duration of one search (§3 Lifecycle).
type Frontier struct {
	Label     string
	StationID string
	StartAbs  int

	queue        frontierQueue
	visited      map[string]bool
	parent       map[string]Action
	reachedFirst map[string]firstReached

	uniquePlatforms map[string]bool // for progress reporting only
}

func newFrontier(label, stationID string, startAbs int) *Frontier {
	return &Frontier{
		Label:           label,
		StationID:       stationID,
		StartAbs:        startAbs,
		visited:         make(map[string]bool),
		parent:          make(map[string]Action),
		reachedFirst:    make(map[string]firstReached),
		uniquePlatforms: make(map[string]bool),
	}
}

// peek returns the frontier's minimum entry without removing it.
func (f *Frontier) peek() *entry {
	if len(f.queue) == 0 {
		return nil
	}
	return f.queue[0]
}

func (f *Frontier) push(e *entry) {
	heap.Push(&f.queue, e)
}

func (f *Frontier) pop() *entry {
	return heap.Pop(&f.queue).(*entry)
}

// seed picks the seed platform for a person starting at station
// stationID at wall-clock t0 (§4.5 Seeding) and pushes its START entry.
func seed(feed *gtfs.Feed, label, stationID string, t0 int, counter *int) *Frontier {
	f := newFrontier(label, stationID, t0)

	station := feed.Stations[stationID]
	seedPlatform := station.Platforms[0]
	bestDeparture := -1

	for _, platformID := range station.Platforms {
		rows := feed.StopTimesByPlatform[platformID]
		for _, row := range rows {
			if row.DepartureSec >= t0 {
				if bestDeparture == -1 || row.DepartureSec < bestDeparture {
					bestDeparture = row.DepartureSec
					seedPlatform = platformID
				}
				break // rows sorted ascending; first match is the earliest future departure
			}
		}
	}

	*counter++
	f.push(&entry{
		elapsed: 0,
		arrival: t0,
		to:      seedPlatform,
		counter: *counter,
		action: Action{
			Mode:      ModeStart,
			From:      "",
			To:        seedPlatform,
			AtAbs:     t0,
			ArriveAbs: t0,
		},
	})

	return f
}

// expand enqueues every pathway/transfer walk, geodesic walk, and ride
// reachable from platform "at" given absolute time t and accumulated
// elapsed cost e (§4.5 Expansion).
func expand(f *Frontier, feed *gtfs.Feed, cfg Config, at string, t, e int, counter *int) {
	for _, w := range feed.ExplicitWalksFrom(at) {
		*counter++
		f.push(&entry{
			elapsed: e + w.DurationS,
			arrival: t + w.DurationS,
			to:      w.To,
			counter: *counter,
			action: Action{
				Mode:       ModeWalk,
				From:       at,
				To:         w.To,
				AtAbs:      t,
				ArriveAbs:  t + w.DurationS,
				WalkSource: string(w.Source),
			},
		})
	}

	for _, w := range feed.GeoWalksFrom(at, cfg.WalkSpeedMPS, cfg.MaxWalkTimeS) {
		*counter++
		f.push(&entry{
			elapsed: e + w.DurationS,
			arrival: t + w.DurationS,
			to:      w.To,
			counter: *counter,
			action: Action{
				Mode:       ModeWalk,
				From:       at,
				To:         w.To,
				AtAbs:      t,
				ArriveAbs:  t + w.DurationS,
				WalkSource: string(w.Source),
			},
		})
	}

	rows := feed.StopTimesByPlatform[at]
	for _, row := range rows {
		if row.DepartureSec < t {
			continue
		}
		tripRows := feed.StopTimesByTrip[row.TripID]
		idx := -1
		for i, r := range tripRows {
			if r.StopSequence == row.StopSequence && r.PlatformID == at {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}
		for _, r2 := range tripRows[idx+1:] {
			if !r2.HasArrival() {
				continue
			}
			wait := row.DepartureSec - t
			ride := r2.ArrivalSec - row.DepartureSec
			if ride < 0 {
				continue
			}
			trip := feed.Trips[row.TripID]
			*counter++
			f.push(&entry{
				elapsed: e + wait + ride,
				arrival: r2.ArrivalSec,
				to:      r2.PlatformID,
				counter: *counter,
				action: Action{
					Mode:      ModeRide,
					From:      at,
					To:        r2.PlatformID,
					AtAbs:     t,
					ArriveAbs: r2.ArrivalSec,
					TripID:    row.TripID,
					RouteID:   trip.RouteID,
					Headsign:  trip.Headsign,
					WaitS:     wait,
					RideS:     ride,
				},
			})
		}
	}
}
