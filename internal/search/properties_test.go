package search

import (
	"testing"

	"github.com/passbi/meetpoint/internal/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// denseFeed builds a small multi-trip, multi-walk feed exercising rides,
// pathways, and geodesic walks together, for property tests that need a
// non-trivial graph.
func denseFeed(t *testing.T) *gtfs.Feed {
	t.Helper()
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "N1", StopName: "North", StopDesc: "North", Lat: "52.530", Lon: "13.410"},
			{StopID: "S1", StopName: "South", StopDesc: "South", Lat: "52.500", Lon: "13.390"},
			{StopID: "C1", StopName: "Center", StopDesc: "Center", Lat: "52.515", Lon: "13.405"},
			{StopID: "C2", StopName: "Center Annex", StopDesc: "Center Annex", Lat: "52.5151", Lon: "13.405"},
		},
		Trips: []gtfs.RawTrip{
			{TripID: "T1", RouteID: "R1"},
			{TripID: "T2", RouteID: "R1"},
		},
		Routes: []gtfs.RawRoute{{RouteID: "R1", RouteType: "3"}},
		StopTimes: []gtfs.RawStopTime{
			{TripID: "T1", StopID: "N1", StopSequence: "1", ArrivalTime: "13:05:00", DepartureTime: "13:05:00"},
			{TripID: "T1", StopID: "C1", StopSequence: "2", ArrivalTime: "13:15:00", DepartureTime: "13:15:00"},
			{TripID: "T2", StopID: "S1", StopSequence: "1", ArrivalTime: "13:07:00", DepartureTime: "13:07:00"},
			{TripID: "T2", StopID: "C1", StopSequence: "2", ArrivalTime: "13:20:00", DepartureTime: "13:20:00"},
		},
	}
	feed, err := gtfs.BuildFeed(raw)
	require.NoError(t, err)
	return feed
}

func TestReconstructTerminatesAndIsAcyclic(t *testing.T) {
	feed := denseFeed(t)
	eng := NewEngine(feed, DefaultConfig(), nil)

	result, err := eng.Run(13*3600, []PersonSpec{
		{Label: "A", StationQuery: "North"},
		{Label: "B", StationQuery: "South"},
	})
	require.NoError(t, err)
	require.Equal(t, StatusOK, result.Status)

	for _, p := range result.Persons {
		seen := map[string]bool{}
		for _, step := range p.Steps {
			key := step.From + ">" + step.To
			assert.False(t, seen[key], "reconstruct revisited an edge, predecessor chain is cyclic")
			seen[key] = true
		}
	}
}

func TestWalkDurationsAlwaysAtLeast30s(t *testing.T) {
	feed := denseFeed(t)
	eng := NewEngine(feed, DefaultConfig(), nil)

	result, err := eng.Run(13*3600, []PersonSpec{
		{Label: "A", StationQuery: "North"},
		{Label: "B", StationQuery: "South"},
	})
	require.NoError(t, err)

	for _, p := range result.Persons {
		for _, step := range p.Steps {
			if step.Mode == ModeWalk {
				assert.GreaterOrEqual(t, step.ArriveAbs-step.AtAbs, 30)
			}
		}
	}
}

func TestDeterministicAcrossReruns(t *testing.T) {
	feed := denseFeed(t)
	cfg := DefaultConfig()

	run := func() Result {
		eng := NewEngine(feed, cfg, nil)
		result, err := eng.Run(13*3600, []PersonSpec{
			{Label: "A", StationQuery: "North"},
			{Label: "B", StationQuery: "South"},
		})
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestSeedFallsBackWhenNoFutureDeparture(t *testing.T) {
	feed := denseFeed(t)
	counter := 0
	// North's only departure is at 13:05; seeding at 23:00 has no
	// future departure, so the frontier must still seed without crashing.
	f := seed(feed, "A", "N1", 23*3600, &counter)
	assert.NotNil(t, f.peek())
}
