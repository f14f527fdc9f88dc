package search

import (
	"testing"

	"github.com/passbi/meetpoint/internal/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFeed(t *testing.T, raw gtfs.RawTables) *gtfs.Feed {
	t.Helper()
	feed, err := gtfs.BuildFeed(raw)
	require.NoError(t, err)
	return feed
}

// S1 — trivial meet at start: both persons already at the same platform.
func TestEngineScenarioTrivialMeet(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "X1", StopName: "X", StopDesc: "X", Lat: "52.520", Lon: "13.400"},
		},
	}
	feed := mustFeed(t, raw)
	eng := NewEngine(feed, DefaultConfig(), nil)

	start := 13 * 3600
	result, err := eng.Run(start, []PersonSpec{
		{Label: "A", StationQuery: "X"},
		{Label: "B", StationQuery: "X"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "X1", result.MeetingPlatform)
	assert.Equal(t, start, result.MeetingAbs)
	for _, p := range result.Persons {
		assert.Equal(t, 0, p.ElapsedS)
		assert.Empty(t, p.Steps)
	}
}

// S2 — walk-only meet: A settles X1 at e=0 before B settles X2 at e=0,
// so the meeting platform is X1.
func TestEngineScenarioWalkOnlyMeet(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "X1", StopName: "X1", StopDesc: "X1", Lat: "52.520", Lon: "13.400"},
			{StopID: "X2", StopName: "X2", StopDesc: "X2", Lat: "52.521", Lon: "13.400"},
		},
	}
	feed := mustFeed(t, raw)
	eng := NewEngine(feed, DefaultConfig(), nil)

	start := 13 * 3600
	result, err := eng.Run(start, []PersonSpec{
		{Label: "A", StationQuery: "X1"},
		{Label: "B", StationQuery: "X2"},
	})
	require.NoError(t, err)

	require.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "X1", result.MeetingPlatform)

	byLabel := map[string]PersonResult{}
	for _, p := range result.Persons {
		byLabel[p.Label] = p
	}
	assert.Equal(t, 0, byLabel["A"].ElapsedS)
	assert.Equal(t, 86, byLabel["B"].ElapsedS)
	assert.Equal(t, start+86, result.MeetingAbs)
}

// S3 — ride meet: A and B both converge on C1 via two different trips.
func TestEngineScenarioRideMeet(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "N1", StopName: "North", StopDesc: "North", Lat: "52.530", Lon: "13.410"},
			{StopID: "S1", StopName: "South", StopDesc: "South", Lat: "52.500", Lon: "13.390"},
			{StopID: "C1", StopName: "Center", StopDesc: "Center", Lat: "52.515", Lon: "13.405"},
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
	feed := mustFeed(t, raw)
	eng := NewEngine(feed, DefaultConfig(), nil)

	start := 13 * 3600
	result, err := eng.Run(start, []PersonSpec{
		{Label: "A", StationQuery: "North"},
		{Label: "B", StationQuery: "South"},
	})
	require.NoError(t, err)

	require.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "C1", result.MeetingPlatform)
	assert.Equal(t, 13*3600+20*60, result.MeetingAbs)
	assert.Equal(t, 5*60, result.FairnessS)

	byLabel := map[string]PersonResult{}
	for _, p := range result.Persons {
		byLabel[p.Label] = p
	}
	assert.Equal(t, 15*60, byLabel["A"].ElapsedS)
	assert.Equal(t, 20*60, byLabel["B"].ElapsedS)
	require.Len(t, byLabel["A"].Steps, 1)
	assert.Equal(t, ModeRide, byLabel["A"].Steps[0].Mode)
}

// S4 — time cap: same feed as S3 but MAX_TRIP_TIME_S=60.
func TestEngineScenarioTimeCap(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "N1", StopName: "North", StopDesc: "North", Lat: "52.530", Lon: "13.410"},
			{StopID: "S1", StopName: "South", StopDesc: "South", Lat: "52.500", Lon: "13.390"},
			{StopID: "C1", StopName: "Center", StopDesc: "Center", Lat: "52.515", Lon: "13.405"},
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
	feed := mustFeed(t, raw)
	cfg := DefaultConfig()
	cfg.MaxTripTimeS = 60
	eng := NewEngine(feed, cfg, nil)

	start := 13 * 3600
	result, err := eng.Run(start, []PersonSpec{
		{Label: "A", StationQuery: "North"},
		{Label: "B", StationQuery: "South"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCap, result.Status)
}

// S5 — explicit shadow: a pathway edge wins over a closer geodesic walk.
func TestEngineScenarioExplicitShadow(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "A1", StopName: "A1", StopDesc: "A1", Lat: "52.520", Lon: "13.400"},
			{StopID: "A2", StopName: "A2", StopDesc: "A2", Lat: "52.5205", Lon: "13.400"},
		},
		Pathways: []gtfs.RawPathway{{FromStopID: "A1", ToStopID: "A2", TraversalTime: "120"}},
	}
	feed := mustFeed(t, raw)

	geo := feed.GeoWalksFrom("A1", gtfs.DefaultWalkSpeedMPS, gtfs.DefaultMaxWalkTimeS)
	for _, w := range geo {
		assert.NotEqual(t, "A2", w.To)
	}

	// Two persons seeded at A1 meet there at once, with no steps.
	eng := NewEngine(feed, DefaultConfig(), nil)
	start := 13 * 3600
	result, err := eng.Run(start, []PersonSpec{
		{Label: "A", StationQuery: "A1"},
		{Label: "A-again", StationQuery: "A1"},
	})
	require.NoError(t, err)
	require.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "A1", result.MeetingPlatform)
	for _, p := range result.Persons {
		assert.Empty(t, p.Steps)
	}

	// A lone frontier seeded at A1 queues A2 via the 120s explicit
	// pathway, never via a shadowed GEO walk.
	counter := 0
	f := seed(feed, "A", "A1", start, &counter)
	popped := f.pop()
	expand(f, feed, DefaultConfig(), popped.to, popped.arrival, popped.elapsed, &counter)

	var walkToA2 *entry
	for _, e := range f.queue {
		if e.to == "A2" {
			walkToA2 = e
		}
	}
	require.NotNil(t, walkToA2)
	assert.Equal(t, "PATHWAYS", walkToA2.action.WalkSource)
	assert.Equal(t, 120, walkToA2.elapsed)
}

// S6 — no meeting: two disconnected components drain without meeting.
func TestEngineScenarioNoMeeting(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "A1", StopName: "Island A", StopDesc: "Island A", Lat: "10.000", Lon: "10.000"},
			{StopID: "B1", StopName: "Island B", StopDesc: "Island B", Lat: "-10.000", Lon: "-10.000"},
		},
	}
	feed := mustFeed(t, raw)
	eng := NewEngine(feed, DefaultConfig(), nil)

	start := 13 * 3600
	result, err := eng.Run(start, []PersonSpec{
		{Label: "A", StationQuery: "Island A"},
		{Label: "B", StationQuery: "Island B"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusNone, result.Status)
}

func TestEngineMaxTripTimeZeroCapsImmediately(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "X1", StopName: "X", StopDesc: "X", Lat: "52.520", Lon: "13.400"},
		},
	}
	feed := mustFeed(t, raw)
	cfg := DefaultConfig()
	cfg.MaxTripTimeS = 0
	eng := NewEngine(feed, cfg, nil)

	result, err := eng.Run(13*3600, []PersonSpec{{Label: "A", StationQuery: "X"}})
	require.NoError(t, err)
	assert.Equal(t, StatusCap, result.Status)
}

func TestEngineMissingArrivalNotRideTerminus(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "N1", StopName: "North", StopDesc: "North", Lat: "52.530", Lon: "13.410"},
			{StopID: "C1", StopName: "Center", StopDesc: "Center", Lat: "52.515", Lon: "13.405"},
		},
		Trips:  []gtfs.RawTrip{{TripID: "T1", RouteID: "R1"}},
		Routes: []gtfs.RawRoute{{RouteID: "R1", RouteType: "3"}},
		StopTimes: []gtfs.RawStopTime{
			{TripID: "T1", StopID: "N1", StopSequence: "1", ArrivalTime: "13:05:00", DepartureTime: "13:05:00"},
			{TripID: "T1", StopID: "C1", StopSequence: "2", ArrivalTime: "", DepartureTime: "13:15:00"},
		},
	}
	feed := mustFeed(t, raw)
	rows := feed.StopTimesByTrip["T1"]
	require.Len(t, rows, 2)
	assert.False(t, rows[1].HasArrival())
}

func TestEngineStationWithNoFutureDepartureFallsBackToFirstPlatform(t *testing.T) {
	raw := gtfs.RawTables{
		Stops: []gtfs.RawStop{
			{StopID: "P1", StopName: "P", StopDesc: "P", Lat: "1", Lon: "1", ParentStation: "ST"},
			{StopID: "P2", StopName: "P", StopDesc: "P", Lat: "1", Lon: "1", ParentStation: "ST"},
		},
		Trips:  []gtfs.RawTrip{{TripID: "T1", RouteID: "R1"}},
		Routes: []gtfs.RawRoute{{RouteID: "R1", RouteType: "3"}},
		StopTimes: []gtfs.RawStopTime{
			{TripID: "T1", StopID: "P1", StopSequence: "1", ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
		},
	}
	feed := mustFeed(t, raw)
	eng := NewEngine(feed, DefaultConfig(), nil)

	result, err := eng.Run(13*3600, []PersonSpec{{Label: "A", StationQuery: "P"}})
	require.NoError(t, err)
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "P1", result.MeetingPlatform)
}
