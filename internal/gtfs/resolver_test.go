package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStationSubstringMatch(t *testing.T) {
	feed, err := BuildFeed(sampleRaw())
	require.NoError(t, err)

	id, err := feed.ResolveStation("x station")
	require.NoError(t, err)
	assert.Equal(t, "X", id)
}

func TestResolveStationNoMatch(t *testing.T) {
	feed, err := BuildFeed(sampleRaw())
	require.NoError(t, err)

	_, err = feed.ResolveStation("nonexistent")
	assert.Error(t, err)

	var unresolved *StationUnresolvedError
	assert.ErrorAs(t, err, &unresolved)
}

func TestResolveStationCandidatesTieBreak(t *testing.T) {
	raw := RawTables{
		Stops: []RawStop{
			{StopID: "P1", StopName: "Central Square", StopDesc: "Central Square", Lat: "1", Lon: "1", ParentStation: "ST_B"},
			{StopID: "P2", StopName: "Central Park", StopDesc: "Central Park", Lat: "1", Lon: "1", ParentStation: "ST_A"},
		},
	}
	feed, err := BuildFeed(raw)
	require.NoError(t, err)

	candidates := feed.ResolveStationCandidates("central")
	require.Len(t, candidates, 2)
	// Ascending by display name: "Central Park" < "Central Square".
	assert.Equal(t, "ST_A", candidates[0])
	assert.Equal(t, "ST_B", candidates[1])
}
