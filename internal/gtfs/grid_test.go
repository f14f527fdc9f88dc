package gtfs

import (
	"testing"

	"github.com/passbi/meetpoint/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGridNearbyExcludesSelfAndRespectsRadius(t *testing.T) {
	platforms := map[string]models.Platform{
		"X1": {ID: "X1", Lat: 52.520, Lon: 13.400},
		"X2": {ID: "X2", Lat: 52.521, Lon: 13.400}, // ~111m away
		"Y1": {ID: "Y1", Lat: 53.000, Lon: 14.000}, // far away
	}
	grid := NewGrid(platforms)

	near := grid.Nearby("X1", 200)
	assert.Len(t, near, 1)
	assert.Equal(t, "X2", near[0].PlatformID)
	assert.InDelta(t, 111.0, near[0].DistanceM, 10)

	far := grid.Nearby("X1", 50)
	assert.Empty(t, far)
}

func TestGridNearbyUnknownPlatform(t *testing.T) {
	grid := NewGrid(map[string]models.Platform{})
	assert.Nil(t, grid.Nearby("missing", 500))
}
