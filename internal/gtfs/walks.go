package gtfs

import (
	"math"

	"github.com/passbi/meetpoint/internal/models"
)

// Default spatial/time parameters (§4.4), overridable via engine config.
const (
	DefaultWalkSpeedMPS  = 1.3
	DefaultMaxWalkTimeS  = 600
)

// MaxWalkRadiusM returns the enumeration radius implied by a given walk
// speed and walk-time cap (WALK_SPEED_MPS x MAX_WALK_TIME_S).
func MaxWalkRadiusM(walkSpeedMPS float64, maxWalkTimeS int) float64 {
	return walkSpeedMPS * float64(maxWalkTimeS)
}

// ExplicitWalksFrom returns every pathway/transfer walk edge outbound
// from platformID.
func (f *Feed) ExplicitWalksFrom(platformID string) []models.WalkEdge {
	var out []models.WalkEdge
	for key, edge := range f.ExplicitWalk {
		if key[0] == platformID {
			out = append(out, edge)
		}
	}
	return out
}

// GeoWalksFrom enumerates geodesic walk candidates from platformID within
// the configured radius, skipping any pair already covered by an
// explicit pathway/transfer edge (§4.3) and any candidate whose floored
// duration exceeds maxWalkTimeS.
func (f *Feed) GeoWalksFrom(platformID string, walkSpeedMPS float64, maxWalkTimeS int) []models.WalkEdge {
	radius := MaxWalkRadiusM(walkSpeedMPS, maxWalkTimeS)
	candidates := f.Grid.Nearby(platformID, radius)

	var out []models.WalkEdge
	for _, c := range candidates {
		key := [2]string{platformID, c.PlatformID}
		if _, shadowed := f.ExplicitWalk[key]; shadowed {
			continue
		}
		duration := int(math.Ceil(c.DistanceM / walkSpeedMPS))
		if duration < 30 {
			duration = 30
		}
		if duration > maxWalkTimeS {
			continue
		}
		out = append(out, models.WalkEdge{
			From:      platformID,
			To:        c.PlatformID,
			DurationS: duration,
			Source:    models.SourceGeo,
		})
	}
	return out
}
