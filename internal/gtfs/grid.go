package gtfs

import (
	"math"

	"github.com/passbi/meetpoint/internal/models"
)

// Grid cell size in degrees (§4.4): roughly 450m x 480m at mid-latitudes.
const (
	DLat = 0.004
	DLon = 0.007
)

type cellKey struct {
	lat, lon int
}

// Grid is a uniform lat/lon bucket index over a fixed set of platforms,
// built once at ingest and read-only thereafter.
type Grid struct {
	platforms map[string]models.Platform
	cells     map[cellKey][]string
}

// NewGrid buckets every platform by its (lat, lon) cell.
func NewGrid(platforms map[string]models.Platform) *Grid {
	g := &Grid{
		platforms: platforms,
		cells:     make(map[cellKey][]string),
	}
	for id, p := range platforms {
		k := cellOf(p.Lat, p.Lon)
		g.cells[k] = append(g.cells[k], id)
	}
	return g
}

func cellOf(lat, lon float64) cellKey {
	return cellKey{
		lat: int(math.Floor(lat / DLat)),
		lon: int(math.Floor(lon / DLon)),
	}
}

// Candidate is one result of a Nearby query.
type Candidate struct {
	PlatformID string
	DistanceM  float64
}

// Nearby returns every platform within radiusM of platformID (the query
// platform itself excluded), using a bounded cell neighbourhood sized
// from the local metres-per-degree at the query's latitude.
func (g *Grid) Nearby(platformID string, radiusM float64) []Candidate {
	origin, ok := g.platforms[platformID]
	if !ok {
		return nil
	}

	metresPerDegLat := 111320.0
	metresPerDegLon := 111320.0 * math.Cos(origin.Lat*math.Pi/180)
	if metresPerDegLon < 1 {
		metresPerDegLon = 1
	}

	nlat := int(math.Ceil(radiusM/(metresPerDegLat*DLat))) + 1
	nlon := int(math.Ceil(radiusM/(metresPerDegLon*DLon))) + 1

	center := cellOf(origin.Lat, origin.Lon)
	seen := map[string]bool{platformID: true}
	var out []Candidate

	for dLat := -nlat; dLat <= nlat; dLat++ {
		for dLon := -nlon; dLon <= nlon; dLon++ {
			k := cellKey{lat: center.lat + dLat, lon: center.lon + dLon}
			for _, candID := range g.cells[k] {
				if seen[candID] {
					continue
				}
				seen[candID] = true
				cand := g.platforms[candID]
				dist := Haversine(origin.Lat, origin.Lon, cand.Lat, cand.Lon)
				if dist <= radiusM {
					out = append(out, Candidate{PlatformID: candID, DistanceM: dist})
				}
			}
		}
	}
	return out
}
