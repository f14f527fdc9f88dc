package gtfs

import (
	"fmt"
	"sort"
	"strings"
)

// StationUnresolvedError reports a station query with no matching station.
type StationUnresolvedError struct {
	Query string
}

func (e *StationUnresolvedError) Error() string {
	return fmt.Sprintf("gtfs: no station matches query %q", e.Query)
}

// ResolveStation performs a case-insensitive substring match of query
// against every station's display name. Ties break by ascending display
// name (§4.8); the first result after that ordering is returned.
func (f *Feed) ResolveStation(query string) (string, error) {
	candidates := f.ResolveStationCandidates(query)
	if len(candidates) == 0 {
		return "", &StationUnresolvedError{Query: query}
	}
	return candidates[0], nil
}

// ResolveStationCandidates returns every matching station ID, sorted
// ascending by display name, for callers that want to surface the
// ambiguity (§9 Open Questions) instead of silently picking one.
func (f *Feed) ResolveStationCandidates(query string) []string {
	needle := strings.ToLower(query)
	type match struct {
		id   string
		name string
	}
	var matches []match
	for id, st := range f.Stations {
		if strings.Contains(strings.ToLower(st.Name), needle) {
			matches = append(matches, match{id: id, name: st.Name})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].name != matches[j].name {
			return matches[i].name < matches[j].name
		}
		return matches[i].id < matches[j].id
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.id
	}
	return out
}
