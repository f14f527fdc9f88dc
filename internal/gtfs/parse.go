package gtfs

import "strconv"

// parseFloatStrict parses a required coordinate value; empty or
// unparseable input is rejected.
func parseFloatStrict(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseIntLoose parses an optional integer column, treating an empty
// string as "absent" rather than malformed.
func parseIntLoose(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
