package gtfs

// Raw row types mirror the CSV columns named in §6 before normalization
// into models.Platform / models.Trip / models.WalkEdge etc.

// RawStop is one row of stops.txt.
type RawStop struct {
	StopID        string
	StopName      string
	StopDesc      string
	Lat           string
	Lon           string
	ParentStation string
}

// RawStopTime is one row of stop_times.txt.
type RawStopTime struct {
	TripID        string
	StopID        string
	StopSequence  string
	ArrivalTime   string
	DepartureTime string
}

// RawTrip is one row of trips.txt.
type RawTrip struct {
	TripID      string
	RouteID     string
	Headsign    string
	DirectionID string
}

// RawRoute is one row of routes.txt.
type RawRoute struct {
	RouteID   string
	ShortName string
	LongName  string
	RouteType string
	AgencyID  string
}

// RawPathway is one row of pathways.txt.
type RawPathway struct {
	FromStopID     string
	ToStopID       string
	TraversalTime  string
}

// RawTransfer is one row of transfers.txt.
type RawTransfer struct {
	FromStopID        string
	ToStopID          string
	MinTransferTimeS  string
}

// RawTables is the complete set of parsed-but-unnormalized GTFS rows
// that BuildFeed consumes.
type RawTables struct {
	Stops     []RawStop
	StopTimes []RawStopTime
	Trips     []RawTrip
	Routes    []RawRoute
	Pathways  []RawPathway
	Transfers []RawTransfer
}
