package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ParseDir reads a directory of GTFS CSV files into RawTables.
// stops.txt, stop_times.txt, trips.txt and routes.txt are required;
// pathways.txt and transfers.txt are optional.
func ParseDir(dir string) (RawTables, error) {
	var raw RawTables

	stops, err := parseStops(filepath.Join(dir, "stops.txt"))
	if err != nil {
		return raw, err
	}
	raw.Stops = stops

	stopTimes, err := parseStopTimes(filepath.Join(dir, "stop_times.txt"))
	if err != nil {
		return raw, err
	}
	raw.StopTimes = stopTimes

	trips, err := parseTrips(filepath.Join(dir, "trips.txt"))
	if err != nil {
		return raw, err
	}
	raw.Trips = trips

	routes, err := parseRoutes(filepath.Join(dir, "routes.txt"))
	if err != nil {
		return raw, err
	}
	raw.Routes = routes

	if pathways, err := parsePathways(filepath.Join(dir, "pathways.txt")); err == nil {
		raw.Pathways = pathways
	}
	if transfers, err := parseTransfers(filepath.Join(dir, "transfers.txt")); err == nil {
		raw.Transfers = transfers
	}

	return raw, nil
}

// ParseZip extracts a zipped GTFS feed to a temp dir and parses it.
func ParseZip(zipPath string) (RawTables, error) {
	var raw RawTables

	tempDir, err := os.MkdirTemp("", "gtfs-*")
	if err != nil {
		return raw, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := extractZip(zipPath, tempDir); err != nil {
		return raw, fmt.Errorf("failed to extract zip: %w", err)
	}

	return ParseDir(tempDir)
}

func parseStops(filePath string) ([]RawStop, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &FeedMissingError{File: "stops.txt"}
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, &FeedMalformedError{File: "stops.txt", Reason: "unreadable header"}
	}
	colMap := makeColumnMap(header)

	var out []RawStop
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		out = append(out, RawStop{
			StopID:        getField(record, colMap, "stop_id"),
			StopName:      getField(record, colMap, "stop_name"),
			StopDesc:      getField(record, colMap, "stop_desc"),
			Lat:           getField(record, colMap, "stop_lat"),
			Lon:           getField(record, colMap, "stop_lon"),
			ParentStation: getField(record, colMap, "parent_station"),
		})
	}
	return out, nil
}

func parseStopTimes(filePath string) ([]RawStopTime, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &FeedMissingError{File: "stop_times.txt"}
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, &FeedMalformedError{File: "stop_times.txt", Reason: "unreadable header"}
	}
	colMap := makeColumnMap(header)

	var out []RawStopTime
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		out = append(out, RawStopTime{
			TripID:        getField(record, colMap, "trip_id"),
			StopID:        getField(record, colMap, "stop_id"),
			StopSequence:  getField(record, colMap, "stop_sequence"),
			ArrivalTime:   getField(record, colMap, "arrival_time"),
			DepartureTime: getField(record, colMap, "departure_time"),
		})
	}
	return out, nil
}

func parseTrips(filePath string) ([]RawTrip, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &FeedMissingError{File: "trips.txt"}
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, &FeedMalformedError{File: "trips.txt", Reason: "unreadable header"}
	}
	colMap := makeColumnMap(header)

	var out []RawTrip
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		out = append(out, RawTrip{
			TripID:      getField(record, colMap, "trip_id"),
			RouteID:     getField(record, colMap, "route_id"),
			Headsign:    getField(record, colMap, "trip_headsign"),
			DirectionID: getField(record, colMap, "direction_id"),
		})
	}
	return out, nil
}

func parseRoutes(filePath string) ([]RawRoute, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &FeedMissingError{File: "routes.txt"}
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, &FeedMalformedError{File: "routes.txt", Reason: "unreadable header"}
	}
	colMap := makeColumnMap(header)

	var out []RawRoute
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		out = append(out, RawRoute{
			RouteID:   getField(record, colMap, "route_id"),
			ShortName: getField(record, colMap, "route_short_name"),
			LongName:  getField(record, colMap, "route_long_name"),
			RouteType: getField(record, colMap, "route_type"),
			AgencyID:  getField(record, colMap, "agency_id"),
		})
	}
	return out, nil
}

func parsePathways(filePath string) ([]RawPathway, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, err
	}
	colMap := makeColumnMap(header)

	var out []RawPathway
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		out = append(out, RawPathway{
			FromStopID:    getField(record, colMap, "from_stop_id"),
			ToStopID:      getField(record, colMap, "to_stop_id"),
			TraversalTime: getField(record, colMap, "traversal_time"),
		})
	}
	return out, nil
}

func parseTransfers(filePath string) ([]RawTransfer, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, err
	}
	colMap := makeColumnMap(header)

	var out []RawTransfer
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		out = append(out, RawTransfer{
			FromStopID:       getField(record, colMap, "from_stop_id"),
			ToStopID:         getField(record, colMap, "to_stop_id"),
			MinTransferTimeS: getField(record, colMap, "min_transfer_time"),
		})
	}
	return out, nil
}

func makeColumnMap(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	return colMap
}

func getField(record []string, colMap map[string]int, fieldName string) string {
	if idx, ok := colMap[fieldName]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return err
		}

		destPath := filepath.Join(destDir, filepath.Base(file.Name))
		outFile, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		rc.Close()
		outFile.Close()

		if err != nil {
			return err
		}
	}

	return nil
}
