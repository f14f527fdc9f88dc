package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/passbi/meetpoint/internal/gtfs"
	"github.com/passbi/meetpoint/internal/search"
)

// personFlag collects repeated --person label=query flags into a slice.
type personFlag []search.PersonSpec

func (p *personFlag) String() string {
	parts := make([]string, len(*p))
	for i, spec := range *p {
		parts[i] = fmt.Sprintf("%s=%s", spec.Label, spec.StationQuery)
	}
	return strings.Join(parts, ",")
}

func (p *personFlag) Set(value string) error {
	label, query, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected label=query, got %q", value)
	}
	*p = append(*p, search.PersonSpec{Label: label, StationQuery: query})
	return nil
}

func main() {
	gtfsPath := flag.String("gtfs", "", "Path to a GTFS directory or ZIP file (required)")
	startTime := flag.Int("start", 0, "Search start time, seconds since midnight")
	maxTripTime := flag.Int("max-trip-time", 0, "Cap on accumulated elapsed time in seconds (0 = use default)")
	maxWalkTime := flag.Int("max-walk-time", 0, "Cap on a single walk leg in seconds (0 = use default)")
	walkSpeed := flag.Float64("walk-speed", 0, "Walking speed in meters per second (0 = use default)")

	var people personFlag
	flag.Var(&people, "person", "label=query, repeatable for each traveller")

	flag.Parse()

	if *gtfsPath == "" || len(people) < 2 {
		fmt.Println("Usage: meetcli --gtfs=<dir|zip> --start=<sec> --person=A=<query> --person=B=<query> [--person=...] [--max-trip-time=7200]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*gtfsPath); os.IsNotExist(err) {
		log.Fatalf("GTFS path not found: %s", *gtfsPath)
	}

	log.Printf("Parsing GTFS feed from %s...", *gtfsPath)
	raw, err := loadRaw(*gtfsPath)
	if err != nil {
		log.Fatalf("Failed to parse GTFS feed: %v", err)
	}

	feed, err := gtfs.BuildFeed(raw)
	if err != nil {
		log.Fatalf("Failed to build feed: %v", err)
	}
	log.Printf("Feed loaded: %d platforms, %d stations, %d trips", len(feed.Platforms), len(feed.Stations), len(feed.Trips))

	cfg := search.DefaultConfig()
	if *maxTripTime > 0 {
		cfg.MaxTripTimeS = *maxTripTime
	}
	if *maxWalkTime > 0 {
		cfg.MaxWalkTimeS = *maxWalkTime
	}
	if *walkSpeed > 0 {
		cfg.WalkSpeedMPS = *walkSpeed
	}

	engine := search.NewEngine(feed, cfg, func(ev search.ProgressEvent) {
		log.Printf("progress: %s crossed %ds elapsed via %s (%d unique platforms)",
			ev.Label, ev.Elapsed, ev.Action, ev.UniquePlatforms)
	})

	result, err := engine.Run(*startTime, people)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}

func loadRaw(path string) (gtfs.RawTables, error) {
	info, err := os.Stat(path)
	if err != nil {
		return gtfs.RawTables{}, err
	}
	if info.IsDir() {
		return gtfs.ParseDir(path)
	}
	return gtfs.ParseZip(path)
}
