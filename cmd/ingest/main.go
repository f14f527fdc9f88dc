package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/passbi/meetpoint/internal/db"
	"github.com/passbi/meetpoint/internal/gtfs"
	"github.com/passbi/meetpoint/internal/searchlog"
)

func main() {
	gtfsPath := flag.String("gtfs", "", "Path to a GTFS directory or ZIP file (required)")
	record := flag.Bool("record", false, "Write a feed_snapshot audit row to Postgres")

	flag.Parse()

	if *gtfsPath == "" {
		fmt.Println("Usage: ingest --gtfs=<dir|zip> [--record]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*gtfsPath); os.IsNotExist(err) {
		log.Fatalf("GTFS path not found: %s", *gtfsPath)
	}

	log.Println("Ingesting GTFS feed...")
	log.Printf("Source: %s", *gtfsPath)

	started := time.Now()

	info, err := os.Stat(*gtfsPath)
	if err != nil {
		log.Fatalf("Failed to stat GTFS path: %v", err)
	}

	var raw gtfs.RawTables
	if info.IsDir() {
		raw, err = gtfs.ParseDir(*gtfsPath)
	} else {
		raw, err = gtfs.ParseZip(*gtfsPath)
	}
	if err != nil {
		log.Fatalf("Failed to parse GTFS feed: %v", err)
	}

	feed, err := gtfs.BuildFeed(raw)
	if err != nil {
		log.Fatalf("Failed to build feed: %v", err)
	}

	duration := time.Since(started)

	explicitWalks := len(feed.ExplicitWalk)

	log.Println("Feed statistics:")
	log.Printf("   Platforms: %d", len(feed.Platforms))
	log.Printf("   Stations:  %d", len(feed.Stations))
	log.Printf("   Routes:    %d", len(feed.Routes))
	log.Printf("   Trips:     %d", len(feed.Trips))
	log.Printf("   Explicit walk edges: %d", explicitWalks)
	log.Printf("   Ingest duration: %v", duration)

	if *record {
		pool, err := db.GetDB()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		if err := searchlog.RecordFeedSnapshot(ctx, pool, len(feed.Platforms), len(feed.Stations), len(feed.Trips), explicitWalks); err != nil {
			log.Fatalf("Failed to record feed snapshot: %v", err)
		}
		log.Println("Recorded feed_snapshot row")
	}

	log.Println("Ingest completed successfully.")
}
