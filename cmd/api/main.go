package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/passbi/meetpoint/internal/api"
	"github.com/passbi/meetpoint/internal/config"
	"github.com/passbi/meetpoint/internal/db"
	"github.com/passbi/meetpoint/internal/gtfs"
	"github.com/passbi/meetpoint/internal/middleware"
	"github.com/passbi/meetpoint/internal/searchcache"
)

func main() {
	log.Println("Starting meetpoint API server...")

	cfg := config.LoadFromEnv()

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("database connection established")

	rdb, err := searchcache.GetClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer searchcache.Close()
	log.Println("search cache connection established")

	gtfsDir := getEnv("GTFS_DIR", "")
	if gtfsDir == "" {
		log.Fatal("GTFS_DIR must be set to a directory containing GTFS text tables")
	}
	raw, err := gtfs.ParseDir(gtfsDir)
	if err != nil {
		log.Fatalf("Failed to parse GTFS feed: %v", err)
	}
	feed, err := gtfs.BuildFeed(raw)
	if err != nil {
		log.Fatalf("Failed to build feed: %v", err)
	}
	api.SetFeed(feed, cfg.Search)
	log.Printf("feed loaded: %d platforms, %d stations, %d trips", len(feed.Platforms), len(feed.Stations), len(feed.Trips))

	app := fiber.New(fiber.Config{
		AppName:      "meetpoint API",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", api.Health)

	v2 := app.Group("/v2")
	v2.Use(middleware.OptionalAuth(pool))
	v2.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerSecond, cfg.RateLimitPerDay))
	v2.Get("/stations/search", api.StationSearch)
	v2.Post("/meet", api.MeetingSearch)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Port)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("listening on http://localhost%s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error [%s %s]: %v", c.Method(), c.Path(), err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
