package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KamilKwapisz/car-prices/config"
	"github.com/KamilKwapisz/car-prices/helpers"
	"github.com/KamilKwapisz/car-prices/internal/crawler"
	"github.com/KamilKwapisz/car-prices/logger"
	"github.com/KamilKwapisz/car-prices/services/cache"
	"github.com/KamilKwapisz/car-prices/services/publisher"
	"github.com/KamilKwapisz/car-prices/services/storage"
	"github.com/KamilKwapisz/car-prices/services/worker"

	"github.com/joho/godotenv"
)

// redisStreamMaxLength caps the optional record stream
const redisStreamMaxLength = 10000

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	helpers.SetRequestTimeout(cfg.RequestTimeout)
	helpers.SetFetchRetries(cfg.FetchRetries)

	log.Info().
		Str("environment", cfg.Environment).
		Str("starting_url", cfg.StartingURL).
		Int("pages_limit", cfg.PagesLimit).
		Str("output_file", cfg.OutputFile).
		Msg("Starting crawl")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize the store (CSV always; Postgres mirrored in when configured)
	store, err := initializeStore(&cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer store.Close()

	// Optional cooldown cache
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Fetch cooldown cache enabled")
	}

	// Optional record publisher
	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, redisStreamMaxLength)
		defer redisPub.Close()
		pub = redisPub
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Record publisher enabled")
	}

	harvester := crawler.NewHarvester(cfg.StartingURL, cfg.PagesLimit, cacheSvc, cfg.FetchCooldown)
	parser := crawler.NewAdParser()

	w := worker.NewWorker(harvester, parser, store, pub)

	log.Info().Str("car", harvester.CarName()).Msg("Created crawler")

	// Run the crawl in a goroutine so a shutdown signal can cancel it
	done := make(chan worker.Stats, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	var stats worker.Stats
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		stats = <-done
	case stats = <-done:
	}

	log.Info().
		Int("links_found", stats.LinksFound).
		Int("written", stats.Written).
		Int("rejected", stats.Rejected).
		Int("fetch_errors", stats.FetchErrors).
		Int("write_errors", stats.WriteErrors).
		Int("other_errors", stats.OtherErrors).
		Msg("Crawl finished")
}

// initializeStore opens the CSV store and, when POSTGRES_DSN is set, wraps
// it together with a Postgres mirror
func initializeStore(cfg *config.Config) (storage.Store, error) {
	csvStore, err := storage.NewCSVStore(cfg.OutputFile)
	if err != nil {
		return nil, err
	}

	if cfg.PostgresDSN == "" {
		return csvStore, nil
	}

	pgStore, err := storage.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		csvStore.Close()
		return nil, err
	}

	return storage.NewMultiStore(csvStore, pgStore), nil
}
