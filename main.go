package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/fyndworker/config"
	"sjsage522/fyndworker/internal/crawler"
	"sjsage522/fyndworker/internal/rss"
	"sjsage522/fyndworker/logger"
	"sjsage522/fyndworker/services/cache"
	"sjsage522/fyndworker/services/feedserver"
	"sjsage522/fyndworker/services/publisher"
	"sjsage522/fyndworker/services/store"
	"sjsage522/fyndworker/services/worker"

	"github.com/joho/godotenv"
)

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

	log.Info().
		Str("environment", cfg.Environment).
		Str("listing_url", cfg.ListingURL).
		Dur("crawl_interval", cfg.CrawlInterval).
		Bool("run_once", cfg.RunOnce).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	// Create crawlers
	crawlers := crawler.CreateCrawlers(cfg, services.Cache)
	if len(crawlers) == 0 {
		log.Fatal().Msg("No crawlers were created")
	}

	// Serve the feed over HTTP when a listen address is configured
	if services.FeedServer != nil {
		services.FeedServer.Start()
	}

	// Create and start worker
	w := worker.NewWorker(ctx, worker.Options{
		Crawlers:       crawlers,
		Publishers:     services.Publishers,
		Store:          services.Store,
		FeedBuilder:    &rss.Builder{SiteURL: cfg.ListingURL, Editor: cfg.FeedEditor},
		FeedPath:       cfg.FeedPath,
		FeedWindow:     cfg.FeedWindow,
		Retention:      cfg.Retention(),
		CrawlInterval:  cfg.CrawlInterval,
		RunOnce:        cfg.RunOnce,
		SendsPerMinute: cfg.WebhookPerMinute,
	})

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting deal worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil {
			if cfg.RunOnce {
				// Non-zero exit so cron and systemd notice the failed run
				log.Fatal().Err(err).Msg("Run failed")
			}
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	if services.FeedServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		services.FeedServer.Shutdown(shutdownCtx)
	}
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache      cache.CacheService
	Publishers []publisher.Publisher
	Store      store.Store
	FeedServer *feedserver.Server
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, pub := range s.Publishers {
		pub.Close()
	}
}

// initializeServices initializes all required services. The response cache,
// the publishers and the feed server are each optional; the seen-set store
// is always present.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{
		Store: store.NewFileStore(cfg.StorePath),
	}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	if cfg.WebhookURL != "" {
		services.Publishers = append(services.Publishers, publisher.NewDiscordPublisher(ctx, cfg.WebhookURL))
		logger.Info("Discord webhook configured")
	} else {
		logger.Warn("No Discord webhook URL set, new deals will not be announced")
	}

	if cfg.RedisAddr != "" {
		services.Publishers = append(services.Publishers, publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		))
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	if cfg.ListenAddr != "" {
		services.FeedServer = feedserver.NewServer(cfg.ListenAddr, cfg.FeedPath)
	}

	return services
}
