package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-seat-map/config"
	"go-gin-seat-map/internal/cache"
	"go-gin-seat-map/internal/database"
	"go-gin-seat-map/internal/feed"
	"go-gin-seat-map/internal/handler"
	"go-gin-seat-map/internal/repository"
	"go-gin-seat-map/internal/service"
	"go-gin-seat-map/internal/worker"
	"go-gin-seat-map/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.SetLevel(cfg.App.LogLevel)
	defer logger.Sync()
	log := logger.WithComponent("cmd")

	if err := run(cfg); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := logger.WithComponent("cmd")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	venues, err := loadVenues(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load venue: %w", err)
	}

	var rdb *redis.Client
	if cfg.App.FeedTransport == "redis" || cfg.App.SessionBackend == "redis" {
		rdb, err = database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		defer rdb.Close()
	}

	seatFeed, err := newSeatFeed(ctx, cfg, rdb)
	if err != nil {
		return fmt.Errorf("init seat feed: %w", err)
	}
	defer seatFeed.Close()

	var store cache.SessionStore = cache.NewMemorySessionStore()
	if cfg.App.SessionBackend == "redis" {
		store = cache.NewRedisSessionStore(rdb, cfg.App.SessionTTL)
	}
	selections := service.NewSelectionService(venues, store, cfg.App.SelectionLimit)

	w := worker.NewSeatUpdateWorker(venues, seatFeed)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	if cfg.App.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler.NewRouter(venues, selections, seatFeed),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("feed", cfg.App.FeedTransport), zap.String("sessions", cfg.App.SessionBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	stop()
	select {
	case <-w.Done():
	case <-shutdownCtx.Done():
		log.Warn("worker did not stop before shutdown timeout")
	}
	return nil
}

func loadVenues(ctx context.Context, cfg *config.Config) (service.VenueService, error) {
	switch cfg.App.VenueSource {
	case "", "generator":
		return service.NewGeneratedVenueService(cfg.App.GeneratorRows, cfg.App.GeneratorCols, cfg.App.FlashWindow)
	case "postgres":
		pool, err := database.InitDatabase(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		// layout is read once at startup
		defer pool.Close()
		return service.NewStoredVenueService(ctx, repository.NewVenueRepository(pool), cfg.App.VenueID, cfg.App.FlashWindow)
	default:
		return nil, fmt.Errorf("unknown venue source %q", cfg.App.VenueSource)
	}
}

func newSeatFeed(ctx context.Context, cfg *config.Config, rdb *redis.Client) (feed.SeatFeed, error) {
	switch cfg.App.FeedTransport {
	case "", "memory":
		return feed.NewMemorySeatFeed(cfg.App.FeedBuffer), nil
	case "redis":
		return feed.NewRedisStreamSeatFeed(ctx, rdb, cfg.Stream.ConsumerID, &feed.RedisStreamFeedConfig{
			ClaimMinIdleTime:   cfg.Stream.ClaimMinIdleTime,
			MaxRetryCount:      cfg.Stream.MaxRetryCount,
			ReadGroupBlockTime: cfg.Stream.ReadGroupBlockTime,
		})
	case "kafka":
		return feed.NewKafkaSeatFeed(feed.KafkaFeedConfig{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			ConsumerGroup: cfg.Kafka.ConsumerGroup,
		}), nil
	default:
		return nil, fmt.Errorf("unknown feed transport %q", cfg.App.FeedTransport)
	}
}
