package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"travelbook/internal/api"
	"travelbook/internal/auth"
	"travelbook/internal/config"
	"travelbook/internal/database"
	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/google"
	"travelbook/internal/logging"
	"travelbook/internal/metrics"
	"travelbook/internal/notify"
	"travelbook/internal/repository"
	"travelbook/internal/service"
	"travelbook/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}
	calendarCache := buildCalendarCache(redisClient, cfg, &logger)

	eventBus := events.NewEventBus()

	notifier := initNotifier(cfg, eventBus, &logger)

	sheetsWorker := initSheetsWorker(ctx, cfg, db, redisClient, &logger)
	var enqueuer service.SheetsEnqueuer
	if sheetsWorker != nil {
		enqueuer = sheetsWorker
	}

	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL())
	userService := service.NewUserService(db, tokens, notifier, &logger)
	tourService := service.NewTourService(db, &logger)
	bookingService := service.NewBookingService(db, eventBus, enqueuer, cfg.Exports.Path, &logger)
	vehicleService := service.NewVehicleService(db, calendarCache, eventBus, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewServer(cfg.Server, userService, tourService, bookingService, vehicleService, tokens, &logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// initRedis connects to redis when configured. A missing or unreachable redis
// is not fatal; the calendar cache degrades to memory.
func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, continuing without it")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("address", cfg.Redis.Address).Msg("redis connected")
	return client
}

func buildCalendarCache(redisClient *redis.Client, cfg *config.Config, logger *zerolog.Logger) domain.CalendarCache {
	ttl := time.Duration(cfg.Redis.CalendarTTL) * time.Second
	memory := repository.NewMemoryCalendarCache(ttl)
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverCalendarCache(
		repository.NewRedisCalendarCache(redisClient, ttl),
		memory,
		logger,
	)
}

func initNotifier(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) domain.Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ManagerChatID == 0 {
		return nil
	}

	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ManagerChatID, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram notifier unavailable")
		return nil
	}

	notifier.SubscribeAll(bus)
	logger.Info().Int64("chat_id", cfg.Telegram.ManagerChatID).Msg("telegram notifications enabled")
	return notifier
}

func initSheetsWorker(ctx context.Context, cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) *worker.SheetsWorker {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets unavailable, sync disabled")
		return nil
	}

	retry := worker.RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  2 * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
	}
	w := worker.NewSheetsWorker(db, sheetsService, redisClient, retry, logger)
	go w.Start(ctx)

	logger.Info().Msg("sheets sync worker started")
	return w
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info().Int("port", port).Msg("metrics server listening")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
