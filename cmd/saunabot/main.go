package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sauna-offer-bot/internal/api"
	"sauna-offer-bot/internal/bot"
	"sauna-offer-bot/internal/catalog"
	"sauna-offer-bot/internal/config"
	"sauna-offer-bot/internal/quotation"
	"sauna-offer-bot/internal/storage"
	"sauna-offer-bot/pkg/logger"
	"sauna-offer-bot/pkg/nominatim"
	"sauna-offer-bot/pkg/redis"
)

// ENTRY POINT

func main() {
	migrate := flag.String("migrate", storage.MigrateUp, "migration command to run: up starts the service, down and status exit after running")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(logger.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *migrate, zapLogger); err != nil {
		zapLogger.Fatal("Service stopped with error", zap.Error(err))
	}
	zapLogger.Info("Service shutdown gracefully")
}

func run(ctx context.Context, cfg *config.Config, migrate string, log *zap.Logger) error {
	pgStorage, err := storage.NewPostgresStorage(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer pgStorage.Close()

	if err := pgStorage.Migrate(ctx, migrate); err != nil {
		return err
	}
	if migrate != storage.MigrateUp {
		return nil
	}

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		return err
	}

	cat := catalog.Default()
	geocoder := nominatim.NewClient(nominatim.Config{
		BaseURL:     cfg.Geocoder.BaseURL,
		UserAgent:   cfg.Geocoder.UserAgent,
		CountryCode: cfg.Geocoder.CountryCode,
		Timeout:     cfg.Geocoder.Timeout,
	}, log)
	quotes := quotation.NewService(geocoder, cat, cfg.Origin.Location(), log)

	tgBot, err := bot.New(cfg.TelegramToken, bot.Deps{
		State:   redisClient,
		Limiter: redisClient,
		Storage: pgStorage,
		Quoter:  quotes,
		Catalog: cat,
	}, bot.Options{
		AdminIDs:   cfg.AdminIDs,
		RateLimit:  cfg.RateLimit.Quotes,
		RateWindow: cfg.RateLimit.Window,
		ReportsDir: cfg.ReportsDir,
	}, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewServer(quotes, cat, log).Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return tgBot.Start(gctx)
	})

	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
