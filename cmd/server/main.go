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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flightfinder/internal/aggregator"
	"github.com/dharmasatrya/flightfinder/internal/amadeus"
	"github.com/dharmasatrya/flightfinder/internal/config"
	"github.com/dharmasatrya/flightfinder/internal/handler"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ratelimit"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
	"github.com/dharmasatrya/flightfinder/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "flightfinder: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mock, err := providers.NewMockProvider()
	if err != nil {
		return fmt.Errorf("failed to initialize mock provider: %w", err)
	}

	var (
		live      providers.Provider
		locations providers.LocationSearcher
	)
	if cfg.LiveEnabled() {
		outbound := ratelimit.New(ratelimit.Config{
			RequestsPerSecond: cfg.Provider.RPS,
			BurstSize:         cfg.Provider.Burst,
		})

		client := amadeus.NewClient(amadeus.Config{
			BaseURL:      cfg.Amadeus.BaseURL,
			ClientID:     cfg.Amadeus.ClientID,
			ClientSecret: cfg.Amadeus.ClientSecret,
			Timeout:      cfg.Provider.Timeout.Duration,
			Limiter:      outbound,
		}, nil, log)

		live = providers.NewAmadeusProvider(client, currency.NewEURToUSD(cfg.ExchangeRateEURUSD))
		locations = client
		log.Info("Live flight search enabled", logger.String("base_url", cfg.Amadeus.BaseURL))
	} else {
		log.Warn("Amadeus credentials not configured, serving mock flights")
	}

	aggConfig := aggregator.DefaultConfig()
	aggConfig.Timeout = cfg.Provider.Timeout.Duration
	aggConfig.MaxRetries = cfg.Provider.MaxRetries
	agg := aggregator.NewAggregator(live, mock, aggConfig, log)

	inbound := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: cfg.Client.RPS,
		BurstSize:         cfg.Client.Burst,
	})
	go inbound.PruneEvery(ctx, time.Minute, 10*time.Minute)

	e := newServer(log, inbound)
	searchHandler := handler.NewSearchHandler(agg, locations, log)

	e.GET("/api/flights", searchHandler.Search)
	e.GET("/api/locations", searchHandler.Locations)

	api := e.Group("/api/v1")
	api.GET("/flights/search", searchHandler.Search)
	api.GET("/locations", searchHandler.Locations)

	e.GET("/health", searchHandler.Health)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting flight search server", logger.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(log *logger.Logger, inbound *ratelimit.Limiter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency),
				logger.String("remote_ip", v.RemoteIP),
			}
			reqLog := log.WithRequestID(v.RequestID)
			if v.Error != nil {
				reqLog.Error("Request failed", append(fields, logger.Error(v.Error))...)
				return nil
			}
			reqLog.Info("Request", fields...)
			return nil
		},
	}))
	e.Use(inbound.Middleware())

	return e
}
