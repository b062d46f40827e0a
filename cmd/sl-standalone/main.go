package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tuanvumaihuynh/shelflife/internal/clock"
	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/http"
	"github.com/tuanvumaihuynh/shelflife/internal/log"
	"github.com/tuanvumaihuynh/shelflife/internal/relay"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/mq"
	"github.com/tuanvumaihuynh/shelflife/internal/sweep"
	"github.com/tuanvumaihuynh/shelflife/internal/telemetry"
	"github.com/tuanvumaihuynh/shelflife/pkg/cmdutil"
	"github.com/tuanvumaihuynh/shelflife/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
		Clock    config.Clock
		Sweep    config.Sweep
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	referenceClock := clock.New(clock.Zone(cfg.Clock.UTCOffset))
	logger.InfoContext(ctx, "reference time zone", slog.String("zone", referenceClock.Location().String()))

	productRepository := repository.NewProductRepository(dbClient)
	stockRecordRepository := repository.NewStockRecordRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	catalogService := service.NewCatalogService(dbClient, referenceClock, v,
		productRepository, stockRecordRepository, outboxMsgRepository)
	stockRecordService := service.NewStockRecordService(dbClient, logger, referenceClock, v,
		productRepository, stockRecordRepository, outboxMsgRepository)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, registry, dbClient, catalogService, stockRecordService)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, registry, dbClient, outboxMsgRepository, kafkaProducer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	if cfg.Sweep.Enabled {
		wg.Go(func() {
			svc := sweep.NewService(cfg.Sweep, logger, registry, referenceClock, stockRecordService, outboxMsgRepository)
			cleanup := svc.Run(ctx)
			logger.InfoContext(ctx, "sweep service started", slog.Duration("interval", cfg.Sweep.Interval))

			<-interruptChan

			logger.InfoContext(ctx, "sweep service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "sweep service is stopped")
		})
	}

	wg.Wait()

	return nil
}
