package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tuanvumaihuynh/shelflife/internal/clock"
	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/expiry"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
)

// Service periodically recomputes the expiring list, exports it as gauges and
// writes a stock_record.expiring snapshot to the outbox when it is not empty.
type Service struct {
	cfg            config.Sweep
	logger         *slog.Logger
	clock          clock.Clock
	calc           expiry.Calculator
	stockRecordSvc service.StockRecordService
	outboxMsgRepo  repository.OutboxMsgRepository

	records *prometheus.GaugeVec
	lastRun prometheus.Gauge
}

func NewService(
	cfg config.Sweep,
	logger *slog.Logger,
	registerer prometheus.Registerer,
	clock clock.Clock,
	stockRecordSvc service.StockRecordService,
	outboxMsgRepo repository.OutboxMsgRepository,
) *Service {
	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "shelflife",
		Subsystem: "sweep",
		Name:      "stock_records",
		Help:      "Stock records inside their reminder window by status at the last sweep.",
	}, []string{"status"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "shelflife",
		Subsystem: "sweep",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful sweep.",
	})
	registerer.MustRegister(records, lastRun)

	return &Service{
		cfg:            cfg,
		logger:         logger.With(slog.String("service", "sweep")),
		clock:          clock,
		calc:           expiry.NewCalculator(clock.Location()),
		stockRecordSvc: stockRecordSvc,
		outboxMsgRepo:  outboxMsgRepo,
		records:        records,
		lastRun:        lastRun,
	}
}

type CleanupFunc func()

// Run sweeps once immediately and then every cfg.Interval until cleanup is called.
func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Go(func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "error sweeping stock records", slog.Any("error", err))
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}

// Sweep computes the current expiring snapshot, updates the gauges and
// enqueues the snapshot event.
func (s *Service) Sweep(ctx context.Context) (event.StockRecordExpiringEvent, error) {
	now := s.clock.Now()
	views, err := s.stockRecordSvc.ListExpiringStockRecords(ctx, service.ListExpiringParams{
		Policy: service.PolicyRecordReminder,
		At:     now,
	})
	if err != nil {
		return event.StockRecordExpiringEvent{}, fmt.Errorf("stock record service list expiring stock records: %w", err)
	}

	ev := event.StockRecordExpiringEvent{
		Date:  s.calc.Today(now).String(),
		Items: make([]event.ExpiringItem, 0, len(views)),
	}
	for _, v := range views {
		switch v.Status {
		case model.StatusExpired:
			ev.Expired++
		case model.StatusWarning:
			ev.Warning++
		}

		ev.Items = append(ev.Items, event.ExpiringItem{
			StockRecordID: v.ID.String(),
			Sku:           v.Sku,
			Name:          v.Name,
			Location:      v.Location,
			ExpiryDate:    v.ExpiryDate.String(),
			RemainingDays: v.RemainingDays,
			Status:        string(v.Status),
		})
	}

	s.records.WithLabelValues(string(model.StatusExpired)).Set(float64(ev.Expired))
	s.records.WithLabelValues(string(model.StatusWarning)).Set(float64(ev.Warning))

	if len(ev.Items) > 0 {
		err := service.EnqueueEvent(ctx, s.outboxMsgRepo, event.TopicStockRecordExpiring, ev.Date, ev)
		if err != nil {
			return ev, err
		}
	}

	s.lastRun.Set(float64(now.Unix()))

	s.logger.InfoContext(ctx, "stock records swept",
		slog.String("date", ev.Date),
		slog.Int("expired", ev.Expired),
		slog.Int("warning", ev.Warning))

	return ev, nil
}
