package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"LiqCast/internal/domain/models"
	domrepo "LiqCast/internal/domain/repository"
	domsvc "LiqCast/internal/domain/service"
	svccache "LiqCast/internal/service/cache"
	"LiqCast/internal/services/forecast"
	applogger "LiqCast/pkg/logger"
	"LiqCast/pkg/util"
)

const historyCacheKey = "liqcast:bookings:all"

// ForecastUseCase orchestrates a forecast request: history fetch, pure
// projection, alert fan-out, and optional narrative enrichment.
type ForecastUseCase struct {
	store     domrepo.Storage
	projector *forecast.Projector
	alerts    domrepo.AlertPublisher
	enricher  domsvc.NarrativeEnricher
	metrics   domrepo.Metrics
	cache     svccache.BytesCache
	cacheTTL  time.Duration
	narTO     time.Duration
	l         *applogger.Logger
}

// NewForecastUseCase creates the forecast orchestrator. alerts, enricher,
// and cache may be nil; the corresponding stage is then skipped.
func NewForecastUseCase(
	store domrepo.Storage,
	projector *forecast.Projector,
	alerts domrepo.AlertPublisher,
	enricher domsvc.NarrativeEnricher,
	metrics domrepo.Metrics,
	cache svccache.BytesCache,
	cacheTTL time.Duration,
	narrativeTimeout time.Duration,
	l *applogger.Logger,
) *ForecastUseCase {
	if narrativeTimeout <= 0 {
		narrativeTimeout = 10 * time.Second
	}
	return &ForecastUseCase{
		store:     store,
		projector: projector,
		alerts:    alerts,
		enricher:  enricher,
		metrics:   metrics,
		cache:     cache,
		cacheTTL:  cacheTTL,
		narTO:     narrativeTimeout,
		l:         l,
	}
}

// Generate validates the request, runs the projection, and enriches it.
func (uc *ForecastUseCase) Generate(ctx context.Context, req *models.ForecastRequest) (*models.ForecastResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if req.Weeks < 1 || req.Weeks > 52 {
		return nil, fmt.Errorf("weeks must be in [1, 52], got %d", req.Weeks)
	}
	if req.Threshold <= 0 {
		return nil, fmt.Errorf("threshold must be positive, got %v", req.Threshold)
	}
	now, ok := util.ParseTime(req.Now)
	if !ok {
		return nil, fmt.Errorf("invalid reference date: %q", req.Now)
	}

	start := time.Now()
	bookings, err := uc.loadHistory(ctx)
	if err != nil {
		uc.metrics.RecordError("forecast_history")
		return nil, fmt.Errorf("load history: %w", err)
	}
	uc.metrics.RecordLatency("forecast_history_seconds", time.Since(start).Seconds())

	engineStart := time.Now()
	result, err := uc.projector.Forecast(forecast.Input{
		Bookings:     bookings,
		StartBalance: req.StartBalance,
		Threshold:    req.Threshold,
		Weeks:        req.Weeks,
		Now:          now,
	})
	if err != nil {
		uc.metrics.RecordError("forecast_engine")
		return nil, fmt.Errorf("forecast: %w", err)
	}
	uc.metrics.RecordLatency("forecast_engine_seconds", time.Since(engineStart).Seconds())
	uc.metrics.RecordMinProjectedBalance(result.KPIs.MinBalance)

	uc.publishAlerts(result)

	resp := &models.ForecastResponse{Result: result}
	if req.Narrate && uc.enricher != nil {
		if n, ok := uc.narrate(ctx, result); ok {
			resp.Narrative = &n
		}
	}
	return resp, nil
}

// loadHistory reads the full booking history, short-circuited by a TTL
// cache so bursts of forecast requests hit storage once.
func (uc *ForecastUseCase) loadHistory(ctx context.Context) ([]models.Booking, error) {
	if uc.cache != nil {
		if b, ok, err := uc.cache.GetBytes(historyCacheKey); err == nil && ok {
			var bookings []models.Booking
			if err := json.Unmarshal(b, &bookings); err == nil {
				return bookings, nil
			}
		}
	}

	bookings, err := uc.store.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if b, err := json.Marshal(bookings); err == nil {
			_ = uc.cache.SetBytes(historyCacheKey, b, uc.cacheTTL)
		}
	}
	return bookings, nil
}

// publishAlerts fans alerts out in the background. A broker outage must
// never fail the forecast response.
func (uc *ForecastUseCase) publishAlerts(result *models.LiquidityForecastResult) {
	if uc.alerts == nil || len(result.Alerts) == 0 {
		return
	}
	alerts := result.Alerts
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.alerts.PublishAlerts(ctx, alerts); err != nil {
			uc.metrics.RecordError("alert_publish")
			if uc.l != nil {
				uc.l.Warn("alert publish failed", applogger.Error(err))
			}
		}
	}()
}

// narrate runs the timeout-bounded enrichment stage. Failure drops the
// narrative, never the forecast.
func (uc *ForecastUseCase) narrate(ctx context.Context, result *models.LiquidityForecastResult) (string, bool) {
	nctx, cancel := context.WithTimeout(ctx, uc.narTO)
	defer cancel()

	start := time.Now()
	n, err := uc.enricher.Narrate(nctx, result)
	uc.metrics.RecordLatency("forecast_narrative_seconds", time.Since(start).Seconds())
	if err != nil {
		uc.metrics.RecordError("forecast_narrative")
		if uc.l != nil {
			uc.l.Warn("narrative enrichment failed", applogger.Error(err))
		}
		return "", false
	}
	return n, true
}
