package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"LiqCast/internal/domain/models"
	"LiqCast/internal/services/categorize"
	"LiqCast/internal/services/forecast"
	"LiqCast/internal/services/patterns"
	"LiqCast/internal/services/stats"
	"LiqCast/internal/usecase"
	applogger "LiqCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubStore struct{}

func (stubStore) Init(ctx context.Context) error                            { return nil }
func (stubStore) Store(ctx context.Context, b *models.Booking) error        { return nil }
func (stubStore) StoreBatch(ctx context.Context, b []*models.Booking) error { return nil }
func (stubStore) Health(ctx context.Context) error                          { return nil }
func (stubStore) Close() error                                              { return nil }

func (stubStore) Query(ctx context.Context, from, to time.Time, limit int) ([]models.Booking, error) {
	return nil, nil
}

func (stubStore) QueryAll(ctx context.Context) ([]models.Booking, error) {
	return nil, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordBookingIngested(backend, source string) {}
func (stubMetrics) RecordError(kind string)                      {}
func (stubMetrics) RecordMinProjectedBalance(balance float64)    {}
func (stubMetrics) RecordLatency(op string, seconds float64)     {}

func newTestHandler(t *testing.T) *ForecastEchoHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cat := categorize.New(5000)
	engine := forecast.NewProjector(
		patterns.NewDetector(cat, patterns.DefaultBands()),
		stats.NewEstimator(cat, 5000),
		cat,
		forecast.DefaultRules(),
	)
	fc := usecase.NewForecastUseCase(stubStore{}, engine, nil, nil, stubMetrics{}, nil, 0, 0, l)
	bk := usecase.NewBookingsUseCase(stubStore{})
	return NewForecastEchoHandler(l, fc, bk)
}

func TestForecastEndpoint(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()
	h.RegisterRoutes(e)

	body := `{"start_balance": 100000, "now": "2026-08-28"}`
	req := httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	out := rec.Body.String()
	if !strings.Contains(out, `"weeks"`) {
		t.Errorf("response missing weeks: %s", out)
	}
	// Defaults applied: 13 weeks, threshold 50000.
	if !strings.Contains(out, `"threshold":50000`) {
		t.Errorf("response missing default threshold: %s", out)
	}
}

func TestForecastEndpointValidation(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()
	h.RegisterRoutes(e)

	// Missing start_balance and now.
	req := httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "ERR_REQUIRED") {
		t.Errorf("validation errors missing: %s", rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)
	h.SetHealthCheck(func() bool { return false })
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "degraded") {
		t.Errorf("disconnected feed not reported: %s", rec.Body.String())
	}
}
