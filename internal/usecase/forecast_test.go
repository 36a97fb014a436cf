package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"LiqCast/internal/domain/models"
	"LiqCast/internal/service/cache"
	"LiqCast/internal/services/categorize"
	"LiqCast/internal/services/forecast"
	"LiqCast/internal/services/patterns"
	"LiqCast/internal/services/stats"
)

type fakeStore struct {
	bookings []models.Booking
	err      error
	calls    int
}

func (f *fakeStore) Init(ctx context.Context) error                       { return nil }
func (f *fakeStore) Store(ctx context.Context, b *models.Booking) error   { return nil }
func (f *fakeStore) StoreBatch(ctx context.Context, b []*models.Booking) error { return nil }
func (f *fakeStore) Health(ctx context.Context) error                     { return nil }
func (f *fakeStore) Close() error                                         { return nil }

func (f *fakeStore) Query(ctx context.Context, from, to time.Time, limit int) ([]models.Booking, error) {
	return f.bookings, f.err
}

func (f *fakeStore) QueryAll(ctx context.Context) ([]models.Booking, error) {
	f.calls++
	return f.bookings, f.err
}

type fakeAlerts struct {
	mu     sync.Mutex
	alerts []models.LiquidityAlert
	done   chan struct{}
}

func (f *fakeAlerts) PublishAlerts(ctx context.Context, alerts []models.LiquidityAlert) error {
	f.mu.Lock()
	f.alerts = append(f.alerts, alerts...)
	f.mu.Unlock()
	close(f.done)
	return nil
}

func (f *fakeAlerts) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordBookingIngested(backend, source string) {}
func (nopMetrics) RecordError(kind string)                      {}
func (nopMetrics) RecordMinProjectedBalance(balance float64)    {}
func (nopMetrics) RecordLatency(op string, seconds float64)     {}

type fakeEnricher struct {
	narrative string
	err       error
}

func (f *fakeEnricher) Narrate(ctx context.Context, result *models.LiquidityForecastResult) (string, error) {
	return f.narrative, f.err
}

func newEngine() *forecast.Projector {
	cat := categorize.New(5000)
	return forecast.NewProjector(
		patterns.NewDetector(cat, patterns.DefaultBands()),
		stats.NewEstimator(cat, 5000),
		cat,
		forecast.DefaultRules(),
	)
}

func TestGenerateValidation(t *testing.T) {
	uc := NewForecastUseCase(&fakeStore{}, newEngine(), nil, nil, nopMetrics{}, nil, 0, 0, nil)

	cases := []struct {
		name string
		req  *models.ForecastRequest
	}{
		{"nil request", nil},
		{"zero weeks", &models.ForecastRequest{StartBalance: 1, Threshold: 50000, Weeks: 0, Now: "2026-08-28"}},
		{"too many weeks", &models.ForecastRequest{StartBalance: 1, Threshold: 50000, Weeks: 53, Now: "2026-08-28"}},
		{"zero threshold", &models.ForecastRequest{StartBalance: 1, Threshold: 0, Weeks: 13, Now: "2026-08-28"}},
		{"bad date", &models.ForecastRequest{StartBalance: 1, Threshold: 50000, Weeks: 13, Now: "not-a-date"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Generate(context.Background(), tc.req); err == nil {
				t.Error("invalid request accepted")
			}
		})
	}
}

func TestGenerateReturnsForecast(t *testing.T) {
	store := &fakeStore{}
	uc := NewForecastUseCase(store, newEngine(), nil, nil, nopMetrics{}, nil, 0, 0, nil)

	resp, err := uc.Generate(context.Background(), &models.ForecastRequest{
		StartBalance: 100000,
		Threshold:    50000,
		Weeks:        4,
		Now:          "2026-08-28",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Result == nil {
		t.Fatal("result is nil")
	}
	if len(resp.Result.Weeks) != 4 {
		t.Errorf("got %d weeks, want 4", len(resp.Result.Weeks))
	}
	if resp.Narrative != nil {
		t.Error("narrative present without narrate flag")
	}
}

func TestGeneratePublishesAlerts(t *testing.T) {
	alerts := &fakeAlerts{done: make(chan struct{})}
	uc := NewForecastUseCase(&fakeStore{}, newEngine(), alerts, nil, nopMetrics{}, nil, 0, 0, nil)

	// Start below the threshold so every week trips the warning rule.
	resp, err := uc.Generate(context.Background(), &models.ForecastRequest{
		StartBalance: 10000,
		Threshold:    50000,
		Weeks:        2,
		Now:          "2026-08-28",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Result.Alerts) == 0 {
		t.Fatal("expected alerts in result")
	}

	select {
	case <-alerts.done:
	case <-time.After(time.Second):
		t.Fatal("alerts not published within a second")
	}
	alerts.mu.Lock()
	defer alerts.mu.Unlock()
	if len(alerts.alerts) != len(resp.Result.Alerts) {
		t.Errorf("published %d alerts, result has %d", len(alerts.alerts), len(resp.Result.Alerts))
	}
}

func TestGenerateNarrativeNonFatal(t *testing.T) {
	uc := NewForecastUseCase(&fakeStore{}, newEngine(), nil,
		&fakeEnricher{err: errors.New("service down")}, nopMetrics{}, nil, 0, 0, nil)

	resp, err := uc.Generate(context.Background(), &models.ForecastRequest{
		StartBalance: 100000,
		Threshold:    50000,
		Weeks:        4,
		Now:          "2026-08-28",
		Narrate:      true,
	})
	if err != nil {
		t.Fatalf("enrichment failure broke the forecast: %v", err)
	}
	if resp.Narrative != nil {
		t.Error("narrative set despite enrichment failure")
	}
}

func TestGenerateNarrativeAttached(t *testing.T) {
	uc := NewForecastUseCase(&fakeStore{}, newEngine(), nil,
		&fakeEnricher{narrative: "Die Lage ist entspannt."}, nopMetrics{}, nil, 0, 0, nil)

	resp, err := uc.Generate(context.Background(), &models.ForecastRequest{
		StartBalance: 100000,
		Threshold:    50000,
		Weeks:        4,
		Now:          "2026-08-28",
		Narrate:      true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Narrative == nil || *resp.Narrative != "Die Lage ist entspannt." {
		t.Errorf("narrative = %v, want attached", resp.Narrative)
	}
}

func TestGenerateCachesHistory(t *testing.T) {
	store := &fakeStore{}
	uc := NewForecastUseCase(store, newEngine(), nil, nil, nopMetrics{},
		cache.NewTTLCache(), time.Minute, 0, nil)

	req := &models.ForecastRequest{
		StartBalance: 100000,
		Threshold:    50000,
		Weeks:        4,
		Now:          "2026-08-28",
	}
	if _, err := uc.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := uc.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("storage queried %d times, want 1 (second read served from cache)", store.calls)
	}
}

func TestGenerateStoreErrorPropagates(t *testing.T) {
	uc := NewForecastUseCase(&fakeStore{err: errors.New("ch down")}, newEngine(), nil, nil, nopMetrics{}, nil, 0, 0, nil)

	if _, err := uc.Generate(context.Background(), &models.ForecastRequest{
		StartBalance: 100000,
		Threshold:    50000,
		Weeks:        4,
		Now:          "2026-08-28",
	}); err == nil {
		t.Error("storage failure not propagated")
	}
}
