package forecast

import (
	"testing"

	"LiqCast/internal/domain/models"
)

func week(index int, closing, net float64) models.LiquidityWeek {
	return models.LiquidityWeek{
		Index:          index,
		CalendarWeek:   "2026-W35",
		ClosingBalance: closing,
		NetCashflow:    net,
	}
}

func severities(alerts []models.LiquidityAlert) []models.AlertSeverity {
	out := make([]models.AlertSeverity, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Severity)
	}
	return out
}

func TestGenerateAlertsThresholdBoundaries(t *testing.T) {
	rules := DefaultRules()
	threshold := 50000.0

	cases := []struct {
		name    string
		closing float64
		want    []models.AlertSeverity
	}{
		{"negative balance", -1, []models.AlertSeverity{models.SeverityCritical}},
		{"zero balance", 0, []models.AlertSeverity{models.SeverityCritical}},
		{"just below threshold", threshold - 1, []models.AlertSeverity{models.SeverityWarning}},
		{"just above threshold", threshold + 1, nil},
		{"exactly threshold", threshold, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateAlerts([]models.LiquidityWeek{week(0, tc.closing, 0)}, threshold, rules)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d alerts %v, want %d", len(got), severities(got), len(tc.want))
			}
			for i, sev := range tc.want {
				if got[i].Severity != sev {
					t.Errorf("alert %d severity = %q, want %q", i, got[i].Severity, sev)
				}
			}
		})
	}
}

func TestGenerateAlertsLargeDrop(t *testing.T) {
	rules := DefaultRules()

	// Week 0 never emits the drop alert, later weeks do.
	weeks := []models.LiquidityWeek{
		week(0, 100000, -30000),
		week(1, 70000, -30000),
	}
	got := GenerateAlerts(weeks, 50000, rules)
	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1: %v", len(got), severities(got))
	}
	if got[0].Severity != models.SeverityInfo || got[0].Week != 1 {
		t.Errorf("alert = %q week %d, want info week 1", got[0].Severity, got[0].Week)
	}
}

func TestGenerateAlertsStacking(t *testing.T) {
	rules := DefaultRules()

	// A single week can trip both the critical and the drop rule.
	weeks := []models.LiquidityWeek{
		week(0, 50000, 0),
		week(1, -10000, -60000),
	}
	got := GenerateAlerts(weeks, 50000, rules)
	if len(got) != 2 {
		t.Fatalf("got %d alerts, want 2: %v", len(got), severities(got))
	}
	if got[0].Severity != models.SeverityCritical {
		t.Errorf("first alert = %q, want critical", got[0].Severity)
	}
	if got[1].Severity != models.SeverityInfo {
		t.Errorf("second alert = %q, want info", got[1].Severity)
	}
}
