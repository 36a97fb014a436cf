package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"LiqCast/internal/domain/models"
	domsvc "LiqCast/internal/domain/service"
	"LiqCast/internal/services/stats"
	"LiqCast/pkg/util"
)

const (
	confidenceFloor = 0.4
	confidenceDecay = 0.045
	bandWidening    = 0.1
)

// Input carries one forecast invocation. Now must be supplied explicitly;
// the projector never reads a clock, so identical inputs produce identical
// results.
type Input struct {
	Bookings     []models.Booking
	StartBalance float64
	Threshold    float64
	Weeks        int
	Now          time.Time
}

// Projector turns booking history into a week-by-week liquidity forecast.
// Pure computation over in-memory data: no I/O, no shared state, safe for
// concurrent invocations.
type Projector struct {
	detector    domsvc.PatternDetector
	estimator   domsvc.VarianceEstimator
	categorizer domsvc.AccountCategorizer
	rules       Rules
}

// NewProjector creates a projector.
func NewProjector(
	detector domsvc.PatternDetector,
	estimator domsvc.VarianceEstimator,
	categorizer domsvc.AccountCategorizer,
	rules Rules,
) *Projector {
	return &Projector{
		detector:    detector,
		estimator:   estimator,
		categorizer: categorizer,
		rules:       rules,
	}
}

// Forecast projects the cash position over the horizon. Zero threshold and
// weeks fall back to the rule defaults; negative values are rejected.
func (p *Projector) Forecast(in Input) (*models.LiquidityForecastResult, error) {
	if in.Threshold == 0 {
		in.Threshold = p.rules.DefaultThreshold
	}
	if in.Weeks == 0 {
		in.Weeks = p.rules.DefaultWeeks
	}
	if in.Weeks < 0 || in.Threshold < 0 {
		return nil, fmt.Errorf("invalid forecast config: weeks=%d threshold=%v", in.Weeks, in.Threshold)
	}
	if in.Now.IsZero() {
		return nil, fmt.Errorf("invalid forecast config: reference date is required")
	}

	patterns := p.detector.Detect(in.Bookings, in.Now)
	stdDev := p.estimator.WeeklyStdDev(in.Bookings)
	baseIn, baseOut := stats.TrailingWeeklyAverages(in.Bookings, in.Now, p.categorizer)

	weeks := make([]models.LiquidityWeek, 0, in.Weeks)
	balance := in.StartBalance
	minBalance := in.StartBalance
	minBalanceWeek := ""
	var totalIn, totalOut float64

	for i := 0; i < in.Weeks; i++ {
		start, end := util.WeekRange(in.Now, i)
		confidence := 1 - float64(i)*confidenceDecay
		if confidence < confidenceFloor {
			confidence = confidenceFloor
		}

		inflow := baseIn
		outflow := baseOut
		cats := newCategorySet()

		for _, b := range historicalInRange(in.Bookings, start, end) {
			cat := p.categorizer.Categorize(b.Account)
			cats.add(cat.Name, math.Abs(b.Amount), cat.Direction, false, 1)
		}

		for _, pat := range patterns {
			if overlay := p.overlayAmount(pat, start); overlay > 0 {
				outflow += overlay
				cats.add(pat.Category, overlay, models.DirectionOutflow, true, pat.Confidence)
			}
			if !includeInWeek(pat.Frequency, i) {
				continue
			}
			contribution := pat.Amount * pat.Confidence
			if pat.Direction == models.DirectionInflow {
				inflow += contribution
			} else {
				outflow += contribution
			}
			cats.add(pat.Category, contribution, pat.Direction, true, pat.Confidence)
		}

		net := inflow - outflow
		closing := balance + net
		halfWidth := stdDev * (1 + float64(i)*bandWidening)

		weeks = append(weeks, models.LiquidityWeek{
			Index:          i,
			CalendarWeek:   util.ISOWeekLabel(start),
			StartDate:      start,
			EndDate:        end,
			OpeningBalance: stats.Round2(balance),
			Inflow:         stats.Round2(inflow),
			Outflow:        stats.Round2(outflow),
			NetCashflow:    stats.Round2(net),
			ClosingBalance: stats.Round2(closing),
			Confidence:     confidence,
			LowerBound:     stats.Round2(closing - halfWidth),
			UpperBound:     stats.Round2(closing + halfWidth),
			Categories:     cats.sorted(),
		})

		totalIn += inflow
		totalOut += outflow
		if closing < minBalance {
			minBalance = closing
			minBalanceWeek = util.ISOWeekLabel(start)
		}
		balance = closing
	}

	if minBalanceWeek == "" && len(weeks) > 0 {
		// Balance never dipped below the start; report the first week.
		minBalanceWeek = weeks[0].CalendarWeek
	}

	kpis := buildKPIs(in, weeks, totalIn, totalOut, minBalance, minBalanceWeek)
	alerts := GenerateAlerts(weeks, in.Threshold, p.rules)
	breakdown := AggregateCategories(weeks)
	insights := BuildInsights(weeks, kpis, patterns, breakdown, p.rules)

	return &models.LiquidityForecastResult{
		GeneratedFor:      in.Now,
		StartBalance:      in.StartBalance,
		Threshold:         in.Threshold,
		Weeks:             weeks,
		Alerts:            alerts,
		KPIs:              kpis,
		Insights:          insights,
		RecurringPatterns: patterns,
		CategoryBreakdown: breakdown,
	}, nil
}

// overlayAmount returns the calendar-anchored contribution of a pattern for
// a week starting at start. End-of-month personnel payments and
// beginning-of-month rent payments land in fixed day windows.
func (p *Projector) overlayAmount(pat models.RecurringPattern, start time.Time) float64 {
	if pat.Frequency != models.FrequencyMonthly || pat.Direction != models.DirectionOutflow {
		return 0
	}
	day := start.Day()
	switch pat.Category {
	case p.rules.PayrollCategory:
		if day >= p.rules.PayrollWindowStart && day <= p.rules.PayrollWindowEnd {
			return pat.Amount * pat.Confidence * p.rules.OverlayFactor
		}
	case p.rules.RentCategory:
		if day >= p.rules.RentWindowStart && day <= p.rules.RentWindowEnd {
			return pat.Amount * pat.Confidence * p.rules.OverlayFactor
		}
	}
	return 0
}

func includeInWeek(freq models.Frequency, week int) bool {
	switch freq {
	case models.FrequencyWeekly:
		return true
	case models.FrequencyBiweekly:
		return week%2 == 0
	case models.FrequencyMonthly:
		return week%4 == 0
	case models.FrequencyQuarterly:
		return week%13 == 0
	default:
		return false
	}
}

func historicalInRange(bookings []models.Booking, start, end time.Time) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if !b.BookedAt.Before(start) && !b.BookedAt.After(end) {
			out = append(out, b)
		}
	}
	return out
}

func buildKPIs(in Input, weeks []models.LiquidityWeek, totalIn, totalOut, minBalance float64, minBalanceWeek string) models.ForecastKPIs {
	horizon := float64(len(weeks))
	kpis := models.ForecastKPIs{
		TotalInflow:    stats.Round2(totalIn),
		TotalOutflow:   stats.Round2(totalOut),
		MinBalance:     stats.Round2(minBalance),
		MinBalanceWeek: minBalanceWeek,
	}
	if len(weeks) == 0 {
		return kpis
	}
	kpis.EndBalance = weeks[len(weeks)-1].ClosingBalance
	kpis.AvgWeeklyInflow = stats.Round2(totalIn / horizon)

	burn := (totalOut - totalIn) / horizon
	kpis.BurnRate = stats.Round2(burn)
	if burn > 0 {
		runway := stats.Round2(minBalance / burn)
		kpis.RunwayWeeks = &runway
	}
	return kpis
}

// categorySet accumulates per-week category contributions.
type categorySet struct {
	entries map[string]*models.CashflowCategory
	order   []string
}

func newCategorySet() *categorySet {
	return &categorySet{entries: make(map[string]*models.CashflowCategory)}
}

func (s *categorySet) add(name string, amount float64, dir models.Direction, recurring bool, confidence float64) {
	e, ok := s.entries[name]
	if !ok {
		e = &models.CashflowCategory{Name: name, Direction: dir, Confidence: confidence}
		s.entries[name] = e
		s.order = append(s.order, name)
	}
	e.Amount += amount
	if recurring {
		e.Recurring = true
	}
	if confidence < e.Confidence {
		e.Confidence = confidence
	}
}

func (s *categorySet) sorted() []models.CashflowCategory {
	out := make([]models.CashflowCategory, 0, len(s.order))
	for _, name := range s.order {
		e := s.entries[name]
		e.Amount = stats.Round2(e.Amount)
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}
