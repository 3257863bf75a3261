package valuation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// Period is a named look-back window for performance charts.
type Period string

const (
	PeriodWeek       Period = "1W"
	PeriodMonth      Period = "1M"
	PeriodQuarter    Period = "3M"
	PeriodHalfYear   Period = "6M"
	PeriodYearToDate Period = "YTD"
	PeriodYear       Period = "1Y"
	PeriodThreeYears Period = "3Y"
	PeriodFiveYears  Period = "5Y"
	PeriodAll        Period = "ALL"
)

// ParsePeriod resolves a period name case-insensitively.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodHalfYear, PeriodYearToDate,
		PeriodYear, PeriodThreeYears, PeriodFiveYears, PeriodAll:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// WindowStart returns the first day included in period as seen from asOf.
// PeriodAll returns the zero time.
func WindowStart(period Period, asOf time.Time) time.Time {
	day := truncateDay(asOf)
	switch period {
	case PeriodWeek:
		return day.AddDate(0, 0, -7)
	case PeriodMonth:
		return monthsBack(day, 1)
	case PeriodQuarter:
		return monthsBack(day, 3)
	case PeriodHalfYear:
		return monthsBack(day, 6)
	case PeriodYearToDate:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return monthsBack(day, 12)
	case PeriodThreeYears:
		return monthsBack(day, 36)
	case PeriodFiveYears:
		return monthsBack(day, 60)
	default:
		return time.Time{}
	}
}

// monthsBack moves day back by n calendar months, clamping to the last day of the target
// month (Mar 31 minus one month is Feb 29 in a leap year).
func monthsBack(day time.Time, n int) time.Time {
	first := time.Date(day.Year(), day.Month()-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(day.Day(), lastDay)-1)
}

// FilterWindow returns the entries dated within [start, end], inclusive on both days,
// in ascending date order. A zero start or end leaves that side open.
func FilterWindow(series []model.PerformanceEntry, start, end time.Time) []model.PerformanceEntry {
	window := []model.PerformanceEntry{}
	for _, e := range series {
		day := truncateDay(e.Date)
		if !start.IsZero() && day.Before(truncateDay(start)) {
			continue
		}
		if !end.IsZero() && day.After(truncateDay(end)) {
			continue
		}
		window = append(window, e)
	}
	return window
}

// NormalizePerformance re-bases a window of cumulative-since-inception TWR values so that
// portfolio and benchmark both start at 0% on the first entry:
//
//	normalized = ((1+twr)/(1+startTwr) - 1) * 100
//
// series must be ascending by date. Windows with fewer than two entries cannot be re-based
// and yield InsufficientData with no points.
func NormalizePerformance(series []model.PerformanceEntry) model.NormalizedSeries {
	if len(series) < 2 {
		return model.NormalizedSeries{Points: []model.NormalizedEntry{}, InsufficientData: true}
	}

	startTWR := series[0].TWR
	startBench := series[0].BenchmarkTWR

	points := make([]model.NormalizedEntry, len(series))
	for i, e := range series {
		points[i] = model.NormalizedEntry{
			Date:            e.Date,
			PortfolioReturn: rebase(e.TWR, startTWR),
			BenchmarkReturn: rebase(e.BenchmarkTWR, startBench),
			Value:           e.Value,
			CostBasis:       e.CostBasis,
		}
	}

	return model.NormalizedSeries{Points: points}
}

// rebase expresses a cumulative return relative to a starting cumulative return, in percent.
// A start of -100% (total loss) cannot be re-based and yields 0.
func rebase(cumulative, start float64) float64 {
	if 1+start == 0 {
		return 0
	}
	return ((1+cumulative)/(1+start) - 1) * 100
}

// AdvanceTWR chains one more day onto a cumulative TWR.
// netFlow is money added to (positive) or taken out of (negative) the portfolio during the
// day; it is removed from the end value so that only market movement counts. When there was
// nothing invested the previous day the cumulative return is carried forward unchanged.
func AdvanceTWR(prevCumulative, prevValue, value, netFlow float64) float64 {
	if prevValue <= 0 {
		return prevCumulative
	}
	dailyReturn := (value - netFlow) / prevValue
	return (1+prevCumulative)*dailyReturn - 1
}

// CumulativeReturn returns price/base - 1, or 0 when base is not positive.
func CumulativeReturn(price, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return price/base - 1
}
