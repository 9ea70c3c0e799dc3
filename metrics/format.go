package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/seo-optimizer/competitor-dashboard/sheet"
)

// Trend directions
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// Trend bands used to colour KPI deltas
const (
	BandStrong       = "strong"
	BandPositive     = "positive"
	BandMildNegative = "mild-negative"
	BandNegative     = "negative"
)

// FormatNumber abbreviates n as 1.2M, 4.5K or the plain integer. Ties round
// up, so 1250 is 1.3K.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", oneDecimal(n, 1_000_000))
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", oneDecimal(n, 1_000))
	default:
		return strconv.FormatInt(n, 10)
	}
}

// oneDecimal divides n by unit and rounds half away from zero to one decimal
func oneDecimal(n, unit int64) float64 {
	return math.Round(float64(n)/float64(unit/10)) / 10
}

func TrendDirection(v float64) string {
	switch {
	case v > 0:
		return TrendUp
	case v < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

func TrendBand(v float64) string {
	switch {
	case v > 10:
		return BandStrong
	case v > 0:
		return BandPositive
	case v > -10:
		return BandMildNegative
	default:
		return BandNegative
	}
}

// sortKeys maps a column name onto the value records are ordered by
var sortKeys = map[string]func(sheet.CompetitorRecord) float64{
	"organicKeywords":  func(r sheet.CompetitorRecord) float64 { return float64(r.OrganicKeywords) },
	"keywordsTrend":    func(r sheet.CompetitorRecord) float64 { return r.KeywordsTrend },
	"organicTraffic":   func(r sheet.CompetitorRecord) float64 { return float64(r.OrganicTraffic) },
	"trafficTrend":     func(r sheet.CompetitorRecord) float64 { return r.TrafficTrend },
	"paidKeywords":     func(r sheet.CompetitorRecord) float64 { return float64(r.PaidKeywords) },
	"paidTrend":        func(r sheet.CompetitorRecord) float64 { return r.PaidTrend },
	"paidTraffic":      func(r sheet.CompetitorRecord) float64 { return float64(r.PaidTraffic) },
	"paidTrafficTrend": func(r sheet.CompetitorRecord) float64 { return r.PaidTrafficTrend },
	"refDomains":       func(r sheet.CompetitorRecord) float64 { return float64(r.RefDomains) },
	"refTrend":         func(r sheet.CompetitorRecord) float64 { return r.RefTrend },
	"authorityScore":   func(r sheet.CompetitorRecord) float64 { return float64(r.AuthorityScore) },
	"authorityChange":  func(r sheet.CompetitorRecord) float64 { return float64(r.AuthorityChange) },
}

// SortableKey reports whether records can be ordered by key
func SortableKey(key string) bool {
	_, ok := sortKeys[key]
	return ok
}

// SortRecords returns a copy of records ordered by a numeric column. Ties
// keep their input order. An unknown key returns the copy unsorted.
func SortRecords(records []sheet.CompetitorRecord, key string, desc bool) []sheet.CompetitorRecord {
	out := make([]sheet.CompetitorRecord, len(records))
	copy(out, records)

	value, ok := sortKeys[key]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return value(out[i]) > value(out[j])
		}
		return value(out[i]) < value(out[j])
	})
	return out
}
