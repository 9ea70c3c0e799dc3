package dashboard

import (
	"strconv"
	"time"

	"github.com/seo-optimizer/competitor-dashboard/metrics"
	"github.com/seo-optimizer/competitor-dashboard/sheet"
)

// Card is one KPI tile
type Card struct {
	Label     string  `json:"label"`
	Value     string  `json:"value"`
	Raw       int64   `json:"raw"`
	Trend     float64 `json:"trend"`
	Direction string  `json:"direction"`
	Band      string  `json:"band"`
}

// View is the model handed to the presentation layer
type View struct {
	Source      Source                   `json:"source"`
	LastUpdated string                   `json:"lastUpdated"`
	LoadedAt    time.Time                `json:"loadedAt"`
	LastError   string                   `json:"lastError,omitempty"`
	Self        metrics.SelfDomains      `json:"self"`
	Axes        []string                 `json:"axes"`
	Cards       []Card                   `json:"cards"`
	Summary     metrics.Summary          `json:"summary"`
	Competitors []sheet.CompetitorRecord `json:"competitors"`
}

func newCard(label string, raw int64, trend float64, formatted bool) Card {
	value := metrics.FormatNumber(raw)
	if !formatted {
		value = strconv.FormatInt(raw, 10)
	}
	return Card{
		Label:     label,
		Value:     value,
		Raw:       raw,
		Trend:     trend,
		Direction: metrics.TrendDirection(trend),
		Band:      metrics.TrendBand(trend),
	}
}

// cards builds the combined KPI tiles. Trends come from the current domain.
func cards(sum metrics.Summary) []Card {
	c, cur := sum.Combined, sum.Current
	return []Card{
		newCard("Organic Keywords", c.OrganicKeywords, cur.KeywordsTrend, true),
		newCard("Organic Traffic", c.OrganicTraffic, cur.TrafficTrend, true),
		newCard("Ref Domains", c.RefDomains, cur.RefTrend, true),
		newCard("Authority Score", c.AuthorityScore, float64(cur.AuthorityChange), false),
	}
}

// View renders the current state
func (s *Service) View() View {
	st := s.Current()
	return View{
		Source:      st.Source,
		LastUpdated: st.LastUpdated,
		LoadedAt:    st.LoadedAt,
		LastError:   st.LastError,
		Self:        s.opts.Self,
		Axes:        metrics.AxisLabels,
		Cards:       cards(st.Summary),
		Summary:     st.Summary,
		Competitors: st.Competitors,
	}
}

// Competitors returns the raw records, optionally ordered by a numeric
// column
func (s *Service) Competitors(sortKey string, desc bool) []sheet.CompetitorRecord {
	records := s.Current().Competitors
	if sortKey == "" {
		return records
	}
	return metrics.SortRecords(records, sortKey, desc)
}
