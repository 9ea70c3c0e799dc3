package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/seo-optimizer/competitor-dashboard/metrics"
	"github.com/seo-optimizer/competitor-dashboard/sheet"
	"github.com/seo-optimizer/competitor-dashboard/snapshot"
	"github.com/seo-optimizer/competitor-dashboard/source"
	"github.com/seo-optimizer/competitor-dashboard/stats"
)

// Source tells the presentation layer where the current records came from
type Source string

const (
	SourceSheets   Source = "sheets"
	SourceFallback Source = "fallback"
	SourceSnapshot Source = "snapshot"
)

// State is one complete load. It is never modified after it is installed.
type State struct {
	Competitors []sheet.CompetitorRecord
	LastUpdated string
	Source      Source
	LoadedAt    time.Time
	LastError   string
	Summary     metrics.Summary
}

// Fetcher retrieves the two sheet tabs
type Fetcher interface {
	Endpoints() source.Endpoints
	FetchCompetitors(ctx context.Context) ([]sheet.CompetitorRecord, string, error)
	FetchConfig(ctx context.Context) ([]sheet.ConfigEntry, error)
}

// Recorder counts refresh outcomes
type Recorder interface {
	IncrementStats(d stats.Delta)
}

// Options declares how the self records are merged
type Options struct {
	Self         metrics.SelfDomains
	CombinedName string
}

// Service owns the current dashboard state
type Service struct {
	fetcher   Fetcher
	store     snapshot.Store
	recorder  Recorder
	opts      Options
	logger    *zap.Logger
	state     atomic.Pointer[State]
	refreshMu sync.Mutex
}

// NewService creates a service serving the embedded fallback dataset until
// the first refresh. store and recorder may be nil.
func NewService(fetcher Fetcher, store snapshot.Store, recorder Recorder, opts Options, logger *zap.Logger) *Service {
	s := &Service{
		fetcher:  fetcher,
		store:    store,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
	}

	ds := source.Fallback()
	s.install(ds.Competitors, ds.LastUpdated, SourceFallback, "")
	return s
}

// Current returns the installed state
func (s *Service) Current() *State {
	return s.state.Load()
}

func (s *Service) install(records []sheet.CompetitorRecord, lastUpdated string, src Source, lastErr string) *State {
	st := &State{
		Competitors: records,
		LastUpdated: lastUpdated,
		Source:      src,
		LoadedAt:    time.Now(),
		LastError:   lastErr,
		Summary:     metrics.Compute(records, s.opts.Self, s.opts.CombinedName),
	}
	s.state.Store(st)
	return st
}

func (s *Service) record(d stats.Delta) {
	if s.recorder != nil {
		s.recorder.IncrementStats(d)
	}
}

// warnUnknownTiers logs records whose tier the dashboard does not group by.
// They are still served; a blank tier is not reported.
func (s *Service) warnUnknownTiers(records []sheet.CompetitorRecord) {
	for _, r := range records {
		if r.Tier != "" && !r.Tier.Known() {
			s.logger.Warn("Unknown competitor tier",
				zap.String("domain", r.Domain),
				zap.String("tier", string(r.Tier)),
			)
		}
	}
}

// Restore installs the last-known-good snapshot, if the store has one
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	records := sheet.DecodeCompetitors(sheet.Parse(snap.CompetitorsCSV))
	if len(records) == 0 {
		return nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	lastUpdated := snap.LastUpdated
	if lastUpdated == "" {
		lastUpdated = s.Current().LastUpdated
	}
	s.warnUnknownTiers(records)
	s.install(records, lastUpdated, SourceSnapshot, "")

	s.logger.Info("Restored snapshot",
		zap.Int("competitors", len(records)),
		zap.Time("fetchedAt", snap.FetchedAt),
	)
	return nil
}

// Refresh reloads both tabs in order: competitors first and config only
// after competitors succeeded. A failed competitors fetch keeps the current
// records, marks the source as fallback and returns the error. A failed
// config fetch only keeps the current lastUpdated. A canceled fetch changes
// nothing.
func (s *Service) Refresh(ctx context.Context) (Source, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	prev := s.Current()
	endpoints := s.fetcher.Endpoints()

	if endpoints.IsPlaceholder(endpoints.CompetitorsURL) {
		ds := source.Fallback()
		s.install(ds.Competitors, ds.LastUpdated, SourceFallback, "")
		s.record(stats.Delta{FallbackLoads: 1})
		return SourceFallback, nil
	}

	records, raw, err := s.fetcher.FetchCompetitors(ctx)
	if errors.Is(err, context.Canceled) {
		// the caller went away; the sheet is not at fault
		s.logger.Debug("Competitors fetch canceled", zap.Error(err))
		return prev.Source, err
	}
	if err != nil {
		s.logger.Warn("Competitors fetch failed, keeping current records",
			zap.String("previousSource", string(prev.Source)),
			zap.Error(err),
		)
		s.install(prev.Competitors, prev.LastUpdated, SourceFallback, err.Error())
		s.record(stats.Delta{FetchErrors: 1, FallbackLoads: 1})
		return SourceFallback, err
	}

	competitors, src := prev.Competitors, prev.Source
	if len(records) > 0 {
		competitors, src = records, SourceSheets
		s.warnUnknownTiers(records)
	} else {
		s.logger.Warn("Competitors export has no rows, keeping current records")
	}

	lastUpdated := prev.LastUpdated
	if !endpoints.IsPlaceholder(endpoints.ConfigURL) {
		entries, err := s.fetcher.FetchConfig(ctx)
		switch {
		case err != nil:
			s.logger.Warn("Config fetch failed, keeping lastUpdated", zap.Error(err))
			s.record(stats.Delta{ConfigErrors: 1})
		default:
			if v, ok := sheet.LookupConfig(entries, source.LastUpdatedKey); ok {
				lastUpdated = v
			}
		}
	}

	st := s.install(competitors, lastUpdated, src, "")

	if src == SourceSheets {
		s.record(stats.Delta{SheetsLoads: 1})
	} else {
		s.record(stats.Delta{FallbackLoads: 1})
	}

	if len(records) > 0 && s.store != nil {
		snap := snapshot.Snapshot{CompetitorsCSV: raw, LastUpdated: lastUpdated, FetchedAt: st.LoadedAt}
		if err := s.store.Save(ctx, snap); err != nil {
			s.logger.Warn("Failed to save snapshot", zap.Error(err))
		}
	}

	s.logger.Info("Dashboard refreshed",
		zap.String("source", string(src)),
		zap.Int("competitors", len(competitors)),
		zap.String("lastUpdated", lastUpdated),
	)
	return src, nil
}

// Run refreshes immediately and then every interval until ctx is done. A
// non-positive interval refreshes once.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.refreshAndLog(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshAndLog(ctx)
		}
	}
}

func (s *Service) refreshAndLog(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug("Scheduled refresh degraded", zap.Error(err))
	}
}
