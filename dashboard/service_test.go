package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seo-optimizer/competitor-dashboard/metrics"
	"github.com/seo-optimizer/competitor-dashboard/sheet"
	"github.com/seo-optimizer/competitor-dashboard/snapshot"
	"github.com/seo-optimizer/competitor-dashboard/source"
	"github.com/seo-optimizer/competitor-dashboard/stats"
)

const sheetsCSV = `domain,name,tier,organicTraffic,refDomains,authorityScore,isOwn
a.io,A,leader,5000,100,50,FALSE
caf.io,CAF,legacy,1300,10,30,TRUE
certta.ai,Certta,new,60,5,18,TRUE
`

var testOptions = Options{
	Self:         metrics.SelfDomains{Legacy: "caf.io", Current: "certta.ai"},
	CombinedName: "Certta (combined)",
}

type fakeFetcher struct {
	endpoints      source.Endpoints
	competitorsCSV string
	competitorsErr error
	configEntries  []sheet.ConfigEntry
	configErr      error
	configCalls    int
}

func (f *fakeFetcher) Endpoints() source.Endpoints { return f.endpoints }

func (f *fakeFetcher) FetchCompetitors(ctx context.Context) ([]sheet.CompetitorRecord, string, error) {
	if f.competitorsErr != nil {
		return nil, "", f.competitorsErr
	}
	return sheet.DecodeCompetitors(sheet.Parse(f.competitorsCSV)), f.competitorsCSV, nil
}

func (f *fakeFetcher) FetchConfig(ctx context.Context) ([]sheet.ConfigEntry, error) {
	f.configCalls++
	return f.configEntries, f.configErr
}

type memoryStore struct {
	mu   sync.Mutex
	snap *snapshot.Snapshot
}

func (m *memoryStore) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memoryStore) Save(ctx context.Context, snap snapshot.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &snap
	return nil
}

type countingRecorder struct {
	total stats.Delta
}

func (c *countingRecorder) IncrementStats(d stats.Delta) {
	c.total.SheetsLoads += d.SheetsLoads
	c.total.FallbackLoads += d.FallbackLoads
	c.total.FetchErrors += d.FetchErrors
	c.total.ConfigErrors += d.ConfigErrors
}

func configuredEndpoints() source.Endpoints {
	return source.Endpoints{
		CompetitorsURL: "https://sheets.example/competitors.csv",
		ConfigURL:      "https://sheets.example/config.csv",
		Placeholders:   source.DefaultPlaceholders,
	}
}

func TestNewServiceStartsOnFallback(t *testing.T) {
	svc := NewService(&fakeFetcher{}, nil, nil, testOptions, zap.NewNop())

	st := svc.Current()
	assert.Equal(t, SourceFallback, st.Source)
	assert.Equal(t, "Fev 2026", st.LastUpdated)
	assert.Len(t, st.Competitors, 6)
	assert.Equal(t, 4, st.Summary.MigrationProgress)
}

func TestRefreshFromSheets(t *testing.T) {
	fetcher := &fakeFetcher{
		endpoints:      configuredEndpoints(),
		competitorsCSV: sheetsCSV,
		configEntries:  []sheet.ConfigEntry{{Key: "lastUpdated", Value: "Mar 2026"}},
	}
	store := &memoryStore{}
	rec := &countingRecorder{}
	svc := NewService(fetcher, store, rec, testOptions, zap.NewNop())

	src, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSheets, src)

	st := svc.Current()
	assert.Len(t, st.Competitors, 3)
	assert.Equal(t, "Mar 2026", st.LastUpdated)
	assert.Equal(t, int64(1360), st.Summary.Combined.OrganicTraffic)
	assert.Len(t, st.Summary.Comparison, 2)

	require.NotNil(t, store.snap)
	assert.Equal(t, sheetsCSV, store.snap.CompetitorsCSV)
	assert.Equal(t, "Mar 2026", store.snap.LastUpdated)

	assert.Equal(t, stats.Delta{SheetsLoads: 1}, rec.total)
}

func TestRefreshPlaceholderUsesFallback(t *testing.T) {
	fetcher := &fakeFetcher{
		endpoints:      source.Endpoints{CompetitorsURL: "https://x/COLE_AQUI", Placeholders: source.DefaultPlaceholders},
		competitorsCSV: sheetsCSV,
	}
	rec := &countingRecorder{}
	svc := NewService(fetcher, nil, rec, testOptions, zap.NewNop())

	src, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, src)
	assert.Len(t, svc.Current().Competitors, 6)
	assert.Zero(t, fetcher.configCalls)
	assert.Equal(t, stats.Delta{FallbackLoads: 1}, rec.total)
}

func TestRefreshFailureKeepsPreviousRecords(t *testing.T) {
	fetcher := &fakeFetcher{endpoints: configuredEndpoints(), competitorsCSV: sheetsCSV}
	rec := &countingRecorder{}
	svc := NewService(fetcher, nil, rec, testOptions, zap.NewNop())

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	before := svc.Current()

	fetcher.competitorsErr = errors.New("connection reset")
	fetcher.configCalls = 0

	src, err := svc.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, SourceFallback, src)
	assert.Zero(t, fetcher.configCalls, "config must not be fetched after a failed competitors fetch")

	after := svc.Current()
	assert.Equal(t, before.Competitors, after.Competitors)
	assert.Equal(t, SourceFallback, after.Source)
	assert.Equal(t, "connection reset", after.LastError)
	assert.Equal(t, stats.Delta{SheetsLoads: 1, FetchErrors: 1, FallbackLoads: 1}, rec.total)
}

func TestRefreshCanceledLeavesStateAlone(t *testing.T) {
	fetcher := &fakeFetcher{endpoints: configuredEndpoints(), competitorsCSV: sheetsCSV}
	rec := &countingRecorder{}
	svc := NewService(fetcher, nil, rec, testOptions, zap.NewNop())

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	before := svc.Current()

	fetcher.competitorsErr = fmt.Errorf("fetch competitors: %w", context.Canceled)

	src, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, SourceSheets, src)
	assert.Same(t, before, svc.Current())
	assert.Empty(t, svc.Current().LastError)
	assert.Equal(t, stats.Delta{SheetsLoads: 1}, rec.total)
}

func TestRefreshLogsUnknownTiers(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fetcher := &fakeFetcher{
		endpoints:      configuredEndpoints(),
		competitorsCSV: "domain,tier,organicTraffic\na.io,leader,10\nb.io,challenger,20\nc.io,,30\n",
	}
	svc := NewService(fetcher, nil, nil, testOptions, zap.New(core))

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, svc.Current().Competitors, 3)

	unknown := logs.FilterMessage("Unknown competitor tier").All()
	require.Len(t, unknown, 1)
	fields := unknown[0].ContextMap()
	assert.Equal(t, "b.io", fields["domain"])
	assert.Equal(t, "challenger", fields["tier"])
}

func TestRefreshConfigFailureOnlyAffectsLastUpdated(t *testing.T) {
	fetcher := &fakeFetcher{
		endpoints:      configuredEndpoints(),
		competitorsCSV: sheetsCSV,
		configErr:      errors.New("timeout"),
	}
	rec := &countingRecorder{}
	svc := NewService(fetcher, nil, rec, testOptions, zap.NewNop())

	src, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSheets, src)
	assert.Equal(t, "Fev 2026", svc.Current().LastUpdated)
	assert.Len(t, svc.Current().Competitors, 3)
	assert.Equal(t, 1, rec.total.ConfigErrors)
}

func TestRefreshEmptyExportKeepsRecords(t *testing.T) {
	fetcher := &fakeFetcher{endpoints: configuredEndpoints(), competitorsCSV: "domain,name\n"}
	store := &memoryStore{}
	svc := NewService(fetcher, store, nil, testOptions, zap.NewNop())

	src, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, src)
	assert.Len(t, svc.Current().Competitors, 6)
	assert.Nil(t, store.snap)
	assert.Equal(t, 1, fetcher.configCalls)
}

func TestRestore(t *testing.T) {
	store := &memoryStore{snap: &snapshot.Snapshot{CompetitorsCSV: sheetsCSV, LastUpdated: "Jan 2026"}}
	svc := NewService(&fakeFetcher{}, store, nil, testOptions, zap.NewNop())

	require.NoError(t, svc.Restore(context.Background()))

	st := svc.Current()
	assert.Equal(t, SourceSnapshot, st.Source)
	assert.Equal(t, "Jan 2026", st.LastUpdated)
	assert.Len(t, st.Competitors, 3)
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	svc := NewService(&fakeFetcher{}, &memoryStore{}, nil, testOptions, zap.NewNop())
	require.NoError(t, svc.Restore(context.Background()))
	assert.Equal(t, SourceFallback, svc.Current().Source)

	svc = NewService(&fakeFetcher{}, nil, nil, testOptions, zap.NewNop())
	require.NoError(t, svc.Restore(context.Background()))
}

func TestRunStopsWithContext(t *testing.T) {
	fetcher := &fakeFetcher{endpoints: configuredEndpoints(), competitorsCSV: sheetsCSV}
	svc := NewService(fetcher, nil, nil, testOptions, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, 0)
		close(done)
	}()
	<-done
	assert.Equal(t, SourceSheets, svc.Current().Source)

	done = make(chan struct{})
	go func() {
		svc.Run(ctx, 1000000)
		close(done)
	}()
	cancel()
	<-done
}

func TestView(t *testing.T) {
	svc := NewService(&fakeFetcher{}, nil, nil, testOptions, zap.NewNop())
	v := svc.View()

	assert.Equal(t, SourceFallback, v.Source)
	assert.Equal(t, metrics.AxisLabels, v.Axes)
	assert.Equal(t, testOptions.Self, v.Self)
	require.Len(t, v.Cards, 4)

	assert.Equal(t, "Organic Keywords", v.Cards[0].Label)
	assert.Equal(t, "757", v.Cards[0].Value)
	assert.Equal(t, metrics.TrendUp, v.Cards[0].Direction)
	assert.Equal(t, metrics.BandStrong, v.Cards[0].Band)

	assert.Equal(t, "1.4K", v.Cards[1].Value)
	assert.Equal(t, "3.9K", v.Cards[2].Value)
	assert.Equal(t, "30", v.Cards[3].Value)
	assert.Equal(t, 16.0, v.Cards[3].Trend)
}

func TestCompetitorsSorted(t *testing.T) {
	svc := NewService(&fakeFetcher{}, nil, nil, testOptions, zap.NewNop())

	unsorted := svc.Competitors("", false)
	assert.Equal(t, "unico.io", unsorted[0].Domain)

	byRefs := svc.Competitors("refDomains", true)
	assert.Equal(t, "jumio.com", byRefs[0].Domain)
	assert.Equal(t, "unico.io", svc.Current().Competitors[0].Domain)
}
