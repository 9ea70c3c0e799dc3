package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seo-optimizer/competitor-dashboard/sheet"
)

func newTestLoader(competitorsURL, configURL string, timeout time.Duration) *Loader {
	return NewLoader(Endpoints{
		CompetitorsURL: competitorsURL,
		ConfigURL:      configURL,
		Placeholders:   DefaultPlaceholders,
	}, timeout, zap.NewNop())
}

func TestEndpointsIsPlaceholder(t *testing.T) {
	e := Endpoints{Placeholders: []string{"COLE_AQUI", ""}}
	assert.True(t, e.IsPlaceholder(""))
	assert.True(t, e.IsPlaceholder("   "))
	assert.True(t, e.IsPlaceholder("https://docs.google.com/COLE_AQUI"))
	assert.False(t, e.IsPlaceholder("https://docs.google.com/spreadsheets/d/e/x/pub?output=csv"))
}

func TestFetchCompetitors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(fallbackCompetitorsCSV))
	}))
	defer srv.Close()

	records, raw, err := newTestLoader(srv.URL, "", time.Second).FetchCompetitors(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 6)
	assert.Equal(t, fallbackCompetitorsCSV, raw)
	assert.Equal(t, "certta.ai", records[5].Domain)
}

func TestFetchConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("key,value\r\nlastUpdated,Mar 2026\r\n"))
	}))
	defer srv.Close()

	entries, err := newTestLoader("", srv.URL, time.Second).FetchConfig(context.Background())
	require.NoError(t, err)

	v, ok := sheet.LookupConfig(entries, LastUpdatedKey)
	assert.True(t, ok)
	assert.Equal(t, "Mar 2026", v)
}

func TestFetchFailures(t *testing.T) {
	t.Run("Placeholder", func(t *testing.T) {
		l := newTestLoader("https://example.com/COLE_AQUI", "", time.Second)
		_, _, err := l.FetchCompetitors(context.Background())
		assert.ErrorIs(t, err, ErrPlaceholder)

		_, err = l.FetchConfig(context.Background())
		assert.ErrorIs(t, err, ErrPlaceholder)
	})

	t.Run("Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, _, err := newTestLoader(srv.URL, "", time.Second).FetchCompetitors(context.Background())
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("HTMLPage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html><head><title>Google Sheets - Sign in</title></head><body></body></html>"))
		}))
		defer srv.Close()

		_, _, err := newTestLoader(srv.URL, "", time.Second).FetchCompetitors(context.Background())
		assert.ErrorIs(t, err, ErrNotCSV)
		assert.Contains(t, err.Error(), "Google Sheets - Sign in")
	})

	t.Run("HTMLWithoutContentType", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("  <!DOCTYPE html><html><body>oops</body></html>"))
		}))
		defer srv.Close()

		_, _, err := newTestLoader(srv.URL, "", time.Second).FetchCompetitors(context.Background())
		assert.ErrorIs(t, err, ErrNotCSV)
		assert.Contains(t, err.Error(), "untitled html page")
	})

	t.Run("OversizedExport", func(t *testing.T) {
		body := strings.Repeat("unico.io,Unico,39300\n", 100)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("domain,name,organicTraffic\n" + body))
		}))
		defer srv.Close()

		l := newTestLoader(srv.URL, "", time.Second)
		l.maxBody = int64(len(body))

		records, raw, err := l.FetchCompetitors(context.Background())
		assert.ErrorIs(t, err, ErrTooLarge)
		assert.Nil(t, records)
		assert.Empty(t, raw)
	})

	t.Run("ExportAtLimit", func(t *testing.T) {
		text := "domain,organicTraffic\nunico.io,39300\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(text))
		}))
		defer srv.Close()

		l := newTestLoader(srv.URL, "", time.Second)
		l.maxBody = int64(len(text))

		records, _, err := l.FetchCompetitors(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		start := time.Now()
		_, _, err := newTestLoader(srv.URL, "", 50*time.Millisecond).FetchCompetitors(context.Background())
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestNewLoaderNonPositiveTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("domain\nunico.io\n"))
	}))
	defer srv.Close()

	for _, timeout := range []time.Duration{0, -time.Second} {
		l := newTestLoader(srv.URL, "", timeout)
		assert.Equal(t, DefaultTimeout, l.timeout)
		assert.Equal(t, DefaultTimeout, l.client.Timeout)

		records, _, err := l.FetchCompetitors(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 1)
	}
}

func TestFallback(t *testing.T) {
	ds := Fallback()
	assert.Equal(t, "Fev 2026", ds.LastUpdated)
	require.Len(t, ds.Competitors, 6)
	assert.Equal(t, "unico.io", ds.Competitors[0].Domain)
	assert.Equal(t, int64(39300), ds.Competitors[0].OrganicTraffic)
	assert.True(t, ds.Competitors[4].IsOwn)
	assert.Equal(t, sheet.TierLegacy, ds.Competitors[4].Tier)
}
