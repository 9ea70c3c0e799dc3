package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/seo-optimizer/competitor-dashboard/sheet"
)

// DefaultPlaceholders mark a URL that was never filled in
var DefaultPlaceholders = []string{"COLE_AQUI"}

var (
	// ErrPlaceholder is returned when an endpoint is not configured
	ErrPlaceholder = errors.New("endpoint not configured")
	// ErrNotCSV is returned when an endpoint serves an HTML page
	ErrNotCSV = errors.New("endpoint did not return csv")
	// ErrTooLarge is returned when an export exceeds the body size cap
	ErrTooLarge = errors.New("export exceeds size limit")
)

// maxBodySize caps how much of an export is read
const maxBodySize = 4 << 20

// DefaultTimeout applies when no positive fetch timeout is configured
const DefaultTimeout = 15 * time.Second

// StatusError reports a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Endpoints locate the published sheet tabs
type Endpoints struct {
	CompetitorsURL string
	ConfigURL      string
	Placeholders   []string
}

// IsPlaceholder reports whether url is empty or still carries a marker
func (e Endpoints) IsPlaceholder(url string) bool {
	if strings.TrimSpace(url) == "" {
		return true
	}
	for _, marker := range e.Placeholders {
		if marker != "" && strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

// Loader fetches the published sheet exports
type Loader struct {
	client    *http.Client
	endpoints Endpoints
	timeout   time.Duration
	maxBody   int64
	logger    *zap.Logger
}

// NewLoader creates a loader whose requests never run longer than timeout.
// A non-positive timeout means DefaultTimeout.
func NewLoader(endpoints Endpoints, timeout time.Duration, logger *zap.Logger) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Loader{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		endpoints: endpoints,
		timeout:   timeout,
		maxBody:   maxBodySize,
		logger:    logger,
	}
}

// Endpoints returns the configured locators
func (l *Loader) Endpoints() Endpoints {
	return l.endpoints
}

// FetchCompetitors downloads and parses the competitors tab. The raw text is
// returned alongside the records so it can be kept as a snapshot.
func (l *Loader) FetchCompetitors(ctx context.Context) ([]sheet.CompetitorRecord, string, error) {
	if l.endpoints.IsPlaceholder(l.endpoints.CompetitorsURL) {
		return nil, "", ErrPlaceholder
	}

	text, err := l.fetch(ctx, l.endpoints.CompetitorsURL)
	if err != nil {
		return nil, "", fmt.Errorf("fetch competitors: %w", err)
	}

	return sheet.DecodeCompetitors(sheet.Parse(text)), text, nil
}

// FetchConfig downloads and parses the config tab
func (l *Loader) FetchConfig(ctx context.Context) ([]sheet.ConfigEntry, error) {
	if l.endpoints.IsPlaceholder(l.endpoints.ConfigURL) {
		return nil, ErrPlaceholder
	}

	text, err := l.fetch(ctx, l.endpoints.ConfigURL)
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}

	return sheet.DecodeConfig(sheet.Parse(text)), nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9")
	req.Header.Set("User-Agent", "SEODashboard/1.0")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	// one byte past the cap tells a full export from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBody+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > l.maxBody {
		return "", fmt.Errorf("%w: more than %d bytes from %s", ErrTooLarge, l.maxBody, url)
	}

	if isHTML(resp.Header.Get("Content-Type"), body) {
		return "", fmt.Errorf("%w: %s", ErrNotCSV, pageTitle(body))
	}

	l.logger.Debug("Fetched sheet export",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return string(body), nil
}

// isHTML detects the sign-in or error page Sheets serves for an
// unpublished tab
func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}

// pageTitle extracts the <title> of an HTML body for error reporting
func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "unreadable html"
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "untitled html page"
	}
	return title
}
