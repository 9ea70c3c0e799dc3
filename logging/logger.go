package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Environment variable name for controlling statistics visibility
const ENV_DEV_MODE = "DEV_MODE"

// Statistics represents the collected request statistics
type Statistics struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"`  // IP -> Last Visit Time
	DashboardViews  int                  `json:"dashboardViews"`  // Reads of the dashboard model
	RefreshRequests int                  `json:"refreshRequests"` // Manual refreshes through the API
	ErrorCount      int                  `json:"errorCount"`      // Responses with status >= 400
	PopularPaths    map[string]int       `json:"popularPaths"`    // Route -> Count
	AverageLoadTime float64              `json:"averageLoadTime"` // Average handler time in milliseconds
	TotalLoadTime   float64              `json:"-"`
	RequestCount    int                  `json:"requestCount"`
	LastPersisted   time.Time            `json:"lastPersisted"`
	filePath        string
	mutex           sync.RWMutex
}

// Initialize creates the statistics and loads any earlier copy from path
func Initialize(path string) (*Statistics, error) {
	s := &Statistics{
		UniqueVisitors: make(map[string]time.Time),
		PopularPaths:   make(map[string]int),
		LastPersisted:  time.Now(),
		filePath:       path,
	}

	if err := s.Load(); err != nil {
		return s, fmt.Errorf("could not load existing statistics: %w", err)
	}
	return s, nil
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// cleanPath drops the query string and anything that is not an API route
func cleanPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/api/") {
		return ""
	}
	return strings.TrimSuffix(path, "/")
}

// TrackRequest records a served API request
func (s *Statistics) TrackRequest(path string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cleaned := cleanPath(path)
	if cleaned == "" {
		return
	}
	s.PopularPaths[cleaned]++

	switch cleaned {
	case "/api/dashboard":
		s.DashboardViews++
	case "/api/refresh":
		s.RefreshRequests++
	}

	if hasError {
		s.ErrorCount++
	}

	s.TotalLoadTime += loadTime
	s.RequestCount++
	s.AverageLoadTime = s.TotalLoadTime / float64(s.RequestCount)
}

// TotalRequests returns the number of tracked API requests
func (s *Statistics) TotalRequests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.RequestCount
}

// uniqueVisitorsCount returns the number of unique visitors in the last 24
// hours. Callers hold the lock.
func (s *Statistics) uniqueVisitorsCount() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// popularPaths returns the n most requested routes. Callers hold the lock.
func (s *Statistics) popularPaths(n int) map[string]int {
	paths := make([]string, 0, len(s.PopularPaths))
	for p := range s.PopularPaths {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if s.PopularPaths[paths[i]] == s.PopularPaths[paths[j]] {
			return paths[i] < paths[j]
		}
		return s.PopularPaths[paths[i]] > s.PopularPaths[paths[j]]
	})

	result := make(map[string]int, n)
	for i := 0; i < len(paths) && i < n; i++ {
		result[paths[i]] = s.PopularPaths[paths[i]]
	}
	return result
}

// errorRate returns the error rate as a percentage. Callers hold the lock.
func (s *Statistics) errorRate() float64 {
	if s.RequestCount == 0 {
		return 0
	}
	return (float64(s.ErrorCount) / float64(s.RequestCount)) * 100
}

// Save persists the statistics to disk
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.filePath == "" {
		return nil
	}
	s.LastPersisted = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("could not replace statistics file: %w", err)
	}

	return nil
}

// Load reads the statistics from disk
func (s *Statistics) Load() error {
	if s.filePath == "" {
		return nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not an error if file doesn't exist yet
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.PopularPaths == nil {
		s.PopularPaths = make(map[string]int)
	}
	// TotalLoadTime is not persisted
	s.TotalLoadTime = s.AverageLoadTime * float64(s.RequestCount)

	return nil
}

// GetStatistics returns a summary of the current statistics. Route counts
// are only included in development mode.
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorsCount(),
		"totalRequests":     s.RequestCount,
		"dashboardViews":    s.DashboardViews,
		"refreshRequests":   s.RefreshRequests,
		"errorRate":         s.errorRate(),
		"averageLoadTime":   s.AverageLoadTime,
	}

	if os.Getenv(ENV_DEV_MODE) == "true" {
		result["popularPaths"] = s.popularPaths(5)
	}

	return result
}
