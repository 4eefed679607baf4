package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/location"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/metrics"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// DefaultCoordinatesURL is the public US state capitals table the map joins against.
const DefaultCoordinatesURL = "https://raw.githubusercontent.com/jasperdebie/VisInfo/master/us-state-capitals.csv"

type CoordinateStoreConfig struct {
	Logger       *slog.Logger
	Source       string // http(s) URL or local file path
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	MaxAttempts  int
	BaseBackoff  time.Duration
	HTTPClient   *http.Client
	Clock        clockwork.Clock
}

func (cfg *CoordinateStoreConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Source == "" {
		return errors.New("coordinate source is required")
	}
	if cfg.CacheTTL <= 0 {
		return errors.New("cache ttl must be positive")
	}
	if cfg.MaxAttempts < 1 {
		return errors.New("max attempts must be at least 1")
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

// CoordinateStore caches the city coordinate table. Concurrent misses share one
// fetch; a failed refresh keeps serving the previous table.
type CoordinateStore struct {
	log   *slog.Logger
	cfg   CoordinateStoreConfig
	group singleflight.Group

	mu        sync.RWMutex
	table     map[string]location.CityCoordinate
	fetchedAt time.Time
}

func NewCoordinateStore(cfg CoordinateStoreConfig) (*CoordinateStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CoordinateStore{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// StatusError is a non-200 response from the coordinate source.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

func (e *StatusError) StatusCode() int {
	return e.Code
}

// Coordinates returns a copy of the cached table, loading it when absent or expired.
func (s *CoordinateStore) Coordinates(ctx context.Context) (map[string]location.CityCoordinate, error) {
	s.mu.RLock()
	table, fetchedAt := s.table, s.fetchedAt
	s.mu.RUnlock()

	if table != nil && s.cfg.Clock.Since(fetchedAt) < s.cfg.CacheTTL {
		metrics.CoordinateFetchesTotal.WithLabelValues("hit").Inc()
		return maps.Clone(table), nil
	}

	fresh, err := s.load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if table != nil {
			s.log.Warn("coordinate refresh failed, serving stale table", "error", err, "age", s.cfg.Clock.Since(fetchedAt))
			metrics.CoordinateFetchesTotal.WithLabelValues("stale").Inc()
			return maps.Clone(table), nil
		}
		metrics.CoordinateFetchesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", location.ErrCoordinatesUnavailable, err)
	}

	metrics.CoordinateFetchesTotal.WithLabelValues("fetched").Inc()
	return maps.Clone(fresh), nil
}

// Warm loads the table ahead of the first request.
func (s *CoordinateStore) Warm(ctx context.Context) error {
	_, err := s.Coordinates(ctx)
	return err
}

// Refresh reloads the table regardless of its age. On failure the previous
// table, if any, stays in place.
func (s *CoordinateStore) Refresh(ctx context.Context) error {
	if _, err := s.load(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		metrics.CoordinateFetchesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %v", location.ErrCoordinatesUnavailable, err)
	}
	metrics.CoordinateFetchesTotal.WithLabelValues("fetched").Inc()
	return nil
}

// load joins the in-flight refresh or starts one. The refresh runs detached
// from the caller that started it; each caller stops waiting when its own ctx ends.
func (s *CoordinateStore) load(ctx context.Context) (map[string]location.CityCoordinate, error) {
	ch := s.group.DoChan("coordinates", func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]location.CityCoordinate), nil
	}
}

func (s *CoordinateStore) refresh(ctx context.Context) (map[string]location.CityCoordinate, error) {
	var table map[string]location.CityCoordinate
	attempt := 0

	op := func() error {
		attempt++
		t, err := s.fetch(ctx)
		if err != nil {
			s.log.Debug("coordinate fetch attempt failed", "attempt", attempt, "error", err)
			return err
		}
		table = t
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.cfg.BaseBackoff
	eb.MaxInterval = 10 * s.cfg.BaseBackoff
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.cfg.MaxAttempts-1)), ctx)

	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.table = table
	s.fetchedAt = s.cfg.Clock.Now()
	s.mu.Unlock()

	s.log.Info("city coordinates loaded", "source", s.cfg.Source, "cities", len(table), "attempts", attempt)
	return table, nil
}

func (s *CoordinateStore) fetch(ctx context.Context) (map[string]location.CityCoordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	rc, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := ReadCoordinates(rc)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return table, nil
}

func (s *CoordinateStore) open(ctx context.Context) (io.ReadCloser, error) {
	src := s.cfg.Source
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to open coordinate file: %w", err))
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		statusErr := &StatusError{URL: src, Code: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}
	return resp.Body, nil
}

// ReadCoordinates parses a name,latitude,longitude table. Extra columns are
// ignored and the first row for a name wins.
func ReadCoordinates(r io.Reader) (map[string]location.CityCoordinate, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read coordinate header: %w", err)
	}

	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	idx, missing := columnIndex(lower, []string{"latitude", "longitude"})
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", location.ErrMissingColumn, strings.Join(missing, ", "))
	}
	nameCol, ok := idx["name"]
	if !ok {
		if nameCol, ok = idx["city"]; !ok {
			return nil, fmt.Errorf("%w: name", location.ErrMissingColumn)
		}
	}

	table := make(map[string]location.CityCoordinate)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		if _, dup := table[name]; dup {
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(row[idx["latitude"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: latitude %q", line, location.ErrInvalidCoordinate, row[idx["latitude"]])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[idx["longitude"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: longitude %q", line, location.ErrInvalidCoordinate, row[idx["longitude"]])
		}

		table[name] = location.CityCoordinate{City: name, Latitude: lat, Longitude: lon}
	}
	return table, nil
}
