// Package store persists batch runs and caches provider responses so that
// re-running a file does not pay for the same searches twice.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-enricher/internal/model"
)

// Store defines the persistence interface for the enricher.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, input string) (*model.Run, error)
	FinishRun(ctx context.Context, runID string, summary *model.RunSummary, runErr error) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Search cache
	GetCachedSearch(ctx context.Context, key string) ([]byte, error)
	SetCachedSearch(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Scrape cache
	GetCachedScrape(ctx context.Context, key string) ([]byte, error)
	SetCachedScrape(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// DeleteExpired removes expired rows from both caches.
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured backend and runs migrations. It returns a
// nil Store for DriverNone or an empty driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		st  Store
		err error
	)
	switch strings.ToLower(driver) {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		st, err = NewSQLite(dsn)
	case DriverPostgres:
		st, err = NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// SearchKey hashes the parameters that make two searches identical.
func SearchKey(query, location, language string, num int) string {
	return hashKey(query, location, language, strconv.Itoa(num))
}

// ScrapeKey hashes a page URL.
func ScrapeKey(url string) string {
	return hashKey(url)
}

func hashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
