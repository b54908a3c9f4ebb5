package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teamten/finhealth/internal/domain/models"
	client "github.com/teamten/finhealth/pkg/clients/marketdata"
)

// DefaultTTL is how long a fetched record stays valid when no TTL is configured.
const DefaultTTL = time.Hour

// CachedFetcher decorates the market-data client with a per-ticker TTL
// cache so repeated analyses and benchmark runs do not hammer the remote
// source. Entries are shared across requests; refresh is last-write-wins
// and failed fetches are never cached.
type CachedFetcher struct {
	client client.Client
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	record      models.FinancialRecord
	diagnostics models.Diagnostics
	fetchedAt   time.Time
}

// NewCachedFetcher wires a cache in front of the provided client.
func NewCachedFetcher(apiClient client.Client, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{
		client:  apiClient,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch returns the cached record and its data-quality report for a ticker
// when the entry is still fresh and falls through to the remote client
// otherwise.
func (f *CachedFetcher) Fetch(ctx context.Context, ticker string) (models.FinancialRecord, models.Diagnostics, error) {
	key := strings.ToUpper(strings.TrimSpace(ticker))

	if entry, ok := f.lookup(key); ok {
		f.logger.Debug("fundamentals cache hit", zap.String("ticker", key))
		return entry.record, entry.diagnostics, nil
	}

	record, diagnostics, err := f.client.FetchFundamentals(ctx, key)
	if err != nil {
		return models.FinancialRecord{}, diagnostics, err
	}

	f.mu.Lock()
	f.entries[key] = cacheEntry{record: record, diagnostics: diagnostics, fetchedAt: f.now()}
	f.mu.Unlock()

	return record, diagnostics, nil
}

func (f *CachedFetcher) lookup(key string) (cacheEntry, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entry, ok := f.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	if f.now().Sub(entry.fetchedAt) >= f.ttl {
		return cacheEntry{}, false
	}
	return entry, true
}
