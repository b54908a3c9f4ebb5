package marketdata

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamten/finhealth/internal/domain/models"
	client "github.com/teamten/finhealth/pkg/clients/marketdata"
)

type fakeClient struct {
	calls   int
	records map[string]models.FinancialRecord
}

func (f *fakeClient) FetchFundamentals(_ context.Context, ticker string) (models.FinancialRecord, models.Diagnostics, error) {
	f.calls++
	record, ok := f.records[ticker]
	if !ok {
		return models.FinancialRecord{}, nil, fmt.Errorf("%w: unknown ticker %s", client.ErrDataUnavailable, ticker)
	}
	diagnostics := models.Diagnostics{
		{Field: "total_assets", Value: record.TotalAssets, Found: true},
		{Field: "ebit", Value: 0, Found: false},
	}
	return record, diagnostics, nil
}

func newFakeClient() *fakeClient {
	return &fakeClient{records: map[string]models.FinancialRecord{
		"AAPL": {Identifier: "Apple Inc.", TotalAssets: 350, Sales: 390, MarketValueEquity: 2800},
	}}
}

func TestCachedFetcher_HitWithinTTL(t *testing.T) {
	fake := newFakeClient()
	fetcher := NewCachedFetcher(fake, time.Hour, nil)

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fetcher.now = func() time.Time { return clock }

	first, firstDiags, err := fetcher.Fetch(context.Background(), "aapl")
	require.NoError(t, err)

	clock = clock.Add(30 * time.Minute)
	second, secondDiags, err := fetcher.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstDiags, secondDiags, "the data-quality report is cached with its record")
	assert.Equal(t, 1, fake.calls, "second fetch within TTL must be served from cache")
}

func TestCachedFetcher_ExpiryTriggersRefetch(t *testing.T) {
	fake := newFakeClient()
	fetcher := NewCachedFetcher(fake, time.Hour, nil)

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fetcher.now = func() time.Time { return clock }

	_, _, err := fetcher.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	_, _, err = fetcher.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 2, fake.calls, "entry at exactly TTL age is stale")
}

func TestCachedFetcher_ErrorsNotCached(t *testing.T) {
	fake := newFakeClient()
	fetcher := NewCachedFetcher(fake, time.Hour, nil)

	_, _, err := fetcher.Fetch(context.Background(), "NOPE")
	require.ErrorIs(t, err, client.ErrDataUnavailable)

	_, _, err = fetcher.Fetch(context.Background(), "NOPE")
	require.ErrorIs(t, err, client.ErrDataUnavailable)

	assert.Equal(t, 2, fake.calls, "failed lookups must reach the client every time")
}

func TestCachedFetcher_DefaultTTL(t *testing.T) {
	fetcher := NewCachedFetcher(newFakeClient(), 0, nil)
	assert.Equal(t, DefaultTTL, fetcher.ttl)
}
