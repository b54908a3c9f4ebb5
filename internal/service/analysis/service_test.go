package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamten/finhealth/internal/domain/models"
	marketdata "github.com/teamten/finhealth/pkg/clients/marketdata"
)

// recordWithScore builds a record whose Z-Score equals the given value:
// with total assets of 1 and every other ratio zeroed, Z = 1.0 * sales.
func recordWithScore(identifier string, z float64) models.FinancialRecord {
	return models.FinancialRecord{
		Identifier:  identifier,
		TotalAssets: 1,
		Sales:       z,
	}
}

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	records map[string]models.FinancialRecord
}

func (f *fakeFetcher) Fetch(_ context.Context, ticker string) (models.FinancialRecord, models.Diagnostics, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	record, ok := f.records[ticker]
	if !ok {
		return models.FinancialRecord{}, nil, fmt.Errorf("%w: unknown ticker %s", marketdata.ErrDataUnavailable, ticker)
	}
	diagnostics := models.Diagnostics{
		{Field: "total_assets", Value: record.TotalAssets, Found: true},
	}
	return record, diagnostics, nil
}

type capturingHistory struct {
	mu      sync.Mutex
	reports []models.AnalysisReport
	err     error
}

func (h *capturingHistory) SaveReport(_ context.Context, report models.AnalysisReport) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = append(h.reports, report)
	return h.err
}

func TestAnalyzeRecord(t *testing.T) {
	history := &capturingHistory{}
	svc := NewService(nil, history, nil, 0, nil)

	result, err := svc.AnalyzeRecord(context.Background(), recordWithScore("ACME", 3.5))
	require.NoError(t, err)

	assert.Equal(t, "ACME", result.Identifier)
	assert.InDelta(t, 3.5, result.ZScore, 1e-12)
	assert.Equal(t, models.ZoneSafe, result.Zone)

	require.Len(t, history.reports, 1)
	assert.Equal(t, models.ReportKindAnalysis, history.reports[0].Kind)
}

func TestAnalyzeRecord_InvalidInput(t *testing.T) {
	svc := NewService(nil, nil, nil, 0, nil)

	_, err := svc.AnalyzeRecord(context.Background(), models.FinancialRecord{Identifier: "ACME"})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAnalyzeTicker(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		"AAPL": recordWithScore("Apple Inc.", 4.2),
	}}
	svc := NewService(fetcher, nil, nil, 0, nil)

	result, diagnostics, err := svc.AnalyzeTicker(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", result.Identifier)
	assert.Equal(t, models.ZoneSafe, result.Zone)

	// The fetch's data-quality report reaches the caller.
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "total_assets", diagnostics[0].Field)
	assert.True(t, diagnostics[0].Found)

	_, _, err = svc.AnalyzeTicker(context.Background(), "NOPE")
	require.ErrorIs(t, err, marketdata.ErrDataUnavailable)
}

func TestBenchmark_OrderedByScore(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		"P1": recordWithScore("Peer One", 1.5),
		"P2": recordWithScore("Peer Two", 2.5),
	}}
	svc := NewService(fetcher, nil, nil, 0, nil)

	table, err := svc.Benchmark(context.Background(), recordWithScore("Subject", 3.5), []string{"P1", "P2"}, 0)
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Subject", table.Rows[0].Identifier)
	assert.Equal(t, "Peer Two", table.Rows[1].Identifier)
	assert.Equal(t, "Peer One", table.Rows[2].Identifier)
	assert.Empty(t, table.Warnings)
	assert.Empty(t, table.Skipped)
}

func TestBenchmark_TieBrokenByIdentifier(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		"B": recordWithScore("Bravo", 2.0),
		"A": recordWithScore("Alpha", 2.0),
	}}
	svc := NewService(fetcher, nil, nil, 0, nil)

	table, err := svc.Benchmark(context.Background(), recordWithScore("Zulu", 2.0), []string{"B", "A"}, 0)
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Alpha", table.Rows[0].Identifier)
	assert.Equal(t, "Bravo", table.Rows[1].Identifier)
	assert.Equal(t, "Zulu", table.Rows[2].Identifier)
}

func TestBenchmark_PartialFailure(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		"GOOD": recordWithScore("Good Co", 2.2),
	}}
	svc := NewService(fetcher, nil, nil, 0, nil)

	table, err := svc.Benchmark(context.Background(), recordWithScore("Subject", 3.0), []string{"GOOD", "BAD1", "BAD2"}, 0)
	require.NoError(t, err, "peer failures must never abort the benchmark")

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Subject", table.Rows[0].Identifier)
	assert.Equal(t, "Good Co", table.Rows[1].Identifier)

	require.Len(t, table.Warnings, 2)
	assert.Equal(t, "BAD1", table.Warnings[0].Ticker)
	assert.Equal(t, "BAD2", table.Warnings[1].Ticker)
}

func TestBenchmark_UnscorablePeerExcluded(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		// Fetches fine but cannot be scored.
		"BROKE": {Identifier: "Broke Co", TotalAssets: 0},
	}}
	svc := NewService(fetcher, nil, nil, 0, nil)

	table, err := svc.Benchmark(context.Background(), recordWithScore("Subject", 3.0), []string{"BROKE"}, 0)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	require.Len(t, table.Warnings, 1)
	assert.Equal(t, "BROKE", table.Warnings[0].Ticker)
}

func TestBenchmark_PeerCap(t *testing.T) {
	records := make(map[string]models.FinancialRecord)
	var tickers []string
	for i := 0; i < 12; i++ {
		ticker := fmt.Sprintf("T%02d", i)
		tickers = append(tickers, ticker)
		records[ticker] = recordWithScore(fmt.Sprintf("Company %02d", i), float64(i))
	}
	fetcher := &fakeFetcher{records: records}
	svc := NewService(fetcher, nil, nil, 0, nil)

	table, err := svc.Benchmark(context.Background(), recordWithScore("Subject", 3.0), tickers, 8)
	require.NoError(t, err)

	assert.Equal(t, 8, fetcher.calls, "only the first eight peers may be fetched")
	assert.Len(t, table.Rows, 9)
	assert.Equal(t, []string{"T08", "T09", "T10", "T11"}, table.Skipped)
}

func TestBenchmark_SubjectFailureAborts(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		"P1": recordWithScore("Peer One", 2.0),
	}}
	svc := NewService(fetcher, nil, nil, 0, nil)

	_, err := svc.Benchmark(context.Background(), models.FinancialRecord{}, []string{"P1"}, 0)
	require.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Zero(t, fetcher.calls, "no peer fetch when the subject cannot score")
}

func TestBenchmark_PersistsReport(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		"P1": recordWithScore("Peer One", 2.0),
	}}
	history := &capturingHistory{}
	svc := NewService(fetcher, history, nil, 0, nil)

	_, err := svc.Benchmark(context.Background(), recordWithScore("Subject", 3.0), []string{"P1"}, 0)
	require.NoError(t, err)

	require.Len(t, history.reports, 1)
	report := history.reports[0]
	assert.Equal(t, models.ReportKindBenchmark, report.Kind)
	assert.Equal(t, "Subject", report.Subject.Identifier)
	assert.Len(t, report.Rows, 2)
	assert.False(t, report.CreatedAt.IsZero())
}

func TestBenchmark_HistoryFailureIsNonFatal(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]models.FinancialRecord{
		"P1": recordWithScore("Peer One", 2.0),
	}}
	history := &capturingHistory{err: fmt.Errorf("mongo down")}
	svc := NewService(fetcher, history, nil, 0, nil)

	table, err := svc.Benchmark(context.Background(), recordWithScore("Subject", 3.0), []string{"P1"}, 0)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}
