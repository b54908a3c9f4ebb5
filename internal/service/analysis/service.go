package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teamten/finhealth/internal/domain/models"
	"github.com/teamten/finhealth/internal/service/scoring"
)

// DefaultMaxPeers bounds outbound fetches per benchmark run unless the
// caller asks for a different cap.
const DefaultMaxPeers = 8

// Fetcher resolves a ticker symbol into a financial record plus its
// per-field data-quality report, typically through the cached market-data
// client.
type Fetcher interface {
	Fetch(ctx context.Context, ticker string) (models.FinancialRecord, models.Diagnostics, error)
}

// HistoryStore persists completed runs. Persistence is best-effort and
// never fails a request.
type HistoryStore interface {
	SaveReport(ctx context.Context, report models.AnalysisReport) error
}

// ResultExporter mirrors scored results to an external sink such as a
// shared spreadsheet. Optional.
type ResultExporter interface {
	AppendResult(ctx context.Context, result models.ZScoreResult) error
}

// Service orchestrates scoring, peer benchmarking and history persistence.
// It holds no per-request state; the only shared resource is the fetch
// cache behind the Fetcher.
type Service struct {
	fetcher  Fetcher
	history  HistoryStore
	exporter ResultExporter
	maxPeers int
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new analysis service instance. history and exporter
// may be nil when the deployment runs without them.
func NewService(fetcher Fetcher, history HistoryStore, exporter ResultExporter, maxPeers int, logger *zap.Logger) *Service {
	if maxPeers <= 0 {
		maxPeers = DefaultMaxPeers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:  fetcher,
		history:  history,
		exporter: exporter,
		maxPeers: maxPeers,
		logger:   logger,
		now:      time.Now,
	}
}

// AnalyzeRecord scores a manually entered record.
func (s *Service) AnalyzeRecord(ctx context.Context, record models.FinancialRecord) (models.ZScoreResult, error) {
	result, err := scoring.Compute(record)
	if err != nil {
		return models.ZScoreResult{}, err
	}

	s.persist(ctx, models.AnalysisReport{
		Kind:      models.ReportKindAnalysis,
		Subject:   result,
		CreatedAt: s.now().UTC(),
	})
	s.export(ctx, result)

	return result, nil
}

// AnalyzeTicker fetches fundamentals for a ticker and scores them. The
// fetch's data-quality report is passed through so callers can show which
// fields the source supplied; on an incomplete-fundamentals failure it is
// returned alongside the error.
func (s *Service) AnalyzeTicker(ctx context.Context, ticker string) (models.ZScoreResult, models.Diagnostics, error) {
	record, diagnostics, err := s.fetcher.Fetch(ctx, ticker)
	if err != nil {
		return models.ZScoreResult{}, diagnostics, err
	}

	result, err := s.AnalyzeRecord(ctx, record)
	if err != nil {
		return models.ZScoreResult{}, diagnostics, err
	}
	return result, diagnostics, nil
}

// Benchmark scores the subject against a set of peer tickers. The subject
// must score (its failure aborts the run); peers are capped at maxPeers
// (the service default when maxPeers <= 0, extras reported as skipped) and
// fetched concurrently, with each failure isolated into a warning instead
// of aborting the table.
func (s *Service) Benchmark(ctx context.Context, subject models.FinancialRecord, peerTickers []string, maxPeers int) (models.BenchmarkTable, error) {
	subjectResult, err := scoring.Compute(subject)
	if err != nil {
		return models.BenchmarkTable{}, err
	}

	if maxPeers <= 0 {
		maxPeers = s.maxPeers
	}

	peers := peerTickers
	var skipped []string
	if len(peers) > maxPeers {
		skipped = append(skipped, peers[maxPeers:]...)
		peers = peers[:maxPeers]
		s.logger.Info("peer set capped",
			zap.Int("max_peers", maxPeers),
			zap.Strings("skipped", skipped))
	}

	type peerOutcome struct {
		result  models.ZScoreResult
		warning *models.PeerWarning
	}

	outcomes := make([]peerOutcome, len(peers))
	var wg sync.WaitGroup
	for i, ticker := range peers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()

			// Diagnostics are dropped here; rankings only need the score.
			record, _, err := s.fetcher.Fetch(ctx, ticker)
			if err == nil {
				var result models.ZScoreResult
				if result, err = scoring.Compute(record); err == nil {
					outcomes[i] = peerOutcome{result: result}
					return
				}
			}

			s.logger.Warn("peer excluded from benchmark",
				zap.String("ticker", ticker),
				zap.Error(err))
			outcomes[i] = peerOutcome{warning: &models.PeerWarning{
				Ticker: ticker,
				Reason: err.Error(),
			}}
		}(i, ticker)
	}
	wg.Wait()

	table := models.BenchmarkTable{
		Rows:    []models.ZScoreResult{subjectResult},
		Skipped: skipped,
	}
	for _, outcome := range outcomes {
		if outcome.warning != nil {
			table.Warnings = append(table.Warnings, *outcome.warning)
			continue
		}
		table.Rows = append(table.Rows, outcome.result)
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		if table.Rows[i].ZScore != table.Rows[j].ZScore {
			return table.Rows[i].ZScore > table.Rows[j].ZScore
		}
		return table.Rows[i].Identifier < table.Rows[j].Identifier
	})

	s.persist(ctx, models.AnalysisReport{
		Kind:      models.ReportKindBenchmark,
		Subject:   subjectResult,
		Rows:      table.Rows,
		Warnings:  table.Warnings,
		Skipped:   table.Skipped,
		CreatedAt: s.now().UTC(),
	})
	s.export(ctx, subjectResult)

	return table, nil
}

func (s *Service) persist(ctx context.Context, report models.AnalysisReport) {
	if s.history == nil {
		return
	}
	if err := s.history.SaveReport(ctx, report); err != nil {
		s.logger.Error("failed to persist analysis report",
			zap.String("identifier", report.Subject.Identifier),
			zap.Error(err))
	}
}

func (s *Service) export(ctx context.Context, result models.ZScoreResult) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.AppendResult(ctx, result); err != nil {
		s.logger.Error("failed to export scored result",
			zap.String("identifier", result.Identifier),
			zap.Error(err))
	}
}
