package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamten/finhealth/internal/domain/models"
	marketdata "github.com/teamten/finhealth/pkg/clients/marketdata"
)

// AnalysisService describes the operations the HTTP layer can perform.
type AnalysisService interface {
	AnalyzeRecord(ctx context.Context, record models.FinancialRecord) (models.ZScoreResult, error)
	AnalyzeTicker(ctx context.Context, ticker string) (models.ZScoreResult, models.Diagnostics, error)
	Benchmark(ctx context.Context, subject models.FinancialRecord, peerTickers []string, maxPeers int) (models.BenchmarkTable, error)
}

// HistoryReader exposes the persisted run history to the HTTP layer.
type HistoryReader interface {
	RecentReports(ctx context.Context, limit int64) ([]models.AnalysisReport, error)
}

// AnalysisHandler handles scoring and benchmarking HTTP requests.
type AnalysisHandler struct {
	svc     AnalysisService
	history HistoryReader
	logger  *zap.Logger
}

// NewAnalysisHandler constructs the HTTP handler adapter. history may be nil
// when the deployment runs without a database.
func NewAnalysisHandler(svc AnalysisService, history HistoryReader, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{svc: svc, history: history, logger: logger}
}

// analyzeRequest carries either a ticker (fetch path) or a full company
// record (manual entry path).
type analyzeRequest struct {
	Ticker  string                  `json:"ticker"`
	Company *models.FinancialRecord `json:"company"`
}

// analyzeResponse is the scored result plus, on the fetch path, the data
// quality report for the fetched fundamentals.
type analyzeResponse struct {
	models.ZScoreResult
	Diagnostics models.Diagnostics `json:"diagnostics,omitempty"`
}

// Analyze scores a single company from manual figures or a ticker lookup.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		result      models.ZScoreResult
		diagnostics models.Diagnostics
		err         error
	)
	switch {
	case req.Company != nil:
		result, err = h.svc.AnalyzeRecord(c.Request.Context(), *req.Company)
	case strings.TrimSpace(req.Ticker) != "":
		result, diagnostics, err = h.svc.AnalyzeTicker(c.Request.Context(), req.Ticker)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either ticker or company must be provided"})
		return
	}

	if err != nil {
		h.logger.Warn("analysis failed", zap.Error(err))
		body := gin.H{"error": err.Error()}
		if len(diagnostics) > 0 {
			body["diagnostics"] = diagnostics
		}
		c.JSON(statusFromError(err), body)
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{ZScoreResult: result, Diagnostics: diagnostics})
}

// benchmarkRequest describes a benchmark run: the subject's figures plus
// competitor tickers, as a list or comma-separated string.
type benchmarkRequest struct {
	Company     models.FinancialRecord `json:"company"`
	PeerTickers []string               `json:"peer_tickers"`
	Peers       string                 `json:"peers"`
	MaxPeers    int                    `json:"max_peers"`
}

// Benchmark scores the subject against its peer set.
func (h *AnalysisHandler) Benchmark(c *gin.Context) {
	var req benchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid benchmark payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	peers := models.ParseTickerList(strings.Join(req.PeerTickers, ","))
	if len(peers) == 0 {
		peers = models.ParseTickerList(req.Peers)
	}
	if len(peers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one peer ticker must be provided"})
		return
	}

	table, err := h.svc.Benchmark(c.Request.Context(), req.Company, peers, req.MaxPeers)
	if err != nil {
		h.logger.Warn("benchmark failed", zap.Error(err))
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, table)
}

// Industries lists the built-in industry peer sets.
func (h *AnalysisHandler) Industries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"names":      models.IndustryNames(),
		"industries": models.Industries,
	})
}

// History returns the most recent persisted runs.
func (h *AnalysisHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is not enabled"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	reports, err := h.history.RecentReports(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed loading history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, marketdata.ErrDataUnavailable):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
