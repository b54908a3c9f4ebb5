package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/teamten/finhealth/internal/config"
	"github.com/teamten/finhealth/internal/domain/models"
)

// ErrDataUnavailable indicates the ticker is unknown to the data source or
// its fundamentals are too incomplete to score.
var ErrDataUnavailable = errors.New("financial data unavailable")

// Client exposes the market-data operations used by the application.
type Client interface {
	FetchFundamentals(ctx context.Context, ticker string) (models.FinancialRecord, models.Diagnostics, error)
}

// APIClient is a resty-backed implementation of Client against a JSON
// fundamentals API.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds a market-data API client using the provided configuration values.
func NewClient(cfg config.MarketDataConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &APIClient{
		httpClient: restyClient,
		logger:     logger,
	}
}

// fundamentalsResponse mirrors the latest-quarter fundamentals payload.
type fundamentalsResponse struct {
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	TotalAssets        float64 `json:"total_assets"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	TotalLiabilities   float64 `json:"total_liabilities"`
	RetainedEarnings   float64 `json:"retained_earnings"`
	EBIT               float64 `json:"ebit"`
	TotalRevenue       float64 `json:"total_revenue"`
	MarketCap          float64 `json:"market_cap"`
}

// apiError represents the data source's error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// FetchFundamentals retrieves the most recent quarterly fundamentals for a
// ticker, together with a per-field data-quality report. Raw inputs are
// never zero-filled: a source that cannot supply total assets or revenue
// yields ErrDataUnavailable rather than a record that would silently
// distort the score. Diagnostics are returned with the error in that case
// so the caller can show which fields were missing.
func (c *APIClient) FetchFundamentals(ctx context.Context, ticker string) (models.FinancialRecord, models.Diagnostics, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return models.FinancialRecord{}, nil, fmt.Errorf("%w: empty ticker", ErrDataUnavailable)
	}

	result := new(fundamentalsResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("/v1/fundamentals/%s", symbol))
	if err != nil {
		return models.FinancialRecord{}, nil, fmt.Errorf("%w: fetch %s: %v", ErrDataUnavailable, symbol, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return models.FinancialRecord{}, nil, fmt.Errorf("%w: unknown ticker %s", ErrDataUnavailable, symbol)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return models.FinancialRecord{}, nil, fmt.Errorf("%w: api error for %s: code=%d, message=%s", ErrDataUnavailable, symbol, code, message)
	}

	diagnostics := buildDiagnostics(result)
	if missing := diagnostics.Missing(); len(missing) > 0 {
		c.logger.Debug("fundamentals fields missing or zero",
			zap.String("ticker", symbol),
			zap.Strings("fields", missing))
	}

	// Total assets and revenue are the critical inputs; without them the
	// score is meaningless.
	if result.TotalAssets == 0 || result.TotalRevenue == 0 {
		return models.FinancialRecord{}, diagnostics, fmt.Errorf("%w: incomplete fundamentals for %s", ErrDataUnavailable, symbol)
	}

	identifier := result.Name
	if identifier == "" {
		identifier = symbol
	}

	return models.FinancialRecord{
		Identifier:         identifier,
		TotalAssets:        result.TotalAssets,
		CurrentAssets:      result.CurrentAssets,
		CurrentLiabilities: result.CurrentLiabilities,
		TotalLiabilities:   result.TotalLiabilities,
		RetainedEarnings:   result.RetainedEarnings,
		EBIT:               result.EBIT,
		Sales:              result.TotalRevenue,
		MarketValueEquity:  result.MarketCap,
	}, diagnostics, nil
}

func buildDiagnostics(payload *fundamentalsResponse) models.Diagnostics {
	fields := []struct {
		name  string
		value float64
	}{
		{"total_assets", payload.TotalAssets},
		{"current_assets", payload.CurrentAssets},
		{"current_liabilities", payload.CurrentLiabilities},
		{"total_liabilities", payload.TotalLiabilities},
		{"retained_earnings", payload.RetainedEarnings},
		{"ebit", payload.EBIT},
		{"total_revenue", payload.TotalRevenue},
		{"market_cap", payload.MarketCap},
	}

	diagnostics := make(models.Diagnostics, 0, len(fields))
	for _, field := range fields {
		diagnostics = append(diagnostics, models.FieldDiagnostic{
			Field: field.name,
			Value: field.value,
			Found: field.value != 0,
		})
	}
	return diagnostics
}
