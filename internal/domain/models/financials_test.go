package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() FinancialRecord {
	return FinancialRecord{
		Identifier:         "ACME",
		TotalAssets:        1_000,
		CurrentAssets:      400,
		CurrentLiabilities: 150,
		TotalLiabilities:   300,
		RetainedEarnings:   -50,
		EBIT:               120,
		Sales:              900,
		MarketValueEquity:  700,
	}
}

func TestFinancialRecord_ValidateOK(t *testing.T) {
	require.NoError(t, validRecord().Validate())
}

func TestFinancialRecord_ValidateRejections(t *testing.T) {
	cases := map[string]func(r *FinancialRecord){
		"empty identifier":           func(r *FinancialRecord) { r.Identifier = "" },
		"zero total assets":          func(r *FinancialRecord) { r.TotalAssets = 0 },
		"negative total assets":      func(r *FinancialRecord) { r.TotalAssets = -10 },
		"negative current assets":    func(r *FinancialRecord) { r.CurrentAssets = -1 },
		"negative total liabilities": func(r *FinancialRecord) { r.TotalLiabilities = -1 },
		"negative market value":      func(r *FinancialRecord) { r.MarketValueEquity = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			record := validRecord()
			mutate(&record)
			require.ErrorIs(t, record.Validate(), ErrInvalidInput)
		})
	}
}

func TestParseTickerList(t *testing.T) {
	tickers := ParseTickerList(" aapl, MSFT ,, googl ,aapl")
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, tickers)
}

func TestParseTickerList_Empty(t *testing.T) {
	assert.Empty(t, ParseTickerList(""))
	assert.Empty(t, ParseTickerList(" , ,"))
}

func TestIndustryTickers(t *testing.T) {
	tickers, ok := IndustryTickers("Technology")
	require.True(t, ok)
	assert.Contains(t, tickers, "AAPL")

	_, ok = IndustryTickers("Astrology")
	assert.False(t, ok)
}

func TestIndustryNames_Sorted(t *testing.T) {
	names := IndustryNames()
	require.Len(t, names, len(Industries))
	assert.IsIncreasing(t, names)
}
