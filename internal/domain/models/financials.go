package models

import "errors"

// ErrInvalidInput indicates a financial record that cannot be scored.
var ErrInvalidInput = errors.New("invalid financial input")

// FinancialRecord is a snapshot of one company's balance-sheet and income
// figures for a single analysis run. Records are built fresh per request
// (manual entry or remote fetch) and never mutated afterwards.
type FinancialRecord struct {
	Identifier         string  `json:"identifier"`
	TotalAssets        float64 `json:"total_assets"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	TotalLiabilities   float64 `json:"total_liabilities"`
	RetainedEarnings   float64 `json:"retained_earnings"`
	EBIT               float64 `json:"ebit"`
	Sales              float64 `json:"sales"`
	MarketValueEquity  float64 `json:"market_value_equity"`
}

// Validate ensures the record can be scored. Total assets must be strictly
// positive (every ratio divides by it); retained earnings, EBIT and sales
// may legitimately be negative.
func (r FinancialRecord) Validate() error {
	if r.Identifier == "" {
		return errors.Join(ErrInvalidInput, errors.New("identifier must not be empty"))
	}
	if r.TotalAssets <= 0 {
		return errors.Join(ErrInvalidInput, errors.New("total assets must be positive"))
	}
	if r.CurrentAssets < 0 || r.CurrentLiabilities < 0 || r.TotalLiabilities < 0 {
		return errors.Join(ErrInvalidInput, errors.New("asset and liability figures must not be negative"))
	}
	if r.MarketValueEquity < 0 {
		return errors.Join(ErrInvalidInput, errors.New("market value of equity must not be negative"))
	}
	return nil
}
