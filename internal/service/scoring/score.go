package scoring

import (
	"github.com/teamten/finhealth/internal/domain/models"
)

// Altman Z-Score component weights (original 1968 manufacturing model).
const (
	weightX1 = 1.2
	weightX2 = 1.4
	weightX3 = 3.3
	weightX4 = 0.6
	weightX5 = 1.0
)

// Classification thresholds. 2.99 itself falls in the gray zone.
const (
	safeThreshold     = 2.99
	distressThreshold = 1.81
)

// Compute derives the five Altman ratios and the weighted Z-Score for a
// record. It is a pure function: identical records always produce identical
// results. Extreme ratios are returned as-is; interpretation happens in
// Classify.
func Compute(record models.FinancialRecord) (models.ZScoreResult, error) {
	if err := record.Validate(); err != nil {
		return models.ZScoreResult{}, err
	}

	result := models.ZScoreResult{
		Identifier: record.Identifier,
		X1:         (record.CurrentAssets - record.CurrentLiabilities) / record.TotalAssets,
		X2:         record.RetainedEarnings / record.TotalAssets,
		X3:         record.EBIT / record.TotalAssets,
		X5:         record.Sales / record.TotalAssets,
	}

	// A debt-free company has no leverage ratio to measure; zero liabilities
	// must not read as distress (or as an infinite score).
	if record.TotalLiabilities > 0 {
		result.X4 = record.MarketValueEquity / record.TotalLiabilities
	}

	result.ZScore = weightX1*result.X1 +
		weightX2*result.X2 +
		weightX3*result.X3 +
		weightX4*result.X4 +
		weightX5*result.X5
	result.Zone = Classify(result.ZScore)

	return result, nil
}

// Classify buckets a Z-Score into its risk zone. Total over all floats:
// scores above 2.99 are safe, scores below 1.81 signal distress, everything
// between (both bounds included) is gray.
func Classify(z float64) models.Zone {
	switch {
	case z > safeThreshold:
		return models.ZoneSafe
	case z >= distressThreshold:
		return models.ZoneGray
	default:
		return models.ZoneDistress
	}
}
