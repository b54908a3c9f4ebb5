package models

// Zone classifies a Z-Score into the standard Altman risk buckets.
type Zone string

const (
	ZoneSafe     Zone = "safe"
	ZoneGray     Zone = "gray"
	ZoneDistress Zone = "distress"
)

// ZScoreResult carries the five component ratios and the final score for a
// single company. It is derived data, valid only for the record it was
// computed from.
type ZScoreResult struct {
	Identifier string  `json:"identifier"`
	X1         float64 `json:"x1"`
	X2         float64 `json:"x2"`
	X3         float64 `json:"x3"`
	X4         float64 `json:"x4"`
	X5         float64 `json:"x5"`
	ZScore     float64 `json:"z_score"`
	Zone       Zone    `json:"zone"`
}

// PeerWarning records why a peer ticker was excluded from a benchmark.
type PeerWarning struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// BenchmarkTable is the outcome of a benchmark run: the subject plus every
// successfully scored peer, ordered best score first (ties broken by
// identifier), with warnings for excluded peers and any tickers skipped by
// the peer cap.
type BenchmarkTable struct {
	Rows     []ZScoreResult `json:"rows"`
	Warnings []PeerWarning  `json:"warnings,omitempty"`
	Skipped  []string       `json:"skipped,omitempty"`
}
