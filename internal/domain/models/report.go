package models

import "time"

// Analysis run kinds stored in the history collection.
const (
	ReportKindAnalysis  = "analysis"
	ReportKindBenchmark = "benchmark"
)

// AnalysisReport is the persisted trace of a completed analysis or benchmark
// run, kept so past scores can be reviewed without re-fetching fundamentals.
type AnalysisReport struct {
	Kind      string         `bson:"kind" json:"kind"`
	Subject   ZScoreResult   `bson:"subject" json:"subject"`
	Rows      []ZScoreResult `bson:"rows,omitempty" json:"rows,omitempty"`
	Warnings  []PeerWarning  `bson:"warnings,omitempty" json:"warnings,omitempty"`
	Skipped   []string       `bson:"skipped,omitempty" json:"skipped,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
