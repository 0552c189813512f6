package model

import "time"

// Confidence tags how much of the pipeline contributed to a result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // both layers succeeded
	ConfidenceMedium Confidence = "medium" // extraction succeeded but people came back empty
	ConfidenceLow    Confidence = "low"    // deterministic layer only
)

// ExtractionStatus records whether the LLM layer answered cleanly.
type ExtractionStatus string

const (
	ExtractionComplete ExtractionStatus = "complete"
	ExtractionRepaired ExtractionStatus = "repaired" // retry or sentinel fallback was needed
)

// SchemaVersion is stamped into cache metadata so stale records can be
// rejected on load after a schema change.
const SchemaVersion = "2.0.0"

// SnapshotPage is one raw HTML page from an offline website snapshot.
type SnapshotPage struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ProcessResult is what the orchestrator returns to its callers.
type ProcessResult struct {
	Profile    CompanyProfile   `json:"profile"`
	Graph      Graph            `json:"graph"`
	EngineUsed string           `json:"llm_engine_used"`
	Confidence Confidence       `json:"confidence"`
	Status     ExtractionStatus `json:"status"`
	// LLMFailed is set when JSON validation hard-aborted on every attempt.
	// Such results must not be cached.
	LLMFailed bool `json:"-"`

	DeterministicMillis int64 `json:"deterministic_ms"`
	LLMMillis           int64 `json:"llm_ms"`
	TotalMillis         int64 `json:"total_ms"`
}

// CacheMetadata describes how a cached record was produced.
type CacheMetadata struct {
	EngineUsed    string           `json:"engine_used"`
	ModelName     string           `json:"model_name"`
	Timestamp     time.Time        `json:"timestamp"`
	Offline       bool             `json:"offline"`
	SchemaVersion string           `json:"schema_version"`
	Confidence    Confidence       `json:"confidence"`
	Status        ExtractionStatus `json:"status"`
}

// CacheRecord is the unit stored per domain: the validated profile, its
// derived graph, and provenance metadata.
type CacheRecord struct {
	Domain   string         `json:"domain"`
	Profile  CompanyProfile `json:"profile"`
	Graph    Graph          `json:"graph"`
	Metadata CacheMetadata  `json:"metadata"`
}
