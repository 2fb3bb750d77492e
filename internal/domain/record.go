package domain

import "errors"

// ErrTranscriptNotFound signals that no broadcast transcript exists for a
// date. It is an expected condition, not a pipeline failure.
var ErrTranscriptNotFound = errors.New("transcript not found")

// Record is a core entity holding the structured transcript of one broadcast.
type Record struct {
	DateKey   string   `json:"dateKey"`
	Headlines []string `json:"headlines,omitempty"`
	Body      []string `json:"body,omitempty"`
}

// Outcome classifies how a single date's ingestion ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// IngestionResult is produced once per date key by the ingestion workers.
type IngestionResult struct {
	DateKey string
	Outcome Outcome
	Reason  string
	Err     error
}

// ArticlePayload carries everything needed to stage one article remotely.
// It is built immediately before a publish call and never persisted.
type ArticlePayload struct {
	Title   string
	Author  string
	Digest  string
	Content string
}

// PublishOutcome is the only result shape remote publishing operations
// return; callers inspect Success instead of handling errors.
type PublishOutcome struct {
	Success bool
	Message string
	MediaID string
	DraftID string
}

// FrequencyTable maps keywords to their occurrence counts over an interval.
type FrequencyTable map[string]int
