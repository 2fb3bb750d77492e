package ports

import (
	"context"
	"time"

	"NewscastDigest/internal/domain"
)

// TranscriptSource fetches the raw broadcast transcript for one date key.
// A missing transcript is reported via domain.ErrTranscriptNotFound.
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, dateKey string) (string, error)
}

// TranscriptParser turns a raw transcript into a structured record.
type TranscriptParser interface {
	Parse(raw string) domain.Record
}

// RecordStore persists records keyed by date. Append performs a full
// load-merge-write cycle; implementations must serialize concurrent writers.
type RecordStore interface {
	Append(dateKey string, record domain.Record) error
	Load(dateKey string) ([]domain.Record, error)
}

// Archive mirrors ingested records into long-term storage for audit.
type Archive interface {
	SaveRecord(ctx context.Context, record domain.Record) error
}

// Publisher pushes articles and images through the remote platform. Every
// operation reports through a PublishOutcome; no error escapes.
type Publisher interface {
	PublishArticle(ctx context.Context, payload domain.ArticlePayload) domain.PublishOutcome
	PublishImage(ctx context.Context, imagePath, title string) domain.PublishOutcome
	UploadMedia(ctx context.Context, imagePath string) domain.PublishOutcome
}

// KeywordCounter aggregates keyword frequencies over a closed date interval.
type KeywordCounter interface {
	CountPeriod(inputFile, startKey, endKey string) (domain.FrequencyTable, error)
}

// CloudRenderer draws a frequency table as a word-cloud image file.
type CloudRenderer interface {
	Render(table domain.FrequencyTable, outputPath string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
