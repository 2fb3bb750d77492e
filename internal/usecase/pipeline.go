package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

// Category describes one tracked keyword category for the monthly job.
type Category struct {
	Name        string
	KeywordFile string
	ImageBase   string
	Title       string
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.TranscriptSource
	Parser    ports.TranscriptParser
	Store     ports.RecordStore
	Archive   ports.Archive
	Publisher ports.Publisher
	Counter   ports.KeywordCounter
	Renderer  ports.CloudRenderer
	Logger    *slog.Logger

	StartDay   string
	EndDay     string
	Author     string
	ImageDir   string
	Categories []Category
	Workers    int
	Now        func() time.Time
}

// Pipeline implements the full ingest-and-republish workflow: enumerate the
// range, ingest each date over a bounded worker pool, publish the end-day
// digest, and on the first of a month run the keyword analysis for the
// prior one.
type Pipeline struct {
	source    ports.TranscriptSource
	parser    ports.TranscriptParser
	store     ports.RecordStore
	archive   ports.Archive
	publisher ports.Publisher
	counter   ports.KeywordCounter
	renderer  ports.CloudRenderer
	logger    *slog.Logger

	startDay   string
	endDay     string
	author     string
	imageDir   string
	categories []Category
	workers    int
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:     deps.Source,
		parser:     deps.Parser,
		store:      deps.Store,
		archive:    deps.Archive,
		publisher:  deps.Publisher,
		counter:    deps.Counter,
		renderer:   deps.Renderer,
		logger:     deps.Logger,
		startDay:   deps.StartDay,
		endDay:     deps.EndDay,
		author:     deps.Author,
		imageDir:   deps.ImageDir,
		categories: deps.Categories,
		workers:    deps.Workers,
		now:        now,
	}
}

// Run executes one full pipeline pass. Per-date and per-category failures
// are logged and isolated; only an unusable date range aborts the run.
func (p *Pipeline) Run(ctx context.Context) error {
	started := p.now()

	endKey := ResolveEndDay(p.endDay, started)
	dates, err := EnumerateRange(p.startDay, endKey)
	if err != nil {
		return fmt.Errorf("enumerate range: %w", err)
	}

	p.info("ingestion starting", "start", p.startDay, "end", endKey, "dates", len(dates))

	results := p.ingestAll(ctx, dates)

	var succeeded, skipped, failed int
	for _, res := range results {
		switch res.Outcome {
		case domain.OutcomeSuccess:
			succeeded++
		case domain.OutcomeSkipped:
			skipped++
			p.info("date skipped", "date", res.DateKey, "reason", res.Reason)
		case domain.OutcomeFailed:
			failed++
			p.error("date failed", "date", res.DateKey, "error", res.Err)
		}
	}

	p.info("ingestion finished",
		"succeeded", succeeded,
		"skipped", skipped,
		"failed", failed,
		"elapsed", p.now().Sub(started).String(),
	)

	p.publishDigest(ctx, endKey)

	if IsMonthStart(started) {
		p.runMonthlyAnalysis(ctx, started)
	}

	p.info("run finished", "elapsed", p.now().Sub(started).String())
	return nil
}

// ingestAll fans the date keys out over a bounded worker pool and blocks
// until every date has reported an outcome.
func (p *Pipeline) ingestAll(ctx context.Context, dates []string) []domain.IngestionResult {
	if len(dates) == 0 {
		return nil
	}

	workers := p.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(dates) {
		workers = len(dates)
	}

	jobs := make(chan string)
	results := make(chan domain.IngestionResult, len(dates))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dateKey := range jobs {
				results <- p.processDate(ctx, dateKey)
			}
		}()
	}

	for _, dateKey := range dates {
		jobs <- dateKey
	}
	close(jobs)

	wg.Wait()
	close(results)

	collected := make([]domain.IngestionResult, 0, len(dates))
	for res := range results {
		collected = append(collected, res)
	}
	return collected
}

// processDate runs one date's fetch -> parse -> store unit. Only the store
// write is serialized; fetch and parse proceed fully in parallel.
func (p *Pipeline) processDate(ctx context.Context, dateKey string) domain.IngestionResult {
	raw, err := p.source.FetchTranscript(ctx, dateKey)
	if errors.Is(err, domain.ErrTranscriptNotFound) {
		return domain.IngestionResult{
			DateKey: dateKey,
			Outcome: domain.OutcomeSkipped,
			Reason:  "no transcript published",
		}
	}
	if err != nil {
		return domain.IngestionResult{
			DateKey: dateKey,
			Outcome: domain.OutcomeFailed,
			Err:     fmt.Errorf("fetch: %w", err),
		}
	}

	record := p.parser.Parse(raw)
	record.DateKey = dateKey

	if err := p.store.Append(dateKey, record); err != nil {
		return domain.IngestionResult{
			DateKey: dateKey,
			Outcome: domain.OutcomeFailed,
			Err:     fmt.Errorf("store: %w", err),
		}
	}

	// The archive is a best-effort mirror; its failures never fail the date.
	if p.archive != nil {
		if err := p.archive.SaveRecord(ctx, record); err != nil {
			p.error("archive save failed", "date", dateKey, "error", err)
		}
	}

	return domain.IngestionResult{DateKey: dateKey, Outcome: domain.OutcomeSuccess}
}

// publishDigest compiles the end-day fragments into one article and pushes
// it through the publisher. Runs only after the full task set has finished.
func (p *Pipeline) publishDigest(ctx context.Context, endKey string) {
	fragments, err := p.store.Load(endKey)
	if err != nil {
		p.error("digest load failed", "date", endKey, "error", err)
		return
	}
	if len(fragments) == 0 {
		p.info("no records for digest", "date", endKey)
		return
	}

	payload := domain.ArticlePayload{
		Title:   fmt.Sprintf("%s newscast digest", endKey),
		Author:  p.author,
		Content: flattenRecords(fragments),
	}

	outcome := p.publisher.PublishArticle(ctx, payload)
	if outcome.Success {
		p.info("digest published", "title", payload.Title, "draft_id", outcome.DraftID)
	} else {
		p.error("digest publish failed", "title", payload.Title, "message", outcome.Message)
	}
}

// runMonthlyAnalysis renders and publishes one word cloud per category over
// the prior calendar month. Each category fails independently.
func (p *Pipeline) runMonthlyAnalysis(ctx context.Context, now time.Time) {
	first, last := LastMonthRange(now)
	startKey := first.Format(DateKeyLayout)
	endKey := last.Format(DateKeyLayout)
	month := first.Format("200601")

	p.info("monthly analysis starting", "month", month, "categories", len(p.categories))

	for _, cat := range p.categories {
		table, err := p.counter.CountPeriod(cat.KeywordFile, startKey, endKey)
		if err != nil {
			p.error("keyword counting failed", "category", cat.Name, "error", err)
			continue
		}

		imagePath := filepath.Join(p.imageDir, fmt.Sprintf("%s_%s.png", cat.ImageBase, month))
		if err := p.renderer.Render(table, imagePath); err != nil {
			p.error("cloud rendering failed", "category", cat.Name, "error", err)
			continue
		}

		title := fmt.Sprintf("%s %s", month, cat.Title)
		outcome := p.publisher.PublishImage(ctx, imagePath, title)
		if outcome.Success {
			p.info("cloud published", "category", cat.Name, "image", imagePath, "media_id", outcome.MediaID)
		} else {
			p.error("cloud publish failed", "category", cat.Name, "message", outcome.Message)
		}
	}
}

// flattenRecords joins every fragment's headlines and body into one
// newline-separated digest body.
func flattenRecords(records []domain.Record) string {
	var lines []string
	for _, rec := range records {
		lines = append(lines, rec.Headlines...)
		lines = append(lines, rec.Body...)
	}
	return strings.Join(lines, "\n")
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
