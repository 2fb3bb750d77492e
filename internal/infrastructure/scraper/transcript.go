package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

// TranscriptScanner downloads the daily broadcast page and extracts its
// transcript text. Each date has its own page resolved from a URL template.
type TranscriptScanner struct {
	dayURL          string
	contentSelector string
	client          *http.Client
	logger          *slog.Logger
}

var _ ports.TranscriptSource = (*TranscriptScanner)(nil)

// NewTranscriptScanner wires an HTTP client; dayURL must contain a single
// %s verb that receives the date key.
func NewTranscriptScanner(dayURL, contentSelector string, client *http.Client, logger *slog.Logger) *TranscriptScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TranscriptScanner{
		dayURL:          dayURL,
		contentSelector: contentSelector,
		client:          client,
		logger:          logger,
	}
}

// FetchTranscript returns the raw transcript text for one date key. A
// missing page or an empty content area maps to domain.ErrTranscriptNotFound.
func (s *TranscriptScanner) FetchTranscript(ctx context.Context, dateKey string) (string, error) {
	pageURL := fmt.Sprintf(s.dayURL, dateKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewscastDigest/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request transcript page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("date %s: %w", dateKey, domain.ErrTranscriptNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse transcript page: %w", err)
	}

	text := extractText(doc, s.contentSelector)
	if text == "" {
		return "", fmt.Errorf("date %s: %w", dateKey, domain.ErrTranscriptNotFound)
	}

	s.debug("transcript fetched", "date", dateKey, "chars", len(text))
	return text, nil
}

func extractText(doc *goquery.Document, selector string) string {
	var lines []string
	doc.Find(selector).Find("p").Each(func(i int, sel *goquery.Selection) {
		if line := strings.TrimSpace(sel.Text()); line != "" {
			lines = append(lines, line)
		}
	})

	// Some pages carry the transcript as bare text inside the container.
	if len(lines) == 0 {
		if text := strings.TrimSpace(doc.Find(selector).Text()); text != "" {
			lines = append(lines, text)
		}
	}

	return strings.Join(lines, "\n")
}

func (s *TranscriptScanner) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
