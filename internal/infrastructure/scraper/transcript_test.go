package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewscastDigest/internal/domain"
)

const dayPage = `
<html><body>
<div class="content_area">
  <p>Tonight's program covers the following:</p>
  <p>— National economy posts steady growth</p>
  <p>— Flood relief efforts continue in the south</p>
  <p>The economy grew steadily through the quarter.</p>
</div>
</body></html>`

func TestFetchTranscriptExtractsParagraphs(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/day/20250102.shtml" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, dayPage)
	}))
	defer server.Close()

	sc := NewTranscriptScanner(server.URL+"/day/%s.shtml", "div.content_area", server.Client(), nil)

	raw, err := sc.FetchTranscript(context.Background(), "20250102")
	if err != nil {
		t.Fatalf("FetchTranscript error: %v", err)
	}

	lines := strings.Split(raw, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), raw)
	}
	if lines[1] != "— National economy posts steady growth" {
		t.Fatalf("unexpected line: %q", lines[1])
	}
}

func TestFetchTranscriptMissingPageIsNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	sc := NewTranscriptScanner(server.URL+"/day/%s.shtml", "div.content_area", server.Client(), nil)

	_, err := sc.FetchTranscript(context.Background(), "20250103")
	if !errors.Is(err, domain.ErrTranscriptNotFound) {
		t.Fatalf("expected ErrTranscriptNotFound, got %v", err)
	}
}

func TestFetchTranscriptEmptyContentIsNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="other">unrelated</div></body></html>`)
	}))
	defer server.Close()

	sc := NewTranscriptScanner(server.URL+"/day/%s.shtml", "div.content_area", server.Client(), nil)

	_, err := sc.FetchTranscript(context.Background(), "20250104")
	if !errors.Is(err, domain.ErrTranscriptNotFound) {
		t.Fatalf("expected ErrTranscriptNotFound, got %v", err)
	}
}

func TestParseSplitsHeadlinesAndBody(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"Tonight's program covers the following:",
		"— First headline",
		"· Second headline",
		"",
		"First body paragraph.",
		"Second body paragraph.",
	}, "\n")

	record := NewStructuredParser().Parse(raw)

	if len(record.Headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %v", record.Headlines)
	}
	if record.Headlines[0] != "First headline" || record.Headlines[1] != "Second headline" {
		t.Fatalf("unexpected headlines: %v", record.Headlines)
	}
	if len(record.Body) != 3 {
		t.Fatalf("expected 3 body lines, got %v", record.Body)
	}
}

func TestParseEmptyTranscript(t *testing.T) {
	t.Parallel()

	record := NewStructuredParser().Parse("  \n\n  ")
	if len(record.Headlines) != 0 || len(record.Body) != 0 {
		t.Fatalf("expected empty record, got %+v", record)
	}
}
