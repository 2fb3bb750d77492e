package scraper

import (
	"strings"

	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

// Lines starting with one of these markers are treated as headline entries
// of the opening summary section.
var headlineMarkers = []string{"—", "–", "-", "·", "●", "•"}

// StructuredParser splits a raw transcript into the opening headline list
// and the remaining body paragraphs.
type StructuredParser struct{}

var _ ports.TranscriptParser = StructuredParser{}

// NewStructuredParser returns the default transcript parser.
func NewStructuredParser() StructuredParser {
	return StructuredParser{}
}

// Parse is deterministic and performs no I/O.
func (StructuredParser) Parse(raw string) domain.Record {
	var record domain.Record

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if marker := headlineMarker(line); marker != "" {
			headline := strings.TrimSpace(strings.TrimPrefix(line, marker))
			if headline != "" {
				record.Headlines = append(record.Headlines, headline)
			}
			continue
		}

		record.Body = append(record.Body, line)
	}

	return record
}

func headlineMarker(line string) string {
	for _, marker := range headlineMarkers {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}
