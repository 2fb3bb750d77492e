package analysis

import (
	"encoding/json"
	"fmt"
	"os"

	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

// KeywordCounter aggregates per-date keyword lists from a category file.
// The file maps date keys to the keywords extracted for that broadcast.
type KeywordCounter struct{}

var _ ports.KeywordCounter = KeywordCounter{}

// NewKeywordCounter returns the file-backed counter.
func NewKeywordCounter() KeywordCounter {
	return KeywordCounter{}
}

// CountPeriod sums keyword occurrences for all date keys inside the closed
// [startKey, endKey] interval. Date keys compare lexicographically.
func (KeywordCounter) CountPeriod(inputFile, startKey, endKey string) (domain.FrequencyTable, error) {
	raw, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("read keyword file: %w", err)
	}

	byDate := map[string][]string{}
	if err := json.Unmarshal(raw, &byDate); err != nil {
		return nil, fmt.Errorf("decode keyword file %s: %w", inputFile, err)
	}

	table := domain.FrequencyTable{}
	for dateKey, words := range byDate {
		if dateKey < startKey || dateKey > endKey {
			continue
		}
		for _, word := range words {
			if word != "" {
				table[word]++
			}
		}
	}

	return table, nil
}
