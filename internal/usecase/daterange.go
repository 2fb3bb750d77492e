package usecase

import (
	"fmt"
	"time"
)

// DateKeyLayout is the textual form every date key uses.
const DateKeyLayout = "20060102"

// CurrentEndDay is the symbolic end-of-range value resolved at run time.
const CurrentEndDay = "current"

// ResolveEndDay turns the symbolic "current" end day into a concrete date
// key. The daily broadcast is usually not published before late evening, so
// before 22:00 local time "current" means yesterday.
func ResolveEndDay(endDay string, now time.Time) string {
	if endDay != CurrentEndDay {
		return endDay
	}
	if now.Hour() > 22 {
		return now.Format(DateKeyLayout)
	}
	return now.AddDate(0, 0, -1).Format(DateKeyLayout)
}

// EnumerateRange expands [startKey, endKey] into consecutive daily date
// keys, inclusive on both ends.
func EnumerateRange(startKey, endKey string) ([]string, error) {
	start, err := time.Parse(DateKeyLayout, startKey)
	if err != nil {
		return nil, fmt.Errorf("invalid start day %q: %w", startKey, err)
	}
	end, err := time.Parse(DateKeyLayout, endKey)
	if err != nil {
		return nil, fmt.Errorf("invalid end day %q: %w", endKey, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end day %s precedes start day %s", endKey, startKey)
	}

	var keys []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		keys = append(keys, day.Format(DateKeyLayout))
	}
	return keys, nil
}
