package usecase

import "time"

// IsMonthStart reports whether the run happens on the first calendar day of
// a month, which triggers the keyword analysis for the prior month.
func IsMonthStart(now time.Time) bool {
	return now.Day() == 1
}

// LastMonthRange returns the first and last day of the calendar month
// immediately preceding now.
func LastMonthRange(now time.Time) (first, last time.Time) {
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last = firstOfThis.AddDate(0, 0, -1)
	first = time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, now.Location())
	return first, last
}
