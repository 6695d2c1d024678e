package domain

import (
	"slices"
	"strings"
)

// TopFive is the size of the ranked view shown after a selection or prediction.
const TopFive = 5

// Filter returns the records whose city or state contains query
// (case-insensitive) and whose score is at least minScore. Input order is kept.
// An empty query matches every record.
func Filter(records []Location, query string, minScore float64) []Location {
	q := strings.ToLower(query)
	out := make([]Location, 0, len(records))
	for _, r := range records {
		if r.SuitabilityScore < minScore {
			continue
		}
		if !strings.Contains(strings.ToLower(r.State), q) && !strings.Contains(strings.ToLower(r.City), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TopN returns up to n records ordered by descending score. The sort is
// stable so equal scores keep their input order. n <= 0 keeps every record.
// The input slice is not modified.
func TopN(records []Location, n int) []Location {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Location) int {
		switch {
		case a.SuitabilityScore > b.SuitabilityScore:
			return -1
		case a.SuitabilityScore < b.SuitabilityScore:
			return 1
		default:
			return 0
		}
	})
	if n <= 0 || len(sorted) <= n {
		return sorted
	}
	return sorted[:n]
}

// Rank returns the 1-based position of id in records, or 0 when absent.
func Rank(records []Location, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}

// FindByID returns the record with the given id.
func FindByID(records []Location, id string) (Location, bool) {
	i := slices.IndexFunc(records, func(r Location) bool { return r.ID == id })
	if i < 0 {
		return Location{}, false
	}
	return records[i], true
}
