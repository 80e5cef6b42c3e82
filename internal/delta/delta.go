// Package delta separates freshly scraped deals from ones already announced.
package delta

import (
	"sjsage522/fyndworker/internal/crawler"
	"sjsage522/fyndworker/services/store"
)

// ComputeNew returns the deals whose fingerprint is not yet in seen,
// preserving scrape order. Every returned deal is marked in seen with its
// PostedAt time, so duplicates within a single batch collapse to the first
// occurrence and a repeated call with the same input yields nothing.
func ComputeNew(deals []crawler.Deal, seen store.Set) []crawler.Deal {
	fresh := make([]crawler.Deal, 0, len(deals))

	for _, deal := range deals {
		fp := deal.Fingerprint()
		if seen.Contains(fp) {
			continue
		}
		seen.Mark(fp, deal.PostedAt)
		fresh = append(fresh, deal)
	}

	return fresh
}
