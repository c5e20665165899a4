// Package dedup collapses near-identical listings mirrored across
// platforms.
package dedup

import (
	"strings"

	"github.com/avetisov/jobradar/internal/listing"
)

type key struct {
	title   string
	company string
	stub    bool
}

// Dedup drops listings whose case-insensitive (title, company) pair was
// already seen; the first occurrence in input order wins regardless of
// platform. Search-link stubs live in their own key space so a stub
// never swallows a scraped result sharing its sentinel company name.
//
// Title+company is an accepted approximation: reworded titles slip
// through as false negatives.
func Dedup(items []listing.Listing) []listing.Listing {
	seen := make(map[key]struct{}, len(items))
	unique := make([]listing.Listing, 0, len(items))

	for _, item := range items {
		k := key{
			title:   strings.ToLower(item.Title),
			company: strings.ToLower(item.Company),
			stub:    item.Stub,
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, item)
	}

	return unique
}
