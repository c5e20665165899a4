// Package source contains one adapter per external job platform. Every
// adapter is fault-isolated: it reports degraded results through its
// Outcome instead of returning errors to the caller.
package source

import (
	"context"

	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/profile"
)

// Known platform identifiers. Listing.Platform is always one of these.
const (
	PlatformRemoteOK     = "remoteok"
	PlatformIndeed       = "indeed"
	PlatformLinkedIn     = "linkedin"
	PlatformWellfound    = "wellfound"
	PlatformStartupBoard = "startup_board"
)

// Outcome describes how an adapter's fetch went.
type Outcome string

const (
	// OutcomeSuccess means every role was fetched live.
	OutcomeSuccess Outcome = "success"
	// OutcomePartialSuccess means some roles were fetched live and
	// some failed.
	OutcomePartialSuccess Outcome = "partial_success"
	// OutcomeFallbackUsed means search-link stubs were synthesized for
	// at least one role, either because the platform blocked access or
	// because link generation is the adapter's only strategy.
	OutcomeFallbackUsed Outcome = "fallback_used"
	// OutcomeFailed means the adapter produced nothing at all.
	OutcomeFailed Outcome = "failed"
)

// Adapter fetches raw postings from one platform and maps them into
// listings. Implementations never return an error: total failure is an
// empty slice with OutcomeFailed.
type Adapter interface {
	// Name returns the platform identifier stamped on every produced
	// listing.
	Name() string
	Fetch(ctx context.Context, p *profile.Profile) ([]listing.Listing, Outcome)
}

// resolveOutcome derives the adapter outcome from per-role counters.
// Fallback stubs dominate: their presence means the result set is links
// rather than scrapes, which consumers need to know.
func resolveOutcome(live, fallback, failed int) Outcome {
	switch {
	case fallback > 0:
		return OutcomeFallbackUsed
	case live > 0 && failed == 0:
		return OutcomeSuccess
	case live > 0:
		return OutcomePartialSuccess
	default:
		return OutcomeFailed
	}
}
