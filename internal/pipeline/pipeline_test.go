package pipeline

import (
	"context"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/profile"
	"github.com/avetisov/jobradar/internal/source"
)

// stubAdapter fakes a source for pipeline tests.
type stubAdapter struct {
	name    string
	items   []listing.Listing
	outcome source.Outcome
	delay   time.Duration
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Fetch(context.Context, *profile.Profile) ([]listing.Listing, source.Outcome) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.items, s.outcome
}

func TestRunRejectsNilProfile(t *testing.T) {
	t.Parallel()

	p := New(zap.NewNop())
	if _, err := p.Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil profile")
	}
}

func TestRunMergeOrderFollowsRegistrationOrder(t *testing.T) {
	t.Parallel()

	// The slow adapter is registered first and completes last; merge
	// order must still follow registration, not completion.
	slow := &stubAdapter{
		name:    "slow",
		delay:   50 * time.Millisecond,
		items:   []listing.Listing{{Title: "a", Company: "1"}, {Title: "b", Company: "2"}},
		outcome: source.OutcomeSuccess,
	}
	fast := &stubAdapter{
		name:    "fast",
		items:   []listing.Listing{{Title: "c", Company: "3"}},
		outcome: source.OutcomeSuccess,
	}

	// Empty roles and skills leave every score at zero, so the sort is
	// decided purely by the merge-order tie break.
	prof := &profile.Profile{Name: "t"}

	result, err := New(zap.NewNop(), slow, fast).Run(context.Background(), prof)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var titles []string
	for _, job := range result.Jobs {
		titles = append(titles, job.Title)
	}
	if !reflect.DeepEqual(titles, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order: %v", titles)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	adapters := []source.Adapter{
		&stubAdapter{
			name: "one",
			items: []listing.Listing{
				{Title: "AI Engineer", Company: "Acme", Location: "Remote", Description: "python pytorch"},
				{Title: "Accountant", Company: "Ledger"},
			},
			outcome: source.OutcomeSuccess,
		},
		&stubAdapter{
			name: "two",
			items: []listing.Listing{
				{Title: "Senior AI Engineer", Company: "Globex", Description: "python"},
			},
			outcome: source.OutcomeSuccess,
		},
	}

	prof := &profile.Profile{
		TargetRoles:      []string{"ai engineer"},
		Skills:           []string{"python", "pytorch"},
		RemotePreference: true,
	}

	first, err := New(zap.NewNop(), adapters...).Run(context.Background(), prof)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := New(zap.NewNop(), adapters...).Run(context.Background(), prof)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !reflect.DeepEqual(first.Jobs, second.Jobs) {
		t.Fatalf("ranked order differs between identical runs:\n%v\n%v", first.Jobs, second.Jobs)
	}

	// Descending by score.
	for i := 1; i < len(first.Jobs); i++ {
		if first.Jobs[i].MatchScore > first.Jobs[i-1].MatchScore {
			t.Fatalf("jobs are not sorted descending: %v", first.Jobs)
		}
	}
}

func TestRunDeduplicatesAcrossAdapters(t *testing.T) {
	t.Parallel()

	adapters := []source.Adapter{
		&stubAdapter{
			name:    "one",
			items:   []listing.Listing{{Title: "AI Engineer", Company: "Acme", Platform: "remoteok"}},
			outcome: source.OutcomeSuccess,
		},
		&stubAdapter{
			name:    "two",
			items:   []listing.Listing{{Title: "ai engineer", Company: "acme", Platform: "indeed"}},
			outcome: source.OutcomeSuccess,
		},
	}

	prof := &profile.Profile{Name: "t"}

	result, err := New(zap.NewNop(), adapters...).Run(context.Background(), prof)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 listing after dedup, got %d", len(result.Jobs))
	}
	if result.Jobs[0].Platform != "remoteok" {
		t.Fatalf("expected the first-seen platform to win, got %q", result.Jobs[0].Platform)
	}
}

func TestRunAllAdaptersFailed(t *testing.T) {
	t.Parallel()

	adapters := []source.Adapter{
		&stubAdapter{name: "one", outcome: source.OutcomeFailed},
		&stubAdapter{name: "two", outcome: source.OutcomeFailed},
	}

	prof := &profile.Profile{TargetRoles: []string{"ai engineer"}}

	result, err := New(zap.NewNop(), adapters...).Run(context.Background(), prof)
	if err != nil {
		t.Fatalf("adapter failure must not fail the pipeline, got %v", err)
	}

	if len(result.Jobs) != 0 {
		t.Fatalf("expected no listings, got %d", len(result.Jobs))
	}
	if result.Summary != (listing.SearchSummary{}) {
		t.Fatalf("expected zero summary, got %+v", result.Summary)
	}
}

func TestRunSummaryInvariant(t *testing.T) {
	t.Parallel()

	adapters := []source.Adapter{
		&stubAdapter{
			name: "one",
			items: []listing.Listing{
				{Title: "AI Engineer", Company: "Acme", Location: "Remote", Description: "python pytorch"},
				{Title: "Something Else", Company: "Globex"},
				{Title: "AI Engineer Intern", Company: "Initech", Description: "python"},
			},
			outcome: source.OutcomeSuccess,
		},
	}

	prof := &profile.Profile{
		TargetRoles:      []string{"ai engineer"},
		Skills:           []string{"python", "pytorch"},
		RemotePreference: true,
	}

	result, err := New(zap.NewNop(), adapters...).Run(context.Background(), prof)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	s := result.Summary
	if s.TotalJobs != len(result.Jobs) {
		t.Fatalf("TotalJobs %d != len(Jobs) %d", s.TotalJobs, len(result.Jobs))
	}
	if s.HighMatches+s.MediumMatches+s.LowMatches != s.TotalJobs {
		t.Fatalf("summary buckets do not add up: %+v", s)
	}
}
