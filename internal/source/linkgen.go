package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/profile"
)

// The adapters in this file never scrape: the platforms either require
// authentication or render listings client-side, so they synthesize one
// correctly parameterized search link per target role instead. Their
// outcome is always OutcomeFallbackUsed so consumers know the results
// are links, not scraped postings.

const linkedInDefaultLocation = "United States"

// LinkedIn generates public job-search links.
type LinkedIn struct{}

func NewLinkedIn() *LinkedIn { return &LinkedIn{} }

func (a *LinkedIn) Name() string { return PlatformLinkedIn }

func (a *LinkedIn) Fetch(_ context.Context, p *profile.Profile) ([]listing.Listing, Outcome) {
	location := p.PrimaryLocation(linkedInDefaultLocation)

	items := make([]listing.Listing, 0, len(p.TargetRoles))
	for _, role := range p.TargetRoles {
		q := url.Values{}
		q.Set("keywords", role)
		q.Set("location", location)
		if p.RemotePreference {
			q.Set("remote", "true")
		}

		items = append(items, listing.Listing{
			Title:          titleCase(role) + " - LinkedIn",
			Company:        "LinkedIn Search",
			Location:       location,
			URL:            "https://www.linkedin.com/jobs/search/?" + q.Encode(),
			Description:    fmt.Sprintf("%s positions from LinkedIn", role),
			Platform:       PlatformLinkedIn,
			RequiredSkills: []string{role},
			Stub:           true,
		})
	}

	if len(items) == 0 {
		return nil, OutcomeFailed
	}
	return items, OutcomeFallbackUsed
}

// Wellfound generates search links for startup jobs.
type Wellfound struct{}

func NewWellfound() *Wellfound { return &Wellfound{} }

func (a *Wellfound) Name() string { return PlatformWellfound }

func (a *Wellfound) Fetch(_ context.Context, p *profile.Profile) ([]listing.Listing, Outcome) {
	items := make([]listing.Listing, 0, len(p.TargetRoles))
	for _, role := range p.TargetRoles {
		items = append(items, listing.Listing{
			Title:          titleCase(role) + " - Startup",
			Company:        "Wellfound Search",
			Location:       "Remote/Global",
			URL:            "https://wellfound.com/role/l/" + url.PathEscape(role),
			Description:    fmt.Sprintf("Search results for %s on Wellfound - startup and tech jobs", role),
			Platform:       PlatformWellfound,
			RequiredSkills: []string{role},
			Stub:           true,
		})
	}

	if len(items) == 0 {
		return nil, OutcomeFailed
	}
	return items, OutcomeFallbackUsed
}

// startupBoards are curated boards without a searchable public API.
var startupBoards = []struct {
	Name string
	URL  string
}{
	{Name: "Y Combinator", URL: "https://www.ycombinator.com/jobs"},
	{Name: "Techstars", URL: "https://jobs.techstars.com/"},
	{Name: "Work at a Startup", URL: "https://www.workatastartup.com/"},
}

// StartupBoards generates one link per (board, role) pair.
type StartupBoards struct{}

func NewStartupBoards() *StartupBoards { return &StartupBoards{} }

func (a *StartupBoards) Name() string { return PlatformStartupBoard }

func (a *StartupBoards) Fetch(_ context.Context, p *profile.Profile) ([]listing.Listing, Outcome) {
	items := make([]listing.Listing, 0, len(startupBoards)*len(p.TargetRoles))
	for _, board := range startupBoards {
		for _, role := range p.TargetRoles {
			items = append(items, listing.Listing{
				Title:          fmt.Sprintf("%s - %s", titleCase(role), board.Name),
				Company:        board.Name,
				Location:       "Remote/Global",
				URL:            board.URL,
				Description:    fmt.Sprintf("%s positions at %s", role, board.Name),
				Platform:       PlatformStartupBoard,
				RequiredSkills: []string{role},
				Stub:           true,
			})
		}
	}

	if len(items) == 0 {
		return nil, OutcomeFailed
	}
	return items, OutcomeFallbackUsed
}
