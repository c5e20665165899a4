// Package report renders a plain-text summary of a search run.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/avetisov/jobradar/internal/listing"
)

const (
	topMatchesShown  = 10
	perPlatformShown = 5
)

// Render builds the run report: summary counters, profile recap, top
// matches, and a per-platform breakdown. Listings arrive pre-sorted by
// score and are never re-sorted here.
func Render(result *listing.RankedResult) string {
	var sb strings.Builder

	sb.WriteString("JOB SEARCH REPORT\n")
	sb.WriteString("Generated: " + result.SearchDate.Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	s := result.Summary
	sb.WriteString("SUMMARY:\n")
	fmt.Fprintf(&sb, "   Total jobs found: %d\n", s.TotalJobs)
	fmt.Fprintf(&sb, "   High matches (>=70%%): %d\n", s.HighMatches)
	fmt.Fprintf(&sb, "   Medium matches (50-69%%): %d\n", s.MediumMatches)
	fmt.Fprintf(&sb, "   Low matches (<50%%): %d\n\n", s.LowMatches)

	p := result.Profile
	sb.WriteString("PROFILE:\n")
	fmt.Fprintf(&sb, "   Target roles: %s\n", strings.Join(p.TargetRoles, ", "))
	fmt.Fprintf(&sb, "   Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&sb, "   Experience: %s\n", p.ExperienceLevel)
	fmt.Fprintf(&sb, "   Locations: %s\n", strings.Join(p.Locations, ", "))
	remote := "no"
	if p.RemotePreference {
		remote = "yes"
	}
	fmt.Fprintf(&sb, "   Remote: %s\n\n", remote)

	sb.WriteString("TOP MATCHES (score >= 70):\n")
	top := topMatches(result.Jobs)
	if len(top) == 0 {
		sb.WriteString("   No high-matching jobs found.\n")
	}
	for i, job := range top {
		fmt.Fprintf(&sb, "   %d. %s at %s\n", i+1, job.Title, job.Company)
		fmt.Fprintf(&sb, "      Match score: %.1f\n", job.MatchScore)
		fmt.Fprintf(&sb, "      Platform: %s\n", job.Platform)
		fmt.Fprintf(&sb, "      Location: %s\n", job.Location)
		fmt.Fprintf(&sb, "      URL: %s\n", job.URL)
	}

	sb.WriteString("\nALL JOBS BY PLATFORM:\n")
	sb.WriteString(ByPlatform(result))

	return sb.String()
}

// ByPlatform renders the per-platform breakdown, platforms in
// alphabetical order, listings in their ranked order.
func ByPlatform(result *listing.RankedResult) string {
	grouped := (&listing.Listings{Items: result.Jobs}).ByPlatform()

	platforms := make([]string, 0, len(grouped))
	for platform := range grouped {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	var sb strings.Builder
	for _, platform := range platforms {
		jobs := grouped[platform]
		fmt.Fprintf(&sb, "   %s: %d jobs\n", strings.ToUpper(platform), len(jobs))
		for i, job := range jobs {
			if i == perPlatformShown {
				break
			}
			fmt.Fprintf(&sb, "      - %s (%.1f)\n", job.Title, job.MatchScore)
		}
	}
	return sb.String()
}

func topMatches(jobs []listing.Listing) []listing.Listing {
	var top []listing.Listing
	for _, job := range jobs {
		if job.MatchScore < listing.HighMatchThreshold {
			break
		}
		top = append(top, job)
		if len(top) == topMatchesShown {
			break
		}
	}
	return top
}
