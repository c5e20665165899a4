package listing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avetisov/jobradar/internal/profile"
)

// Match score taxonomy boundaries. Reports and the summary counters
// depend on these exact thresholds.
const (
	HighMatchThreshold   = 70.0
	MediumMatchThreshold = 50.0
)

// Listing is one normalized job posting from any source.
//
// A listing is created by a source adapter, passes through deduplication
// untouched, gets its MatchScore set exactly once by the scorer, and is
// never mutated afterwards.
type Listing struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	URL            string   `json:"url"`
	Description    string   `json:"description"`
	Platform       string   `json:"platform"`
	PostedDate     string   `json:"posted_date,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	MatchScore     float64  `json:"match_score"`

	// Stub marks a synthesized search-link placeholder rather than a
	// scraped posting. Stubs never collapse with real results during
	// deduplication even when the title and company sentinel coincide.
	Stub bool `json:"stub,omitempty"`
}

// Listings is an ordered collection of listings.
type Listings struct {
	Items []Listing
}

func (l *Listings) Len() int {
	return len(l.Items)
}

// Append adds items preserving their order.
func (l *Listings) Append(items ...Listing) {
	l.Items = append(l.Items, items...)
}

// FindByURL returns the first listing with the given URL, or nil.
func (l *Listings) FindByURL(url string) *Listing {
	for i := range l.Items {
		if l.Items[i].URL == url {
			return &l.Items[i]
		}
	}
	return nil
}

// ByPlatform groups the listings by their platform identifier,
// preserving order within each group.
func (l *Listings) ByPlatform() map[string][]Listing {
	grouped := make(map[string][]Listing)
	for _, item := range l.Items {
		grouped[item.Platform] = append(grouped[item.Platform], item)
	}
	return grouped
}

// SearchSummary is derived from a final listing set and never cached:
// TotalJobs always equals the length of the set it was computed from.
type SearchSummary struct {
	TotalJobs     int `json:"total_jobs"`
	HighMatches   int `json:"high_matches"`
	MediumMatches int `json:"medium_matches"`
	LowMatches    int `json:"low_matches"`
}

// Summarize recomputes the summary counters from the given listings.
func Summarize(items []Listing) SearchSummary {
	summary := SearchSummary{TotalJobs: len(items)}
	for _, item := range items {
		switch {
		case item.MatchScore >= HighMatchThreshold:
			summary.HighMatches++
		case item.MatchScore >= MediumMatchThreshold:
			summary.MediumMatches++
		default:
			summary.LowMatches++
		}
	}
	return summary
}

// RankedResult is the persisted snapshot of one search run. Consumers
// (report rendering, CLI output) rely on Jobs being pre-sorted by score
// and must not re-sort.
type RankedResult struct {
	SearchDate time.Time       `json:"search_date"`
	Profile    profile.Profile `json:"profile"`
	Jobs       []Listing       `json:"jobs"`
	Summary    SearchSummary   `json:"summary"`
}

// DumpToFile writes the snapshot as indented JSON into dir using a
// timestamped file name, creating dir when missing. Returns the path of
// the written file.
func (r *RankedResult) DumpToFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results dir: %w", err)
	}

	name := fmt.Sprintf("job_search_%s.json", r.SearchDate.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}

	return path, nil
}

// DumpToTmpFile writes the snapshot into a temporary file and returns
// its name.
func (r *RankedResult) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "job_search_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
