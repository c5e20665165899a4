package profile

import (
	"fmt"
	"strings"
)

// Experience levels understood by the scorer.
const (
	ExperienceJunior = "junior"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
)

// Profile describes what the searcher is looking for. It is read-only for
// the whole duration of a run: adapters and the scorer only ever consume it.
type Profile struct {
	Name             string   `mapstructure:"name" json:"name"`
	Email            string   `mapstructure:"email" json:"email"`
	TargetRoles      []string `mapstructure:"target-roles" json:"target_roles"`
	Skills           []string `mapstructure:"skills" json:"skills"`
	ExperienceLevel  string   `mapstructure:"experience-level" json:"experience_level"`
	Locations        []string `mapstructure:"locations" json:"locations"`
	RemotePreference bool     `mapstructure:"remote-preference" json:"remote_preference"`
	ResumePath       string   `mapstructure:"resume-path" json:"resume_path,omitempty"`
	GithubURL        string   `mapstructure:"github-url" json:"github_url,omitempty"`
	LinkedInURL      string   `mapstructure:"linkedin-url" json:"linkedin_url,omitempty"`
}

// Validate checks the contract-level constraints. Empty target roles or
// skills are allowed (scoring degrades gracefully), but the experience
// level must be one of the known values when set.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}

	switch strings.ToLower(strings.TrimSpace(p.ExperienceLevel)) {
	case "", ExperienceJunior, ExperienceMid, ExperienceSenior:
	default:
		return fmt.Errorf("unknown experience level: %q", p.ExperienceLevel)
	}

	return nil
}

// PrimaryLocation returns the first configured location or the provided
// default when none is set. Adapters use it to parameterize search URLs.
func (p *Profile) PrimaryLocation(fallback string) string {
	if len(p.Locations) > 0 && strings.TrimSpace(p.Locations[0]) != "" {
		return p.Locations[0]
	}
	return fallback
}
