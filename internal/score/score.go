// Package score computes the 0-100 relevance of a listing against a
// profile.
package score

import (
	"strings"

	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/profile"
	"github.com/avetisov/jobradar/internal/source"
)

// Point budget per category. Each category is capped and stops at its
// first match, so overlapping wording cannot credit a category twice.
// The taxonomy thresholds and existing rankings depend on these rules
// staying exactly as they are.
const (
	titleExactPoints   = 35.0
	titlePartialPoints = 25.0
	skillPoints        = 35.0
	locationPoints     = 20.0
	locationDescPoints = 10.0
	remoteDescPoints   = 15.0
	experiencePoints   = 10.0
	platformBonus      = 5.0

	maxScore = 100.0
)

// experienceKeywords maps an experience level to the phrases that mark
// a posting as targeting it.
var experienceKeywords = map[string][]string{
	profile.ExperienceJunior: {"junior", "entry", "entry level", "graduate", "new grad"},
	profile.ExperienceMid:    {"mid", "intermediate", "experienced", "3+ years", "2+ years"},
	profile.ExperienceSenior: {"senior", "lead", "principal", "architect", "5+ years", "7+ years"},
}

// startupPlatforms earn the junior platform bonus.
var startupPlatforms = map[string]bool{
	source.PlatformWellfound:    true,
	source.PlatformStartupBoard: true,
}

// Score returns the match score for one listing, computed independently
// of any other listing. All matching is case-insensitive substring
// containment.
func Score(item listing.Listing, p *profile.Profile) float64 {
	title := strings.ToLower(item.Title)
	description := strings.ToLower(item.Description)
	fullText := title + " " + description

	score := titleMatch(title, p.TargetRoles)
	score += skillMatch(fullText, item.RequiredSkills, p.Skills)
	score += locationMatch(strings.ToLower(item.Location), description, p)
	score += experienceMatch(fullText, p.ExperienceLevel)

	if strings.ToLower(p.ExperienceLevel) == profile.ExperienceJunior && startupPlatforms[item.Platform] {
		score += platformBonus
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

// titleMatch credits the first target role found in the title: full
// points for an exact match or prefix, partial otherwise. Later roles
// are not considered once one matches.
func titleMatch(title string, roles []string) float64 {
	for _, role := range roles {
		role = strings.ToLower(role)
		if !strings.Contains(title, role) {
			continue
		}
		if title == role || strings.HasPrefix(title, role) {
			return titleExactPoints
		}
		return titlePartialPoints
	}
	return 0
}

// skillMatch scales the skill budget by the share of profile skills
// found in the text, counting in listing skills that loosely overlap a
// profile skill. An empty skill list contributes nothing.
func skillMatch(fullText string, listingSkills, profileSkills []string) float64 {
	if len(profileSkills) == 0 {
		return 0
	}

	matched := 0
	counted := make(map[string]bool)
	for _, skill := range profileSkills {
		if strings.Contains(fullText, strings.ToLower(skill)) {
			matched++
			counted[strings.ToLower(skill)] = true
		}
	}

	for _, required := range listingSkills {
		requiredLower := strings.ToLower(required)
		if counted[requiredLower] {
			continue
		}
		for _, skill := range profileSkills {
			skillLower := strings.ToLower(skill)
			if strings.Contains(skillLower, requiredLower) || strings.Contains(requiredLower, skillLower) {
				matched++
				counted[requiredLower] = true
				break
			}
		}
	}

	ratio := float64(matched) / float64(len(profileSkills))
	if ratio > 1.0 {
		ratio = 1.0
	}
	return skillPoints * ratio
}

// locationMatch prefers the location field over the description and
// remote over named locations; the first hit wins.
func locationMatch(location, description string, p *profile.Profile) float64 {
	if p.RemotePreference {
		if strings.Contains(location, "remote") {
			return locationPoints
		}
		if strings.Contains(description, "remote") {
			return remoteDescPoints
		}
	}

	for _, loc := range p.Locations {
		loc = strings.ToLower(loc)
		if strings.Contains(location, loc) {
			return locationPoints
		}
		if strings.Contains(description, loc) {
			return locationDescPoints
		}
	}
	return 0
}

// experienceMatch credits the first keyword of the profile's level
// found in the text.
func experienceMatch(fullText, level string) float64 {
	for _, keyword := range experienceKeywords[strings.ToLower(level)] {
		if strings.Contains(fullText, keyword) {
			return experiencePoints
		}
	}
	return 0
}
