package source

import "strings"

// Skills kept per listing, after deduplication.
const maxSkillsPerListing = 10

// skillVocabulary is the fixed set of tech keywords looked up in
// free-text descriptions.
var skillVocabulary = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "go", "rust",
	"pytorch", "tensorflow", "keras", "scikit-learn", "pandas", "numpy",
	"llm", "gpt", "openai", "transformer", "nlp", "natural language processing",
	"machine learning", "deep learning", "neural network", "ml", "ai",
	"docker", "kubernetes", "aws", "gcp", "azure", "cloud",
	"api", "rest", "graphql", "sql", "nosql", "mongodb", "postgresql",
	"git", "github", "ci/cd", "jenkins", "terraform", "ansible",
	"prompt engineering", "fine-tuning", "rag", "embeddings",
}

// ExtractSkills scans free text for known skill keywords plus the
// profile's own skills. The result is deduplicated and bounded; order
// carries no meaning.
func ExtractSkills(text string, profileSkills []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var found []string

	add := func(skill string) {
		if _, ok := seen[strings.ToLower(skill)]; ok {
			return
		}
		seen[strings.ToLower(skill)] = struct{}{}
		found = append(found, skill)
	}

	for _, skill := range skillVocabulary {
		if strings.Contains(lower, skill) {
			add(skill)
		}
	}

	for _, skill := range profileSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			add(skill)
		}
	}

	if len(found) > maxSkillsPerListing {
		found = found[:maxSkillsPerListing]
	}

	return found
}
