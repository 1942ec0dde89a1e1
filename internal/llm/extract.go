package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is the fixed-schema parse of a resume. Fields the model omits
// stay at their empty defaults; slices are always non-nil so absence
// serializes as emptiness.
type Profile struct {
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Location       string       `json:"location"`
	Summary        string       `json:"summary"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Certifications []string     `json:"certifications"`
	Projects       []string     `json:"projects"`
	ATSKeywords    []string     `json:"ats_keywords"`
}

type Experience struct {
	JobTitle    string   `json:"job_title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Description []string `json:"description"`
}

type Education struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
}

// Extract parses a model reply that should contain a JSON object. It strips
// markdown code fences, tries a direct parse, then salvages the span from
// the first '{' to the last '}'. The salvage is deliberately greedy: text
// with multiple JSON blocks, or unbalanced braces inside string literals,
// can mis-extract. Extraction never retries; failures surface as
// ErrNoJSONFound.
func Extract(raw string) (Profile, error) {
	cleaned := stripFences(raw)

	if profile, err := parseProfile(cleaned); err == nil {
		return profile, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if profile, err := parseProfile(cleaned[start : end+1]); err == nil {
			return profile, nil
		}
	}

	return Profile{}, fmt.Errorf("%w: %q", ErrNoJSONFound, truncate(raw, 120))
}

func parseProfile(text string) (Profile, error) {
	var profile Profile
	if err := json.Unmarshal([]byte(text), &profile); err != nil {
		return Profile{}, err
	}
	profile.normalize()
	return profile, nil
}

func (p *Profile) normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	for i := range p.Experience {
		if p.Experience[i].Description == nil {
			p.Experience[i].Description = []string{}
		}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.Projects == nil {
		p.Projects = []string{}
	}
	if p.ATSKeywords == nil {
		p.ATSKeywords = []string{}
	}
}

// stripFences removes a wrapping markdown code fence. Models regularly
// return ```json ... ``` even when told not to.
func stripFences(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
