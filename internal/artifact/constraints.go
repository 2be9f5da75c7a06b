package artifact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/offerpath/offerpath-backend/internal/domain"
)

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?%?`)

// DetectFabrications compares an optimized parse against its source snapshot
// and reports content that cannot be traced back: new employers, new project
// titles, new certifications, new degrees, and numeric metrics absent from
// the source. Added skill keywords are allowed; invented history is not.
func DetectFabrications(source, optimized domain.ResumeParse) []string {
	var violations []string

	srcCompanies := make(map[string]bool, len(source.Experience))
	for _, e := range source.Experience {
		srcCompanies[normalize(e.Company)] = true
	}
	for _, e := range optimized.Experience {
		if !srcCompanies[normalize(e.Company)] {
			violations = append(violations, fmt.Sprintf("employer %q not present in source resume", e.Company))
		}
	}

	srcProjects := make(map[string]bool, len(source.Projects))
	for _, p := range source.Projects {
		srcProjects[normalize(p.Title)] = true
	}
	for _, p := range optimized.Projects {
		if !srcProjects[normalize(p.Title)] {
			violations = append(violations, fmt.Sprintf("project %q not present in source resume", p.Title))
		}
	}

	srcCerts := make(map[string]bool, len(source.Certifications))
	for _, c := range source.Certifications {
		srcCerts[normalize(c)] = true
	}
	for _, c := range optimized.Certifications {
		if !srcCerts[normalize(c)] {
			violations = append(violations, fmt.Sprintf("certification %q not present in source resume", c))
		}
	}

	srcDegrees := make(map[string]bool, len(source.Education))
	for _, e := range source.Education {
		srcDegrees[normalize(e.Institution+"|"+e.Degree)] = true
	}
	for _, e := range optimized.Education {
		if !srcDegrees[normalize(e.Institution+"|"+e.Degree)] {
			violations = append(violations, fmt.Sprintf("degree %q at %q not present in source resume", e.Degree, e.Institution))
		}
	}

	srcNumbers := collectNumbers(source)
	for n := range collectNumbers(optimized) {
		if !srcNumbers[n] {
			violations = append(violations, fmt.Sprintf("numeric metric %q not present in source resume", n))
		}
	}

	return violations
}

func collectNumbers(p domain.ResumeParse) map[string]bool {
	out := map[string]bool{}
	add := func(bullets []string) {
		for _, b := range bullets {
			for _, m := range numberPattern.FindAllString(b, -1) {
				out[m] = true
			}
		}
	}
	for _, e := range p.Experience {
		add(e.Bullets)
	}
	for _, pr := range p.Projects {
		add(pr.Bullets)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AddMissingSkills applies the rule-based optimization: missing requirement
// keywords are appended to skills.tools, case-insensitively deduplicated
// against what is already there. Returns the updated parse and the keywords
// actually added.
func AddMissingSkills(parse domain.ResumeParse, missing []string) (domain.ResumeParse, []string) {
	if parse.Skills == nil {
		parse.Skills = map[string][]string{}
	}
	tools := append([]string(nil), parse.Skills["tools"]...)
	existing := make(map[string]bool, len(tools))
	for _, t := range tools {
		if k := normalize(t); k != "" {
			existing[k] = true
		}
	}
	var added []string
	for _, s := range missing {
		key := strings.TrimSpace(s)
		if key == "" || existing[normalize(key)] {
			continue
		}
		tools = append(tools, key)
		existing[normalize(key)] = true
		added = append(added, key)
	}
	// Rebuild the map so the caller's snapshot is never mutated in place.
	skills := make(map[string][]string, len(parse.Skills)+1)
	for k, v := range parse.Skills {
		skills[k] = v
	}
	skills["tools"] = tools
	parse.Skills = skills
	return parse, added
}

// BulletConstraints are the rules a rewritten bullet must satisfy.
type BulletConstraints struct {
	MaxLength               int      `json:"max_length,omitempty"`
	RequiredKeywords        []string `json:"required_keywords,omitempty"`
	MustStartWithActionVerb bool     `json:"must_start_with_action_verb,omitempty"`
}

var actionVerbs = map[string]bool{
	"developed": true, "created": true, "built": true, "designed": true,
	"implemented": true, "optimized": true, "improved": true, "managed": true,
	"led": true, "achieved": true,
}

// VerifyBulletConstraints checks one bullet against the rules and returns
// human-readable violations; an empty slice means the bullet passes.
func VerifyBulletConstraints(bullet string, c BulletConstraints) []string {
	var violations []string
	if c.MaxLength > 0 && len(bullet) > c.MaxLength {
		violations = append(violations, fmt.Sprintf("exceeds max length of %d characters", c.MaxLength))
	}
	lower := strings.ToLower(bullet)
	for _, kw := range c.RequiredKeywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			violations = append(violations, fmt.Sprintf("missing required keyword: %s", kw))
		}
	}
	if c.MustStartWithActionVerb {
		fields := strings.Fields(bullet)
		first := ""
		if len(fields) > 0 {
			first = strings.ToLower(fields[0])
		}
		if !actionVerbs[first] {
			violations = append(violations, "should start with an action verb")
		}
	}
	return violations
}
