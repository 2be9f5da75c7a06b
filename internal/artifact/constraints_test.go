package artifact

import (
	"strings"
	"testing"

	"github.com/offerpath/offerpath-backend/internal/domain"
)

func TestDetectFabrications_FlagsInventedHistory(t *testing.T) {
	source := sampleParse()
	optimized := sampleParse()
	optimized.Experience = append(optimized.Experience, domain.Experience{Company: "Globex", Role: "Lead"})
	optimized.Certifications = []string{"AWS Solutions Architect"}

	violations := DetectFabrications(source, optimized)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %#v", violations)
	}
	joined := strings.Join(violations, "; ")
	if !strings.Contains(joined, "Globex") || !strings.Contains(joined, "AWS Solutions Architect") {
		t.Fatalf("violations should name the fabricated content: %s", joined)
	}
}

func TestDetectFabrications_FlagsInventedMetrics(t *testing.T) {
	source := sampleParse()
	optimized := sampleParse()
	optimized.Experience[0].Bullets = []string{"Built an API serving 10k requests", "Reduced latency by 95%"}

	violations := DetectFabrications(source, optimized)
	if len(violations) != 1 || !strings.Contains(violations[0], "95%") {
		t.Fatalf("expected the invented metric to be flagged: %#v", violations)
	}
}

func TestDetectFabrications_CleanRewritePasses(t *testing.T) {
	source := sampleParse()
	optimized := sampleParse()
	// Reordering and rephrasing without new facts is fine.
	optimized.Experience[0].Bullets = []string{"Reduced latency by 40%", "Built an API serving 10k requests"}

	if violations := DetectFabrications(source, optimized); len(violations) != 0 {
		t.Fatalf("unexpected violations: %#v", violations)
	}
}

func TestAddMissingSkills_DedupesCaseInsensitively(t *testing.T) {
	parse := sampleParse()
	parse.Skills["tools"] = []string{"Docker"}

	updated, added := AddMissingSkills(parse, []string{"docker", "Kubernetes", "  ", "Terraform"})

	if len(added) != 2 || added[0] != "Kubernetes" || added[1] != "Terraform" {
		t.Fatalf("unexpected additions: %#v", added)
	}
	tools := updated.Skills["tools"]
	if len(tools) != 3 || tools[0] != "Docker" {
		t.Fatalf("tools should keep existing entries first: %#v", tools)
	}
	// Source snapshot must not be mutated.
	if len(parse.Skills["tools"]) != 1 {
		t.Fatalf("input parse was mutated: %#v", parse.Skills["tools"])
	}
}

func TestVerifyBulletConstraints(t *testing.T) {
	violations := VerifyBulletConstraints("Worked on stuff", BulletConstraints{
		MaxLength:               10,
		RequiredKeywords:        []string{"Go"},
		MustStartWithActionVerb: true,
	})
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %#v", violations)
	}

	clean := VerifyBulletConstraints("Developed a Go service", BulletConstraints{
		RequiredKeywords:        []string{"go"},
		MustStartWithActionVerb: true,
	})
	if len(clean) != 0 {
		t.Fatalf("unexpected violations: %#v", clean)
	}
}
