package artifact

import (
	"testing"

	"github.com/offerpath/offerpath-backend/internal/domain"
)

func sampleParse() domain.ResumeParse {
	return domain.ResumeParse{
		Identity: domain.Identity{Name: "Dana", Email: "dana@example.com"},
		Skills:   map[string][]string{"languages": {"Go", "Python"}},
		Experience: []domain.Experience{
			{Company: "Acme", Role: "Engineer", Bullets: []string{"Built an API serving 10k requests", "Reduced latency by 40%"}},
		},
		Projects: []domain.Project{
			{Title: "Tracker", TechStack: []string{"Go"}, Bullets: []string{"Shipped v1"}},
			{Title: "Scraper", TechStack: []string{"Python"}, Bullets: []string{"Crawled feeds"}},
		},
	}
}

func TestValidateEvidence_DropsOutOfRangeCitations(t *testing.T) {
	parse := sampleParse()
	em := domain.EvidenceMap{
		Evidence: map[string][]domain.EvidenceCitation{
			"go": {
				{Section: "projects", Index: 0},
				{Section: "projects", Index: 5},
			},
			"kubernetes": {
				{Section: "projects", Index: 2},
			},
		},
		Missing: []string{"terraform"},
	}

	got := ValidateEvidence(em, parse)

	kept := got.Evidence["go"]
	if len(kept) != 1 || kept[0].Index != 0 {
		t.Fatalf("expected only the in-range citation to survive: %#v", kept)
	}
	if _, ok := got.Evidence["kubernetes"]; ok {
		t.Fatalf("keyword with no valid citations should leave the evidence map")
	}
	if !contains(got.Missing, "kubernetes") || !contains(got.Missing, "terraform") {
		t.Fatalf("missing list wrong: %#v", got.Missing)
	}
}

func TestValidateEvidence_RejectsUnknownSection(t *testing.T) {
	parse := sampleParse()
	em := domain.EvidenceMap{
		Evidence: map[string][]domain.EvidenceCitation{
			"go": {{Section: "summary", Index: 0}},
		},
	}

	got := ValidateEvidence(em, parse)
	if len(got.Evidence) != 0 {
		t.Fatalf("citation into a non-citable section should be dropped: %#v", got.Evidence)
	}
}

func TestValidateEvidence_BulletIndexRange(t *testing.T) {
	parse := sampleParse()
	two := 2
	zero := 0
	em := domain.EvidenceMap{
		Evidence: map[string][]domain.EvidenceCitation{
			"api": {
				{Section: "experience", Index: 0, BulletIndex: &zero},
				{Section: "experience", Index: 0, BulletIndex: &two},
			},
		},
	}

	got := ValidateEvidence(em, parse)
	kept := got.Evidence["api"]
	if len(kept) != 1 || kept[0].BulletIndex == nil || *kept[0].BulletIndex != 0 {
		t.Fatalf("only the in-range bullet citation should survive: %#v", kept)
	}
}

func TestHashResume_StableAndDistinct(t *testing.T) {
	a := HashResume([]byte(`{"identity":{"name":"Dana"}}`))
	b := HashResume([]byte(`{"identity":{"name":"Dana"}}`))
	c := HashResume([]byte(`{"identity":{"name":"Sam"}}`))
	if a != b {
		t.Fatalf("hash should be deterministic")
	}
	if a == c {
		t.Fatalf("different snapshots should hash differently")
	}
}
