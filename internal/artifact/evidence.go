package artifact

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/offerpath/offerpath-backend/internal/domain"
)

// HashResume fingerprints the resume snapshot an artifact was computed
// against. Stored alongside evidence maps and scores so staleness is
// detectable when the resume changes.
func HashResume(parsed []byte) string {
	sum := sha256.Sum256(parsed)
	return hex.EncodeToString(sum[:])
}

// ValidateEvidence drops citations that do not resolve against the parse:
// unknown sections, out-of-range indexes, out-of-range bullet indexes.
// Surviving citations keep their original order. Keywords whose citations
// all dropped are moved to Missing.
func ValidateEvidence(em domain.EvidenceMap, parse domain.ResumeParse) domain.EvidenceMap {
	out := domain.EvidenceMap{
		Evidence:   make(map[string][]domain.EvidenceCitation, len(em.Evidence)),
		Missing:    append([]string(nil), em.Missing...),
		ResumeHash: em.ResumeHash,
	}
	for keyword, citations := range em.Evidence {
		kept := make([]domain.EvidenceCitation, 0, len(citations))
		for _, c := range citations {
			if citationResolves(c, parse) {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			if !contains(out.Missing, keyword) {
				out.Missing = append(out.Missing, keyword)
			}
			continue
		}
		out.Evidence[keyword] = kept
	}
	return out
}

func citationResolves(c domain.EvidenceCitation, parse domain.ResumeParse) bool {
	switch c.Section {
	case "experience":
		if c.Index < 0 || c.Index >= len(parse.Experience) {
			return false
		}
		if c.BulletIndex != nil {
			b := *c.BulletIndex
			return b >= 0 && b < len(parse.Experience[c.Index].Bullets)
		}
		return true
	case "projects":
		if c.Index < 0 || c.Index >= len(parse.Projects) {
			return false
		}
		if c.BulletIndex != nil {
			b := *c.BulletIndex
			return b >= 0 && b < len(parse.Projects[c.Index].Bullets)
		}
		return true
	case "skills":
		// Skills citations index into the flattened skill list.
		total := 0
		for _, group := range parse.Skills {
			total += len(group)
		}
		return c.Index >= 0 && c.Index < total
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
