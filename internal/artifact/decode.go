package artifact

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
)

// IsHard reports whether malformed provider output for kind must surface as
// an error. Hard kinds have no sane empty default; soft kinds degrade to one.
func IsHard(kind string) bool {
	return kind == domain.KindJDExtract || kind == domain.KindResumeParse
}

// StripFences removes a wrapping markdown code fence from provider output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// salvage returns the largest bracket-delimited substring that parses as a
// JSON object or array.
func salvage(s string) (string, bool) {
	best := ""
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(s, pair[0])
		end := strings.LastIndexByte(s, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := s[start : end+1]
		if len(candidate) > len(best) && json.Valid([]byte(candidate)) {
			best = candidate
		}
	}
	return best, best != ""
}

// Decode turns raw provider text into the canonical JSON encoding of the
// typed shape for kind. It strips fences, tries a strict parse, falls back to
// bracket salvage, validates against the kind's schema, then round-trips
// through the typed struct so unknown fields are dropped. The caller decides
// whether a MalformedOutputError for a soft kind degrades to Default(kind).
func Decode(kind, raw string) ([]byte, error) {
	s := StripFences(raw)
	if !json.Valid([]byte(s)) {
		rescued, ok := salvage(s)
		if !ok {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "no JSON object or array found"}
		}
		s = rescued
	}
	if schema := SchemaFor(kind); schema != nil {
		if err := ValidateAgainstSchema(schema, []byte(s)); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "schema mismatch", Err: err}
		}
	}
	typed, err := reshape(kind, []byte(s))
	if err != nil {
		return nil, err
	}
	return typed, nil
}

// reshape round-trips the validated JSON through the kind's struct, dropping
// unknown fields and applying the per-kind semantic checks a JSON schema
// cannot express.
func reshape(kind string, data []byte) ([]byte, error) {
	switch kind {
	case domain.KindJDExtract:
		var v domain.JDExtract
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		if !validSeniority(v.Seniority) {
			return nil, &apperrors.MalformedOutputError{
				Kind:   kind,
				Reason: fmt.Sprintf("seniority %q is not one of %v", v.Seniority, domain.Seniorities),
			}
		}
		return json.Marshal(v)
	case domain.KindResumeParse:
		var v domain.ResumeParse
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		if v.IsEmpty() {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "parse carries no usable content"}
		}
		return json.Marshal(v)
	case domain.KindEvidenceMap:
		var v domain.EvidenceMap
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindScore:
		var v domain.ScoreBreakdown
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindRewritePlan:
		var v domain.RewritePlan
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindRoadmap:
		var v domain.Roadmap
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindInterviewPack:
		var v domain.InterviewPack
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindInterviewQuestion:
		var v domain.InterviewQuestion
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindStarScore:
		var v domain.StarScore
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindCodingProblem:
		var v domain.CodingProblem
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	case domain.KindCodeReview:
		var v domain.CodeReview
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &apperrors.MalformedOutputError{Kind: kind, Reason: "decode", Err: err}
		}
		return json.Marshal(v)
	default:
		// Unstructured kinds (cover letters) pass through as-is.
		return data, nil
	}
}

func validSeniority(s string) bool {
	for _, v := range domain.Seniorities {
		if s == v {
			return true
		}
	}
	return false
}

// Default returns the kind-specific empty artifact persisted when a soft
// kind's output could not be salvaged. Hard kinds have no default.
func Default(kind string) ([]byte, bool) {
	switch kind {
	case domain.KindEvidenceMap:
		return mustJSON(domain.EvidenceMap{Evidence: map[string][]domain.EvidenceCitation{}, Missing: []string{}}), true
	case domain.KindScore:
		return mustJSON(domain.ScoreBreakdown{TopFixes: []map[string]any{}}), true
	case domain.KindRewritePlan:
		return mustJSON(domain.RewritePlan{PrioritizedEdits: []map[string]any{}}), true
	case domain.KindRoadmap:
		return mustJSON(domain.Roadmap{Weeks: []domain.RoadmapWeek{}}), true
	case domain.KindInterviewPack:
		return mustJSON(domain.InterviewPack{Questions: []domain.InterviewQuestion{}, GeneratedAt: time.Now().UTC()}), true
	default:
		return nil, false
	}
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
