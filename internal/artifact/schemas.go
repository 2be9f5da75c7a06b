package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/offerpath/offerpath-backend/internal/domain"
)

// SchemaFor returns the JSON-Schema (draft 2020-12 subset) for kind as a
// generic map, or nil when the kind is unstructured. The same map is handed
// to providers as an output constraint and used locally to validate.
func SchemaFor(kind string) map[string]any {
	switch kind {
	case domain.KindJDExtract:
		return jdExtractSchema()
	case domain.KindResumeParse:
		return resumeParseSchema()
	case domain.KindEvidenceMap:
		return evidenceMapSchema()
	case domain.KindScore:
		return scoreBreakdownSchema()
	case domain.KindRewritePlan:
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prioritized_edits": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
				"expected_impact":   map[string]any{"type": "string"},
			},
			"required": []string{"prioritized_edits"},
		}
	case domain.KindRoadmap:
		return roadmapSchema()
	case domain.KindInterviewPack:
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{"type": "array", "items": interviewQuestionSchema()},
			},
			"required": []string{"questions"},
		}
	case domain.KindInterviewQuestion:
		return interviewQuestionSchema()
	case domain.KindStarScore:
		return starScoreSchema()
	case domain.KindCodingProblem:
		return codingProblemSchema()
	case domain.KindCodeReview:
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"correctness": map[string]any{"type": "string"},
				"feedback":    map[string]any{"type": "string"},
			},
			"required": []string{"correctness", "feedback"},
		}
	default:
		return nil
	}
}

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func jdExtractSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"role_title":          map[string]any{"type": "string", "minLength": 1},
			"seniority":           map[string]any{"type": "string", "enum": domain.Seniorities},
			"must_have_skills":    stringArray(),
			"nice_to_have_skills": stringArray(),
			"languages":           stringArray(),
			"frameworks":          stringArray(),
			"tools":               stringArray(),
			"responsibilities":    stringArray(),
			"keywords":            stringArray(),
			"domain":              map[string]any{"type": "string"},
		},
		"required": []string{"role_title", "seniority"},
	}
}

func resumeParseSchema() map[string]any {
	bullets := stringArray()
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"identity": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":      map[string]any{"type": "string"},
					"email":     map[string]any{"type": "string"},
					"city":      map[string]any{"type": "string"},
					"platforms": map[string]any{"type": "object"},
				},
			},
			"skills": map[string]any{
				"type":                 "object",
				"additionalProperties": stringArray(),
			},
			"experience": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"company": map[string]any{"type": "string"},
						"role":    map[string]any{"type": "string"},
						"dates":   map[string]any{"type": "string"},
						"bullets": bullets,
					},
					"required": []string{"company", "role"},
				},
			},
			"projects": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":      map[string]any{"type": "string"},
						"tech_stack": stringArray(),
						"bullets":    bullets,
					},
					"required": []string{"title"},
				},
			},
			"certifications":   stringArray(),
			"extracurriculars": stringArray(),
			"education": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"institution": map[string]any{"type": "string"},
						"degree":      map[string]any{"type": "string"},
						"dates":       map[string]any{"type": "string"},
					},
				},
			},
		},
		"required": []string{"identity"},
	}
}

func evidenceMapSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"evidence": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"section":      map[string]any{"type": "string", "enum": domain.CitableSections},
							"index":        map[string]any{"type": "integer", "minimum": 0},
							"bullet_index": map[string]any{"type": "integer", "minimum": 0},
						},
						"required": []string{"section", "index"},
					},
				},
			},
			"missing": stringArray(),
		},
		"required": []string{"evidence"},
	}
}

func scoreDetailsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":       map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"explanation": map[string]any{"type": "string"},
			"details":     map[string]any{"type": "object"},
		},
		"required": []string{"score"},
	}
}

func scoreBreakdownSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keyword_coverage":  scoreDetailsSchema(),
			"alignment":         scoreDetailsSchema(),
			"evidence_strength": scoreDetailsSchema(),
			"bullet_quality":    scoreDetailsSchema(),
			"formatting":        scoreDetailsSchema(),
			"final_score":       map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"top_fixes":         map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
		},
		"required": []string{"final_score"},
	}
}

func roadmapSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timeline_weeks": map[string]any{"type": "integer", "minimum": 1},
			"weeks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week_number": map[string]any{"type": "integer", "minimum": 1},
						"focus_areas": stringArray(),
						"tasks": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"title":           map[string]any{"type": "string"},
									"description":     map[string]any{"type": "string"},
									"resources":       stringArray(),
									"estimated_hours": map[string]any{"type": "number", "minimum": 0},
								},
								"required": []string{"title"},
							},
						},
						"milestones": stringArray(),
					},
					"required": []string{"week_number", "tasks"},
				},
			},
		},
		"required": []string{"weeks"},
	}
}

func interviewQuestionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":                   map[string]any{"type": "string", "minLength": 1},
			"type":                       map[string]any{"type": "string"},
			"what_interviewer_looks_for": map[string]any{"type": "string"},
			"suggested_answer_structure": map[string]any{"type": "string"},
		},
		"required": []string{"question", "type"},
	}
}

func starScoreSchema() map[string]any {
	dim := map[string]any{"type": "integer", "minimum": 0, "maximum": 10}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"situation_clarity":  dim,
			"task_clarity":       dim,
			"action_specificity": dim,
			"result_impact":      dim,
			"relevance_to_role":  dim,
			"total_score":        map[string]any{"type": "integer", "minimum": 0, "maximum": 50},
			"strengths":          stringArray(),
			"improvements":       stringArray(),
			"overall_feedback":   map[string]any{"type": "string"},
		},
		"required": []string{"situation_clarity", "task_clarity", "action_specificity", "result_impact", "relevance_to_role", "total_score"},
	}
}

func codingProblemSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":      map[string]any{"type": "string", "minLength": 1},
			"topic":      map[string]any{"type": "string"},
			"difficulty": map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
			"prompt":     map[string]any{"type": "string", "minLength": 1},
			"examples": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input":       map[string]any{"type": "string"},
						"output":      map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
			"constraints": stringArray(),
			"test_cases": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input":           map[string]any{"type": "string"},
						"expected_output": map[string]any{"type": "string"},
					},
					"required": []string{"input", "expected_output"},
				},
			},
			"hints": stringArray(),
		},
		"required": []string{"title", "prompt", "test_cases"},
	}
}

// ValidateAgainstSchema validates data against the schema map.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
