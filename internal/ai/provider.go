package ai

import (
	"context"
	"encoding/json"
)

// Provider is the generation capability behind every derived artifact. All
// methods return the provider's raw output text; the caller runs it through
// the artifact decoder, so a provider never needs to guarantee clean JSON.
type Provider interface {
	ExtractJD(ctx context.Context, jdText string) (string, error)
	ParseResume(ctx context.Context, resumeText string) (string, error)
	BuildEvidenceMap(ctx context.Context, jdExtract, resumeParse json.RawMessage) (string, error)
	ComputeScoreBreakdown(ctx context.Context, jdExtract, resumeParse, evidenceMap json.RawMessage) (string, error)
	CreateRewritePlan(ctx context.Context, scoreBreakdown, evidenceMap json.RawMessage) (string, error)
	RewriteBullet(ctx context.Context, bullet string, constraints, bulletContext json.RawMessage) (string, error)
	OptimizeResumeParse(ctx context.Context, jdExtract, resumeParse, scoreBreakdown, evidenceMap json.RawMessage) (string, error)
	GenerateCoverLetter(ctx context.Context, jdExtract, resumeParse json.RawMessage, tone string) (string, error)
	SuggestProjects(ctx context.Context, jdExtract, resumeParse json.RawMessage) (string, error)
	GenerateRoadmap(ctx context.Context, jdExtract, resumeParse json.RawMessage, timelineWeeks int) (string, error)
	GenerateInterviewQuestion(ctx context.Context, jdExtract json.RawMessage, mode string, previousQuestions []string) (string, error)
	ScoreStarResponse(ctx context.Context, question, response string, jdExtract json.RawMessage) (string, error)
	GenerateCodingProblem(ctx context.Context, jdExtract json.RawMessage, difficulty string) (string, error)
	ReviewCode(ctx context.Context, problem json.RawMessage, code string, testResults json.RawMessage) (string, error)
}
