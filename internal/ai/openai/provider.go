package openai

import (
	"context"
	"encoding/json"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/artifact"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
	"github.com/offerpath/offerpath-backend/internal/platform/openai"
)

// Provider implements ai.Provider on top of the OpenAI chat completions API.
// Structured kinds are requested with a json_schema response format; the
// schema is the same one the artifact decoder validates against.
type Provider struct {
	client openai.Client
	log    *logger.Logger
}

func NewProvider(baseLog *logger.Logger) (*Provider, error) {
	client, err := openai.NewClient(baseLog)
	if err != nil {
		return nil, err
	}
	return &Provider{client: client, log: baseLog.With("service", "OpenAIProvider")}, nil
}

// NewProviderWithClient is used by tests to inject a fake client.
func NewProviderWithClient(client openai.Client, baseLog *logger.Logger) *Provider {
	return &Provider{client: client, log: baseLog.With("service", "OpenAIProvider")}
}

func (p *Provider) generate(ctx context.Context, kind string, pr ai.Prompt) (string, error) {
	var (
		out string
		err error
	)
	if schema := artifact.SchemaFor(kind); schema != nil {
		out, err = p.client.GenerateJSON(ctx, pr.System, pr.User, kind, schema)
	} else {
		out, err = p.client.GenerateText(ctx, pr.System, pr.User)
	}
	if err != nil {
		return "", &apperrors.GenerationError{Kind: kind, Err: err}
	}
	return out, nil
}

func (p *Provider) ExtractJD(ctx context.Context, jdText string) (string, error) {
	return p.generate(ctx, domain.KindJDExtract, ai.PromptExtractJD(jdText))
}

func (p *Provider) ParseResume(ctx context.Context, resumeText string) (string, error) {
	return p.generate(ctx, domain.KindResumeParse, ai.PromptParseResume(resumeText))
}

func (p *Provider) BuildEvidenceMap(ctx context.Context, jdExtract, resumeParse json.RawMessage) (string, error) {
	return p.generate(ctx, domain.KindEvidenceMap, ai.PromptEvidenceMap(jdExtract, resumeParse))
}

func (p *Provider) ComputeScoreBreakdown(ctx context.Context, jdExtract, resumeParse, evidenceMap json.RawMessage) (string, error) {
	return p.generate(ctx, domain.KindScore, ai.PromptScoreBreakdown(jdExtract, resumeParse, evidenceMap))
}

func (p *Provider) CreateRewritePlan(ctx context.Context, scoreBreakdown, evidenceMap json.RawMessage) (string, error) {
	return p.generate(ctx, domain.KindRewritePlan, ai.PromptRewritePlan(scoreBreakdown, evidenceMap))
}

func (p *Provider) RewriteBullet(ctx context.Context, bullet string, constraints, bulletContext json.RawMessage) (string, error) {
	pr := ai.PromptRewriteBullet(bullet, constraints, bulletContext)
	out, err := p.client.GenerateText(ctx, pr.System, pr.User)
	if err != nil {
		return "", &apperrors.GenerationError{Kind: "rewrite_bullet", Err: err}
	}
	return out, nil
}

func (p *Provider) OptimizeResumeParse(ctx context.Context, jdExtract, resumeParse, scoreBreakdown, evidenceMap json.RawMessage) (string, error) {
	return p.generate(ctx, domain.KindResumeParse, ai.PromptOptimizeResume(jdExtract, resumeParse, scoreBreakdown, evidenceMap))
}

func (p *Provider) GenerateCoverLetter(ctx context.Context, jdExtract, resumeParse json.RawMessage, tone string) (string, error) {
	return p.generate(ctx, domain.KindCoverLetter, ai.PromptCoverLetter(jdExtract, resumeParse, tone))
}

func (p *Provider) SuggestProjects(ctx context.Context, jdExtract, resumeParse json.RawMessage) (string, error) {
	pr := ai.PromptSuggestProjects(jdExtract, resumeParse)
	out, err := p.client.GenerateText(ctx, pr.System, pr.User)
	if err != nil {
		return "", &apperrors.GenerationError{Kind: "project_suggestions", Err: err}
	}
	return out, nil
}

func (p *Provider) GenerateRoadmap(ctx context.Context, jdExtract, resumeParse json.RawMessage, timelineWeeks int) (string, error) {
	return p.generate(ctx, domain.KindRoadmap, ai.PromptRoadmap(jdExtract, resumeParse, timelineWeeks))
}

func (p *Provider) GenerateInterviewQuestion(ctx context.Context, jdExtract json.RawMessage, mode string, previousQuestions []string) (string, error) {
	return p.generate(ctx, domain.KindInterviewQuestion, ai.PromptInterviewQuestion(jdExtract, mode, previousQuestions))
}

func (p *Provider) ScoreStarResponse(ctx context.Context, question, response string, jdExtract json.RawMessage) (string, error) {
	return p.generate(ctx, domain.KindStarScore, ai.PromptStarScore(question, response, jdExtract))
}

func (p *Provider) GenerateCodingProblem(ctx context.Context, jdExtract json.RawMessage, difficulty string) (string, error) {
	return p.generate(ctx, domain.KindCodingProblem, ai.PromptCodingProblem(jdExtract, difficulty))
}

func (p *Provider) ReviewCode(ctx context.Context, problem json.RawMessage, code string, testResults json.RawMessage) (string, error) {
	return p.generate(ctx, domain.KindCodeReview, ai.PromptCodeReview(problem, code, testResults))
}
