package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

const defaultModel = "gemini-2.5-flash"

// Provider implements ai.Provider on top of the Google GenAI SDK. Gemini has
// no schema-constrained output mode wired here; the artifact decoder's fence
// stripping and salvage handle its output shape.
type Provider struct {
	client    *genai.Client
	modelName string
	log       *logger.Logger
}

func NewProvider(ctx context.Context, baseLog *logger.Logger) (*Provider, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = defaultModel
	}

	return &Provider{
		client:    client,
		modelName: model,
		log:       baseLog.With("service", "GeminiProvider"),
	}, nil
}

func (p *Provider) generate(ctx context.Context, kind string, pr ai.Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: pr.System}},
		},
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.modelName, genai.Text(pr.User), cfg)
	if err != nil {
		return "", &apperrors.GenerationError{Kind: kind, Err: err}
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	out := strings.TrimSpace(builder.String())
	if out == "" {
		return "", &apperrors.GenerationError{Kind: kind, Err: errors.New("gemini api returned empty response")}
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
	return p.generate(ctx, "rewrite_bullet", ai.PromptRewriteBullet(bullet, constraints, bulletContext))
}

func (p *Provider) OptimizeResumeParse(ctx context.Context, jdExtract, resumeParse, scoreBreakdown, evidenceMap json.RawMessage) (string, error) {
	return p.generate(ctx, domain.KindResumeParse, ai.PromptOptimizeResume(jdExtract, resumeParse, scoreBreakdown, evidenceMap))
}

func (p *Provider) GenerateCoverLetter(ctx context.Context, jdExtract, resumeParse json.RawMessage, tone string) (string, error) {
	return p.generate(ctx, domain.KindCoverLetter, ai.PromptCoverLetter(jdExtract, resumeParse, tone))
}

func (p *Provider) SuggestProjects(ctx context.Context, jdExtract, resumeParse json.RawMessage) (string, error) {
	return p.generate(ctx, "project_suggestions", ai.PromptSuggestProjects(jdExtract, resumeParse))
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
