package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/artifact"
	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// OptimizeService produces tailored resume variants and appends them to the
// job's version ledger. A generated variant that invents employers, degrees,
// certifications or metrics is rejected before any write.
type OptimizeService interface {
	GenerateVariant(ctx context.Context, jobID uuid.UUID) (*domain.ResumeVariant, error)
	RuleBasedVariant(ctx context.Context, jobID uuid.UUID) (*domain.ResumeVariant, error)
	// SaveManualVariant records a user-edited resume snapshot. No
	// fabrication check: the user owns their edits.
	SaveManualVariant(ctx context.Context, jobID uuid.UUID, label string, parsed json.RawMessage) (*domain.ResumeVariant, error)
	ListVariants(ctx context.Context, jobID uuid.UUID) ([]domain.ResumeVariant, error)
	RewriteBullet(ctx context.Context, jobID uuid.UUID, bullet string, constraints artifact.BulletConstraints) (string, error)
	SuggestProjects(ctx context.Context, jobID uuid.UUID) (string, error)
}

type optimizeService struct {
	db       *gorm.DB
	log      *logger.Logger
	assets   repos.AssetsRepo
	pipeline PipelineService
	provider ai.Provider
}

func NewOptimizeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assets repos.AssetsRepo,
	pipeline PipelineService,
	provider ai.Provider,
) OptimizeService {
	return &optimizeService{
		db:       db,
		log:      baseLog.With("service", "OptimizeService"),
		assets:   assets,
		pipeline: pipeline,
		provider: provider,
	}
}

func (s *optimizeService) GenerateVariant(ctx context.Context, jobID uuid.UUID) (*domain.ResumeVariant, error) {
	jd, err := s.pipeline.Ensure(ctx, jobID, domain.KindJDExtract)
	if err != nil {
		return nil, err
	}
	parse, err := s.pipeline.Ensure(ctx, jobID, domain.KindResumeParse)
	if err != nil {
		return nil, err
	}
	score, err := s.pipeline.Ensure(ctx, jobID, domain.KindScore)
	if err != nil {
		return nil, err
	}
	evidence, err := s.pipeline.Ensure(ctx, jobID, domain.KindEvidenceMap)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.OptimizeResumeParse(ctx, jd, parse, score, evidence)
	if err != nil {
		return nil, err
	}
	decoded, err := artifact.Decode(domain.KindResumeParse, raw)
	if err != nil {
		return nil, err
	}

	var source, optimized domain.ResumeParse
	if err := json.Unmarshal(parse, &source); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(decoded, &optimized); err != nil {
		return nil, err
	}

	if violations := artifact.DetectFabrications(source, optimized); len(violations) > 0 {
		s.log.Warn("Rejected optimized resume for fabricated content",
			"job_id", jobID, "violations", violations)
		return nil, &apperrors.ContentViolationError{Violations: violations}
	}

	variant := domain.ResumeVariant{
		Label:     variantLabel(jd),
		Source:    domain.VariantSourceGenerated,
		Parsed:    optimized,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.assets.AppendVersion(context.WithoutCancel(ctx), jobID, repos.LedgerResumeVersions, variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (s *optimizeService) RuleBasedVariant(ctx context.Context, jobID uuid.UUID) (*domain.ResumeVariant, error) {
	parse, err := s.pipeline.Ensure(ctx, jobID, domain.KindResumeParse)
	if err != nil {
		return nil, err
	}
	evidence, err := s.pipeline.Ensure(ctx, jobID, domain.KindEvidenceMap)
	if err != nil {
		return nil, err
	}

	var parseStruct domain.ResumeParse
	if err := json.Unmarshal(parse, &parseStruct); err != nil {
		return nil, err
	}
	var em domain.EvidenceMap
	if err := json.Unmarshal(evidence, &em); err != nil {
		return nil, err
	}

	tuned, added := artifact.AddMissingSkills(parseStruct, em.Missing)
	variant := domain.ResumeVariant{
		Label:         "Keyword-tuned",
		Source:        domain.VariantSourceRuleBased,
		Parsed:        tuned,
		KeywordsAdded: added,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.assets.AppendVersion(context.WithoutCancel(ctx), jobID, repos.LedgerResumeVersions, variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (s *optimizeService) SaveManualVariant(ctx context.Context, jobID uuid.UUID, label string, parsed json.RawMessage) (*domain.ResumeVariant, error) {
	var parse domain.ResumeParse
	if err := json.Unmarshal(parsed, &parse); err != nil {
		return nil, fmt.Errorf("%w: parsed resume is not valid JSON", apperrors.ErrInvalidArgument)
	}
	if parse.IsEmpty() {
		return nil, fmt.Errorf("%w: parsed resume is empty", apperrors.ErrInvalidArgument)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = "Manual edit"
	}

	variant := domain.ResumeVariant{
		Label:     label,
		Source:    domain.VariantSourceManual,
		Parsed:    parse,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.assets.AppendVersion(context.WithoutCancel(ctx), jobID, repos.LedgerResumeVersions, variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (s *optimizeService) ListVariants(ctx context.Context, jobID uuid.UUID) ([]domain.ResumeVariant, error) {
	assets, err := s.assets.Get(ctx, nil, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.ResumeVariant{}, nil
		}
		return nil, err
	}
	variants := []domain.ResumeVariant{}
	if len(assets.ResumeVersionsJSON) > 0 {
		if err := json.Unmarshal(assets.ResumeVersionsJSON, &variants); err != nil {
			return nil, fmt.Errorf("corrupt resume version ledger for job %s: %w", jobID, err)
		}
	}
	return variants, nil
}

func (s *optimizeService) RewriteBullet(ctx context.Context, jobID uuid.UUID, bullet string, constraints artifact.BulletConstraints) (string, error) {
	jd, err := s.pipeline.Ensure(ctx, jobID, domain.KindJDExtract)
	if err != nil {
		return "", err
	}
	cb, err := json.Marshal(constraints)
	if err != nil {
		return "", err
	}

	rewritten, err := s.provider.RewriteBullet(ctx, bullet, cb, jd)
	if err != nil {
		return "", err
	}
	rewritten = strings.TrimSpace(artifact.StripFences(rewritten))
	if rewritten == "" {
		return "", &apperrors.MalformedOutputError{Kind: "rewrite_bullet", Reason: "empty rewrite"}
	}
	if violations := artifact.VerifyBulletConstraints(rewritten, constraints); len(violations) > 0 {
		return "", &apperrors.ContentViolationError{Violations: violations}
	}
	return rewritten, nil
}

func (s *optimizeService) SuggestProjects(ctx context.Context, jobID uuid.UUID) (string, error) {
	jd, err := s.pipeline.Ensure(ctx, jobID, domain.KindJDExtract)
	if err != nil {
		return "", err
	}
	parse, err := s.pipeline.Ensure(ctx, jobID, domain.KindResumeParse)
	if err != nil {
		return "", err
	}
	return s.provider.SuggestProjects(ctx, jd, parse)
}

func variantLabel(jdExtract json.RawMessage) string {
	var jd domain.JDExtract
	if err := json.Unmarshal(jdExtract, &jd); err == nil && strings.TrimSpace(jd.RoleTitle) != "" {
		return "Optimized for " + jd.RoleTitle
	}
	return "Optimized"
}
