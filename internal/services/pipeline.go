package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/artifact"
	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

const (
	defaultRoadmapWeeks      = 4
	interviewPackSize        = 5
	interviewPackDefaultMode = "behavioural"
)

// PipelineService is the orchestrator: Ensure returns a ready artifact for
// the job, computing only what is missing. Dependencies are resolved
// recursively in strict order; cached non-empty artifacts short-circuit
// without a provider call.
type PipelineService interface {
	Ensure(ctx context.Context, jobID uuid.UUID, kind string) (json.RawMessage, error)
	// RegenerateRoadmap always recomputes, honoring the requested timeline.
	RegenerateRoadmap(ctx context.Context, jobID uuid.UUID, timelineWeeks int) (json.RawMessage, error)
	// RegenerateInterviewPack always recomputes the full pack.
	RegenerateInterviewPack(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error)
}

type pipelineService struct {
	db        *gorm.DB
	log       *logger.Logger
	jobs      repos.JobRepo
	analysis  repos.AnalysisRepo
	assets    repos.AssetsRepo
	resumeSvc ResumeService
	provider  ai.Provider
}

func NewPipelineService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobs repos.JobRepo,
	analysis repos.AnalysisRepo,
	assets repos.AssetsRepo,
	resumeSvc ResumeService,
	provider ai.Provider,
) PipelineService {
	return &pipelineService{
		db:        db,
		log:       baseLog.With("service", "PipelineService"),
		jobs:      jobs,
		analysis:  analysis,
		assets:    assets,
		resumeSvc: resumeSvc,
		provider:  provider,
	}
}

func (s *pipelineService) Ensure(ctx context.Context, jobID uuid.UUID, kind string) (json.RawMessage, error) {
	switch kind {
	case domain.KindJDExtract:
		return s.ensureJDExtract(ctx, jobID)
	case domain.KindResumeParse:
		return s.ensureResumeParse(ctx, jobID)
	case domain.KindEvidenceMap:
		return s.ensureEvidenceMap(ctx, jobID)
	case domain.KindScore:
		return s.ensureScore(ctx, jobID)
	case domain.KindRewritePlan:
		return s.ensureRewritePlan(ctx, jobID)
	case domain.KindRoadmap:
		return s.ensureRoadmap(ctx, jobID)
	case domain.KindInterviewPack:
		return s.ensureInterviewPack(ctx, jobID)
	default:
		return nil, fmt.Errorf("%w: unknown artifact kind %q", apperrors.ErrInvalidArgument, kind)
	}
}

func (s *pipelineService) ensureJDExtract(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	if a, err := s.analysis.Get(ctx, nil, jobID); err == nil && len(a.JDExtractJSON) > 0 {
		return json.RawMessage(a.JDExtractJSON), nil
	}

	job, err := s.jobs.GetByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(job.JDText) == "" {
		return nil, &apperrors.MissingPreconditionError{Field: "job.jd_text"}
	}

	raw, err := s.provider.ExtractJD(ctx, job.JDText)
	if err != nil {
		return nil, err
	}
	decoded, err := artifact.Decode(domain.KindJDExtract, raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.analysis.Merge(context.WithoutCancel(ctx), jobID, repos.AnalysisPatch{JDExtract: datatypes.JSON(decoded)}); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (s *pipelineService) ensureResumeParse(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	job, err := s.jobs.GetByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	source, err := s.resumeSvc.ForJob(ctx, job)
	if err != nil {
		return nil, &apperrors.MissingPreconditionError{Field: "resume.raw_text"}
	}
	return s.resumeSvc.Normalize(ctx, source)
}

// currentResumeHash returns the hash of the job's stored structured resume
// without triggering a reparse. Empty when no usable parse exists yet.
func (s *pipelineService) currentResumeHash(ctx context.Context, jobID uuid.UUID) string {
	job, err := s.jobs.GetByID(ctx, nil, jobID)
	if err != nil {
		return ""
	}
	source, err := s.resumeSvc.ForJob(ctx, job)
	if err != nil {
		return ""
	}
	parsed, ok := usableParse(source.ParsedJSON)
	if !ok {
		return ""
	}
	return artifact.HashResume(parsed)
}

// cachedWithFreshHash returns the stored artifact when it is non-empty and
// its resume hash still matches the current resume snapshot. An artifact
// computed before hashes were recorded is accepted as-is.
func (s *pipelineService) cachedWithFreshHash(ctx context.Context, jobID uuid.UUID, stored datatypes.JSON) (json.RawMessage, bool) {
	if len(stored) == 0 {
		return nil, false
	}
	var probe struct {
		ResumeHash string `json:"resume_hash"`
	}
	if err := json.Unmarshal(stored, &probe); err != nil {
		return nil, false
	}
	if probe.ResumeHash == "" {
		return json.RawMessage(stored), true
	}
	if current := s.currentResumeHash(ctx, jobID); current != "" && current != probe.ResumeHash {
		s.log.Info("Artifact is stale against the current resume; recomputing", "job_id", jobID)
		return nil, false
	}
	return json.RawMessage(stored), true
}

func (s *pipelineService) ensureEvidenceMap(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	if a, err := s.analysis.Get(ctx, nil, jobID); err == nil {
		if cached, ok := s.cachedWithFreshHash(ctx, jobID, a.EvidenceMapJSON); ok {
			return cached, nil
		}
	}

	jd, err := s.ensureJDExtract(ctx, jobID)
	if err != nil {
		return nil, err
	}
	parse, err := s.ensureResumeParse(ctx, jobID)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.BuildEvidenceMap(ctx, jd, parse)
	if err != nil {
		return nil, err
	}
	decoded := s.decodeSoft(domain.KindEvidenceMap, raw, jobID)

	var em domain.EvidenceMap
	if err := json.Unmarshal(decoded, &em); err != nil {
		return nil, err
	}
	var parseStruct domain.ResumeParse
	if err := json.Unmarshal(parse, &parseStruct); err != nil {
		return nil, err
	}
	em = artifact.ValidateEvidence(em, parseStruct)
	em.ResumeHash = artifact.HashResume(parse)
	final, err := json.Marshal(em)
	if err != nil {
		return nil, err
	}

	if _, err := s.analysis.Merge(context.WithoutCancel(ctx), jobID, repos.AnalysisPatch{EvidenceMap: datatypes.JSON(final)}); err != nil {
		return nil, err
	}
	return final, nil
}

func (s *pipelineService) ensureScore(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	if a, err := s.analysis.Get(ctx, nil, jobID); err == nil {
		if cached, ok := s.cachedWithFreshHash(ctx, jobID, a.ScoreBreakdownJSON); ok {
			return cached, nil
		}
	}

	jd, err := s.ensureJDExtract(ctx, jobID)
	if err != nil {
		return nil, err
	}
	parse, err := s.ensureResumeParse(ctx, jobID)
	if err != nil {
		return nil, err
	}
	evidence, err := s.ensureEvidenceMap(ctx, jobID)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.ComputeScoreBreakdown(ctx, jd, parse, evidence)
	if err != nil {
		return nil, err
	}
	decoded := s.decodeSoft(domain.KindScore, raw, jobID)

	var score domain.ScoreBreakdown
	if err := json.Unmarshal(decoded, &score); err != nil {
		return nil, err
	}
	score.ResumeHash = artifact.HashResume(parse)
	final, err := json.Marshal(score)
	if err != nil {
		return nil, err
	}

	if _, err := s.analysis.Merge(context.WithoutCancel(ctx), jobID, repos.AnalysisPatch{ScoreBreakdown: datatypes.JSON(final)}); err != nil {
		return nil, err
	}
	return final, nil
}

func (s *pipelineService) ensureRewritePlan(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	if a, err := s.analysis.Get(ctx, nil, jobID); err == nil && len(a.RewritePlanJSON) > 0 {
		return json.RawMessage(a.RewritePlanJSON), nil
	}

	score, err := s.ensureScore(ctx, jobID)
	if err != nil {
		return nil, err
	}
	evidence, err := s.ensureEvidenceMap(ctx, jobID)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.CreateRewritePlan(ctx, score, evidence)
	if err != nil {
		return nil, err
	}
	decoded := s.decodeSoft(domain.KindRewritePlan, raw, jobID)

	if _, err := s.analysis.Merge(context.WithoutCancel(ctx), jobID, repos.AnalysisPatch{RewritePlan: datatypes.JSON(decoded)}); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (s *pipelineService) ensureRoadmap(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	if a, err := s.assets.Get(ctx, nil, jobID); err == nil && len(a.RoadmapJSON) > 0 {
		return json.RawMessage(a.RoadmapJSON), nil
	}
	return s.RegenerateRoadmap(ctx, jobID, defaultRoadmapWeeks)
}

func (s *pipelineService) RegenerateRoadmap(ctx context.Context, jobID uuid.UUID, timelineWeeks int) (json.RawMessage, error) {
	if timelineWeeks <= 0 {
		timelineWeeks = defaultRoadmapWeeks
	}

	jd, err := s.ensureJDExtract(ctx, jobID)
	if err != nil {
		return nil, err
	}
	parse, err := s.ensureResumeParse(ctx, jobID)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.GenerateRoadmap(ctx, jd, parse, timelineWeeks)
	if err != nil {
		return nil, err
	}
	decoded := s.decodeSoft(domain.KindRoadmap, raw, jobID)

	if _, err := s.assets.Merge(context.WithoutCancel(ctx), jobID, repos.AssetsPatch{Roadmap: datatypes.JSON(decoded)}); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (s *pipelineService) ensureInterviewPack(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	if a, err := s.assets.Get(ctx, nil, jobID); err == nil && len(a.InterviewPackJSON) > 0 {
		return json.RawMessage(a.InterviewPackJSON), nil
	}
	return s.RegenerateInterviewPack(ctx, jobID)
}

func (s *pipelineService) RegenerateInterviewPack(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	jd, err := s.ensureJDExtract(ctx, jobID)
	if err != nil {
		return nil, err
	}

	pack := domain.InterviewPack{GeneratedAt: time.Now().UTC()}
	var history []string
	for i := 0; i < interviewPackSize; i++ {
		raw, err := s.provider.GenerateInterviewQuestion(ctx, jd, interviewPackDefaultMode, history)
		if err != nil {
			if len(pack.Questions) == 0 {
				return nil, err
			}
			s.log.Warn("Interview pack truncated by generation failure",
				"job_id", jobID, "questions", len(pack.Questions), "error", err.Error())
			break
		}
		decoded, err := artifact.Decode(domain.KindInterviewQuestion, raw)
		if err != nil {
			s.log.Warn("Skipping malformed interview question", "job_id", jobID, "error", err.Error())
			continue
		}
		var q domain.InterviewQuestion
		if err := json.Unmarshal(decoded, &q); err != nil {
			continue
		}
		pack.Questions = append(pack.Questions, q)
		history = append(history, q.Question)
	}

	final, err := json.Marshal(pack)
	if err != nil {
		return nil, err
	}
	if _, err := s.assets.Merge(context.WithoutCancel(ctx), jobID, repos.AssetsPatch{InterviewPack: datatypes.JSON(final)}); err != nil {
		return nil, err
	}
	return final, nil
}

// decodeSoft salvages provider output for a soft kind, falling back to the
// kind's empty default on malformed output. Hard kinds never pass through
// here.
func (s *pipelineService) decodeSoft(kind, raw string, jobID uuid.UUID) json.RawMessage {
	decoded, err := artifact.Decode(kind, raw)
	if err == nil {
		return decoded
	}
	s.log.Warn("Provider output unsalvageable; persisting empty default",
		"kind", kind, "job_id", jobID, "error", err.Error())
	def, ok := artifact.Default(kind)
	if !ok {
		// Kinds without a default are dispatched through hard paths.
		return json.RawMessage(`{}`)
	}
	return def
}
