package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/artifact"
	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// ResumeService owns resume ingestion and the normalizer: any caller that
// needs a structured parse goes through Normalize, which repairs a missing
// or corrupt parse in place when raw text is available.
type ResumeService interface {
	Upload(ctx context.Context, filePath, rawText string) (*domain.ResumeSource, error)
	Paste(ctx context.Context, rawText string) (*domain.ResumeSource, error)
	Latest(ctx context.Context) (*domain.ResumeSource, error)
	Demo(ctx context.Context) (*domain.ResumeSource, error)
	// ForJob picks the demo resume for demo jobs and the latest upload
	// otherwise.
	ForJob(ctx context.Context, job *domain.Job) (*domain.ResumeSource, error)
	// Normalize returns the structured parse for the source, parsing from
	// raw text and persisting onto the same row when the stored parse is
	// absent, empty or corrupt.
	Normalize(ctx context.Context, source *domain.ResumeSource) (json.RawMessage, error)
}

type resumeService struct {
	db       *gorm.DB
	log      *logger.Logger
	resumes  repos.ResumeSourceRepo
	provider ai.Provider
}

func NewResumeService(db *gorm.DB, baseLog *logger.Logger, resumes repos.ResumeSourceRepo, provider ai.Provider) ResumeService {
	return &resumeService{
		db:       db,
		log:      baseLog.With("service", "ResumeService"),
		resumes:  resumes,
		provider: provider,
	}
}

func (s *resumeService) Upload(ctx context.Context, filePath, rawText string) (*domain.ResumeSource, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, apperrors.ErrNoResumeContent
	}

	raw, err := s.provider.ParseResume(ctx, rawText)
	if err != nil {
		return nil, err
	}
	parsed, err := artifact.Decode(domain.KindResumeParse, raw)
	if err != nil {
		return nil, err
	}

	row := &domain.ResumeSource{
		FilePath:   filePath,
		RawText:    rawText,
		ParsedJSON: datatypes.JSON(parsed),
	}
	return s.resumes.Save(ctx, nil, row)
}

func (s *resumeService) Paste(ctx context.Context, rawText string) (*domain.ResumeSource, error) {
	return s.Upload(ctx, "", rawText)
}

func (s *resumeService) Latest(ctx context.Context) (*domain.ResumeSource, error) {
	return s.resumes.GetLatest(ctx, nil)
}

func (s *resumeService) Demo(ctx context.Context) (*domain.ResumeSource, error) {
	return s.resumes.GetByKey(ctx, nil, domain.DemoResumeKey)
}

func (s *resumeService) ForJob(ctx context.Context, job *domain.Job) (*domain.ResumeSource, error) {
	if IsDemoJob(job) {
		if src, err := s.resumes.GetByKey(ctx, nil, domain.DemoResumeKey); err == nil {
			return src, nil
		}
	}
	return s.resumes.GetLatest(ctx, nil)
}

func (s *resumeService) Normalize(ctx context.Context, source *domain.ResumeSource) (json.RawMessage, error) {
	if source == nil {
		return nil, apperrors.ErrNoResumeContent
	}

	if parsed, ok := usableParse(source.ParsedJSON); ok {
		return parsed, nil
	}

	if strings.TrimSpace(source.RawText) == "" {
		return nil, &apperrors.MissingPreconditionError{Field: "resume.raw_text"}
	}

	s.log.Info("Reparsing resume", "resume_id", source.ID, "file_path", source.FilePath)
	raw, err := s.provider.ParseResume(ctx, source.RawText)
	if err != nil {
		return nil, err
	}
	parsed, err := artifact.Decode(domain.KindResumeParse, raw)
	if err != nil {
		return nil, err
	}

	// Persist onto the same row: an in-flight parse is valid and reusable
	// even when the caller has already gone away.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.resumes.SetParsed(persistCtx, nil, source.ID, datatypes.JSON(parsed)); err != nil {
		return nil, err
	}
	source.ParsedJSON = datatypes.JSON(parsed)
	return parsed, nil
}

// usableParse reports whether stored parse bytes decode to a non-empty
// structured resume. Corrupt or all-empty JSON counts as absent so a prior
// failed write never blocks repair.
func usableParse(raw datatypes.JSON) (json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var parse domain.ResumeParse
	if err := json.Unmarshal(raw, &parse); err != nil {
		return nil, false
	}
	if parse.IsEmpty() {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// IsDemoJob reports whether the job belongs to the seeded demo data, by tag
// or by title marker.
func IsDemoJob(job *domain.Job) bool {
	if job == nil {
		return false
	}
	if strings.Contains(job.Title, "[Demo]") {
		return true
	}
	if len(job.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(job.Tags, &tags); err == nil {
			for _, t := range tags {
				if strings.EqualFold(t, "demo") {
					return true
				}
			}
		}
	}
	return false
}
