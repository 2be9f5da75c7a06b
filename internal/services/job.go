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

	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// JobInput carries the writable job fields. Pointer fields distinguish
// "leave untouched" from "set to empty" on update.
type JobInput struct {
	Title   *string  `json:"title"`
	Company *string  `json:"company"`
	Link    *string  `json:"link"`
	JDText  *string  `json:"jd_text"`
	Status  *string  `json:"status"`
	Tags    []string `json:"tags"`
}

var jobStatuses = map[string]bool{
	"Saved":        true,
	"Applied":      true,
	"Interviewing": true,
	"Offer":        true,
	"Rejected":     true,
}

type JobService interface {
	Create(ctx context.Context, in JobInput) (*domain.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	List(ctx context.Context) ([]*domain.Job, error)
	Update(ctx context.Context, id uuid.UUID, in JobInput) (*domain.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type jobService struct {
	db   *gorm.DB
	log  *logger.Logger
	jobs repos.JobRepo
}

func NewJobService(db *gorm.DB, baseLog *logger.Logger, jobs repos.JobRepo) JobService {
	return &jobService{db: db, log: baseLog.With("service", "JobService"), jobs: jobs}
}

func (s *jobService) Create(ctx context.Context, in JobInput) (*domain.Job, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: job title is required", apperrors.ErrInvalidArgument)
	}
	row := &domain.Job{Title: strings.TrimSpace(*in.Title)}
	if in.Company != nil {
		row.Company = strings.TrimSpace(*in.Company)
	}
	if in.Link != nil {
		row.Link = strings.TrimSpace(*in.Link)
	}
	if in.JDText != nil {
		row.JDText = *in.JDText
	}
	if in.Status != nil {
		status, err := normalizeStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		row.Status = status
	}
	if in.Tags != nil {
		tags, err := json.Marshal(in.Tags)
		if err != nil {
			return nil, err
		}
		row.Tags = datatypes.JSON(tags)
	}
	return s.jobs.Create(ctx, nil, row)
}

func (s *jobService) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, nil, id)
}

func (s *jobService) List(ctx context.Context) ([]*domain.Job, error) {
	return s.jobs.List(ctx, nil)
}

func (s *jobService) Update(ctx context.Context, id uuid.UUID, in JobInput) (*domain.Job, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: job title cannot be empty", apperrors.ErrInvalidArgument)
		}
		updates["title"] = title
	}
	if in.Company != nil {
		updates["company"] = strings.TrimSpace(*in.Company)
	}
	if in.Link != nil {
		updates["link"] = strings.TrimSpace(*in.Link)
	}
	if in.JDText != nil {
		updates["jd_text"] = *in.JDText
	}
	if in.Status != nil {
		status, err := normalizeStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		updates["status"] = status
	}
	if in.Tags != nil {
		tags, err := json.Marshal(in.Tags)
		if err != nil {
			return nil, err
		}
		updates["tags_json"] = datatypes.JSON(tags)
	}
	if len(updates) == 0 {
		return s.jobs.GetByID(ctx, nil, id)
	}
	updates["updated_at"] = time.Now().UTC()
	if err := s.jobs.UpdateFields(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.jobs.GetByID(ctx, nil, id)
}

func (s *jobService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Deleted job and its derived records", "job_id", id)
	return nil
}

func normalizeStatus(raw string) (string, error) {
	status := strings.TrimSpace(raw)
	for known := range jobStatuses {
		if strings.EqualFold(known, status) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown job status %q", apperrors.ErrInvalidArgument, raw)
}
