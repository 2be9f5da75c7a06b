package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

type PracticeSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, s *domain.PracticeSession) error
	ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]domain.PracticeSession, error)
}

type practiceSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeSessionRepo(db *gorm.DB, baseLog *logger.Logger) PracticeSessionRepo {
	return &practiceSessionRepo{db: db, log: baseLog.With("repo", "PracticeSessionRepo")}
}

func (r *practiceSessionRepo) Create(ctx context.Context, tx *gorm.DB, s *domain.PracticeSession) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return t.WithContext(ctx).Create(s).Error
}

func (r *practiceSessionRepo) ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]domain.PracticeSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []domain.PracticeSession
	if err := t.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type CodingSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, s *domain.CodingSession) error
	ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]domain.CodingSession, error)
}

type codingSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCodingSessionRepo(db *gorm.DB, baseLog *logger.Logger) CodingSessionRepo {
	return &codingSessionRepo{db: db, log: baseLog.With("repo", "CodingSessionRepo")}
}

func (r *codingSessionRepo) Create(ctx context.Context, tx *gorm.DB, s *domain.CodingSession) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return t.WithContext(ctx).Create(s).Error
}

func (r *codingSessionRepo) ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]domain.CodingSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []domain.CodingSession
	if err := t.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
