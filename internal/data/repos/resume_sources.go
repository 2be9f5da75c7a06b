package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

type ResumeSourceRepo interface {
	Save(ctx context.Context, tx *gorm.DB, row *domain.ResumeSource) (*domain.ResumeSource, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ResumeSource, error)
	// GetLatest returns the newest resume source by creation time.
	GetLatest(ctx context.Context, tx *gorm.DB) (*domain.ResumeSource, error)
	// GetByKey returns the newest source with the given file_path. Used for
	// the sticky demo resume sentinel.
	GetByKey(ctx context.Context, tx *gorm.DB, filePath string) (*domain.ResumeSource, error)
	// UpsertByKey updates the row matching filePath in place, or inserts one.
	// Raw text is only overwritten when non-empty.
	UpsertByKey(ctx context.Context, filePath, rawText string, parsed datatypes.JSON) (*domain.ResumeSource, error)
	// SetParsed persists a structured parse back onto the same record.
	SetParsed(ctx context.Context, tx *gorm.DB, id uuid.UUID, parsed datatypes.JSON) error
	DeleteByKey(ctx context.Context, filePath string) (int64, error)
}

type resumeSourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResumeSourceRepo(db *gorm.DB, baseLog *logger.Logger) ResumeSourceRepo {
	return &resumeSourceRepo{db: db, log: baseLog.With("repo", "ResumeSourceRepo")}
}

func (r *resumeSourceRepo) Save(ctx context.Context, tx *gorm.DB, row *domain.ResumeSource) (*domain.ResumeSource, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = time.Now().UTC()
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *resumeSourceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ResumeSource, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out domain.ResumeSource
	if err := t.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *resumeSourceRepo) GetLatest(ctx context.Context, tx *gorm.DB) (*domain.ResumeSource, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out domain.ResumeSource
	if err := t.WithContext(ctx).Order("created_at DESC").First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *resumeSourceRepo) GetByKey(ctx context.Context, tx *gorm.DB, filePath string) (*domain.ResumeSource, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out domain.ResumeSource
	if err := t.WithContext(ctx).
		Where("file_path = ?", filePath).
		Order("created_at DESC").
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *resumeSourceRepo) UpsertByKey(ctx context.Context, filePath, rawText string, parsed datatypes.JSON) (*domain.ResumeSource, error) {
	var out *domain.ResumeSource
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.GetByKey(ctx, tx, filePath)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			updates := map[string]interface{}{"parsed_json": parsed}
			if rawText != "" {
				updates["raw_text"] = rawText
			}
			if err := tx.Model(&domain.ResumeSource{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return err
			}
			out, err = r.GetByID(ctx, tx, existing.ID)
			return err
		}
		row := &domain.ResumeSource{
			ID:         uuid.New(),
			FilePath:   filePath,
			RawText:    rawText,
			ParsedJSON: parsed,
			CreatedAt:  time.Now().UTC(),
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resumeSourceRepo) SetParsed(ctx context.Context, tx *gorm.DB, id uuid.UUID, parsed datatypes.JSON) error {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Model(&domain.ResumeSource{}).Where("id = ?", id).Update("parsed_json", parsed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *resumeSourceRepo) DeleteByKey(ctx context.Context, filePath string) (int64, error) {
	res := r.db.WithContext(ctx).Where("file_path = ?", filePath).Delete(&domain.ResumeSource{})
	return res.RowsAffected, res.Error
}
