package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// ProfileRepo manages the single user profile row. Get creates an empty row
// on first access so callers never see a missing profile.
type ProfileRepo interface {
	Get(ctx context.Context, tx *gorm.DB) (*domain.Profile, error)
	Update(ctx context.Context, tx *gorm.DB, fields map[string]interface{}) (*domain.Profile, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) Get(ctx context.Context, tx *gorm.DB) (*domain.Profile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out domain.Profile
	err := t.WithContext(ctx).Order("created_at ASC").First(&out).Error
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	now := time.Now().UTC()
	out = domain.Profile{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	if err := t.WithContext(ctx).Create(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *profileRepo) Update(ctx context.Context, tx *gorm.DB, fields map[string]interface{}) (*domain.Profile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	current, err := r.Get(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = time.Now().UTC()
	if err := t.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", current.ID).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, t)
}
