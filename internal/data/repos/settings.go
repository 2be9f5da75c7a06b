package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

type SettingsRepo interface {
	Get(ctx context.Context, tx *gorm.DB, key string) (string, error)
	Set(ctx context.Context, tx *gorm.DB, key, value string) error
	All(ctx context.Context, tx *gorm.DB) (map[string]string, error)
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{db: db, log: baseLog.With("repo", "SettingsRepo")}
}

func (r *settingsRepo) Get(ctx context.Context, tx *gorm.DB, key string) (string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.AppSetting
	if err := t.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return row.Value, nil
}

func (r *settingsRepo) Set(ctx context.Context, tx *gorm.DB, key, value string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	row := domain.AppSetting{Key: key, Value: value}
	return t.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
}

func (r *settingsRepo) All(ctx context.Context, tx *gorm.DB) (map[string]string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []domain.AppSetting
	if err := t.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}
