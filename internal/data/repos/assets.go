package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// Version ledger kinds accepted by AppendVersion.
const (
	LedgerResumeVersions = "resume_versions"
	LedgerCoverLetters   = "cover_letter_versions"
)

// AssetsPatch carries the single-value asset fields of a merge write.
// Ledger columns are only ever written through AppendVersion.
type AssetsPatch struct {
	Roadmap       datatypes.JSON
	InterviewPack datatypes.JSON
}

type AssetsRepo interface {
	Get(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (*domain.JobAssets, error)
	// Merge writes only the provided fields, creating the row lazily.
	Merge(ctx context.Context, jobID uuid.UUID, patch AssetsPatch) (*domain.JobAssets, error)
	// AppendVersion appends one immutable entry to the named ledger. The
	// ledger only ever grows; past entries are never rewritten.
	AppendVersion(ctx context.Context, jobID uuid.UUID, ledger string, variant interface{}) (*domain.JobAssets, error)
}

type assetsRepo struct {
	db    *gorm.DB
	log   *logger.Logger
	locks *JobLocks
}

func NewAssetsRepo(db *gorm.DB, baseLog *logger.Logger, locks *JobLocks) AssetsRepo {
	return &assetsRepo{db: db, log: baseLog.With("repo", "AssetsRepo"), locks: locks}
}

func (r *assetsRepo) Get(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (*domain.JobAssets, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out domain.JobAssets
	if err := t.WithContext(ctx).Where("job_id = ?", jobID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *assetsRepo) Merge(ctx context.Context, jobID uuid.UUID, patch AssetsPatch) (*domain.JobAssets, error) {
	if patch.Roadmap == nil && patch.InterviewPack == nil {
		return nil, apperrors.ErrInvalidArgument
	}
	unlock := r.locks.Acquire(jobID)
	defer unlock()

	var out *domain.JobAssets
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.Get(ctx, tx, jobID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		now := time.Now().UTC()
		if existing == nil {
			row := &domain.JobAssets{
				ID:                uuid.New(),
				JobID:             jobID,
				RoadmapJSON:       patch.Roadmap,
				InterviewPackJSON: patch.InterviewPack,
				UpdatedAt:         now,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			out = row
			return nil
		}
		updates := map[string]interface{}{"updated_at": now}
		if patch.Roadmap != nil {
			updates["roadmap_json"] = patch.Roadmap
		}
		if patch.InterviewPack != nil {
			updates["interview_pack_json"] = patch.InterviewPack
		}
		if err := tx.Model(&domain.JobAssets{}).Where("job_id = ?", jobID).Updates(updates).Error; err != nil {
			return err
		}
		out, err = r.Get(ctx, tx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetsRepo) AppendVersion(ctx context.Context, jobID uuid.UUID, ledger string, variant interface{}) (*domain.JobAssets, error) {
	var column string
	switch ledger {
	case LedgerResumeVersions:
		column = "resume_versions_json"
	case LedgerCoverLetters:
		column = "cover_letter_versions_json"
	default:
		return nil, fmt.Errorf("%w: unknown ledger %q", apperrors.ErrInvalidArgument, ledger)
	}

	unlock := r.locks.Acquire(jobID)
	defer unlock()

	var out *domain.JobAssets
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.Get(ctx, tx, jobID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		var current datatypes.JSON
		if existing != nil {
			if ledger == LedgerResumeVersions {
				current = existing.ResumeVersionsJSON
			} else {
				current = existing.CoverLetterVersionsJSON
			}
		}
		var entries []json.RawMessage
		if len(current) > 0 {
			if err := json.Unmarshal(current, &entries); err != nil {
				return fmt.Errorf("decode %s ledger: %w", ledger, err)
			}
		}
		entry, err := json.Marshal(variant)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		grown, err := json.Marshal(entries)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if existing == nil {
			row := &domain.JobAssets{ID: uuid.New(), JobID: jobID, UpdatedAt: now}
			if ledger == LedgerResumeVersions {
				row.ResumeVersionsJSON = grown
			} else {
				row.CoverLetterVersionsJSON = grown
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			out = row
			return nil
		}
		updates := map[string]interface{}{column: datatypes.JSON(grown), "updated_at": now}
		if err := tx.Model(&domain.JobAssets{}).Where("job_id = ?", jobID).Updates(updates).Error; err != nil {
			return err
		}
		out, err = r.Get(ctx, tx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
