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

// AnalysisPatch carries the fields of a merge write. Nil fields are left
// untouched; there is no full-replace write path.
type AnalysisPatch struct {
	JDExtract      datatypes.JSON
	EvidenceMap    datatypes.JSON
	ScoreBreakdown datatypes.JSON
	RewritePlan    datatypes.JSON
}

func (p AnalysisPatch) isEmpty() bool {
	return p.JDExtract == nil && p.EvidenceMap == nil && p.ScoreBreakdown == nil && p.RewritePlan == nil
}

type AnalysisRepo interface {
	Get(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (*domain.JobAnalysis, error)
	// Merge writes only the provided fields, creating the row lazily on the
	// first write. Concurrent merges to disjoint fields both survive.
	Merge(ctx context.Context, jobID uuid.UUID, patch AnalysisPatch) (*domain.JobAnalysis, error)
}

type analysisRepo struct {
	db    *gorm.DB
	log   *logger.Logger
	locks *JobLocks
}

func NewAnalysisRepo(db *gorm.DB, baseLog *logger.Logger, locks *JobLocks) AnalysisRepo {
	return &analysisRepo{db: db, log: baseLog.With("repo", "AnalysisRepo"), locks: locks}
}

func (r *analysisRepo) Get(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (*domain.JobAnalysis, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out domain.JobAnalysis
	if err := t.WithContext(ctx).Where("job_id = ?", jobID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *analysisRepo) Merge(ctx context.Context, jobID uuid.UUID, patch AnalysisPatch) (*domain.JobAnalysis, error) {
	if patch.isEmpty() {
		return nil, apperrors.ErrInvalidArgument
	}
	unlock := r.locks.Acquire(jobID)
	defer unlock()

	var out *domain.JobAnalysis
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.Get(ctx, tx, jobID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		now := time.Now().UTC()
		if existing == nil {
			row := &domain.JobAnalysis{
				ID:                 uuid.New(),
				JobID:              jobID,
				JDExtractJSON:      patch.JDExtract,
				EvidenceMapJSON:    patch.EvidenceMap,
				ScoreBreakdownJSON: patch.ScoreBreakdown,
				RewritePlanJSON:    patch.RewritePlan,
				UpdatedAt:          now,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			out = row
			return nil
		}
		updates := map[string]interface{}{"updated_at": now}
		if patch.JDExtract != nil {
			updates["jd_extract_json"] = patch.JDExtract
		}
		if patch.EvidenceMap != nil {
			updates["evidence_map_json"] = patch.EvidenceMap
		}
		if patch.ScoreBreakdown != nil {
			updates["score_breakdown_json"] = patch.ScoreBreakdown
		}
		if patch.RewritePlan != nil {
			updates["rewrite_plan_json"] = patch.RewritePlan
		}
		if err := tx.Model(&domain.JobAnalysis{}).Where("job_id = ?", jobID).Updates(updates).Error; err != nil {
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
