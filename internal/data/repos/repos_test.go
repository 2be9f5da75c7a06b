package repos_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/data/repos/testutil"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
)

func TestAnalysisMerge_PreservesUntouchedFields(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	locks := repos.NewJobLocks()
	repo := repos.NewAnalysisRepo(gdb, log, locks)
	job := testutil.SeedJob(t, gdb, "We need Go and Postgres experience.")
	ctx := context.Background()

	jd := datatypes.JSON(`{"role_title":"Backend Engineer","seniority":"mid"}`)
	if _, err := repo.Merge(ctx, job.ID, repos.AnalysisPatch{JDExtract: jd}); err != nil {
		t.Fatalf("first merge: %v", err)
	}

	score := datatypes.JSON(`{"final_score":71}`)
	got, err := repo.Merge(ctx, job.ID, repos.AnalysisPatch{ScoreBreakdown: score})
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if string(got.JDExtractJSON) != string(jd) {
		t.Fatalf("jd_extract was clobbered by a later merge: %s", got.JDExtractJSON)
	}
	if string(got.ScoreBreakdownJSON) != string(score) {
		t.Fatalf("score not written: %s", got.ScoreBreakdownJSON)
	}
	if got.EvidenceMapJSON != nil || got.RewritePlanJSON != nil {
		t.Fatalf("untouched fields should stay null")
	}
}

func TestAnalysisMerge_RejectsEmptyPatch(t *testing.T) {
	gdb := testutil.DB(t)
	repo := repos.NewAnalysisRepo(gdb, testutil.Logger(t), repos.NewJobLocks())
	job := testutil.SeedJob(t, gdb, "jd")

	if _, err := repo.Merge(context.Background(), job.ID, repos.AnalysisPatch{}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAssetsAppendVersion_LedgerGrowsInOrder(t *testing.T) {
	gdb := testutil.DB(t)
	repo := repos.NewAssetsRepo(gdb, testutil.Logger(t), repos.NewJobLocks())
	job := testutil.SeedJob(t, gdb, "jd")
	ctx := context.Background()

	first := domain.ResumeVariant{Label: "v1", Source: domain.VariantSourceRuleBased, CreatedAt: time.Now().UTC()}
	second := domain.ResumeVariant{Label: "v2", Source: domain.VariantSourceGenerated, CreatedAt: time.Now().UTC()}

	if _, err := repo.AppendVersion(ctx, job.ID, repos.LedgerResumeVersions, first); err != nil {
		t.Fatalf("append v1: %v", err)
	}
	got, err := repo.AppendVersion(ctx, job.ID, repos.LedgerResumeVersions, second)
	if err != nil {
		t.Fatalf("append v2: %v", err)
	}

	var ledger []domain.ResumeVariant
	if err := json.Unmarshal(got.ResumeVersionsJSON, &ledger); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(ledger))
	}
	if ledger[0].Label != "v1" || ledger[1].Label != "v2" {
		t.Fatalf("ledger out of order: %#v", ledger)
	}
	if got.CoverLetterVersionsJSON != nil {
		t.Fatalf("cover letter ledger should be untouched")
	}
}

func TestAssetsAppendVersion_UnknownLedger(t *testing.T) {
	gdb := testutil.DB(t)
	repo := repos.NewAssetsRepo(gdb, testutil.Logger(t), repos.NewJobLocks())
	job := testutil.SeedJob(t, gdb, "jd")

	if _, err := repo.AppendVersion(context.Background(), job.ID, "nope", domain.ResumeVariant{}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestJobDelete_CascadesDerivedRows(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	locks := repos.NewJobLocks()
	jobsRepo := repos.NewJobRepo(gdb, log)
	analysisRepo := repos.NewAnalysisRepo(gdb, log, locks)
	assetsRepo := repos.NewAssetsRepo(gdb, log, locks)
	practiceRepo := repos.NewPracticeSessionRepo(gdb, log)
	job := testutil.SeedJob(t, gdb, "jd")
	ctx := context.Background()

	if _, err := analysisRepo.Merge(ctx, job.ID, repos.AnalysisPatch{JDExtract: datatypes.JSON(`{}`)}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if _, err := assetsRepo.AppendVersion(ctx, job.ID, repos.LedgerCoverLetters, domain.CoverLetterVariant{Text: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := practiceRepo.Create(ctx, nil, &domain.PracticeSession{JobID: job.ID, Mode: "behavioral"}); err != nil {
		t.Fatalf("practice: %v", err)
	}

	if err := jobsRepo.Delete(ctx, job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := jobsRepo.GetByID(ctx, nil, job.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("job should be gone, got %v", err)
	}
	if _, err := analysisRepo.Get(ctx, nil, job.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("analysis should be gone, got %v", err)
	}
	if _, err := assetsRepo.Get(ctx, nil, job.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("assets should be gone, got %v", err)
	}
	sessions, err := practiceRepo.ListByJob(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("sessions should be gone, got %d", len(sessions))
	}
}

func TestJobDelete_Missing(t *testing.T) {
	gdb := testutil.DB(t)
	jobsRepo := repos.NewJobRepo(gdb, testutil.Logger(t))

	if err := jobsRepo.Delete(context.Background(), uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResumeUpsertByKey_UpdatesInPlace(t *testing.T) {
	gdb := testutil.DB(t)
	repo := repos.NewResumeSourceRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	first, err := repo.UpsertByKey(ctx, domain.DemoResumeKey, "original text", datatypes.JSON(`{"skills":{}}`))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repo.UpsertByKey(ctx, domain.DemoResumeKey, "", datatypes.JSON(`{"skills":{"tools":["go"]}}`))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("upsert created a second row for the same key")
	}
	if second.RawText != "original text" {
		t.Fatalf("empty raw_text should not overwrite existing text, got %q", second.RawText)
	}
	if string(second.ParsedJSON) != `{"skills":{"tools":["go"]}}` {
		t.Fatalf("parsed not updated: %s", second.ParsedJSON)
	}
}

func TestSettingsSet_Overwrites(t *testing.T) {
	gdb := testutil.DB(t)
	repo := repos.NewSettingsRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	if err := repo.Set(ctx, nil, "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, nil, "theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := repo.Get(ctx, nil, "theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "light" {
		t.Fatalf("expected light, got %q", got)
	}
}

func TestProfileGet_CreatesDefaultRow(t *testing.T) {
	gdb := testutil.DB(t)
	repo := repos.NewProfileRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	first, err := repo.Get(ctx, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	updated, err := repo.Update(ctx, nil, map[string]interface{}{"name": "Dana", "email": "dana@example.com"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != first.ID {
		t.Fatalf("update created a new profile row")
	}
	if updated.Name != "Dana" || updated.Email != "dana@example.com" {
		t.Fatalf("fields not applied: %#v", updated)
	}
}
