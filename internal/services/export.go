package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

const exportFetchConcurrency = 8

// ExportService renders the job tracker as an XLSX workbook: one row per
// job with its latest score and keyword gaps alongside the tracking fields.
type ExportService interface {
	JobTrackerXLSX(ctx context.Context) ([]byte, error)
	// JobArtifacts bundles everything derived for one job into a single
	// JSON document.
	JobArtifacts(ctx context.Context, jobID uuid.UUID) (*ArtifactBundle, error)
}

// ArtifactBundle is the exportable snapshot of a job and its derived data.
type ArtifactBundle struct {
	Job            *domain.Job     `json:"job"`
	JDExtract      json.RawMessage `json:"jd_extract,omitempty"`
	EvidenceMap    json.RawMessage `json:"evidence_map,omitempty"`
	ScoreBreakdown json.RawMessage `json:"score_breakdown,omitempty"`
	RewritePlan    json.RawMessage `json:"rewrite_plan,omitempty"`
	ResumeVersions json.RawMessage `json:"resume_versions,omitempty"`
	CoverLetters   json.RawMessage `json:"cover_letters,omitempty"`
	Roadmap        json.RawMessage `json:"roadmap,omitempty"`
	InterviewPack  json.RawMessage `json:"interview_pack,omitempty"`
}

type exportService struct {
	db       *gorm.DB
	log      *logger.Logger
	jobs     repos.JobRepo
	analysis repos.AnalysisRepo
	assets   repos.AssetsRepo
}

func NewExportService(db *gorm.DB, baseLog *logger.Logger, jobs repos.JobRepo, analysis repos.AnalysisRepo, assets repos.AssetsRepo) ExportService {
	return &exportService{
		db:       db,
		log:      baseLog.With("service", "ExportService"),
		jobs:     jobs,
		analysis: analysis,
		assets:   assets,
	}
}

func (s *exportService) JobArtifacts(ctx context.Context, jobID uuid.UUID) (*ArtifactBundle, error) {
	job, err := s.jobs.GetByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	bundle := &ArtifactBundle{Job: job}
	if a, err := s.analysis.Get(ctx, nil, jobID); err == nil {
		bundle.JDExtract = json.RawMessage(a.JDExtractJSON)
		bundle.EvidenceMap = json.RawMessage(a.EvidenceMapJSON)
		bundle.ScoreBreakdown = json.RawMessage(a.ScoreBreakdownJSON)
		bundle.RewritePlan = json.RawMessage(a.RewritePlanJSON)
	}
	if a, err := s.assets.Get(ctx, nil, jobID); err == nil {
		bundle.ResumeVersions = json.RawMessage(a.ResumeVersionsJSON)
		bundle.CoverLetters = json.RawMessage(a.CoverLetterVersionsJSON)
		bundle.Roadmap = json.RawMessage(a.RoadmapJSON)
		bundle.InterviewPack = json.RawMessage(a.InterviewPackJSON)
	}
	return bundle, nil
}

type trackerRow struct {
	job     *domain.Job
	score   string
	missing string
}

func (s *exportService) JobTrackerXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	jobs, err := s.jobs.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	rows := make([]trackerRow, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportFetchConcurrency)
	var mu sync.Mutex
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			row := trackerRow{job: job}
			if a, err := s.analysis.Get(gctx, nil, job.ID); err == nil {
				if len(a.ScoreBreakdownJSON) > 0 {
					var score domain.ScoreBreakdown
					if json.Unmarshal(a.ScoreBreakdownJSON, &score) == nil {
						row.score = fmt.Sprintf("%d", score.FinalScore)
					}
				}
				if len(a.EvidenceMapJSON) > 0 {
					var em domain.EvidenceMap
					if json.Unmarshal(a.EvidenceMapJSON, &em) == nil {
						row.missing = strings.Join(em.Missing, ", ")
					}
				}
			}
			mu.Lock()
			rows[i] = row
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Jobs"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Title",
		"Company",
		"Status",
		"Score",
		"Missing Keywords",
		"Link",
		"Tags",
		"Created",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for n, row := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, n+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, row.job.Title)
		write(2, row.job.Company)
		write(3, row.job.Status)
		write(4, row.score)
		write(5, row.missing)
		write(6, row.job.Link)
		write(7, tagList(row.job))
		write(8, row.job.CreatedAt.Format("2006-01-02"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "C", "D", 12)
	_ = f.SetColWidth(sheet, "E", "E", 48)
	_ = f.SetColWidth(sheet, "F", "F", 40)
	_ = f.SetColWidth(sheet, "G", "G", 24)
	_ = f.SetColWidth(sheet, "H", "H", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.log.Info("Exported job tracker",
		"jobs", len(jobs),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func tagList(job *domain.Job) string {
	if len(job.Tags) == 0 {
		return ""
	}
	var tags []string
	if err := json.Unmarshal(job.Tags, &tags); err != nil {
		return ""
	}
	return strings.Join(tags, ", ")
}

