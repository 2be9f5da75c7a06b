package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
	"github.com/offerpath/offerpath-backend/internal/utils"
)

const demoJobTitle = "Software Engineer Intern [Demo]"

const demoJDText = `TechCorp is hiring a Software Engineer Intern to join our platform team
for the summer. You will build internal tools and backend services in Go
and Python, ship features behind code review, and learn how production
systems are operated.

Must haves:
- Solid grasp of data structures and algorithms
- Experience with Python or Go from coursework or personal projects
- Familiarity with Git and basic SQL
- Clear written communication

Nice to haves:
- Exposure to Docker or a cloud platform (AWS, GCP)
- A personal project with real users
- Experience with REST APIs`

const demoResumeText = `Jordan Lee
jordan.lee@example.com | (555) 201-7788 | Austin, TX

EDUCATION
University of Texas at Austin — B.S. Computer Science, expected 2027
GPA 3.7. Coursework: Data Structures, Operating Systems, Databases.

PROJECTS
CampusEats — meal sharing web app
- Built the Flask backend with SQLite and a REST API used by the React frontend
- Deployed to a DigitalOcean droplet with nginx, served 120 weekly users

Tidy — command line todo manager in Go
- Designed a plain text storage format and wrote table driven tests

EXPERIENCE
UT Computer Science Department — Undergraduate TA, 2025 to present
- Led weekly discussion sections of 30 students for the intro programming course
- Graded assignments and held office hours

SKILLS
Python, Go, JavaScript, SQL, Git, Flask, Linux`

// DemoService seeds a self-contained sample job and resume so the app can
// be exercised end to end without uploading anything. Seeding is
// idempotent: repeated loads reuse the existing demo job.
type DemoService interface {
	Seed(ctx context.Context) (*domain.Job, error)
	Reset(ctx context.Context) error
}

type demoService struct {
	db      *gorm.DB
	log     *logger.Logger
	jobs    repos.JobRepo
	resumes repos.ResumeSourceRepo
}

func NewDemoService(db *gorm.DB, baseLog *logger.Logger, jobs repos.JobRepo, resumes repos.ResumeSourceRepo) DemoService {
	return &demoService{
		db:      db,
		log:     baseLog.With("service", "DemoService"),
		jobs:    jobs,
		resumes: resumes,
	}
}

func (s *demoService) Seed(ctx context.Context) (*domain.Job, error) {
	jdText := s.loadOverride("demo_jd.txt", demoJDText)
	resumeText := s.loadOverride("demo_resume.txt", demoResumeText)

	jobs, err := s.jobs.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	var demoJobs []*domain.Job
	for _, job := range jobs {
		if IsDemoJob(job) {
			demoJobs = append(demoJobs, job)
		}
	}

	// Stray duplicates from interrupted seeds are cleaned up, keeping the
	// first-created so cached artifacts survive.
	var job *domain.Job
	if len(demoJobs) > 0 {
		job = demoJobs[0]
		for _, candidate := range demoJobs[1:] {
			if candidate.CreatedAt.Before(job.CreatedAt) {
				job = candidate
			}
		}
		for _, dup := range demoJobs {
			if dup.ID == job.ID {
				continue
			}
			if err := s.jobs.Delete(ctx, dup.ID); err != nil {
				return nil, err
			}
			s.log.Warn("Removed duplicate demo job", "job_id", dup.ID)
		}
	} else {
		tags, err := json.Marshal([]string{"demo"})
		if err != nil {
			return nil, err
		}
		job, err = s.jobs.Create(ctx, nil, &domain.Job{
			Title:   demoJobTitle,
			Company: "TechCorp",
			JDText:  jdText,
			Tags:    datatypes.JSON(tags),
		})
		if err != nil {
			return nil, err
		}
		s.log.Info("Seeded demo job", "job_id", job.ID)
	}

	// The demo resume is stored raw under its sentinel key; parsing happens
	// lazily on first use like any other resume.
	if _, err := s.resumes.UpsertByKey(ctx, domain.DemoResumeKey, resumeText, nil); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *demoService) Reset(ctx context.Context) error {
	jobs, err := s.jobs.List(ctx, nil)
	if err != nil {
		return err
	}
	removed := 0
	for _, job := range jobs {
		if !IsDemoJob(job) {
			continue
		}
		if err := s.jobs.Delete(ctx, job.ID); err != nil {
			return err
		}
		removed++
	}
	if _, err := s.resumes.DeleteByKey(ctx, domain.DemoResumeKey); err != nil {
		return err
	}
	s.log.Info("Reset demo data", "jobs_removed", removed)
	return nil
}

// loadOverride reads a replacement fixture from DEMO_DIR when set, falling
// back to the embedded text.
func (s *demoService) loadOverride(name, fallback string) string {
	dir := utils.GetEnv("DEMO_DIR", "", s.log)
	if dir == "" {
		return fallback
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil || strings.TrimSpace(string(data)) == "" {
		s.log.Warn("Demo fixture unavailable; using embedded text", "file", name)
		return fallback
	}
	return string(data)
}
