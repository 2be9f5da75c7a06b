package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DemoResumeKey is the sticky file_path sentinel for the reusable demo resume.
// The demo resume is upserted in place instead of accumulating rows.
const DemoResumeKey = "__demo_resume__"

// Job is the root entity of the tracker. Deleting a job cascades a hard
// delete of its analysis, assets and session rows.
type Job struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Company   string         `json:"company,omitempty"`
	Link      string         `json:"link,omitempty"`
	JDText    string         `gorm:"column:jd_text" json:"jd_text,omitempty"`
	Status    string         `gorm:"not null;default:Saved" json:"status"`
	Tags      datatypes.JSON `gorm:"column:tags_json" json:"tags,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

// ResumeSource is one uploaded or pasted resume. ParsedJSON is either empty
// or a complete, schema-valid ResumeParse; a corrupt or empty object counts
// as absent so a failed write never blocks later repair.
type ResumeSource struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FilePath   string         `gorm:"column:file_path;index" json:"file_path,omitempty"`
	RawText    string         `gorm:"column:raw_text" json:"raw_text,omitempty"`
	ParsedJSON datatypes.JSON `gorm:"column:parsed_json" json:"parsed,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (ResumeSource) TableName() string { return "resume_sources" }

// JobAnalysis holds the per-job derived analysis artifacts. Every column is
// independently nullable and only ever written through a field-level merge.
type JobAnalysis struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobID              uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"job_id"`
	JDExtractJSON      datatypes.JSON `gorm:"column:jd_extract_json" json:"jd_extract,omitempty"`
	EvidenceMapJSON    datatypes.JSON `gorm:"column:evidence_map_json" json:"evidence_map,omitempty"`
	ScoreBreakdownJSON datatypes.JSON `gorm:"column:score_breakdown_json" json:"score_breakdown,omitempty"`
	RewritePlanJSON    datatypes.JSON `gorm:"column:rewrite_plan_json" json:"rewrite_plan,omitempty"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (JobAnalysis) TableName() string { return "job_analysis" }

// JobAssets holds the per-job versioned artifacts. The two version columns
// are append-only JSON arrays; roadmap and interview pack hold one current
// value each.
type JobAssets struct {
	ID                      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobID                   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"job_id"`
	ResumeVersionsJSON      datatypes.JSON `gorm:"column:resume_versions_json" json:"resume_versions,omitempty"`
	CoverLetterVersionsJSON datatypes.JSON `gorm:"column:cover_letter_versions_json" json:"cover_letter_versions,omitempty"`
	RoadmapJSON             datatypes.JSON `gorm:"column:roadmap_json" json:"roadmap,omitempty"`
	InterviewPackJSON       datatypes.JSON `gorm:"column:interview_pack_json" json:"interview_pack,omitempty"`
	UpdatedAt               time.Time      `gorm:"not null" json:"updated_at"`
}

func (JobAssets) TableName() string { return "job_assets" }

// PracticeSession records one interview practice exchange for a job.
type PracticeSession struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobID           uuid.UUID      `gorm:"type:uuid;index" json:"job_id"`
	Mode            string         `json:"mode"`
	TranscriptJSON  datatypes.JSON `gorm:"column:transcript_json" json:"transcript,omitempty"`
	RubricScoreJSON datatypes.JSON `gorm:"column:rubric_scores_json" json:"rubric_scores,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
}

func (PracticeSession) TableName() string { return "practice_sessions" }

// CodingSession records one coding practice round for a job.
type CodingSession struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobID           uuid.UUID      `gorm:"type:uuid;index" json:"job_id"`
	ProblemJSON     datatypes.JSON `gorm:"column:problem_json" json:"problem,omitempty"`
	AttemptCode     string         `gorm:"column:attempt_code" json:"attempt_code,omitempty"`
	TestResultsJSON datatypes.JSON `gorm:"column:test_results_json" json:"test_results,omitempty"`
	FeedbackJSON    datatypes.JSON `gorm:"column:feedback_json" json:"feedback,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
}

func (CodingSession) TableName() string { return "coding_sessions" }

// Profile is the single-row user profile used for cover letter footers and
// exports.
type Profile struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `json:"name"`
	CityCountry    string         `gorm:"column:city_country" json:"city_country,omitempty"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	LinkedinURL    string         `gorm:"column:linkedin_url" json:"linkedin_url,omitempty"`
	GithubURL      string         `gorm:"column:github_url" json:"github_url,omitempty"`
	PortfolioURL   string         `gorm:"column:portfolio_url" json:"portfolio_url,omitempty"`
	OtherPlatforms datatypes.JSON `gorm:"column:other_platforms_json" json:"other_platforms,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "users_profile" }

// AppSetting is a key/value row for small app preferences.
type AppSetting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

func (AppSetting) TableName() string { return "app_settings" }
