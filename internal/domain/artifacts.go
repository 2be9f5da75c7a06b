package domain

import "time"

// Artifact kinds computed by the pipeline. Hard kinds fail loudly on
// malformed provider output; soft kinds degrade to their empty default.
const (
	KindJDExtract     = "jd_extract"
	KindResumeParse   = "resume_parse"
	KindEvidenceMap   = "evidence_map"
	KindScore         = "score_breakdown"
	KindRewritePlan   = "rewrite_plan"
	KindResumeVariant = "resume_variant"
	KindCoverLetter   = "cover_letter"
	KindRoadmap       = "roadmap"
	KindInterviewPack = "interview_pack"

	KindInterviewQuestion = "interview_question"
	KindStarScore         = "star_score"
	KindCodingProblem     = "coding_problem"
	KindCodeReview        = "code_review"
)

// Seniority enumeration accepted in a JDExtract. Anything else makes the
// whole extract invalid, never a silent coercion.
var Seniorities = []string{"intern", "junior", "mid", "senior"}

// Resume sections a citation may point into.
var CitableSections = []string{"experience", "projects", "skills"}

// JDExtract is the structured form of a job description.
type JDExtract struct {
	RoleTitle        string   `json:"role_title"`
	Seniority        string   `json:"seniority"`
	MustHaveSkills   []string `json:"must_have_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Languages        []string `json:"languages"`
	Frameworks       []string `json:"frameworks"`
	Tools            []string `json:"tools"`
	Responsibilities []string `json:"responsibilities"`
	Keywords         []string `json:"keywords"`
	Domain           string   `json:"domain,omitempty"`
}

// Identity is the contact block of a parsed resume.
type Identity struct {
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	City      string            `json:"city,omitempty"`
	Platforms map[string]string `json:"platforms,omitempty"`
}

type Experience struct {
	Company string   `json:"company"`
	Role    string   `json:"role"`
	Dates   string   `json:"dates,omitempty"`
	Bullets []string `json:"bullets"`
}

type Project struct {
	Title     string   `json:"title"`
	TechStack []string `json:"tech_stack"`
	Bullets   []string `json:"bullets"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Dates       string `json:"dates,omitempty"`
}

// ResumeParse is the normalized structured resume.
type ResumeParse struct {
	Identity         Identity            `json:"identity"`
	Skills           map[string][]string `json:"skills"`
	Experience       []Experience        `json:"experience"`
	Projects         []Project           `json:"projects"`
	Certifications   []string            `json:"certifications"`
	Extracurriculars []string            `json:"extracurriculars"`
	Education        []Education         `json:"education"`
}

// IsEmpty reports whether the parse carries no usable content. An all-zero
// parse is treated the same as a missing one.
func (p ResumeParse) IsEmpty() bool {
	return p.Identity.Name == "" && len(p.Skills) == 0 &&
		len(p.Experience) == 0 && len(p.Projects) == 0 && len(p.Education) == 0
}

// EvidenceCitation points a requirement keyword into a resume location.
type EvidenceCitation struct {
	Section     string `json:"section"`
	Index       int    `json:"index"`
	BulletIndex *int   `json:"bullet_index,omitempty"`
}

// EvidenceMap maps requirement keywords to ordered citations. Missing lists
// must-have keywords with zero citations. ResumeHash ties the map to the
// exact resume snapshot it was computed against.
type EvidenceMap struct {
	Evidence   map[string][]EvidenceCitation `json:"evidence"`
	Missing    []string                      `json:"missing"`
	ResumeHash string                        `json:"resume_hash,omitempty"`
}

type ScoreDetails struct {
	Score       int            `json:"score"`
	Explanation string         `json:"explanation,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

type BulletLintResult struct {
	Bullet      string   `json:"bullet"`
	Status      string   `json:"status"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ScoreBreakdown is the ATS score artifact: five named sub-scores, a
// weighted final score and a ranked list of top fixes.
type ScoreBreakdown struct {
	KeywordCoverage  ScoreDetails       `json:"keyword_coverage"`
	Alignment        ScoreDetails       `json:"alignment"`
	EvidenceStrength ScoreDetails       `json:"evidence_strength"`
	BulletQuality    ScoreDetails       `json:"bullet_quality"`
	Formatting       ScoreDetails       `json:"formatting"`
	FinalScore       int                `json:"final_score"`
	TopFixes         []map[string]any   `json:"top_fixes"`
	LintResults      []BulletLintResult `json:"lint_results,omitempty"`
	ResumeHash       string             `json:"resume_hash,omitempty"`
}

type RewritePlan struct {
	PrioritizedEdits []map[string]any `json:"prioritized_edits"`
	ExpectedImpact   string           `json:"expected_impact"`
}

// Variant provenance values.
const (
	VariantSourceGenerated = "generated"
	VariantSourceRuleBased = "rule-based"
	VariantSourceManual    = "manual"
)

// ResumeVariant is one immutable entry of the resume version ledger.
type ResumeVariant struct {
	Label         string      `json:"label"`
	Source        string      `json:"source"`
	Parsed        ResumeParse `json:"parsed"`
	KeywordsAdded []string    `json:"keywords_added,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// CoverLetterVariant is one immutable entry of the cover letter ledger.
type CoverLetterVariant struct {
	Text      string    `json:"text"`
	Tone      string    `json:"tone"`
	CreatedAt time.Time `json:"created_at"`
}

type RoadmapTask struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Resources      []string `json:"resources,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
}

type RoadmapWeek struct {
	WeekNumber int           `json:"week_number"`
	FocusAreas []string      `json:"focus_areas"`
	Tasks      []RoadmapTask `json:"tasks"`
	Milestones []string      `json:"milestones,omitempty"`
}

type Roadmap struct {
	TimelineWeeks int           `json:"timeline_weeks"`
	Weeks         []RoadmapWeek `json:"weeks"`
}

// InterviewQuestion is one generated practice question.
type InterviewQuestion struct {
	Question                 string `json:"question"`
	Type                     string `json:"type"`
	WhatInterviewerLooksFor  string `json:"what_interviewer_looks_for,omitempty"`
	SuggestedAnswerStructure string `json:"suggested_answer_structure,omitempty"`
}

// InterviewPack is the cached set of prepared questions for a job.
type InterviewPack struct {
	Questions   []InterviewQuestion `json:"questions"`
	GeneratedAt time.Time           `json:"generated_at"`
}

type StarScore struct {
	SituationClarity  int      `json:"situation_clarity"`
	TaskClarity       int      `json:"task_clarity"`
	ActionSpecificity int      `json:"action_specificity"`
	ResultImpact      int      `json:"result_impact"`
	Relevance         int      `json:"relevance_to_role"`
	TotalScore        int      `json:"total_score"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	OverallFeedback   string   `json:"overall_feedback,omitempty"`
}

type CodingExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type CodingTestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type CodingProblem struct {
	Title       string           `json:"title"`
	Topic       string           `json:"topic"`
	Difficulty  string           `json:"difficulty"`
	Prompt      string           `json:"prompt"`
	Examples    []CodingExample  `json:"examples,omitempty"`
	Constraints []string         `json:"constraints,omitempty"`
	TestCases   []CodingTestCase `json:"test_cases"`
	Hints       []string         `json:"hints,omitempty"`
}

type CodeReview struct {
	Correctness      string   `json:"correctness"`
	EdgeCasesHandled bool     `json:"edge_cases_handled"`
	TimeComplexity   string   `json:"time_complexity,omitempty"`
	SpaceComplexity  string   `json:"space_complexity,omitempty"`
	Feedback         string   `json:"feedback"`
	Suggestions      []string `json:"suggestions,omitempty"`
}
