package services_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/data/repos/testutil"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/services"
)

const (
	jdOut = `{"role_title":"Backend Engineer","seniority":"mid",` +
		`"must_have_skills":["Go","SQL"],"keywords":["Go","SQL"]}`
	parseOut = `{"identity":{"name":"Sam Doe","email":"sam@example.com"},` +
		`"skills":{"languages":["Go","Python"]},` +
		`"experience":[{"company":"Acme","role":"Engineer","bullets":["Built services in Go"]}]}`
	evidenceOut = `{"evidence":{"Go":[{"section":"skills","index":0}]},"missing":["SQL"]}`
	scoreOut    = `{"keyword_coverage":{"score":60},"alignment":{"score":70},` +
		`"evidence_strength":{"score":50},"bullet_quality":{"score":65},` +
		`"formatting":{"score":80},"final_score":63,"top_fixes":[]}`
	planOut     = `{"prioritized_edits":[{"action":"add SQL"}],"expected_impact":"+10"}`
	roadmapOut  = `{"timeline_weeks":4,"weeks":[{"week_number":1,"focus_areas":["SQL"],"tasks":[]}]}`
	questionOut = `{"question":"Tell me about a hard bug.","type":"behavioural"}`
	letterOut   = "Dear Hiring Manager,\n\nI would like to apply.\n\nSincerely,\nSam"
)

// fakeProvider returns canned output per method and records every call.
type fakeProvider struct {
	calls   []string
	outputs map[string]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{outputs: map[string]string{
		"extract_jd":   jdOut,
		"parse_resume": parseOut,
		"evidence":     evidenceOut,
		"score":        scoreOut,
		"plan":         planOut,
		"roadmap":      roadmapOut,
		"question":     questionOut,
		"optimize":     parseOut,
		"letter":       letterOut,
	}}
}

func (f *fakeProvider) emit(name string) (string, error) {
	f.calls = append(f.calls, name)
	return f.outputs[name], nil
}

func (f *fakeProvider) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeProvider) ExtractJD(ctx context.Context, jdText string) (string, error) {
	return f.emit("extract_jd")
}

func (f *fakeProvider) ParseResume(ctx context.Context, resumeText string) (string, error) {
	return f.emit("parse_resume")
}

func (f *fakeProvider) BuildEvidenceMap(ctx context.Context, jd, parse json.RawMessage) (string, error) {
	return f.emit("evidence")
}

func (f *fakeProvider) ComputeScoreBreakdown(ctx context.Context, jd, parse, em json.RawMessage) (string, error) {
	return f.emit("score")
}

func (f *fakeProvider) CreateRewritePlan(ctx context.Context, score, em json.RawMessage) (string, error) {
	return f.emit("plan")
}

func (f *fakeProvider) RewriteBullet(ctx context.Context, bullet string, constraints, bulletContext json.RawMessage) (string, error) {
	return f.emit("rewrite_bullet")
}

func (f *fakeProvider) OptimizeResumeParse(ctx context.Context, jd, parse, score, em json.RawMessage) (string, error) {
	return f.emit("optimize")
}

func (f *fakeProvider) GenerateCoverLetter(ctx context.Context, jd, parse json.RawMessage, tone string) (string, error) {
	return f.emit("letter")
}

func (f *fakeProvider) SuggestProjects(ctx context.Context, jd, parse json.RawMessage) (string, error) {
	return f.emit("projects")
}

func (f *fakeProvider) GenerateRoadmap(ctx context.Context, jd, parse json.RawMessage, weeks int) (string, error) {
	return f.emit("roadmap")
}

func (f *fakeProvider) GenerateInterviewQuestion(ctx context.Context, jd json.RawMessage, mode string, previous []string) (string, error) {
	return f.emit("question")
}

func (f *fakeProvider) ScoreStarResponse(ctx context.Context, question, response string, jd json.RawMessage) (string, error) {
	return f.emit("star")
}

func (f *fakeProvider) GenerateCodingProblem(ctx context.Context, jd json.RawMessage, difficulty string) (string, error) {
	return f.emit("coding")
}

func (f *fakeProvider) ReviewCode(ctx context.Context, problem json.RawMessage, code string, testResults json.RawMessage) (string, error) {
	return f.emit("review")
}

type fixture struct {
	db       *gorm.DB
	provider *fakeProvider
	analysis repos.AnalysisRepo
	assets   repos.AssetsRepo
	resumes  repos.ResumeSourceRepo
	jobs     repos.JobRepo
	pipeline services.PipelineService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	provider := newFakeProvider()
	locks := repos.NewJobLocks()
	jobs := repos.NewJobRepo(gdb, log)
	resumes := repos.NewResumeSourceRepo(gdb, log)
	analysis := repos.NewAnalysisRepo(gdb, log, locks)
	assets := repos.NewAssetsRepo(gdb, log, locks)
	resumeSvc := services.NewResumeService(gdb, log, resumes, provider)
	pipeline := services.NewPipelineService(gdb, log, jobs, analysis, assets, resumeSvc, provider)
	return &fixture{
		db:       gdb,
		provider: provider,
		analysis: analysis,
		assets:   assets,
		resumes:  resumes,
		jobs:     jobs,
		pipeline: pipeline,
	}
}

func TestEnsureJDExtract_MissingJDTextMakesNoProviderCalls(t *testing.T) {
	fx := newFixture(t)
	job := testutil.SeedJob(t, fx.db, "")

	_, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindJDExtract)
	if !apperrors.IsMissingPrecondition(err) {
		t.Fatalf("expected missing precondition, got %v", err)
	}
	if len(fx.provider.calls) != 0 {
		t.Fatalf("expected zero provider calls, got %v", fx.provider.calls)
	}
}

func TestEnsureScore_ResolvesDependencyChainOnce(t *testing.T) {
	fx := newFixture(t)
	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")
	testutil.SeedResume(t, fx.db, "Sam Doe, Go engineer at Acme.", nil)

	out, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindScore)
	if err != nil {
		t.Fatalf("ensure score: %v", err)
	}
	var score domain.ScoreBreakdown
	if err := json.Unmarshal(out, &score); err != nil {
		t.Fatalf("unmarshal score: %v", err)
	}
	if score.FinalScore != 63 {
		t.Fatalf("final score = %d, want 63", score.FinalScore)
	}
	if score.ResumeHash == "" {
		t.Fatalf("score missing resume hash")
	}

	want := []string{"extract_jd", "parse_resume", "evidence", "score"}
	if len(fx.provider.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fx.provider.calls, want)
	}
	for i, name := range want {
		if fx.provider.calls[i] != name {
			t.Fatalf("call %d = %q, want %q", i, fx.provider.calls[i], name)
		}
	}

	// Second ensure is served entirely from cache.
	if _, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindScore); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if len(fx.provider.calls) != len(want) {
		t.Fatalf("cache miss on second ensure: %v", fx.provider.calls)
	}

	a, err := fx.analysis.Get(context.Background(), nil, job.ID)
	if err != nil {
		t.Fatalf("analysis row: %v", err)
	}
	if len(a.JDExtractJSON) == 0 || len(a.EvidenceMapJSON) == 0 || len(a.ScoreBreakdownJSON) == 0 {
		t.Fatalf("dependency artifacts not persisted: %#v", a)
	}
}

func TestEnsureEvidenceMap_StaleHashTriggersRecompute(t *testing.T) {
	fx := newFixture(t)
	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")
	src := testutil.SeedResume(t, fx.db, "Sam Doe, Go engineer.", nil)

	if _, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindEvidenceMap); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if got := fx.provider.count("evidence"); got != 1 {
		t.Fatalf("evidence calls = %d, want 1", got)
	}

	// Replacing the stored parse invalidates the hash embedded in the map.
	newParse := `{"identity":{"name":"Sam Doe","email":"sam@example.com"},` +
		`"skills":{"languages":["Go","Rust"]},` +
		`"experience":[{"company":"Acme","role":"Engineer","bullets":["Shipped Rust tooling"]}]}`
	if err := fx.resumes.SetParsed(context.Background(), nil, src.ID, []byte(newParse)); err != nil {
		t.Fatalf("set parsed: %v", err)
	}

	if _, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindEvidenceMap); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if got := fx.provider.count("evidence"); got != 2 {
		t.Fatalf("evidence calls after resume change = %d, want 2", got)
	}
}

func TestEnsureEvidenceMap_MalformedOutputDegradesToDefault(t *testing.T) {
	fx := newFixture(t)
	fx.provider.outputs["evidence"] = "I could not produce a map, sorry."
	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")
	testutil.SeedResume(t, fx.db, "Sam Doe, Go engineer.", nil)

	out, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindEvidenceMap)
	if err != nil {
		t.Fatalf("ensure evidence: %v", err)
	}
	var em domain.EvidenceMap
	if err := json.Unmarshal(out, &em); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(em.Evidence) != 0 {
		t.Fatalf("expected empty default evidence, got %#v", em.Evidence)
	}
	if em.ResumeHash == "" {
		t.Fatalf("default map still needs the resume hash")
	}

	a, err := fx.analysis.Get(context.Background(), nil, job.ID)
	if err != nil || len(a.EvidenceMapJSON) == 0 {
		t.Fatalf("default not persisted: %v %#v", err, a)
	}
}

func TestEnsureJDExtract_MalformedOutputFailsHard(t *testing.T) {
	fx := newFixture(t)
	fx.provider.outputs["extract_jd"] = "not json at all"
	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")

	_, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindJDExtract)
	if !apperrors.IsMalformedOutput(err) {
		t.Fatalf("expected malformed output error, got %v", err)
	}
	if a, err := fx.analysis.Get(context.Background(), nil, job.ID); err == nil && len(a.JDExtractJSON) > 0 {
		t.Fatalf("malformed extract must not be persisted")
	}
}

func TestEnsureRoadmap_CachedAfterFirstGeneration(t *testing.T) {
	fx := newFixture(t)
	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")
	testutil.SeedResume(t, fx.db, "Sam Doe, Go engineer.", nil)

	out, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindRoadmap)
	if err != nil {
		t.Fatalf("ensure roadmap: %v", err)
	}
	var rm domain.Roadmap
	if err := json.Unmarshal(out, &rm); err != nil {
		t.Fatalf("unmarshal roadmap: %v", err)
	}
	if len(rm.Weeks) != 1 {
		t.Fatalf("weeks = %d, want 1", len(rm.Weeks))
	}

	if _, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindRoadmap); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if got := fx.provider.count("roadmap"); got != 1 {
		t.Fatalf("roadmap calls = %d, want 1", got)
	}

	// Explicit regeneration bypasses the cache.
	if _, err := fx.pipeline.RegenerateRoadmap(context.Background(), job.ID, 8); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if got := fx.provider.count("roadmap"); got != 2 {
		t.Fatalf("roadmap calls after regenerate = %d, want 2", got)
	}
}

func TestEnsureInterviewPack_CollectsDistinctQuestions(t *testing.T) {
	fx := newFixture(t)
	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")

	out, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindInterviewPack)
	if err != nil {
		t.Fatalf("ensure pack: %v", err)
	}
	var pack domain.InterviewPack
	if err := json.Unmarshal(out, &pack); err != nil {
		t.Fatalf("unmarshal pack: %v", err)
	}
	if len(pack.Questions) != 5 {
		t.Fatalf("questions = %d, want 5", len(pack.Questions))
	}
	if pack.GeneratedAt.IsZero() {
		t.Fatalf("pack missing generation time")
	}
}

func TestOptimize_FabricatedVariantIsRejected(t *testing.T) {
	fx := newFixture(t)
	log := testutil.Logger(t)
	optimize := services.NewOptimizeService(fx.db, log, fx.assets, fx.pipeline, fx.provider)

	// The optimized parse invents an employer that the source never had.
	fx.provider.outputs["optimize"] = `{"identity":{"name":"Sam Doe","email":"sam@example.com"},` +
		`"skills":{"languages":["Go","Python"]},` +
		`"experience":[{"company":"Globex","role":"Staff Engineer","bullets":["Led a team of 40"]}]}`

	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")
	testutil.SeedResume(t, fx.db, "Sam Doe, Go engineer at Acme.", nil)

	_, err := optimize.GenerateVariant(context.Background(), job.ID)
	if !apperrors.IsContentViolation(err) {
		t.Fatalf("expected content violation, got %v", err)
	}

	variants, err := optimize.ListVariants(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("list variants: %v", err)
	}
	if len(variants) != 0 {
		t.Fatalf("rejected variant must not be recorded, got %d", len(variants))
	}
}

func TestOptimize_CleanVariantAppendsToLedger(t *testing.T) {
	fx := newFixture(t)
	log := testutil.Logger(t)
	optimize := services.NewOptimizeService(fx.db, log, fx.assets, fx.pipeline, fx.provider)

	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")
	testutil.SeedResume(t, fx.db, "Sam Doe, Go engineer at Acme.", nil)

	variant, err := optimize.GenerateVariant(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("generate variant: %v", err)
	}
	if variant.Source != domain.VariantSourceGenerated {
		t.Fatalf("source = %q", variant.Source)
	}
	if variant.Label != "Optimized for Backend Engineer" {
		t.Fatalf("label = %q", variant.Label)
	}

	ruleBased, err := optimize.RuleBasedVariant(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("rule based variant: %v", err)
	}
	if ruleBased.Source != domain.VariantSourceRuleBased {
		t.Fatalf("source = %q", ruleBased.Source)
	}
	if len(ruleBased.KeywordsAdded) != 1 || ruleBased.KeywordsAdded[0] != "SQL" {
		t.Fatalf("keywords added = %v, want [SQL]", ruleBased.KeywordsAdded)
	}

	variants, err := optimize.ListVariants(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("list variants: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("ledger size = %d, want 2", len(variants))
	}
	if variants[0].Source != domain.VariantSourceGenerated || variants[1].Source != domain.VariantSourceRuleBased {
		t.Fatalf("ledger order broken: %q then %q", variants[0].Source, variants[1].Source)
	}
}

func TestCoverLetter_FormatsIdentityAndLinks(t *testing.T) {
	fx := newFixture(t)
	log := testutil.Logger(t)
	profiles := repos.NewProfileRepo(fx.db, log)
	letters := services.NewCoverLetterService(fx.db, log, fx.assets, profiles, fx.pipeline, fx.provider)

	name := "Sam Doe"
	email := "sam@example.com"
	linkedin := "https://linkedin.com/in/samdoe"
	profileSvc := services.NewProfileService(fx.db, log, profiles, repos.NewSettingsRepo(fx.db, log))
	if _, err := profileSvc.Update(context.Background(), services.ProfileInput{
		Name:        &name,
		Email:       &email,
		LinkedinURL: &linkedin,
	}); err != nil {
		t.Fatalf("profile update: %v", err)
	}

	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")
	testutil.SeedResume(t, fx.db, "Sam Doe, Go engineer.", nil)

	letter, err := letters.Generate(context.Background(), job.ID, "")
	if err != nil {
		t.Fatalf("generate letter: %v", err)
	}
	if letter.Tone != "professional" {
		t.Fatalf("tone = %q, want professional default", letter.Tone)
	}
	if !strings.HasPrefix(letter.Text, "Sam Doe\n") {
		t.Fatalf("letter missing identity header:\n%s", letter.Text)
	}
	if !strings.Contains(letter.Text, letterOut) {
		t.Fatalf("letter body lost:\n%s", letter.Text)
	}
	if !strings.Contains(letter.Text, "LinkedIn: "+linkedin) {
		t.Fatalf("letter missing links footer:\n%s", letter.Text)
	}

	stored, err := letters.List(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("list letters: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("ledger size = %d, want 1", len(stored))
	}
}

func TestPractice_RequiresAnalyzedJD(t *testing.T) {
	fx := newFixture(t)
	log := testutil.Logger(t)
	practice := services.NewPracticeService(fx.db, log,
		fx.analysis,
		repos.NewPracticeSessionRepo(fx.db, log),
		repos.NewCodingSessionRepo(fx.db, log),
		fx.provider)

	job := testutil.SeedJob(t, fx.db, "We need a Go engineer.")

	_, err := practice.GenerateQuestion(context.Background(), job.ID, "behavioural", nil)
	if !apperrors.IsMissingPrecondition(err) {
		t.Fatalf("expected missing precondition, got %v", err)
	}
	if len(fx.provider.calls) != 0 {
		t.Fatalf("practice must not trigger the pipeline: %v", fx.provider.calls)
	}

	// Analyzing the job unblocks practice.
	if _, err := fx.pipeline.Ensure(context.Background(), job.ID, domain.KindJDExtract); err != nil {
		t.Fatalf("ensure jd: %v", err)
	}
	q, err := practice.GenerateQuestion(context.Background(), job.ID, "behavioural", nil)
	if err != nil {
		t.Fatalf("generate question: %v", err)
	}
	if q.Question == "" {
		t.Fatalf("empty question: %#v", q)
	}
}

func TestDemo_SeedIsIdempotentAndResetCleansUp(t *testing.T) {
	fx := newFixture(t)
	log := testutil.Logger(t)
	demo := services.NewDemoService(fx.db, log, fx.jobs, fx.resumes)

	first, err := demo.Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	second, err := demo.Seed(context.Background())
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("reseed created a new demo job: %s vs %s", first.ID, second.ID)
	}

	jobs, err := fx.jobs.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("job count = %d, want 1", len(jobs))
	}

	if _, err := fx.resumes.GetByKey(context.Background(), nil, domain.DemoResumeKey); err != nil {
		t.Fatalf("demo resume missing after seed: %v", err)
	}

	if err := demo.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	jobs, err = fx.jobs.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list after reset: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("demo jobs survived reset: %d", len(jobs))
	}
	if _, err := fx.resumes.GetByKey(context.Background(), nil, domain.DemoResumeKey); err == nil {
		t.Fatalf("demo resume survived reset")
	}
}
