package ai

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/semaphore"
)

// NewLimited bounds concurrent in-flight calls to the wrapped provider.
// Generation calls run for seconds each; without a bound a burst of ensure
// chains can exhaust the vendor's rate limit in one tick.
func NewLimited(p Provider, maxConcurrent int64) Provider {
	if maxConcurrent <= 0 {
		return p
	}
	return &limited{next: p, sem: semaphore.NewWeighted(maxConcurrent)}
}

type limited struct {
	next Provider
	sem  *semaphore.Weighted
}

func (l *limited) call(ctx context.Context, fn func() (string, error)) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)
	return fn()
}

func (l *limited) ExtractJD(ctx context.Context, jdText string) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.ExtractJD(ctx, jdText) })
}

func (l *limited) ParseResume(ctx context.Context, resumeText string) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.ParseResume(ctx, resumeText) })
}

func (l *limited) BuildEvidenceMap(ctx context.Context, jdExtract, resumeParse json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.BuildEvidenceMap(ctx, jdExtract, resumeParse) })
}

func (l *limited) ComputeScoreBreakdown(ctx context.Context, jdExtract, resumeParse, evidenceMap json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) {
		return l.next.ComputeScoreBreakdown(ctx, jdExtract, resumeParse, evidenceMap)
	})
}

func (l *limited) CreateRewritePlan(ctx context.Context, scoreBreakdown, evidenceMap json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.CreateRewritePlan(ctx, scoreBreakdown, evidenceMap) })
}

func (l *limited) RewriteBullet(ctx context.Context, bullet string, constraints, bulletContext json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.RewriteBullet(ctx, bullet, constraints, bulletContext) })
}

func (l *limited) OptimizeResumeParse(ctx context.Context, jdExtract, resumeParse, scoreBreakdown, evidenceMap json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) {
		return l.next.OptimizeResumeParse(ctx, jdExtract, resumeParse, scoreBreakdown, evidenceMap)
	})
}

func (l *limited) GenerateCoverLetter(ctx context.Context, jdExtract, resumeParse json.RawMessage, tone string) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.GenerateCoverLetter(ctx, jdExtract, resumeParse, tone) })
}

func (l *limited) SuggestProjects(ctx context.Context, jdExtract, resumeParse json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.SuggestProjects(ctx, jdExtract, resumeParse) })
}

func (l *limited) GenerateRoadmap(ctx context.Context, jdExtract, resumeParse json.RawMessage, timelineWeeks int) (string, error) {
	return l.call(ctx, func() (string, error) {
		return l.next.GenerateRoadmap(ctx, jdExtract, resumeParse, timelineWeeks)
	})
}

func (l *limited) GenerateInterviewQuestion(ctx context.Context, jdExtract json.RawMessage, mode string, previousQuestions []string) (string, error) {
	return l.call(ctx, func() (string, error) {
		return l.next.GenerateInterviewQuestion(ctx, jdExtract, mode, previousQuestions)
	})
}

func (l *limited) ScoreStarResponse(ctx context.Context, question, response string, jdExtract json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.ScoreStarResponse(ctx, question, response, jdExtract) })
}

func (l *limited) GenerateCodingProblem(ctx context.Context, jdExtract json.RawMessage, difficulty string) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.GenerateCodingProblem(ctx, jdExtract, difficulty) })
}

func (l *limited) ReviewCode(ctx context.Context, problem json.RawMessage, code string, testResults json.RawMessage) (string, error) {
	return l.call(ctx, func() (string, error) { return l.next.ReviewCode(ctx, problem, code, testResults) })
}
