package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/artifact"
	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// PracticeService drives interview practice rounds: question generation,
// STAR scoring, coding problems and code review. Every scored round is
// persisted as a session row so history survives restarts.
type PracticeService interface {
	GenerateQuestion(ctx context.Context, jobID uuid.UUID, mode string, previousQuestions []string) (*domain.InterviewQuestion, error)
	ScoreStar(ctx context.Context, jobID uuid.UUID, question, response string) (*domain.StarScore, error)
	GenerateCodingProblem(ctx context.Context, jobID uuid.UUID, difficulty string) (*domain.CodingProblem, error)
	ReviewCode(ctx context.Context, jobID uuid.UUID, problem json.RawMessage, code string, testResults json.RawMessage) (*domain.CodeReview, error)
	ListPracticeSessions(ctx context.Context, jobID uuid.UUID) ([]domain.PracticeSession, error)
	ListCodingSessions(ctx context.Context, jobID uuid.UUID) ([]domain.CodingSession, error)
}

type practiceService struct {
	db       *gorm.DB
	log      *logger.Logger
	analysis repos.AnalysisRepo
	practice repos.PracticeSessionRepo
	coding   repos.CodingSessionRepo
	provider ai.Provider
}

func NewPracticeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	analysis repos.AnalysisRepo,
	practice repos.PracticeSessionRepo,
	coding repos.CodingSessionRepo,
	provider ai.Provider,
) PracticeService {
	return &practiceService{
		db:       db,
		log:      baseLog.With("service", "PracticeService"),
		analysis: analysis,
		practice: practice,
		coding:   coding,
		provider: provider,
	}
}

// cachedJDExtract requires an already analyzed job description. Practice
// rounds never trigger the pipeline themselves.
func (s *practiceService) cachedJDExtract(ctx context.Context, jobID uuid.UUID) (json.RawMessage, error) {
	a, err := s.analysis.Get(ctx, nil, jobID)
	if err != nil || len(a.JDExtractJSON) == 0 {
		return nil, &apperrors.MissingPreconditionError{Field: domain.KindJDExtract}
	}
	return json.RawMessage(a.JDExtractJSON), nil
}

func (s *practiceService) GenerateQuestion(ctx context.Context, jobID uuid.UUID, mode string, previousQuestions []string) (*domain.InterviewQuestion, error) {
	jd, err := s.cachedJDExtract(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(mode) == "" {
		mode = interviewPackDefaultMode
	}

	raw, err := s.provider.GenerateInterviewQuestion(ctx, jd, mode, previousQuestions)
	if err != nil {
		return nil, err
	}
	decoded, err := artifact.Decode(domain.KindInterviewQuestion, raw)
	if err != nil {
		return nil, err
	}
	var q domain.InterviewQuestion
	if err := json.Unmarshal(decoded, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *practiceService) ScoreStar(ctx context.Context, jobID uuid.UUID, question, response string) (*domain.StarScore, error) {
	jd, err := s.cachedJDExtract(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" || strings.TrimSpace(response) == "" {
		return nil, &apperrors.MissingPreconditionError{Field: "practice.transcript"}
	}

	raw, err := s.provider.ScoreStarResponse(ctx, question, response, jd)
	if err != nil {
		return nil, err
	}
	decoded, err := artifact.Decode(domain.KindStarScore, raw)
	if err != nil {
		return nil, err
	}
	var score domain.StarScore
	if err := json.Unmarshal(decoded, &score); err != nil {
		return nil, err
	}

	transcript, err := json.Marshal(map[string]string{
		"question": question,
		"response": response,
	})
	if err != nil {
		return nil, err
	}
	session := &domain.PracticeSession{
		JobID:           jobID,
		Mode:            interviewPackDefaultMode,
		TranscriptJSON:  datatypes.JSON(transcript),
		RubricScoreJSON: datatypes.JSON(decoded),
	}
	if err := s.practice.Create(context.WithoutCancel(ctx), nil, session); err != nil {
		return nil, err
	}
	return &score, nil
}

func (s *practiceService) GenerateCodingProblem(ctx context.Context, jobID uuid.UUID, difficulty string) (*domain.CodingProblem, error) {
	jd, err := s.cachedJDExtract(ctx, jobID)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.GenerateCodingProblem(ctx, jd, difficulty)
	if err != nil {
		return nil, err
	}
	decoded, err := artifact.Decode(domain.KindCodingProblem, raw)
	if err != nil {
		return nil, err
	}
	var problem domain.CodingProblem
	if err := json.Unmarshal(decoded, &problem); err != nil {
		return nil, err
	}

	session := &domain.CodingSession{
		JobID:       jobID,
		ProblemJSON: datatypes.JSON(decoded),
	}
	if err := s.coding.Create(context.WithoutCancel(ctx), nil, session); err != nil {
		return nil, err
	}
	return &problem, nil
}

func (s *practiceService) ReviewCode(ctx context.Context, jobID uuid.UUID, problem json.RawMessage, code string, testResults json.RawMessage) (*domain.CodeReview, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &apperrors.MissingPreconditionError{Field: "coding.attempt_code"}
	}

	raw, err := s.provider.ReviewCode(ctx, problem, code, testResults)
	if err != nil {
		return nil, err
	}
	decoded, err := artifact.Decode(domain.KindCodeReview, raw)
	if err != nil {
		return nil, err
	}
	var review domain.CodeReview
	if err := json.Unmarshal(decoded, &review); err != nil {
		return nil, err
	}

	session := &domain.CodingSession{
		JobID:           jobID,
		ProblemJSON:     datatypes.JSON(problem),
		AttemptCode:     code,
		TestResultsJSON: datatypes.JSON(testResults),
		FeedbackJSON:    datatypes.JSON(decoded),
	}
	if err := s.coding.Create(context.WithoutCancel(ctx), nil, session); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *practiceService) ListPracticeSessions(ctx context.Context, jobID uuid.UUID) ([]domain.PracticeSession, error) {
	return s.practice.ListByJob(ctx, nil, jobID)
}

func (s *practiceService) ListCodingSessions(ctx context.Context, jobID uuid.UUID) ([]domain.CodingSession, error) {
	return s.coding.ListByJob(ctx, nil, jobID)
}
