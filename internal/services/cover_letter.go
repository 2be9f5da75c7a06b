package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

const defaultCoverLetterTone = "professional"

// CoverLetterService generates tailored cover letters and records every
// accepted draft in the job's cover letter ledger.
type CoverLetterService interface {
	Generate(ctx context.Context, jobID uuid.UUID, tone string) (*domain.CoverLetterVariant, error)
	List(ctx context.Context, jobID uuid.UUID) ([]domain.CoverLetterVariant, error)
}

type coverLetterService struct {
	db       *gorm.DB
	log      *logger.Logger
	assets   repos.AssetsRepo
	profiles repos.ProfileRepo
	pipeline PipelineService
	provider ai.Provider
}

func NewCoverLetterService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assets repos.AssetsRepo,
	profiles repos.ProfileRepo,
	pipeline PipelineService,
	provider ai.Provider,
) CoverLetterService {
	return &coverLetterService{
		db:       db,
		log:      baseLog.With("service", "CoverLetterService"),
		assets:   assets,
		profiles: profiles,
		pipeline: pipeline,
		provider: provider,
	}
}

func (s *coverLetterService) Generate(ctx context.Context, jobID uuid.UUID, tone string) (*domain.CoverLetterVariant, error) {
	tone = strings.TrimSpace(tone)
	if tone == "" {
		tone = defaultCoverLetterTone
	}

	jd, err := s.pipeline.Ensure(ctx, jobID, domain.KindJDExtract)
	if err != nil {
		return nil, err
	}
	parse, err := s.pipeline.Ensure(ctx, jobID, domain.KindResumeParse)
	if err != nil {
		return nil, err
	}

	body, err := s.provider.GenerateCoverLetter(ctx, jd, parse, tone)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &apperrors.MalformedOutputError{Kind: domain.KindCoverLetter, Reason: "empty letter"}
	}

	profile, err := s.profiles.Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	variant := domain.CoverLetterVariant{
		Text:      formatCoverLetter(body, profile),
		Tone:      tone,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.assets.AppendVersion(context.WithoutCancel(ctx), jobID, repos.LedgerCoverLetters, variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (s *coverLetterService) List(ctx context.Context, jobID uuid.UUID) ([]domain.CoverLetterVariant, error) {
	assets, err := s.assets.Get(ctx, nil, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.CoverLetterVariant{}, nil
		}
		return nil, err
	}
	letters := []domain.CoverLetterVariant{}
	if len(assets.CoverLetterVersionsJSON) > 0 {
		if err := json.Unmarshal(assets.CoverLetterVersionsJSON, &letters); err != nil {
			return nil, fmt.Errorf("corrupt cover letter ledger for job %s: %w", jobID, err)
		}
	}
	return letters, nil
}

// formatCoverLetter frames the generated body with the sender's identity
// header and a contact links footer, so the stored text is send-ready.
func formatCoverLetter(body string, profile *domain.Profile) string {
	var b strings.Builder

	var header []string
	if profile.Name != "" {
		header = append(header, profile.Name)
	}
	if profile.CityCountry != "" {
		header = append(header, profile.CityCountry)
	}
	var contact []string
	if profile.Email != "" {
		contact = append(contact, profile.Email)
	}
	if profile.Phone != "" {
		contact = append(contact, profile.Phone)
	}
	if len(contact) > 0 {
		header = append(header, strings.Join(contact, " | "))
	}
	if len(header) > 0 {
		b.WriteString(strings.Join(header, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString(body)

	var links []string
	if profile.LinkedinURL != "" {
		links = append(links, "LinkedIn: "+profile.LinkedinURL)
	}
	if profile.GithubURL != "" {
		links = append(links, "GitHub: "+profile.GithubURL)
	}
	if profile.PortfolioURL != "" {
		links = append(links, "Portfolio: "+profile.PortfolioURL)
	}
	if len(profile.OtherPlatforms) > 0 {
		var extra map[string]string
		if err := json.Unmarshal(profile.OtherPlatforms, &extra); err == nil {
			for name, url := range extra {
				if name != "" && url != "" {
					links = append(links, name+": "+url)
				}
			}
		}
	}
	if len(links) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(links, "\n"))
	}
	return b.String()
}
