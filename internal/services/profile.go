package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// ProfileInput mirrors the writable profile fields; nil means untouched.
type ProfileInput struct {
	Name           *string           `json:"name"`
	CityCountry    *string           `json:"city_country"`
	Email          *string           `json:"email"`
	Phone          *string           `json:"phone"`
	LinkedinURL    *string           `json:"linkedin_url"`
	GithubURL      *string           `json:"github_url"`
	PortfolioURL   *string           `json:"portfolio_url"`
	OtherPlatforms map[string]string `json:"other_platforms"`
}

// ProfileService manages the single user profile and the app settings
// key/value store.
type ProfileService interface {
	Get(ctx context.Context) (*domain.Profile, error)
	Update(ctx context.Context, in ProfileInput) (*domain.Profile, error)
	Settings(ctx context.Context) (map[string]string, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

type profileService struct {
	db       *gorm.DB
	log      *logger.Logger
	profiles repos.ProfileRepo
	settings repos.SettingsRepo
}

func NewProfileService(db *gorm.DB, baseLog *logger.Logger, profiles repos.ProfileRepo, settings repos.SettingsRepo) ProfileService {
	return &profileService{
		db:       db,
		log:      baseLog.With("service", "ProfileService"),
		profiles: profiles,
		settings: settings,
	}
}

func (s *profileService) Get(ctx context.Context) (*domain.Profile, error) {
	return s.profiles.Get(ctx, nil)
}

func (s *profileService) Update(ctx context.Context, in ProfileInput) (*domain.Profile, error) {
	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("name", in.Name)
	set("city_country", in.CityCountry)
	set("email", in.Email)
	set("phone", in.Phone)
	set("linkedin_url", in.LinkedinURL)
	set("github_url", in.GithubURL)
	set("portfolio_url", in.PortfolioURL)
	if in.OtherPlatforms != nil {
		raw, err := json.Marshal(in.OtherPlatforms)
		if err != nil {
			return nil, err
		}
		fields["other_platforms_json"] = datatypes.JSON(raw)
	}
	if len(fields) == 0 {
		return s.profiles.Get(ctx, nil)
	}
	fields["updated_at"] = time.Now().UTC()
	return s.profiles.Update(ctx, nil, fields)
}

func (s *profileService) Settings(ctx context.Context) (map[string]string, error) {
	return s.settings.All(ctx, nil)
}

func (s *profileService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.settings.Get(ctx, nil, key)
}

func (s *profileService) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: setting key is required", apperrors.ErrInvalidArgument)
	}
	return s.settings.Set(ctx, nil, key, value)
}
