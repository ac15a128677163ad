// Package service holds the business rules of the social graph and voter
// report engines on top of the repositories.
package service

import (
	"context"
	"strings"
	"time"

	"quad/internal/cache"
	"quad/internal/models"
	"quad/internal/observability"
	"quad/internal/repository"
	"quad/internal/validation"
)

// ProfileService manages profiles and their computed statistics.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type CreateProfileInput struct {
	FirstName string     `json:"first_name" validate:"required,max=100"`
	LastName  string     `json:"last_name" validate:"required,max=100"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	City      string     `json:"city" validate:"max=100"`
	Bio       string     `json:"bio" validate:"max=2000"`
	AvatarURL string     `json:"avatar_url" validate:"omitempty,url,max=500"`
	BirthDate *time.Time `json:"birth_date"`
}

// UpdateProfileInput changes only the non-nil fields.
type UpdateProfileInput struct {
	ActorID   uint       `json:"-"`
	ProfileID uint       `json:"-"`
	FirstName *string    `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string    `json:"last_name" validate:"omitempty,min=1,max=100"`
	City      *string    `json:"city" validate:"omitempty,max=100"`
	Bio       *string    `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL *string    `json:"avatar_url" validate:"omitempty,url,max=500"`
	BirthDate *time.Time `json:"birth_date"`
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile := &models.Profile{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		City:      in.City,
		Bio:       in.Bio,
		AvatarURL: in.AvatarURL,
		BirthDate: in.BirthDate,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile reads through the profile cache.
func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(id), &profile, cache.ProfileTTL, func() error {
		p, err := s.profileRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile lets a profile edit only itself.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	if in.ActorID != in.ProfileID {
		return nil, models.NewForbiddenError("You can only update your own profile")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		profile.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.City != nil {
		profile.City = *in.City
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		profile.AvatarURL = *in.AvatarURL
	}
	if in.BirthDate != nil {
		profile.BirthDate = in.BirthDate
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, profile.ID)
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}

// GetStats is computed from the relation tables on every call.
func (s *ProfileService) GetStats(ctx context.Context, id uint) (*models.ProfileStats, error) {
	observability.LogServiceCall(ctx, "profile", "GetStats", map[string]interface{}{"profile_id": id})
	return s.profileRepo.Stats(ctx, id)
}

// requireProfiles returns a not-found error for the first id with no profile.
func requireProfiles(ctx context.Context, repo repository.ProfileRepository, ids ...uint) error {
	for _, id := range ids {
		ok, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewNotFoundError("Profile", id)
		}
	}
	return nil
}
