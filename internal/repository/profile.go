// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"quad/internal/database"
	"quad/internal/models"
	"quad/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Stats(ctx context.Context, id uint) (*models.ProfileStats, error)
}

type profileRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db, log: observability.NewRepoLogger("profiles")}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewValidationError("email is already registered")
		}
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"profile_id": profile.ID})
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Profile, error) {
	if len(ids) == 0 {
		return []models.Profile{}, nil
	}
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewValidationError("email is already registered")
		}
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"profile_id": profile.ID})
	return nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	query := r.db.WithContext(ctx).Order("last_name, first_name, id")
	if err := paginate(query, limit, offset).Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Stats counts everything from the membership tables; nothing is cached on
// the profile row.
func (r *profileRepository) Stats(ctx context.Context, id uint) (*models.ProfileStats, error) {
	defer observability.TrackQuery("stats", "profiles")()

	if ok, err := r.Exists(ctx, id); err != nil {
		return nil, err
	} else if !ok {
		return nil, models.NewNotFoundError("Profile", id)
	}

	stats := &models.ProfileStats{ProfileID: id}
	db := r.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.NotesCount, db.Model(&models.Note{}).Where("author_id = ?", id)},
		{&stats.LikedNotesCount, db.Model(&models.NoteLike{}).Where("profile_id = ?", id)},
		{&stats.BookmarkedNotesCount, db.Model(&models.NoteBookmark{}).Where("profile_id = ?", id)},
		{&stats.TotalLikesReceived, db.Model(&models.NoteLike{}).
			Joins("JOIN notes ON notes.id = note_likes.note_id").
			Where("notes.author_id = ?", id)},
		{&stats.FollowersCount, db.Model(&models.Follow{}).Where("followee_id = ?", id)},
		{&stats.FollowingCount, db.Model(&models.Follow{}).Where("follower_id = ?", id)},
		{&stats.FriendsCount, db.Model(&models.Friendship{}).Where("profile_a_id = ? OR profile_b_id = ?", id, id)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return stats, nil
}
