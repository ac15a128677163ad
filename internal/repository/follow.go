package repository

import (
	"context"
	"errors"

	"quad/internal/models"
	"quad/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Followers(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error)
	Following(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error)
	FollowingIDs(ctx context.Context, profileID uint) ([]uint, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if result.Error != nil {
		if errors.Is(result.Error, models.ErrSelfRelation) {
			return false, models.NewInvalidRelationError("follow", followerID)
		}
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		r.log.LogCreate(ctx, map[string]interface{}{"follower_id": followerID, "followee_id": followeeID})
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"follower_id": followerID, "followee_id": followeeID})
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error) {
	return r.listProfiles(ctx, "follows.follower_id", "follows.followee_id", profileID, limit, offset)
}

func (r *followRepository) Following(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error) {
	return r.listProfiles(ctx, "follows.followee_id", "follows.follower_id", profileID, limit, offset)
}

func (r *followRepository) listProfiles(ctx context.Context, joinCol, filterCol string, profileID uint, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	query := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Joins("JOIN follows ON profiles.id = "+joinCol).
		Where(filterCol+" = ?", profileID).
		Order("follows.created_at DESC, profiles.id")
	if err := paginate(query, limit, offset).Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, profileID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", profileID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
