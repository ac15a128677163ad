package repository

import (
	"context"
	"errors"

	"quad/internal/models"
	"quad/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository defines the interface for friendship data operations
type FriendRepository interface {
	Add(ctx context.Context, a, b uint) (bool, error)
	Remove(ctx context.Context, a, b uint) (bool, error)
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	GetFriendIDs(ctx context.Context, profileID uint) ([]uint, error)
	GetFriends(ctx context.Context, profileID uint) ([]models.Profile, error)
	GetSuggestions(ctx context.Context, profileID uint, limit int) ([]models.FriendSuggestion, error)
	GetRankedSuggestions(ctx context.Context, profileID uint, limit int) ([]models.FriendSuggestion, error)
}

type friendRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db, log: observability.NewRepoLogger("friendships")}
}

// Add inserts the canonical edge for a and b. The insert ignores conflicts
// on the pair index, so concurrent or repeated calls leave exactly one row.
// The returned bool reports whether this call created it.
func (r *friendRepository) Add(ctx context.Context, a, b uint) (bool, error) {
	friendship := models.NewFriendship(a, b)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(friendship)
	if result.Error != nil {
		if errors.Is(result.Error, models.ErrSelfRelation) {
			return false, models.NewInvalidRelationError("befriend", a)
		}
		return false, models.NewInternalError(result.Error)
	}
	created := result.RowsAffected > 0
	if created {
		r.log.LogCreate(ctx, map[string]interface{}{"profile_a_id": friendship.ProfileAID, "profile_b_id": friendship.ProfileBID})
	}
	return created, nil
}

func (r *friendRepository) Remove(ctx context.Context, a, b uint) (bool, error) {
	pair := models.NewFriendship(a, b)
	result := r.db.WithContext(ctx).
		Where("profile_a_id = ? AND profile_b_id = ?", pair.ProfileAID, pair.ProfileBID).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"profile_a_id": pair.ProfileAID, "profile_b_id": pair.ProfileBID})
	}
	return result.RowsAffected > 0, nil
}

func (r *friendRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	pair := models.NewFriendship(a, b)
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("profile_a_id = ? AND profile_b_id = ?", pair.ProfileAID, pair.ProfileBID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *friendRepository) GetFriendIDs(ctx context.Context, profileID uint) ([]uint, error) {
	var edges []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("profile_a_id = ? OR profile_b_id = ?", profileID, profileID).
		Find(&edges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uint, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].Other(profileID))
	}
	return ids, nil
}

// friendIDs selects the ids adjacent to profileID as a subquery.
func (r *friendRepository) friendIDs(db *gorm.DB, profileID uint) *gorm.DB {
	return db.Raw(
		"SELECT profile_b_id FROM friendships WHERE profile_a_id = ? UNION SELECT profile_a_id FROM friendships WHERE profile_b_id = ?",
		profileID, profileID,
	)
}

func (r *friendRepository) GetFriends(ctx context.Context, profileID uint) ([]models.Profile, error) {
	db := r.db.WithContext(ctx)
	var profiles []models.Profile
	if err := db.
		Where("id IN (?)", r.friendIDs(db, profileID)).
		Order("id").
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// GetSuggestions returns every profile that is neither profileID nor one of
// its friends, in id order. limit <= 0 means no limit.
func (r *friendRepository) GetSuggestions(ctx context.Context, profileID uint, limit int) ([]models.FriendSuggestion, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Profile{}).
		Where("id <> ?", profileID).
		Where("id NOT IN (?)", r.friendIDs(db, profileID)).
		Order("id")

	var profiles []models.Profile
	if err := paginate(query, limit, 0).Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	suggestions := make([]models.FriendSuggestion, len(profiles))
	for i := range profiles {
		suggestions[i] = models.FriendSuggestion{Profile: profiles[i]}
	}
	return suggestions, nil
}

// GetRankedSuggestions applies the same exclusion as GetSuggestions but
// orders candidates by how many friends they share with profileID.
func (r *friendRepository) GetRankedSuggestions(ctx context.Context, profileID uint, limit int) ([]models.FriendSuggestion, error) {
	defer observability.TrackQuery("ranked_suggestions", "friendships")()

	sql := `WITH mine AS (
	SELECT profile_b_id AS id FROM friendships WHERE profile_a_id = @pid
	UNION
	SELECT profile_a_id AS id FROM friendships WHERE profile_b_id = @pid
)
SELECT profiles.*, (
	SELECT COUNT(*) FROM friendships f
	WHERE (f.profile_a_id = profiles.id AND f.profile_b_id IN (SELECT id FROM mine))
	   OR (f.profile_b_id = profiles.id AND f.profile_a_id IN (SELECT id FROM mine))
) AS mutual
FROM profiles
WHERE profiles.id <> @pid AND profiles.id NOT IN (SELECT id FROM mine)
ORDER BY mutual DESC, profiles.id`
	args := map[string]interface{}{"pid": profileID}
	if limit > 0 {
		sql += " LIMIT @limit"
		args["limit"] = limit
	}

	var suggestions []models.FriendSuggestion
	if err := r.db.WithContext(ctx).Raw(sql, args).Scan(&suggestions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return suggestions, nil
}
