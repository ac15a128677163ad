package service

import (
	"context"

	"quad/internal/models"
	"quad/internal/notifications"
	"quad/internal/observability"
	"quad/internal/repository"
)

// FollowService maintains the directed follow graph.
type FollowService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
	notifier    *notifications.Notifier
}

func NewFollowService(
	followRepo repository.FollowRepository,
	profileRepo repository.ProfileRepository,
	notifier *notifications.Notifier,
) *FollowService {
	return &FollowService{followRepo: followRepo, profileRepo: profileRepo, notifier: notifier}
}

// Follow makes followerID follow followeeID. Following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == followeeID {
		return false, models.NewInvalidRelationError("follow", followerID)
	}
	if err := requireProfiles(ctx, s.profileRepo, followerID, followeeID); err != nil {
		return false, err
	}
	created, err := s.followRepo.Follow(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if created {
		observability.RelationMutations.WithLabelValues("follow", "add").Inc()
		s.notifier.PublishAsync(notifications.Event{
			Type:      notifications.EventNewFollower,
			ActorID:   followerID,
			ProfileID: followeeID,
		})
	}
	return created, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if err := requireProfiles(ctx, s.profileRepo, followerID, followeeID); err != nil {
		return false, err
	}
	removed, err := s.followRepo.Unfollow(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if removed {
		observability.RelationMutations.WithLabelValues("follow", "remove").Inc()
	}
	return removed, nil
}

// ToggleFollow flips the edge and reports whether followerID now follows followeeID.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if err := requireProfiles(ctx, s.profileRepo, followerID, followeeID); err != nil {
		return false, err
	}
	following, err := s.followRepo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if following {
		_, err = s.Unfollow(ctx, followerID, followeeID)
		return false, err
	}
	if _, err := s.Follow(ctx, followerID, followeeID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}

func (s *FollowService) Followers(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, profileID, limit, offset)
}

func (s *FollowService) Following(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, profileID, limit, offset)
}
