package service

import (
	"context"

	"quad/internal/featureflags"
	"quad/internal/models"
	"quad/internal/notifications"
	"quad/internal/observability"
	"quad/internal/repository"
)

// FriendService maintains the symmetric friendship graph.
type FriendService struct {
	friendRepo  repository.FriendRepository
	profileRepo repository.ProfileRepository
	notifier    *notifications.Notifier
	flags       *featureflags.Flags
}

// NewFriendService returns a new FriendService. notifier and flags may be nil.
func NewFriendService(
	friendRepo repository.FriendRepository,
	profileRepo repository.ProfileRepository,
	notifier *notifications.Notifier,
	flags *featureflags.Flags,
) *FriendService {
	return &FriendService{
		friendRepo:  friendRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		flags:       flags,
	}
}

// AddFriend records a friendship between profileID and otherID. Adding an
// existing friendship, in either order, is a no-op that reports false.
func (s *FriendService) AddFriend(ctx context.Context, profileID, otherID uint) (bool, error) {
	if profileID == otherID {
		return false, models.NewInvalidRelationError("befriend", profileID)
	}
	if err := requireProfiles(ctx, s.profileRepo, profileID, otherID); err != nil {
		return false, err
	}

	created, err := s.friendRepo.Add(ctx, profileID, otherID)
	if err != nil {
		return false, err
	}
	if created {
		observability.RelationMutations.WithLabelValues("friend", "add").Inc()
		s.notifier.PublishAsync(notifications.Event{
			Type:      notifications.EventFriendAdded,
			ActorID:   profileID,
			ProfileID: otherID,
		})
	}
	return created, nil
}

func (s *FriendService) RemoveFriend(ctx context.Context, profileID, otherID uint) (bool, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID, otherID); err != nil {
		return false, err
	}
	removed, err := s.friendRepo.Remove(ctx, profileID, otherID)
	if err != nil {
		return false, err
	}
	if removed {
		observability.RelationMutations.WithLabelValues("friend", "remove").Inc()
		s.notifier.PublishAsync(notifications.Event{
			Type:      notifications.EventFriendRemoved,
			ActorID:   profileID,
			ProfileID: otherID,
		})
	}
	return removed, nil
}

func (s *FriendService) GetFriends(ctx context.Context, profileID uint) ([]models.Profile, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID); err != nil {
		return nil, err
	}
	return s.friendRepo.GetFriends(ctx, profileID)
}

// GetFriendSuggestions lists profiles that are neither profileID nor already
// its friends. The order is by id unless ranked suggestions are enabled.
func (s *FriendService) GetFriendSuggestions(ctx context.Context, profileID uint, limit int) ([]models.FriendSuggestion, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID); err != nil {
		return nil, err
	}
	if s.flags.Enabled(featureflags.RankedSuggestions, profileID) {
		return s.friendRepo.GetRankedSuggestions(ctx, profileID, limit)
	}
	return s.friendRepo.GetSuggestions(ctx, profileID, limit)
}

func (s *FriendService) AreFriends(ctx context.Context, profileID, otherID uint) (bool, error) {
	if profileID == otherID {
		return false, nil
	}
	return s.friendRepo.AreFriends(ctx, profileID, otherID)
}
