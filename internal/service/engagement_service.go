package service

import (
	"context"

	"quad/internal/models"
	"quad/internal/notifications"
	"quad/internal/observability"
	"quad/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EngagementService flips likes and bookmarks. The stored counter always
// equals the size of the membership set after a toggle.
type EngagementService struct {
	noteRepo repository.NoteRepository
	notifier *notifications.Notifier
}

func NewEngagementService(noteRepo repository.NoteRepository, notifier *notifications.Notifier) *EngagementService {
	return &EngagementService{noteRepo: noteRepo, notifier: notifier}
}

func (s *EngagementService) ToggleLike(ctx context.Context, noteID, profileID uint) (*models.ToggleResult, error) {
	return s.toggle(ctx, models.EngagementLike, noteID, profileID)
}

func (s *EngagementService) ToggleBookmark(ctx context.Context, noteID, profileID uint) (*models.ToggleResult, error) {
	return s.toggle(ctx, models.EngagementBookmark, noteID, profileID)
}

func (s *EngagementService) toggle(ctx context.Context, kind models.EngagementKind, noteID, profileID uint) (*models.ToggleResult, error) {
	span, ctx := observability.NewSpan(ctx, "engagement.toggle",
		attribute.String("kind", string(kind)),
		attribute.Int64("note_id", int64(noteID)),
		attribute.Int64("profile_id", int64(profileID)),
	)
	defer span.End()

	result, err := s.noteRepo.Toggle(ctx, kind, noteID, profileID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Bool("active", result.Active), attribute.Int64("count", result.Count))
	observability.RecordToggle(string(kind), result.Active)

	if kind == models.EngagementLike && result.Active {
		s.notifyAuthor(ctx, noteID, profileID)
	}
	return result, nil
}

func (s *EngagementService) notifyAuthor(ctx context.Context, noteID, likerID uint) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil || note.AuthorID == likerID {
		return
	}
	s.notifier.PublishAsync(notifications.Event{
		Type:      notifications.EventNoteLiked,
		ActorID:   likerID,
		ProfileID: note.AuthorID,
		NoteID:    noteID,
	})
}

func (s *EngagementService) Likers(ctx context.Context, noteID uint) ([]models.Profile, error) {
	if _, err := s.noteRepo.GetByID(ctx, noteID); err != nil {
		return nil, err
	}
	return s.noteRepo.Likers(ctx, noteID)
}

func (s *EngagementService) Bookmarkers(ctx context.Context, noteID uint) ([]models.Profile, error) {
	if _, err := s.noteRepo.GetByID(ctx, noteID); err != nil {
		return nil, err
	}
	return s.noteRepo.Bookmarkers(ctx, noteID)
}

// State reports whether profileID currently likes and bookmarks noteID.
func (s *EngagementService) State(ctx context.Context, noteID, profileID uint) (liked, bookmarked bool, err error) {
	return s.noteRepo.EngagementState(ctx, noteID, profileID)
}
