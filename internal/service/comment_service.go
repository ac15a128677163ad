package service

import (
	"context"
	"strings"

	"quad/internal/models"
	"quad/internal/notifications"
	"quad/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	noteRepo    repository.NoteRepository
	profileRepo repository.ProfileRepository
	notifier    *notifications.Notifier
}

type CreateCommentInput struct {
	ProfileID uint
	NoteID    uint
	Content   string
}

type UpdateCommentInput struct {
	ProfileID uint
	CommentID uint
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	noteRepo repository.NoteRepository,
	profileRepo repository.ProfileRepository,
	notifier *notifications.Notifier,
) *CommentService {
	return &CommentService{commentRepo: commentRepo, noteRepo: noteRepo, profileRepo: profileRepo, notifier: notifier}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}
	if err := requireProfiles(ctx, s.profileRepo, in.ProfileID); err != nil {
		return nil, err
	}
	note, err := s.noteRepo.GetByID(ctx, in.NoteID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:   in.Content,
		NoteID:    in.NoteID,
		ProfileID: in.ProfileID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if note.AuthorID != in.ProfileID {
		s.notifier.PublishAsync(notifications.Event{
			Type:      notifications.EventNoteCommented,
			ActorID:   in.ProfileID,
			ProfileID: note.AuthorID,
			NoteID:    note.ID,
		})
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// UpdateComment is restricted to the comment's author.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.ProfileID != in.ProfileID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}
	if err := s.commentRepo.UpdateContent(ctx, in.CommentID, in.Content); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, in.CommentID)
}

// DeleteComment is restricted to the comment's author.
func (s *CommentService) DeleteComment(ctx context.Context, profileID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ProfileID != profileID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *CommentService) ListComments(ctx context.Context, noteID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.noteRepo.GetByID(ctx, noteID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByNote(ctx, noteID, limit, offset)
}
