package service

import (
	"context"
	"strings"

	"quad/internal/models"
	"quad/internal/repository"
	"quad/internal/validation"
)

// TopNotesLimit is the default size of the most-liked list.
const TopNotesLimit = 10

var noteSorts = map[string]bool{
	"":                    true,
	models.NoteSortNewest: true,
	models.NoteSortOldest: true,
	models.NoteSortLikes:  true,
	models.NoteSortTitle:  true,
}

type NoteService struct {
	noteRepo    repository.NoteRepository
	friendRepo  repository.FriendRepository
	profileRepo repository.ProfileRepository
}

type CreateNoteInput struct {
	AuthorID uint   `json:"-"`
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required,max=20000"`
}

type UpdateNoteInput struct {
	ActorID uint    `json:"-"`
	NoteID  uint    `json:"-"`
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1,max=20000"`
}

func NewNoteService(
	noteRepo repository.NoteRepository,
	friendRepo repository.FriendRepository,
	profileRepo repository.ProfileRepository,
) *NoteService {
	return &NoteService{noteRepo: noteRepo, friendRepo: friendRepo, profileRepo: profileRepo}
}

func (s *NoteService) CreateNote(ctx context.Context, in CreateNoteInput) (*models.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	author, err := s.profileRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	note := &models.Note{Title: in.Title, Content: in.Content, AuthorID: author.ID}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	note.Author = *author
	return note, nil
}

func (s *NoteService) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	return s.noteRepo.GetByID(ctx, id)
}

// UpdateNote is restricted to the note's author.
func (s *NoteService) UpdateNote(ctx context.Context, in UpdateNoteInput) (*models.Note, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	note, err := s.authored(ctx, in.ActorID, in.NoteID, "edit")
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		note.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		note.Content = *in.Content
	}
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes the note with its likes, bookmarks and comments.
func (s *NoteService) DeleteNote(ctx context.Context, actorID, noteID uint) error {
	if _, err := s.authored(ctx, actorID, noteID, "delete"); err != nil {
		return err
	}
	return s.noteRepo.Delete(ctx, noteID)
}

func (s *NoteService) authored(ctx context.Context, actorID, noteID uint, verb string) (*models.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != actorID {
		return nil, models.NewForbiddenError("You can only " + verb + " your own notes")
	}
	return note, nil
}

func (s *NoteService) ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	if !noteSorts[filter.Sort] {
		return nil, models.NewValidationError("unknown sort " + filter.Sort)
	}
	return s.noteRepo.List(ctx, filter)
}

// TopNotes returns the most liked notes; limit <= 0 means TopNotesLimit.
func (s *NoteService) TopNotes(ctx context.Context, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = TopNotesLimit
	}
	return s.noteRepo.Top(ctx, limit)
}

// NewsFeed returns notes written by profileID and its friends, newest first.
func (s *NoteService) NewsFeed(ctx context.Context, profileID uint, limit, offset int) ([]models.Note, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID); err != nil {
		return nil, err
	}
	friendIDs, err := s.friendRepo.GetFriendIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.noteRepo.Feed(ctx, append(friendIDs, profileID), limit, offset)
}

func (s *NoteService) LikedNotes(ctx context.Context, profileID uint, limit, offset int) ([]models.Note, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID); err != nil {
		return nil, err
	}
	return s.noteRepo.LikedBy(ctx, profileID, limit, offset)
}

func (s *NoteService) BookmarkedNotes(ctx context.Context, profileID uint, limit, offset int) ([]models.Note, error) {
	if err := requireProfiles(ctx, s.profileRepo, profileID); err != nil {
		return nil, err
	}
	return s.noteRepo.BookmarkedBy(ctx, profileID, limit, offset)
}
