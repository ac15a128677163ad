package repository

import (
	"context"
	"errors"
	"strings"

	"quad/internal/models"
	"quad/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteRepository defines the interface for note and engagement data operations
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uint) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	Top(ctx context.Context, limit int) ([]models.Note, error)
	Feed(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Note, error)
	LikedBy(ctx context.Context, profileID uint, limit, offset int) ([]models.Note, error)
	BookmarkedBy(ctx context.Context, profileID uint, limit, offset int) ([]models.Note, error)
	Likers(ctx context.Context, noteID uint) ([]models.Profile, error)
	Bookmarkers(ctx context.Context, noteID uint) ([]models.Profile, error)
	Toggle(ctx context.Context, kind models.EngagementKind, noteID, profileID uint) (*models.ToggleResult, error)
	EngagementState(ctx context.Context, noteID, profileID uint) (liked, bookmarked bool, err error)
}

type noteRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db, log: observability.NewRepoLogger("notes")}
}

// membership describes the table behind one engagement set.
type membership struct {
	empty      func() interface{}
	table      string
	counterCol string
	build      func(noteID, profileID uint) interface{}
}

var memberships = map[models.EngagementKind]membership{
	models.EngagementLike: {
		empty:      func() interface{} { return &models.NoteLike{} },
		table:      "note_likes",
		counterCol: "like_count",
		build: func(noteID, profileID uint) interface{} {
			return &models.NoteLike{NoteID: noteID, ProfileID: profileID}
		},
	},
	models.EngagementBookmark: {
		empty:      func() interface{} { return &models.NoteBookmark{} },
		table:      "note_bookmarks",
		counterCol: "bookmark_count",
		build: func(noteID, profileID uint) interface{} {
			return &models.NoteBookmark{NoteID: noteID, ProfileID: profileID}
		},
	},
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	note.LikeCount, note.BookmarkCount = 0, 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(note).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"note_id": note.ID, "author_id": note.AuthorID})
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).Preload("Author").First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Note", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &note, nil
}

// Update writes title and content only; counters belong to Toggle.
func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	result := r.db.WithContext(ctx).
		Model(&models.Note{ID: note.ID}).
		Updates(map[string]interface{}{"title": note.Title, "content": note.Content})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Note", note.ID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"note_id": note.ID})
	return nil
}

// Delete removes the note with its memberships and comments in one transaction.
func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.NoteLike{}, &models.NoteBookmark{}, &models.Comment{}} {
			if err := tx.Where("note_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.Note{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Note", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"note_id": id})
	return nil
}

func (r *noteRepository) List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	query := r.db.WithContext(ctx).Model(&models.Note{}).Preload("Author")

	if name := strings.TrimSpace(filter.AuthorName); name != "" {
		query = query.
			Joins("JOIN profiles author ON author.id = notes.author_id").
			Where("LOWER(author.first_name || ' ' || author.last_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.AuthorID != 0 {
		query = query.Where("notes.author_id = ?", filter.AuthorID)
	}

	var notes []models.Note
	if err := paginate(applyNoteSort(query, filter.Sort), filter.Limit, filter.Offset).
		Find(&notes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notes, nil
}

// applyNoteSort appends the ORDER BY clause for the requested sort key.
func applyNoteSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case models.NoteSortOldest:
		return db.Order("notes.created_at ASC, notes.id ASC")
	case models.NoteSortLikes:
		return db.Order("notes.like_count DESC, notes.created_at DESC, notes.id DESC")
	case models.NoteSortTitle:
		return db.Order("notes.title ASC, notes.id ASC")
	default:
		return db.Order("notes.created_at DESC, notes.id DESC")
	}
}

func (r *noteRepository) Top(ctx context.Context, limit int) ([]models.Note, error) {
	return r.List(ctx, models.NoteFilter{Sort: models.NoteSortLikes, Limit: limit})
}

func (r *noteRepository) Feed(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Note, error) {
	if len(authorIDs) == 0 {
		return []models.Note{}, nil
	}
	var notes []models.Note
	query := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC, id DESC")
	if err := paginate(query, limit, offset).Find(&notes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notes, nil
}

func (r *noteRepository) LikedBy(ctx context.Context, profileID uint, limit, offset int) ([]models.Note, error) {
	return r.notesIn(ctx, memberships[models.EngagementLike].table, profileID, limit, offset)
}

func (r *noteRepository) BookmarkedBy(ctx context.Context, profileID uint, limit, offset int) ([]models.Note, error) {
	return r.notesIn(ctx, memberships[models.EngagementBookmark].table, profileID, limit, offset)
}

func (r *noteRepository) notesIn(ctx context.Context, table string, profileID uint, limit, offset int) ([]models.Note, error) {
	var notes []models.Note
	query := r.db.WithContext(ctx).
		Model(&models.Note{}).
		Preload("Author").
		Joins("JOIN "+table+" m ON m.note_id = notes.id").
		Where("m.profile_id = ?", profileID).
		Order("m.created_at DESC, notes.id DESC")
	if err := paginate(query, limit, offset).Find(&notes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notes, nil
}

func (r *noteRepository) Likers(ctx context.Context, noteID uint) ([]models.Profile, error) {
	return r.members(ctx, memberships[models.EngagementLike].table, noteID)
}

func (r *noteRepository) Bookmarkers(ctx context.Context, noteID uint) ([]models.Profile, error) {
	return r.members(ctx, memberships[models.EngagementBookmark].table, noteID)
}

func (r *noteRepository) members(ctx context.Context, table string, noteID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Joins("JOIN "+table+" m ON m.profile_id = profiles.id").
		Where("m.note_id = ?", noteID).
		Order("profiles.id").
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// Toggle flips profileID's membership in the note's like or bookmark set and
// stores the recomputed set size on the note, all in one transaction. The
// note row is locked first so concurrent toggles on the same note serialize.
func (r *noteRepository) Toggle(ctx context.Context, kind models.EngagementKind, noteID, profileID uint) (*models.ToggleResult, error) {
	m, ok := memberships[kind]
	if !ok {
		return nil, models.NewValidationError("unknown engagement kind " + string(kind))
	}
	defer observability.TrackQuery("toggle_"+string(kind), m.table)()

	result := &models.ToggleResult{NoteID: noteID, ProfileID: profileID, Kind: kind}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&note, noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Note", noteID)
			}
			return err
		}

		var profiles int64
		if err := tx.Model(&models.Profile{}).Where("id = ?", profileID).Count(&profiles).Error; err != nil {
			return err
		}
		if profiles == 0 {
			return models.NewNotFoundError("Profile", profileID)
		}

		removed := tx.Where("note_id = ? AND profile_id = ?", noteID, profileID).Delete(m.empty())
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected == 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(m.build(noteID, profileID)).Error; err != nil {
				return err
			}
			result.Active = true
		}

		if err := tx.Model(m.empty()).Where("note_id = ?", noteID).Count(&result.Count).Error; err != nil {
			return err
		}
		return tx.Model(&models.Note{}).
			Where("id = ?", noteID).
			UpdateColumn(m.counterCol, result.Count).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		r.log.LogError(ctx, err, "toggle_"+string(kind))
		return nil, models.NewInternalError(err)
	}

	r.log.LogToggle(ctx, map[string]interface{}{
		"kind":       kind,
		"note_id":    noteID,
		"profile_id": profileID,
		"active":     result.Active,
		"count":      result.Count,
	})
	return result, nil
}

func (r *noteRepository) EngagementState(ctx context.Context, noteID, profileID uint) (bool, bool, error) {
	var liked, bookmarked int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.NoteLike{}).Where("note_id = ? AND profile_id = ?", noteID, profileID).Count(&liked).Error; err != nil {
		return false, false, models.NewInternalError(err)
	}
	if err := db.Model(&models.NoteBookmark{}).Where("note_id = ? AND profile_id = ?", noteID, profileID).Count(&bookmarked).Error; err != nil {
		return false, false, models.NewInternalError(err)
	}
	return liked > 0, bookmarked > 0, nil
}
