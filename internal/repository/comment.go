package repository

import (
	"context"
	"errors"

	"quad/internal/models"
	"quad/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
	ListByNote(ctx context.Context, noteID uint, limit, offset int) ([]models.Comment, error)
	CountByNote(ctx context.Context, noteID uint) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"comment_id": comment.ID, "note_id": comment.NoteID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Profile").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// UpdateContent changes the body only; created_at is never rewritten.
func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{ID: id}).
		Update("content", content)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"comment_id": id})
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"comment_id": id})
	return nil
}

func (r *commentRepository) ListByNote(ctx context.Context, noteID uint, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment
	query := r.db.WithContext(ctx).
		Preload("Profile").
		Where("note_id = ?", noteID).
		Order("created_at desc, id desc")
	if err := paginate(query, limit, offset).Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) CountByNote(ctx context.Context, noteID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("note_id = ?", noteID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
