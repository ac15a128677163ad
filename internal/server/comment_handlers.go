package server

import (
	"quad/internal/middleware"
	"quad/internal/models"
	"quad/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// GetComments handles GET /api/notes/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	noteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)
	comments, err := s.commentService.ListComments(c.UserContext(), noteID, page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/notes/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	noteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		ProfileID: middleware.ProfileID(c),
		NoteID:    noteID,
		Content:   req.Content,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/notes/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		ProfileID: middleware.ProfileID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/notes/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), middleware.ProfileID(c), commentID); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
