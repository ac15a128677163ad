package server

import (
	"quad/internal/middleware"
	"quad/internal/models"
	"quad/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListNotes handles GET /api/notes?author=&author_id=&sort=
func (s *Server) ListNotes(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	filter := models.NoteFilter{
		AuthorName: c.Query("author"),
		AuthorID:   uint(max(c.QueryInt("author_id", 0), 0)),
		Sort:       c.Query("sort"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	notes, err := s.noteService.ListNotes(c.UserContext(), filter)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(notes)
}

// GetTopNotes handles GET /api/notes/top
func (s *Server) GetTopNotes(c *fiber.Ctx) error {
	page := parsePagination(c, service.TopNotesLimit)
	notes, err := s.noteService.TopNotes(c.UserContext(), page.Limit)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(notes)
}

// GetNote handles GET /api/notes/:id
func (s *Server) GetNote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	note, err := s.noteService.GetNote(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(note)
}

// CreateNote handles POST /api/notes
func (s *Server) CreateNote(c *fiber.Ctx) error {
	var in service.CreateNoteInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.AuthorID = middleware.ProfileID(c)

	note, err := s.noteService.CreateNote(c.UserContext(), in)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// UpdateNote handles PUT /api/notes/:id
func (s *Server) UpdateNote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.UpdateNoteInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.ActorID = middleware.ProfileID(c)
	in.NoteID = id

	note, err := s.noteService.UpdateNote(c.UserContext(), in)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(note)
}

// DeleteNote handles DELETE /api/notes/:id
func (s *Server) DeleteNote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.noteService.DeleteNote(c.UserContext(), middleware.ProfileID(c), id); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetNewsFeed handles GET /api/profiles/me/feed
func (s *Server) GetNewsFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	notes, err := s.noteService.NewsFeed(c.UserContext(), middleware.ProfileID(c), page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(notes)
}

// GetLikedNotes handles GET /api/profiles/:id/liked
func (s *Server) GetLikedNotes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	notes, err := s.noteService.LikedNotes(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(notes)
}

// GetBookmarkedNotes handles GET /api/profiles/:id/bookmarked
func (s *Server) GetBookmarkedNotes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	notes, err := s.noteService.BookmarkedNotes(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(notes)
}

// ToggleLike handles POST /api/notes/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.engagementService.ToggleLike(c.UserContext(), id, middleware.ProfileID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(result)
}

// ToggleBookmark handles POST /api/notes/:id/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.engagementService.ToggleBookmark(c.UserContext(), id, middleware.ProfileID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(result)
}

// GetLikers handles GET /api/notes/:id/likers
func (s *Server) GetLikers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profiles, err := s.engagementService.Likers(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profiles)
}

// GetBookmarkers handles GET /api/notes/:id/bookmarkers
func (s *Server) GetBookmarkers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profiles, err := s.engagementService.Bookmarkers(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profiles)
}
