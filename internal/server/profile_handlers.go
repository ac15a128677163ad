package server

import (
	"quad/internal/middleware"
	"quad/internal/models"
	"quad/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateProfile handles POST /api/profiles
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	var in service.CreateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.CreateProfile(c.UserContext(), in)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// ListProfiles handles GET /api/profiles
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	profiles, err := s.profileService.ListProfiles(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.profileService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var in service.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.ActorID = middleware.ProfileID(c)
	in.ProfileID = in.ActorID

	profile, err := s.profileService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// GetProfileStats handles GET /api/profiles/:id/stats
func (s *Server) GetProfileStats(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stats, err := s.profileService.GetStats(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(stats)
}
