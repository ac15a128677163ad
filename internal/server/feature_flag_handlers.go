package server

import (
	"quad/internal/featureflags"
	"quad/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/feature-flags and reports every flag as
// it applies to the caller.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	flags := s.featureFlags.Snapshot(middleware.ProfileID(c))
	if _, ok := flags[featureflags.RankedSuggestions]; !ok {
		flags[featureflags.RankedSuggestions] = false
	}
	return c.JSON(fiber.Map{"flags": flags})
}
