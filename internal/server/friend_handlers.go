package server

import (
	"quad/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// AddFriend handles POST /api/friends/:id
func (s *Server) AddFriend(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID := middleware.ProfileID(c)

	created, err := s.friendService.AddFriend(c.UserContext(), profileID, targetID)
	if err != nil {
		return respond(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"profile_id": profileID,
		"friend_id":  targetID,
		"created":    created,
	})
}

// RemoveFriend handles DELETE /api/friends/:id
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	removed, err := s.friendService.RemoveFriend(c.UserContext(), middleware.ProfileID(c), targetID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// GetFriends handles GET /api/profiles/:id/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	friends, err := s.friendService.GetFriends(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(friends)
}

// GetFriendSuggestions handles GET /api/profiles/:id/suggestions
// Every non-friend is returned unless the client asks for a limit.
func (s *Server) GetFriendSuggestions(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	suggestions, err := s.friendService.GetFriendSuggestions(c.UserContext(), id, limit)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(suggestions)
}

// Follow handles POST /api/follows/:id
func (s *Server) Follow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	created, err := s.followService.Follow(c.UserContext(), middleware.ProfileID(c), targetID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"following": true, "created": created})
}

// Unfollow handles DELETE /api/follows/:id
func (s *Server) Unfollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	removed, err := s.followService.Unfollow(c.UserContext(), middleware.ProfileID(c), targetID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"following": false, "removed": removed})
}

// ToggleFollow handles POST /api/follows/:id/toggle
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	following, err := s.followService.ToggleFollow(c.UserContext(), middleware.ProfileID(c), targetID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// GetFollowers handles GET /api/profiles/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)
	followers, err := s.followService.Followers(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(followers)
}

// GetFollowing handles GET /api/profiles/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)
	following, err := s.followService.Following(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(following)
}
