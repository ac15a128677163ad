// Package middleware provides the Fiber middleware shared by the HTTP server.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"quad/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ProfileIDLocal is the Fiber locals key holding the authenticated profile id.
const ProfileIDLocal = "profileID"

// AuthRequired enforces a bearer token issued by the external identity
// provider. The token's "sub" claim is the caller's profile id.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "Invalid authorization header format")
		}

		profileID, err := ParseProfileToken(parts[1], secret)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		c.Locals(ProfileIDLocal, profileID)
		c.SetUserContext(context.WithValue(c.UserContext(), ProfileIDKey, profileID))
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(message))
}

// ParseProfileToken validates an HS256 token and returns the profile id in its subject.
func ParseProfileToken(tokenString, secret string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}

	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid profile ID in token")
	}
	return uint(id), nil
}

// ProfileID returns the authenticated profile id, or 0 when the request is anonymous.
func ProfileID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(ProfileIDLocal).(uint); ok {
		return id
	}
	return 0
}

// WebSocketAuth authenticates an upgrade request from the "token" query
// parameter, since browsers cannot set headers on websocket handshakes.
func WebSocketAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profileID, err := ParseProfileToken(c.Query("token"), secret)
		if err != nil {
			return unauthorized(c, err.Error())
		}
		c.Locals(ProfileIDLocal, profileID)
		c.SetUserContext(context.WithValue(c.UserContext(), ProfileIDKey, profileID))
		return c.Next()
	}
}
