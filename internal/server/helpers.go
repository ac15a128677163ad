package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"quad/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the response.
// Handlers return nil when they see it so the ErrorHandler leaves the body alone.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseID reads a positive route parameter. On failure it writes a 400 and
// returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respond writes err with the status its code maps to.
func respond(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// humanizeParam turns a route param name into a label: "id" -> "ID",
// "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// parseVoterCriteria reads voter filters from the query string. Absent
// parameters leave the matching criterion unset.
func parseVoterCriteria(c *fiber.Ctx) (models.VoterCriteria, error) {
	var criteria models.VoterCriteria

	if party := c.Query("party"); party != "" {
		criteria.Party = &party
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"min_birth_year", &criteria.MinBirthYear},
		{"max_birth_year", &criteria.MaxBirthYear},
		{"score", &criteria.Score},
	}
	for _, p := range ints {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, models.NewValidationError(p.name + " must be an integer")
		}
		*p.dst = &n
	}

	if raw := c.Query("participated_in"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			e, err := models.ParseElection(tag)
			if err != nil {
				return criteria, err
			}
			criteria.ParticipatedIn = append(criteria.ParticipatedIn, e)
		}
	}

	criteria.Limit = c.QueryInt("limit", 0)
	criteria.Offset = c.QueryInt("offset", 0)
	return criteria, nil
}
