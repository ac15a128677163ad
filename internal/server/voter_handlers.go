package server

import (
	"quad/internal/models"

	"github.com/gofiber/fiber/v2"
)

// maxImportErrors caps how many rejected rows an import response lists.
const maxImportErrors = 100

type importResponse struct {
	BatchID   string                     `json:"batch_id"`
	Succeeded int                        `json:"succeeded"`
	Failed    int                        `json:"failed"`
	Errors    []*models.RecordParseError `json:"errors"`
	Truncated bool                       `json:"truncated,omitempty"`
}

// QueryVoters handles GET /api/voters
func (s *Server) QueryVoters(c *fiber.Ctx) error {
	criteria, err := parseVoterCriteria(c)
	if err != nil {
		return respond(c, err)
	}
	records, err := s.reportService.QueryVoters(c.UserContext(), criteria)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(records)
}

// GetVoterReport handles GET /api/voters/report
func (s *Server) GetVoterReport(c *fiber.Ctx) error {
	criteria, err := parseVoterCriteria(c)
	if err != nil {
		return respond(c, err)
	}
	report, err := s.reportService.Report(c.UserContext(), criteria)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(report)
}

// GetVoterFilterOptions handles GET /api/voters/options
func (s *Server) GetVoterFilterOptions(c *fiber.Ctx) error {
	options, err := s.reportService.FilterOptions(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(options)
}

// GetVoter handles GET /api/voters/:id
func (s *Server) GetVoter(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	record, err := s.reportService.GetVoter(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(record)
}

// ImportVoters handles POST /api/voters/import with a multipart "file" field.
func (s *Server) ImportVoters(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("file is required"))
	}
	f, err := header.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("file could not be opened"))
	}
	defer f.Close()

	result, err := s.importService.LoadRecords(c.UserContext(), f)
	if err != nil {
		return respond(c, err)
	}

	resp := importResponse{
		BatchID:   result.BatchID,
		Succeeded: result.Succeeded,
		Failed:    result.FailedCount(),
		Errors:    result.Failed,
	}
	if len(resp.Errors) > maxImportErrors {
		resp.Errors = resp.Errors[:maxImportErrors]
		resp.Truncated = true
	}
	if resp.Errors == nil {
		resp.Errors = []*models.RecordParseError{}
	}
	return c.JSON(resp)
}
