package server

import (
	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateAttempt handles POST /api/attempts
// @Summary Start attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{scenario_id=string,code_snapshot=string} true "Attempt"
// @Success 201 {object} models.UserAttempt
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /attempts [post]
func (s *Server) CreateAttempt(c *fiber.Ctx) error {
	var req struct {
		ScenarioID   string `json:"scenario_id"`
		CodeSnapshot string `json:"code_snapshot"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	scenarioID, err := uuid.Parse(req.ScenarioID)
	if err != nil {
		return badRequest(c, "scenario_id must be a valid UUID")
	}

	attempt, err := s.attemptService.StartAttempt(c.UserContext(), service.StartAttemptInput{
		UserID:       middleware.UserID(c),
		ScenarioID:   scenarioID,
		CodeSnapshot: req.CodeSnapshot,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(attempt)
}

// SubmitAttempt handles POST /api/attempts/:id/submit
// @Summary Submit attempt
// @Description Stores the final snapshot and returns generated feedback
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Param request body object{code_snapshot=string,execution_time_ms=int} true "Submission"
// @Success 200 {object} service.SubmitResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /attempts/{id}/submit [post]
func (s *Server) SubmitAttempt(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		CodeSnapshot    string `json:"code_snapshot"`
		ExecutionTimeMS *int   `json:"execution_time_ms"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := s.attemptService.SubmitAttempt(c.UserContext(), service.SubmitAttemptInput{
		UserID:          middleware.UserID(c),
		AttemptID:       id,
		CodeSnapshot:    req.CodeSnapshot,
		ExecutionTimeMS: req.ExecutionTimeMS,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// RunAttempt handles POST /api/attempts/:id/run
// @Summary Run attempt
// @Description Returns canned execution output
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} models.RunResult
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /attempts/{id}/run [post]
func (s *Server) RunAttempt(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.attemptService.RunAttempt(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetAttemptHistory handles GET /api/attempts/history
// @Summary Attempt history
// @Description The caller's attempts newest first, with scenario and feedback
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserAttempt
// @Router /attempts/history [get]
func (s *Server) GetAttemptHistory(c *fiber.Ctx) error {
	attempts, err := s.attemptService.History(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attempts)
}
