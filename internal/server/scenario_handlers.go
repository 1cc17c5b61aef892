package server

import (
	"strconv"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetScenarios handles GET /api/scenarios
// @Summary List scenarios
// @Tags scenarios
// @Produce json
// @Param category query string false "Network, Database, Security, Performance or OS"
// @Param difficulty query int false "Difficulty 1-5"
// @Success 200 {array} models.Scenario
// @Failure 400 {object} models.ErrorResponse
// @Router /scenarios [get]
func (s *Server) GetScenarios(c *fiber.Ctx) error {
	filter := models.ScenarioFilter{Category: c.Query("category")}
	if raw := c.Query("difficulty"); raw != "" {
		difficulty, err := strconv.Atoi(raw)
		if err != nil || difficulty == 0 {
			return badRequest(c, "difficulty must be between 1 and 5")
		}
		filter.Difficulty = difficulty
	}

	scenarios, err := s.scenarioService.ListScenarios(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(scenarios)
}

// GetScenario handles GET /api/scenarios/:id
// @Summary Get scenario
// @Tags scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} models.Scenario
// @Failure 404 {object} models.ErrorResponse
// @Router /scenarios/{id} [get]
func (s *Server) GetScenario(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	scenario, err := s.scenarioService.GetScenario(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(scenario)
}
