package server

import (
	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSkills handles GET /api/skills
// @Summary Get skill matrix
// @Description Returns the caller's skill matrix, creating an all-zero one on first access
// @Tags skills
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SkillMatrix
// @Router /skills [get]
func (s *Server) GetSkills(c *fiber.Ctx) error {
	skills, err := s.skillService.GetSkills(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skills)
}

// UpdateSkills handles PUT /api/skills
// @Summary Update skill matrix
// @Description Overwrites the provided scores; omitted scores are unchanged
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SkillUpdate true "Scores in [0,100]"
// @Success 200 {object} models.SkillMatrix
// @Failure 400 {object} models.ErrorResponse
// @Router /skills [put]
func (s *Server) UpdateSkills(c *fiber.Ctx) error {
	var req models.SkillUpdate
	// fractional or string scores fail to decode into *int
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	skills, err := s.skillService.UpdateSkills(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skills)
}
