package server

import (
	"voxpop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	users, err := s.userService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(user)
}
