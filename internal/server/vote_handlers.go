package server

import (
	"voxpop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleVote handles POST /api/votes. Direction true casts a vote on the
// post, false retracts the caller's existing vote. Retraction is a plain
// success response.
func (s *Server) ToggleVote(c *fiber.Ctx) error {
	var req struct {
		PostID uint `json:"post_id"`
		Dir    bool `json:"dir"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, models.NewValidationError("post_id is required"))
	}

	if err := s.voteService.Toggle(c.UserContext(), currentUserID(c), req.PostID, req.Dir); err != nil {
		return models.RespondWithError(c, err)
	}

	if req.Dir {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"post_id": req.PostID,
			"voted":   true,
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
