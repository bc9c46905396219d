package server

import (
	"voxpop/internal/models"
	"voxpop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup. On success it returns the created
// account together with a freshly issued access token.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Username, email, and password are required"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login. The identifier may be a username or
// an email address.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Identifier == "" || req.Password == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Identifier and password are required"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
