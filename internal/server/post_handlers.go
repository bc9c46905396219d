package server

import (
	"voxpop/internal/models"
	"voxpop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts?limit=&offset=&search=
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.List(c.UserContext(), service.ListPostsInput{
		RequesterID: currentUserID(c),
		Search:      c.Query("search"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// GetMyPosts handles GET /api/posts/me
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.ListMine(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Published *bool  `json:"published,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		UserID:    currentUserID(c),
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. Omitted fields keep their prior
// values.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title     *string `json:"title,omitempty"`
		Content   *string `json:"content,omitempty"`
		Published *bool   `json:"published,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.UserContext(), service.UpdatePostInput{
		UserID:    currentUserID(c),
		PostID:    postID,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), currentUserID(c), postID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
