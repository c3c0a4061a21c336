// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/articles/:slug/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.Context(), c.Params("slug"), optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(models.CommentsView{Comments: comments})
}

// AddComment handles POST /api/articles/:slug/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.commentService.AddComment(c.Context(), c.Params("slug"), currentUserID(c), req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": article})
}

// DeleteComment handles DELETE /api/articles/:slug/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.commentService.DeleteComment(c.Context(), c.Params("slug"), commentID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}
