// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListArticles handles GET /api/articles
func (s *Server) ListArticles(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	page, err := s.articleService.ListArticles(c.Context(), service.ListArticlesInput{
		Tag:           c.Query("tag"),
		Author:        c.Query("author"),
		Favorited:     c.Query("favorited"),
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: optionalUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetFeed handles GET /api/articles/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	page, err := s.articleService.Feed(c.Context(), service.FeedInput{
		UserID: currentUserID(c),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetArticle handles GET /api/articles/:slug
func (s *Server) GetArticle(c *fiber.Ctx) error {
	article, err := s.articleService.GetArticle(c.Context(), c.Params("slug"), optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.CreateArticle(c.Context(), service.CreateArticleInput{
		AuthorID:    currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		TagList:     req.TagList,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": article})
}

// UpdateArticle handles PUT /api/articles/:slug
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.UpdateArticle(c.Context(), service.UpdateArticleInput{
		UserID:      currentUserID(c),
		Slug:        c.Params("slug"),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		TagList:     req.TagList,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// DeleteArticle handles DELETE /api/articles/:slug
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	if err := s.articleService.DeleteArticle(c.Context(), c.Params("slug"), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FavoriteArticle handles POST /api/articles/:slug/favorite
func (s *Server) FavoriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.FavoriteArticle(c.Context(), c.Params("slug"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// UnfavoriteArticle handles DELETE /api/articles/:slug/favorite
func (s *Server) UnfavoriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.UnfavoriteArticle(c.Context(), c.Params("slug"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.articleService.Tags(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(models.TagsView{Tags: tags})
}
