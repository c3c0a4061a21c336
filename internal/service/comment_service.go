// Package service contains the business logic layer of the application.
package service

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CommentService handles comments on articles. Comments are always
// addressed through their parent article's slug.
type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	articleRepo repository.ArticleRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
	}
}

// AddComment attaches a comment to the article and returns the article
// with its refreshed comment list.
func (s *CommentService) AddComment(ctx context.Context, articleSlug string, userID uint, body string) (*models.Article, error) {
	if strings.TrimSpace(body) == "" {
		return nil, models.NewValidationError("Comment body is required")
	}

	article, err := s.articleRepo.GetBySlug(ctx, articleSlug, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:      body,
		AuthorID:  userID,
		ArticleID: article.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// The cached anonymous article view embeds the comment list.
	cache.Invalidate(ctx, cache.ArticleKey(articleSlug))
	return s.articleRepo.GetBySlug(ctx, articleSlug, userID)
}

func (s *CommentService) ListComments(ctx context.Context, articleSlug string, currentUserID uint) ([]*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(ctx, articleSlug, currentUserID)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByArticle(ctx, article.ID)
}

// DeleteComment removes a comment authored by the caller and returns the
// article with its remaining comments. An unknown comment id or one
// belonging to another article is treated as already gone and returns the
// article unchanged; only a live comment owned by somebody else is refused.
func (s *CommentService) DeleteComment(ctx context.Context, articleSlug string, commentID uint, userID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, articleSlug, userID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.ArticleID != article.ID {
		return article, nil
	}
	if comment.AuthorID != userID {
		return nil, models.NewForbiddenError("You can only delete your own comments")
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, cache.ArticleKey(articleSlug))
	return s.articleRepo.GetBySlug(ctx, articleSlug, userID)
}
