// Package service contains the business logic layer of the application.
package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/slug"
)

// ArticleService coordinates articles, the favorites ledger and the
// follow graph behind the article endpoints.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	followRepo  repository.FollowRepository
	userRepo    repository.UserRepository
}

// CreateArticleInput is the payload for publishing a new article.
type CreateArticleInput struct {
	AuthorID    uint
	Title       string
	Description string
	Body        string
	TagList     []string
}

// UpdateArticleInput carries a partial update. Empty fields are left
// untouched; the slug never changes after creation. A nil TagList keeps
// the stored tags, an empty one clears them.
type UpdateArticleInput struct {
	UserID      uint
	Slug        string
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ListArticlesInput narrows and pages the global article list.
type ListArticlesInput struct {
	Tag           string
	Author        string
	Favorited     string
	Limit         int
	Offset        int
	CurrentUserID uint
}

// FeedInput pages the personal feed of a user.
type FeedInput struct {
	UserID uint
	Limit  int
	Offset int
}

// NewArticleService creates a new article service.
func NewArticleService(
	articleRepo repository.ArticleRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		followRepo:  followRepo,
		userRepo:    userRepo,
	}
}

func (s *ArticleService) ListArticles(ctx context.Context, in ListArticlesInput) (*models.ArticlesPage, error) {
	limit, offset := normalizePagination(in.Limit, in.Offset)
	filter := repository.ArticleFilter{
		Tag:       in.Tag,
		Author:    in.Author,
		Favorited: in.Favorited,
		Limit:     limit,
		Offset:    offset,
	}
	return s.articleRepo.List(ctx, filter, in.CurrentUserID)
}

func (s *ArticleService) Feed(ctx context.Context, in FeedInput) (*models.ArticlesPage, error) {
	followingIDs, err := s.followRepo.FollowingIDs(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	// A user following nobody gets an empty page without touching articles.
	if len(followingIDs) == 0 {
		return &models.ArticlesPage{Articles: []*models.Article{}, ArticlesCount: 0}, nil
	}

	limit, offset := normalizePagination(in.Limit, in.Offset)
	return s.articleRepo.ListByAuthorIDs(ctx, followingIDs, limit, offset, in.UserID)
}

func (s *ArticleService) GetArticle(ctx context.Context, articleSlug string, currentUserID uint) (*models.Article, error) {
	return s.articleRepo.GetBySlug(ctx, articleSlug, currentUserID)
}

func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Body is required")
	}

	tagList := in.TagList
	if tagList == nil {
		tagList = []string{}
	}

	article := &models.Article{
		Slug:        slug.Make(in.Title),
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		TagList:     tagList,
		AuthorID:    in.AuthorID,
		Favorited:   false,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	return s.articleRepo.GetBySlug(ctx, article.Slug, in.AuthorID)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, in.Slug, in.UserID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own articles")
	}

	// Partial update: the slug stays stable even when the title changes.
	if in.Title != "" {
		article.Title = in.Title
	}
	if in.Description != "" {
		article.Description = in.Description
	}
	if in.Body != "" {
		article.Body = in.Body
	}
	if in.TagList != nil {
		article.TagList = models.TagList(in.TagList)
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return s.articleRepo.GetBySlug(ctx, article.Slug, in.UserID)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, articleSlug string, userID uint) error {
	article, err := s.articleRepo.GetBySlug(ctx, articleSlug, userID)
	if err != nil {
		return err
	}
	if article.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own articles")
	}
	return s.articleRepo.Delete(ctx, article)
}

func (s *ArticleService) FavoriteArticle(ctx context.Context, articleSlug string, userID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, articleSlug, userID)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Favorite(ctx, userID, article); err != nil {
		return nil, err
	}
	return s.articleRepo.GetBySlug(ctx, articleSlug, userID)
}

func (s *ArticleService) UnfavoriteArticle(ctx context.Context, articleSlug string, userID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, articleSlug, userID)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Unfavorite(ctx, userID, article); err != nil {
		return nil, err
	}
	return s.articleRepo.GetBySlug(ctx, articleSlug, userID)
}

func (s *ArticleService) Tags(ctx context.Context) ([]string, error) {
	return s.articleRepo.Tags(ctx)
}

func normalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
