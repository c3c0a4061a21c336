// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ArticleFilter narrows a listing query. Zero-value fields are ignored.
// Favorited holds a username; when that user has no favorites the filter
// matches nothing rather than being dropped.
type ArticleFilter struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

// ArticleRepository defines persistence operations for articles,
// including the favorites ledger that backs FavoritesCount.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Article, error)
	List(ctx context.Context, filter ArticleFilter, currentUserID uint) (*models.ArticlesPage, error)
	ListByAuthorIDs(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) (*models.ArticlesPage, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, article *models.Article) error
	Favorite(ctx context.Context, userID uint, article *models.Article) error
	Unfavorite(ctx context.Context, userID uint, article *models.Article) error
	IsFavorited(ctx context.Context, userID, articleID uint) (bool, error)
	Tags(ctx context.Context) ([]string, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository returns a new ArticleRepository implementation.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Article slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTags(ctx)
	return nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Article, error) {
	var article models.Article

	fetch := func() (interface{}, error) {
		var fetched models.Article
		err := r.applyArticleDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.id ASC")
			}).
			Preload("Comments.Author").
			Where("articles.slug = ?", slug).
			First(&fetched).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Article", slug)
			}
			return nil, models.NewInternalError(err)
		}
		return &fetched, nil
	}

	// Only anonymous reads go through the cache: the favorited annotation
	// is per-user and must not be served from a shared entry.
	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.ArticleKey(slug), &article, cache.ArticleTTL, fetch)
	} else {
		var fetched interface{}
		fetched, err = fetch()
		if err == nil {
			article = *fetched.(*models.Article)
		}
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter, currentUserID uint) (*models.ArticlesPage, error) {
	base, err := r.buildListQuery(ctx, filter)
	if err != nil {
		return nil, err
	}

	// The total is the size of the filtered set, counted before pagination.
	var total int64
	if err := base.Session(&gorm.Session{}).Model(&models.Article{}).Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var articles []*models.Article
	err = r.applyArticleDetails(base.Session(&gorm.Session{}).Model(&models.Article{}), currentUserID).
		Preload("Author").
		Order("articles.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.ArticlesPage{Articles: articles, ArticlesCount: total}, nil
}

func (r *articleRepository) ListByAuthorIDs(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) (*models.ArticlesPage, error) {
	if len(authorIDs) == 0 {
		return &models.ArticlesPage{Articles: []*models.Article{}, ArticlesCount: 0}, nil
	}

	base := r.db.WithContext(ctx).Model(&models.Article{}).Where("articles.author_id IN ?", authorIDs)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var articles []*models.Article
	err := r.applyArticleDetails(base.Session(&gorm.Session{}), currentUserID).
		Preload("Author").
		Order("articles.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.ArticlesPage{Articles: articles, ArticlesCount: total}, nil
}

// buildListQuery translates an ArticleFilter into WHERE clauses shared by
// the count and the page query.
func (r *articleRepository) buildListQuery(ctx context.Context, filter ArticleFilter) (*gorm.DB, error) {
	query := r.db.WithContext(ctx).Model(&models.Article{})

	if filter.Tag != "" {
		query = query.Where("articles.tag_list LIKE ?", "%"+filter.Tag+"%")
	}

	if filter.Author != "" {
		query = query.Where(
			"articles.author_id IN (SELECT id FROM users WHERE username = ?)",
			filter.Author,
		)
	}

	if filter.Favorited != "" {
		var articleIDs []uint
		err := r.db.WithContext(ctx).
			Model(&models.Favorite{}).
			Where("user_id IN (SELECT id FROM users WHERE username = ?)", filter.Favorited).
			Pluck("article_id", &articleIDs).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if len(articleIDs) == 0 {
			// The filter names a user with no favorites: match nothing.
			query = query.Where("1 = 0")
		} else {
			query = query.Where("articles.id IN ?", articleIDs)
		}
	}

	return query, nil
}

// applyArticleDetails annotates each row with the favorited flag for the
// requesting user in the same query.
func (r *articleRepository) applyArticleDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"articles.*, EXISTS(SELECT 1 FROM favorites WHERE favorites.article_id = articles.id AND favorites.user_id = ?) as favorited",
			currentUserID,
		)
	}
	return db.Select("articles.*, false as favorited")
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, article *models.Article) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, article.ID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) Favorite(ctx context.Context, userID uint, article *models.Article) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ON CONFLICT DO NOTHING makes the edge insert idempotent under
		// concurrent requests; the counter only moves when a row landed.
		result := tx.Exec(
			`INSERT INTO favorites (user_id, article_id, created_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT (user_id, article_id) DO NOTHING`,
			userID, article.ID, time.Now(),
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			middleware.FavoriteMutations.WithLabelValues("favorite", "noop").Inc()
			return nil
		}
		middleware.FavoriteMutations.WithLabelValues("favorite", "applied").Inc()
		return tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count + 1")).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	// The cached anonymous view embeds the counter.
	cache.Invalidate(ctx, cache.ArticleKey(article.Slug))
	return nil
}

func (r *articleRepository) Unfavorite(ctx context.Context, userID uint, article *models.Article) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND article_id = ?", userID, article.ID).
			Delete(&models.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			middleware.FavoriteMutations.WithLabelValues("unfavorite", "noop").Inc()
			return nil
		}
		middleware.FavoriteMutations.WithLabelValues("unfavorite", "applied").Inc()
		return tx.Model(&models.Article{}).
			Where("id = ? AND favorites_count > 0", article.ID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count - 1")).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ArticleKey(article.Slug))
	return nil
}

func (r *articleRepository) IsFavorited(ctx context.Context, userID, articleID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *articleRepository) Tags(ctx context.Context) ([]string, error) {
	var tags []string

	err := cache.Aside(ctx, cache.TagsKey, &tags, cache.TagsTTL, func() (interface{}, error) {
		var tagColumns []string
		if err := r.db.WithContext(ctx).
			Model(&models.Article{}).
			Where("tag_list <> ''").
			Pluck("tag_list", &tagColumns).Error; err != nil {
			return nil, models.NewInternalError(err)
		}

		// tag_list is stored comma-joined, so distinct tags are collected here.
		seen := map[string]struct{}{}
		distinct := []string{}
		for _, column := range tagColumns {
			var list models.TagList
			if err := list.Scan(column); err != nil {
				continue
			}
			for _, tag := range list {
				if _, ok := seen[tag]; ok {
					continue
				}
				seen[tag] = struct{}{}
				distinct = append(distinct, tag)
			}
		}
		return distinct, nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}
