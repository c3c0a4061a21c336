// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"inkwell/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
	ShouldClean bool
}

// DefaultPassword is the login password for every seeded account.
const DefaultPassword = "SeededPass12!"

// Seed populates the database with demo users, articles, follows,
// favorites and comments.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumArticles <= 0 {
		opts.NumArticles = 100
	}

	log.Printf("Seeding %d users and %d articles...", opts.NumUsers, opts.NumArticles)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user := factory.BuildUser(i, string(hash))
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	articles := make([]*models.Article, 0, opts.NumArticles)
	for i := 0; i < opts.NumArticles; i++ {
		author := users[rand.Intn(len(users))]
		article := factory.BuildArticle(author)
		if err := db.Create(article).Error; err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := seedFollows(db, users); err != nil {
		return err
	}
	if err := seedFavorites(db, users, articles); err != nil {
		return err
	}
	if err := seedComments(db, factory, users, articles); err != nil {
		return err
	}

	log.Println("Seeding completed")
	return nil
}

// seedFollows gives every user a handful of people to follow so feeds
// have content.
func seedFollows(db *gorm.DB, users []*models.User) error {
	for _, follower := range users {
		numFollows := rand.Intn(6)
		for i := 0; i < numFollows; i++ {
			following := users[rand.Intn(len(users))]
			if following.ID == follower.ID {
				continue
			}
			edge := &models.FollowEdge{
				FollowerID:  follower.ID,
				FollowingID: following.ID,
			}
			// Random picks can collide; the unique index absorbs repeats.
			if err := db.Exec(
				`INSERT INTO follow_edges (follower_id, following_id, created_at)
				 VALUES (?, ?, ?)
				 ON CONFLICT (follower_id, following_id) DO NOTHING`,
				edge.FollowerID, edge.FollowingID, follower.CreatedAt,
			).Error; err != nil {
				return fmt.Errorf("create follow: %w", err)
			}
		}
	}
	return nil
}

// seedFavorites creates favorite edges and keeps each article's counter
// consistent with the edges that actually landed.
func seedFavorites(db *gorm.DB, users []*models.User, articles []*models.Article) error {
	for _, article := range articles {
		numFavorites := rand.Intn(len(users)/3 + 1)
		for i := 0; i < numFavorites; i++ {
			user := users[rand.Intn(len(users))]
			result := db.Exec(
				`INSERT INTO favorites (user_id, article_id, created_at)
				 VALUES (?, ?, ?)
				 ON CONFLICT (user_id, article_id) DO NOTHING`,
				user.ID, article.ID, article.CreatedAt,
			)
			if result.Error != nil {
				return fmt.Errorf("create favorite: %w", result.Error)
			}
			if result.RowsAffected == 1 {
				if err := db.Model(&models.Article{}).
					Where("id = ?", article.ID).
					UpdateColumn("favorites_count", gorm.Expr("favorites_count + 1")).Error; err != nil {
					return fmt.Errorf("bump favorites count: %w", err)
				}
			}
		}
	}
	return nil
}

func seedComments(db *gorm.DB, factory *Factory, users []*models.User, articles []*models.Article) error {
	for _, article := range articles {
		numComments := rand.Intn(5)
		for i := 0; i < numComments; i++ {
			author := users[rand.Intn(len(users))]
			comment := factory.BuildComment(article, author)
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE comments, favorites, follow_edges, articles, users CASCADE").Error
}
