// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var tagPool = []string{
	"go", "programming", "webdev", "databases", "testing", "devops",
	"productivity", "writing", "career", "opensource", "tutorials",
	"architecture", "performance", "security", "cloud",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
	// MaxDays bounds how far back generated timestamps are spread.
	MaxDays int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:      db,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		MaxDays: 90,
	}
}

// pastTimestamp spreads created_at over the configured window so lists
// and feeds look lived-in.
func (f *Factory) pastTimestamp() time.Time {
	daysBack := f.rand.Intn(f.MaxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(
		-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)
}

// BuildUser constructs a user without persisting it. All seeded users share
// the password hash passed in so logins stay cheap to generate.
func (f *Factory) BuildUser(i int, passwordHash string) *models.User {
	username := fmt.Sprintf("%s%s%d",
		strings.ToLower(gofakeit.FirstName()),
		strings.ToLower(gofakeit.LastName()),
		i,
	)
	return &models.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  passwordHash,
		Bio:       gofakeit.Sentence(8),
		Image:     fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		CreatedAt: f.pastTimestamp(),
	}
}

// BuildArticle constructs an article authored by the given user without
// persisting it.
func (f *Factory) BuildArticle(author *models.User) *models.Article {
	title := strings.TrimSuffix(gofakeit.Sentence(f.rand.Intn(5)+3), ".")

	numTags := f.rand.Intn(4)
	tags := make(models.TagList, 0, numTags)
	seen := map[string]struct{}{}
	for len(tags) < numTags {
		tag := tagPool[f.rand.Intn(len(tagPool))]
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	created := f.pastTimestamp()
	if created.Before(author.CreatedAt) {
		created = author.CreatedAt.Add(time.Hour)
	}

	return &models.Article{
		Slug:        slug.Make(title),
		Title:       title,
		Description: gofakeit.Sentence(10),
		Body:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
		TagList:     tags,
		AuthorID:    author.ID,
		CreatedAt:   created,
	}
}

// BuildComment constructs a comment on the given article without persisting it.
func (f *Factory) BuildComment(article *models.Article, author *models.User) *models.Comment {
	created := article.CreatedAt.Add(time.Duration(f.rand.Intn(72)+1) * time.Hour)
	if created.After(time.Now()) {
		created = time.Now()
	}
	return &models.Comment{
		Body:      gofakeit.Sentence(f.rand.Intn(12) + 4),
		AuthorID:  author.ID,
		ArticleID: article.ID,
		CreatedAt: created,
	}
}
