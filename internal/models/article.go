// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Article represents a published article. The slug is the stable public
// identifier; the numeric ID stays internal. FavoritesCount is denormalized
// and must always equal the number of favorite edges pointing at the article.
type Article struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `json:"description"`
	Body        string  `gorm:"type:text" json:"body"`
	TagList     TagList `gorm:"type:text" json:"tagList"`
	AuthorID    uint    `gorm:"not null;index" json:"-"`
	Author      User    `gorm:"foreignKey:AuthorID" json:"author"`
	// FavoritesCount is persisted and kept in sync with the favorites table.
	FavoritesCount int `gorm:"not null;default:0" json:"favoritesCount"`
	// Favorited indicates whether the current requesting user favorited this
	// article (computed at query time, never persisted).
	Favorited bool      `gorm:"->" json:"favorited"`
	Comments  []Comment `gorm:"foreignKey:ArticleID" json:"comments,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArticlesPage is the paginated list envelope returned by list and feed.
// ArticlesCount is the size of the filtered set before limit/offset.
type ArticlesPage struct {
	Articles      []*Article `json:"articles"`
	ArticlesCount int64      `json:"articlesCount"`
}

// CommentsView is the envelope returned when listing an article's comments.
type CommentsView struct {
	Comments []*Comment `json:"comments"`
}

// TagsView is the envelope returned by the tags endpoint.
type TagsView struct {
	Tags []string `json:"tags"`
}
