// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a comment attached to an article. A comment has exactly
// one author and one parent article; deleting the article removes its
// comments with it.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  uint      `gorm:"not null;index" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	ArticleID uint      `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
