// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. Users author articles and comments,
// favorite articles, and follow other users.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       string    `json:"bio"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Articles  []Article `gorm:"foreignKey:AuthorID" json:"articles,omitempty"`
}

// Profile is the public view of a user, annotated with whether the
// requesting user follows them.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// Profile builds the public profile view for the user.
func (u *User) Profile(following bool) *Profile {
	return &Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
