package models

import (
	"time"
)

// FollowEdge is a directed relation from a follower to a followed user.
// The (follower, following) pair is unique; follow and unfollow are
// idempotent set operations on top of that constraint.
type FollowEdge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"followerId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM.
func (FollowEdge) TableName() string {
	return "follow_edges"
}
