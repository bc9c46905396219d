package models

import (
	"time"
)

// Vote represents a user's upvote on a post. The combination of UserID and
// PostID must be unique; that index is the final authority for the
// at-most-one-vote-per-user-per-post invariant. Votes are hard-deleted on
// retraction so the unique slot is freed for a later re-vote.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
