package models

import (
	"time"
)

// Post represents a piece of shared content. Unpublished posts are visible
// only to their owner.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Published bool   `gorm:"not null;default:true" json:"published"`
	Rating    int    `gorm:"not null;default:0" json:"rating"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time from the votes table
	LikesCount int       `gorm:"->" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
