// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. The password column holds the
// bcrypt hash and is never serialized outward.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"-"`
}
