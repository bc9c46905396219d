// Package seed populates a development database with fake users, posts
// and votes.
package seed

import (
	"fmt"
	"log"
	"time"

	"voxpop/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DevPassword is the password assigned to every seeded account.
const DevPassword = "Voxpop-Dev-Pass1"

// Options controls how much data Run generates.
type Options struct {
	Users        int
	PostsPerUser int
	// VoteRatio is the fraction of (user, post) pairs that get a vote.
	VoteRatio float64
}

// DefaultOptions returns a small but lively data set.
func DefaultOptions() Options {
	return Options{Users: 10, PostsPerUser: 5, VoteRatio: 0.3}
}

// Run inserts fake users, posts and votes. It is not idempotent and is
// meant for empty development databases only.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	hashed, err := bcrypt.GenerateFromPassword([]byte(DevPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, opts.Users*opts.PostsPerUser)
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post := &models.Post{
				Title:     gofakeit.Sentence(5),
				Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
				Published: gofakeit.Number(0, 9) > 1, // ~80% published
				UserID:    user.ID,
			}
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}

	votes := 0
	for _, user := range users {
		for _, post := range posts {
			if gofakeit.Float64() >= opts.VoteRatio {
				continue
			}
			vote := &models.Vote{UserID: user.ID, PostID: post.ID}
			if err := db.Create(vote).Error; err != nil {
				return fmt.Errorf("seed vote: %w", err)
			}
			votes++
		}
	}

	log.Printf("Seeded %d users, %d posts, %d votes (password %q)",
		len(users), len(posts), votes, DevPassword)
	return nil
}
