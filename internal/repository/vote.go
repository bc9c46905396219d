package repository

import (
	"context"
	"errors"

	"voxpop/internal/cache"
	"voxpop/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error classes surfaced by the (post_id, user_id) constraints.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// VoteRepository defines the interface for vote data operations. The
// (user, post) unique index in the store is the final authority for the
// one-vote-per-pair invariant; Create is a conditional insert against it.
type VoteRepository interface {
	// Create inserts a vote row. Returns gorm.ErrDuplicatedKey when the
	// (user, post) pair already holds a vote and gorm.ErrForeignKeyViolated
	// when the referenced post or user vanished before the insert.
	Create(ctx context.Context, vote *models.Vote) error
	// Delete removes the vote for the pair and reports how many rows went
	// away; zero means there was no vote to retract.
	Delete(ctx context.Context, userID, postID uint) (int64, error)
	CountForPost(ctx context.Context, postID uint) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	err := r.db.WithContext(ctx).Create(vote).Error
	if err == nil {
		cache.InvalidatePost(ctx, vote.PostID)
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return gorm.ErrDuplicatedKey
	case isForeignKeyViolation(err):
		return gorm.ErrForeignKeyViolated
	}
	return err
}

func (r *voteRepository) Delete(ctx context.Context, userID, postID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Vote{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
	}
	return res.RowsAffected, nil
}

func (r *voteRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// isUniqueViolation recognizes a duplicate-key failure both through GORM's
// error translation and through the raw Postgres error class, so the
// conditional insert distinguishes "already exists" from other failures.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
