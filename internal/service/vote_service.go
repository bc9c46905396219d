package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voxpop/internal/models"
	"voxpop/internal/observability"
	"voxpop/internal/repository"

	"gorm.io/gorm"
)

// VoteService is the vote engine: a two-state machine per (user, post)
// pair, toggled by up/down operations. It never holds in-process locks;
// the store's unique index on the pair is the final authority, so the
// check-then-write window cannot produce a duplicate vote even across
// concurrent requests or multiple instances.
type VoteService struct {
	voteRepo repository.VoteRepository
	postRepo repository.PostRepository
	timeout  time.Duration
}

// NewVoteService creates a new vote service.
func NewVoteService(voteRepo repository.VoteRepository, postRepo repository.PostRepository, timeout time.Duration) *VoteService {
	return &VoteService{
		voteRepo: voteRepo,
		postRepo: postRepo,
		timeout:  timeout,
	}
}

// Toggle applies one transition for the (userID, postID) pair:
//
//	no vote + up   -> vote created
//	vote + up      -> CONFLICT
//	vote + down    -> vote removed
//	no vote + down -> NOT_FOUND
//
// The post must exist; a vanished post surfaces as NOT_FOUND even when the
// deletion races the insert, because the insert's FK check is part of the
// same atomic statement.
func (s *VoteService) Toggle(ctx context.Context, userID, postID uint, up bool) error {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	direction := "down"
	if up {
		direction = "up"
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		observability.VoteToggles.WithLabelValues(direction, "error").Inc()
		return storeFailure(err)
	}
	if !exists {
		observability.VoteToggles.WithLabelValues(direction, "not_found").Inc()
		return models.NewNotFoundError("Post", postID)
	}

	if up {
		err = s.upvote(ctx, userID, postID)
	} else {
		err = s.retract(ctx, userID, postID)
	}

	outcome := "success"
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeConflict:
			outcome = "conflict"
		case models.CodeNotFound:
			outcome = "not_found"
		default:
			outcome = "error"
		}
	}
	observability.VoteToggles.WithLabelValues(direction, outcome).Inc()
	return err
}

// upvote is a conditional insert: the unique (user, post) index decides
// between success and "already voted", never a prior read.
func (s *VoteService) upvote(ctx context.Context, userID, postID uint) error {
	err := s.voteRepo.Create(ctx, &models.Vote{UserID: userID, PostID: postID})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError(
			fmt.Sprintf("User %d has already voted on post %d", userID, postID))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewNotFoundError("Post", postID)
	default:
		return storeFailure(err)
	}
}

// retract is a conditional delete; zero affected rows means there was no
// vote to remove.
func (s *VoteService) retract(ctx context.Context, userID, postID uint) error {
	rows, err := s.voteRepo.Delete(ctx, userID, postID)
	if err != nil {
		return storeFailure(err)
	}
	if rows == 0 {
		return &models.AppError{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("No vote by user %d on post %d to remove", userID, postID),
		}
	}
	return nil
}

// Likes returns the current vote cardinality for a post.
func (s *VoteService) Likes(ctx context.Context, postID uint) (int64, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	count, err := s.voteRepo.CountForPost(ctx, postID)
	if err != nil {
		return 0, storeFailure(err)
	}
	return count, nil
}
