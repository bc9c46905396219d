package service

import (
	"context"
	"errors"
	"time"

	"voxpop/internal/authz"
	"voxpop/internal/models"
	"voxpop/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

// PostService applies the ownership/visibility policy to post reads and
// writes. Existence is always checked before ownership, so a non-owner
// probing a nonexistent ID sees NOT_FOUND, never FORBIDDEN.
type PostService struct {
	postRepo repository.PostRepository
	timeout  time.Duration
}

// CreatePostInput carries the fields for a new post. Published defaults to
// true when omitted.
type CreatePostInput struct {
	UserID    uint
	Title     string
	Content   string
	Published *bool
}

// UpdatePostInput is a patch: nil fields keep their prior values.
type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Title     *string
	Content   *string
	Published *bool
}

// ListPostsInput narrows a listing for a given requester.
type ListPostsInput struct {
	RequesterID uint
	Search      string
	Limit       int
	Offset      int
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, timeout time.Duration) *PostService {
	return &PostService{postRepo: postRepo, timeout: timeout}
}

// Get returns the post with its likes aggregate if the requester may view it.
func (s *PostService) Get(ctx context.Context, id, requesterID uint) (*models.Post, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	post, err := s.postRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, storeFailure(err)
	}

	if !authz.CanView(requesterID, post) {
		return nil, models.NewForbiddenError("You are not authorized to view this post")
	}

	return post, nil
}

// List returns posts visible to the requester, newest first, optionally
// filtered on a title substring.
func (s *PostService) List(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	posts, err := s.postRepo.List(ctx, repository.PostFilter{
		Search:    in.Search,
		Limit:     in.Limit,
		Offset:    in.Offset,
		VisibleTo: in.RequesterID,
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return posts, nil
}

// ListMine returns the requester's own posts, published or not.
func (s *PostService) ListMine(ctx context.Context, requesterID uint, limit, offset int) ([]*models.Post, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	posts, err := s.postRepo.ListByOwner(ctx, requesterID, limit, offset)
	if err != nil {
		return nil, storeFailure(err)
	}
	return posts, nil
}

// Create validates and stores a new post owned by the caller.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Published: published,
		UserID:    in.UserID,
	}

	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, storeFailure(err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return created, nil
}

// Update applies a partial update to a post the caller owns and returns
// the refreshed entity.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	post, err := s.postRepo.GetRow(ctx, in.PostID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}
	if err != nil {
		return nil, storeFailure(err)
	}

	if !authz.CanMutate(in.UserID, post) {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title must not be empty")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, models.NewValidationError("Content must not be empty")
		}
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = *in.Content
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, storeFailure(err)
	}

	updated, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return updated, nil
}

// Delete removes a post the caller owns, along with its votes.
func (s *PostService) Delete(ctx context.Context, requesterID, postID uint) error {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	post, err := s.postRepo.GetRow(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return storeFailure(err)
	}

	if !authz.CanMutate(requesterID, post) {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return storeFailure(err)
	}
	return nil
}
