package repository

import (
	"context"

	"voxpop/internal/cache"
	"voxpop/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing.
type PostFilter struct {
	// Search filters on a title substring when non-empty.
	Search string
	Limit  int
	Offset int
	// VisibleTo restricts results to posts the given user may see:
	// published posts plus the user's own unpublished ones.
	VisibleTo uint
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID returns the post with its owner and read-time likes
	// aggregate. Served cache-aside; the cache entry is invalidated by
	// every mutation that affects the payload, including vote toggles.
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// GetRow fetches the bare post row, bypassing the cache. Used on
	// write paths where the freshest owner/published state is required.
	GetRow(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withLikesCount selects the votes aggregate alongside the post columns.
// Likes are always computed at read time, never kept as a counter column.
func (r *postRepository) withLikesCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id) as likes_count")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.withLikesCount(r.db.WithContext(ctx)).
			Preload("User").
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetRow(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.withLikesCount(r.db.WithContext(ctx)).
		Preload("User").
		Where("published = ? OR user_id = ?", true, filter.VisibleTo)
	if filter.Search != "" {
		q = q.Where("title LIKE ?", "%"+filter.Search+"%")
	}
	err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withLikesCount(r.db.WithContext(ctx)).
		Preload("User").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post and its votes in one transaction, preserving
// referential integrity even when the store's FK cascade is unavailable.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
