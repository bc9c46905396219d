package service

import (
	"context"
	"sync"
	"testing"

	"voxpop/internal/models"
	"voxpop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubPostRepo implements repository.PostRepository with overridable
// functions so each test only wires the calls it cares about.
type stubPostRepo struct {
	createFn      func(ctx context.Context, post *models.Post) error
	getByIDFn     func(ctx context.Context, id uint) (*models.Post, error)
	getRowFn      func(ctx context.Context, id uint) (*models.Post, error)
	listFn        func(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error)
	listByOwnerFn func(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Post, error)
	existsFn      func(ctx context.Context, id uint) (bool, error)
	updateFn      func(ctx context.Context, post *models.Post) error
	deleteFn      func(ctx context.Context, id uint) error
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubPostRepo) GetRow(ctx context.Context, id uint) (*models.Post, error) {
	return s.getRowFn(ctx, id)
}

func (s *stubPostRepo) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return s.listFn(ctx, filter)
}

func (s *stubPostRepo) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByOwnerFn(ctx, ownerID, limit, offset)
}

func (s *stubPostRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}

func (s *stubPostRepo) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// stubVoteRepo implements repository.VoteRepository with overridable
// functions.
type stubVoteRepo struct {
	createFn       func(ctx context.Context, vote *models.Vote) error
	deleteFn       func(ctx context.Context, userID, postID uint) (int64, error)
	countForPostFn func(ctx context.Context, postID uint) (int64, error)
}

func (s *stubVoteRepo) Create(ctx context.Context, vote *models.Vote) error {
	return s.createFn(ctx, vote)
}

func (s *stubVoteRepo) Delete(ctx context.Context, userID, postID uint) (int64, error) {
	return s.deleteFn(ctx, userID, postID)
}

func (s *stubVoteRepo) CountForPost(ctx context.Context, postID uint) (int64, error) {
	return s.countForPostFn(ctx, postID)
}

// stubUserRepo implements repository.UserRepository with overridable
// functions.
type stubUserRepo struct {
	createFn          func(ctx context.Context, user *models.User) error
	getByIDFn         func(ctx context.Context, id uint) (*models.User, error)
	getByIdentifierFn func(ctx context.Context, identifier string) (*models.User, error)
	listFn            func(ctx context.Context, limit, offset int) ([]*models.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return s.getByIdentifierFn(ctx, identifier)
}

func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// memVoteStore mimics the store's unique (user, post) index in memory so
// vote toggles can be hammered from many goroutines.
type memVoteStore struct {
	mu    sync.Mutex
	votes map[[2]uint]struct{}
}

func newMemVoteStore() *memVoteStore {
	return &memVoteStore{votes: make(map[[2]uint]struct{})}
}

func (m *memVoteStore) Create(_ context.Context, vote *models.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{vote.UserID, vote.PostID}
	if _, ok := m.votes[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.votes[key] = struct{}{}
	return nil
}

func (m *memVoteStore) Delete(_ context.Context, userID, postID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{userID, postID}
	if _, ok := m.votes[key]; !ok {
		return 0, nil
	}
	delete(m.votes, key)
	return 1, nil
}

func (m *memVoteStore) CountForPost(_ context.Context, postID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for key := range m.votes {
		if key[1] == postID {
			count++
		}
	}
	return count, nil
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
