package service

import (
	"context"
	"errors"
	"time"

	"voxpop/internal/models"
	"voxpop/internal/repository"
	"voxpop/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration and credential checks. Password hashing
// is delegated to bcrypt and the hash never leaves the store boundary.
type UserService struct {
	userRepo repository.UserRepository
	timeout  time.Duration
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, timeout time.Duration) *UserService {
	return &UserService{userRepo: userRepo, timeout: timeout}
}

// Register validates input, enforces username/email uniqueness and stores
// the new account with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	existing, err := s.userRepo.GetByIdentifier(ctx, in.Username)
	if err != nil {
		return nil, storeFailure(err)
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already exists")
	}
	existing, err = s.userRepo.GetByIdentifier(ctx, in.Email)
	if err != nil {
		return nil, storeFailure(err)
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can win the race between the
		// uniqueness check and the insert; the unique indexes decide.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Username or email already exists")
		}
		return nil, storeFailure(err)
	}

	return user, nil
}

// Authenticate verifies a username-or-email plus password pair. The error
// is identical for unknown accounts and wrong passwords.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, storeFailure(err)
	}
	if user == nil {
		return nil, models.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError()
	}

	return user, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, storeFailure(err)
	}
	return user, nil
}

// List returns registered users, newest first.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	ctx, cancel := boundCtx(ctx, s.timeout)
	defer cancel()

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, storeFailure(err)
	}
	return users, nil
}
