package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 5
)

// UserService handles registration, authentication and profile updates.
type UserService interface {
	Create(ctx context.Context, email, password, name string) (*model.User, error)
	CreateSuperuser(ctx context.Context, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User, name, password *string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService builds a UserService over the user repository.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// NormalizeEmail lower-cases only the domain portion of an email address; the
// local part is preserved verbatim.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func (s *userService) Create(ctx context.Context, email, password, name string) (*model.User, error) {
	return s.create(ctx, email, password, name, false)
}

func (s *userService) CreateSuperuser(ctx context.Context, email, password string) (*model.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *userService) create(ctx context.Context, email, password, name string, super bool) (*model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewValidationError("email", "email must not be blank")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	email = NormalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("email", "user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a concurrent registration race on the email index
			return nil, apperrors.NewValidationError("email", "user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials against the stored hash. Missing user and
// wrong password fail identically so existence is not leaked.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile changes only the allowlisted self-service fields: name and
// password. Email, ownership flags and ids are never touched here.
func (s *userService) UpdateProfile(ctx context.Context, user *model.User, name, password *string) (*model.User, error) {
	if name != nil {
		user.Name = *name
	}
	if password != nil {
		if len(*password) < minPasswordLength {
			return nil, apperrors.NewValidationError("password",
				fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
