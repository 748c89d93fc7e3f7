package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

const bcryptCost = 10

const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrInvalidCredentials is returned when email or password is incorrect.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a user with a hashed password and returns it with a fresh token.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	fields := map[string]string{}
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		fields["username"] = fmt.Sprintf("must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if !emailPattern.MatchString(email) {
		fields["email"] = "must be a valid email address"
	}
	if len(password) < minPasswordLen {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	if len(fields) > 0 {
		return nil, "", apperrors.NewValidationError(fields)
	}

	if err := s.checkUnique(ctx, username, email, fields); err != nil {
		return nil, "", err
	}
	if len(fields) > 0 {
		return nil, "", apperrors.NewValidationError(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *authService) checkUnique(ctx context.Context, username, email string, fields map[string]string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		fields["username"] = "already taken"
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		fields["email"] = "already registered"
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}
