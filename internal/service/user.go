package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yapress/yapress/internal/auth"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/model"
	"github.com/yapress/yapress/internal/repository"
	"github.com/yapress/yapress/internal/validate"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// SignupInput is a submitted registration form.
type SignupInput struct {
	Username  string
	Password1 string
	Password2 string
}

// UserService handles accounts and credentials.
type UserService struct {
	repo    UserRepository
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{repo: repo, metrics: recorder}
}

// Signup validates input and creates an account.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if err := validate.Username("username", username); err != nil {
		return nil, err
	}
	if err := validate.Fields(
		validate.Required("password1", input.Password1, 0),
		validate.Required("password2", input.Password2, 0),
	); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.Password1) < MinPasswordLength {
		return nil, &validate.FieldError{
			Field:   "password1",
			Code:    validate.CodeInvalid,
			Message: fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength),
		}
	}
	if input.Password1 != input.Password2 {
		return nil, &validate.FieldError{
			Field:   "password2",
			Code:    validate.CodeInvalid,
			Message: "The two password fields didn't match.",
		}
	}

	hash, err := auth.HashPassword(input.Password1)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           generateULID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			s.metrics.IncRejected(metrics.KindUser, metrics.ReasonConflict)
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.metrics.IncCreated(metrics.KindUser)
	return user, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords are
// indistinguishable, in outcome and in timing.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash := ""
	if user != nil {
		hash = user.PasswordHash
	}
	if !auth.VerifyOrDummy(password, hash) || user == nil {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin(true)
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
