// Package service contains the business logic layer of the application.
//
// Handlers parse requests and render responses; services enforce the rules;
// repositories talk to the database. Services accept plain values and return
// domain errors from internal/apperror; they know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"quill/internal/apperror"
	"quill/internal/auth"
	"quill/internal/model"
	"quill/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account and returns it.
//
// A duplicate email returns apperror.ErrConflict with a message telling the
// caller to log in instead; the handler turns that into a redirect to the
// login form. The very first account registered becomes the administrator;
// everyone after that is an ordinary member.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email", "You already registered with that email, just log in instead.")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	role := model.RoleMember
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: counting users: %w", err)
	}
	if count == 0 {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// The store enforces email uniqueness too; a concurrent registration
		// losing the race surfaces here as the same conflict.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("email", "You already registered with that email, just log in instead.")
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Login verifies the credentials and returns the matching user.
//
// An unknown email and a wrong password are distinct apperror.ErrUnauthorized
// values, each carrying the message the form shows. Neither establishes any
// state.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Sorry, this user does not exist in our database.")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Sorry, wrong password.")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return user, nil
}
