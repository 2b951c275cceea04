// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/constants"
	"github.com/taibuivan/blablabook/internal/platform/sec"
	"github.com/taibuivan/blablabook/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	GenerateAccessToken(userID int64, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any change to hashing, registration
// or login logic must keep the error messages free of account enumeration hints.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new reader.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Validation, Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Length(FieldUsername, input.Username, MinUsernameLength, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Length(FieldPassword, input.Password, MinPasswordLength, MaxPasswordLength).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Verify username uniqueness.
	if _, err := service.userRepository.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleMember,
	}

	// The unique indexes still guard against a concurrent registration.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Username or email
	Password string
}

// LoginSession is a successfully authenticated user with its access token.
type LoginSession struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        *User
}

/*
Login validates user credentials and issues an access token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Token and profile
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Flexible login: look up by email, then username.
	login := strings.TrimSpace(input.Login)
	user, err := service.userRepository.FindByEmail(context, login)
	if errors.Is(err, ErrNotFound) {
		user, err = service.userRepository.FindByUsername(context, login)
	}
	if errors.Is(err, ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	// bcrypt compares in constant time.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.Info("user_logged_in", slog.Int64("user_id", user.ID))
	return &LoginSession{
		AccessToken: accessToken,
		ExpiresIn:   constants.AccessTokenTTL,
		User:        user,
	}, nil
}

// Me returns the profile of the authenticated user.
func (service *Service) Me(context context.Context, userID int64) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}
