// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/sec"
	"github.com/taibuivan/blablabook/internal/platform/validate"
	"github.com/taibuivan/blablabook/internal/users/auth"
)

// errWrongPassword never says which part of the credentials was wrong.
var errWrongPassword = apperr.Unauthorized("Password is incorrect")

// Service implements the account self-service use cases.
type Service struct {
	accountRepository Repository
	logger            *slog.Logger
}

func NewService(accountRepo Repository, logger *slog.Logger) *Service {
	return &Service{accountRepository: accountRepo, logger: logger}
}

// # Profile Management

// GetProfile returns the caller's own account including the email.
func (service *Service) GetProfile(context context.Context, userID int64) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

// GetPublicProfile returns the profile other readers see.
func (service *Service) GetPublicProfile(context context.Context, userID int64) (*PublicProfile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return NewPublicProfile(user), nil
}

/*
UpdateProfile changes the username and/or email of the caller.

Parameters:
  - context: context.Context
  - userID: int64
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated account
  - error: Validation, Conflict or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		validator.Required(auth.FieldUsername, username).
			Length(auth.FieldUsername, username, auth.MinUsernameLength, auth.MaxUsernameLength)

		if !strings.EqualFold(username, user.Username) {
			if err := service.ensureFree(context, service.accountRepository.FindByUsername, username, "Username is already taken"); err != nil {
				return nil, err
			}
		}
		user.Username = username
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		validator.Required(auth.FieldEmail, email).Email(auth.FieldEmail, email)

		if email != user.Email {
			if err := service.ensureFree(context, service.accountRepository.FindByEmail, email, "Email is already registered"); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.Int64("user_id", userID))
	return user, nil
}

// # Security Settings

// ChangePassword replaces the password after checking the current one.
func (service *Service) ChangePassword(context context.Context, userID int64, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		Length(FieldNewPassword, input.NewPassword, auth.MinPasswordLength, auth.MaxPasswordLength).
		MaxBytes(FieldNewPassword, input.NewPassword, sec.MaxPasswordBytes)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return err
	}
	if !sec.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return errWrongPassword
	}

	hash, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("account_service_hash_failed: %w", err)
	}
	if err := service.accountRepository.UpdatePassword(context, userID, hash); err != nil {
		return err
	}

	service.logger.Info("user_password_changed", slog.Int64("user_id", userID))
	return nil
}

/*
DeleteAccount permanently removes the caller's account once the password is confirmed.

Access tokens already issued stay valid until they expire, but every
authenticated lookup of the account then answers 404.
*/
func (service *Service) DeleteAccount(context context.Context, userID int64, input DeleteAccountInput) error {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return err
	}
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return errWrongPassword
	}

	if err := service.accountRepository.Delete(context, userID); err != nil {
		return err
	}

	service.logger.Warn("user_account_deleted", slog.Int64("user_id", userID))
	return nil
}

func (service *Service) ensureFree(context context.Context, find func(context.Context, string) (*auth.User, error), value, message string) error {
	_, err := find(context, value)
	switch {
	case err == nil:
		return apperr.Conflict(message)
	case errors.Is(err, auth.ErrNotFound):
		return nil
	default:
		return err
	}
}
