package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ezalahmad/account-service/app/dto"
	appErrors "github.com/ezalahmad/account-service/app/errors"
	"github.com/ezalahmad/account-service/app/logger"
	"github.com/ezalahmad/account-service/app/models"
	"github.com/ezalahmad/account-service/app/store"
)

// AccountService composes the hasher, token service, repository, and
// notifier into the signup / signin / verify workflow.
type AccountService struct {
	store         store.Storage
	tokens        *TokenService
	notifier      Notifier
	consumed      *ConsumedTokens // nil unless single-use verification is on
	verifyBaseURL string
}

// VerifyOutcome reports what a verify call did. RedirectTo points the caller
// at the signin entry point after a successful activation.
type VerifyOutcome struct {
	AlreadyVerified bool
	RedirectTo      string
}

func NewAccountService(store store.Storage, tokens *TokenService, notifier Notifier, consumed *ConsumedTokens, verifyBaseURL string) *AccountService {
	return &AccountService{
		store:         store,
		tokens:        tokens,
		notifier:      notifier,
		consumed:      consumed,
		verifyBaseURL: verifyBaseURL,
	}
}

// Signup registers a new inactive account and mails it a verification link.
//
// Uniqueness is settled by the insert itself: a duplicate surfaces as the
// unique-constraint violation and maps to the "username taken" outcome, so
// concurrent signups with the same name cannot both succeed. Persistence
// happens before token issuance; no token is ever mailed for an account
// that was not created. Delivery failure does not fail the signup - it is
// logged and echoed back as a warning.
func (s *AccountService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, *appErrors.AppError) {
	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.NewInternal("error hashing password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		IsActive:     false,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			return nil, appErrors.NewUsernameTaken(req.Username)
		case errors.Is(err, store.ErrDuplicateEmail):
			return nil, appErrors.NewEmailTaken(req.Email)
		default:
			return nil, appErrors.NewPersistenceFailed(err)
		}
	}

	resp := &dto.SignupResponse{Message: "account created, check your email to verify it"}

	token, err := s.tokens.Issue(user.Username, user.Email, user.Role, user.IsActive)
	if err != nil {
		log := getLoggerFromContext(ctx)
		log.Error().
			Err(err).
			Str("username", user.Username).
			Msg("failed to issue verification token")
		resp.Warning = "verification email could not be sent"
		return resp, nil
	}

	verificationURL := fmt.Sprintf("%s/verify/%s", s.verifyBaseURL, token)
	if err := s.notifier.SendVerification(ctx, user.Email, verificationURL); err != nil {
		log := getLoggerFromContext(ctx)
		log.Error().
			Err(err).
			Str("username", user.Username).
			Str("email", user.Email).
			Msg("failed to send verification email")
		resp.Warning = "verification email could not be sent"
	}

	return resp, nil
}

// Signin checks the submitted credentials. Unknown username and wrong
// password collapse into one outcome so the response does not reveal which
// failed. No session or token is issued.
func (s *AccountService) Signin(ctx context.Context, req dto.SigninRequest) (*dto.SigninResponse, *appErrors.AppError) {
	user, err := s.store.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewInvalidCredentials()
		}
		return nil, appErrors.NewInternal("error looking up user")
	}

	ok, err := VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, appErrors.NewInternal("error verifying password")
	}
	if !ok {
		return nil, appErrors.NewInvalidCredentials()
	}

	return &dto.SigninResponse{Message: "signed in"}, nil
}

// Verify validates a verification token and activates the account it names.
// Re-verifying an active account is a no-op reported as AlreadyVerified;
// is_active never reverts. With single-use mode on, a replayed token fails
// even when its signature is still good.
func (s *AccountService) Verify(ctx context.Context, token string) (*VerifyOutcome, *appErrors.AppError) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, appErrors.NewUnauthorized("invalid verification token")
	}

	if s.consumed != nil {
		used, err := s.consumed.IsConsumed(ctx, token)
		if err != nil {
			return nil, appErrors.NewInternal("error checking verification token")
		}
		if used {
			return nil, appErrors.NewUnauthorized("verification token already used")
		}
	}

	user, err := s.store.Users.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewUnauthorized("unknown account")
		}
		return nil, appErrors.NewInternal("error looking up user")
	}

	if user.IsActive {
		s.consumeToken(ctx, token)
		return &VerifyOutcome{AlreadyVerified: true}, nil
	}

	flipped, err := s.store.Users.Activate(ctx, user.Username)
	if err != nil {
		// Token stays unconsumed so the same link works once the store recovers.
		return nil, appErrors.NewPersistenceFailed(err)
	}
	if !flipped {
		// Lost a race with another verify; the account is active either way.
		s.consumeToken(ctx, token)
		return &VerifyOutcome{AlreadyVerified: true}, nil
	}

	s.consumeToken(ctx, token)
	return &VerifyOutcome{RedirectTo: "/signin"}, nil
}

// consumeToken marks the token used after it has done its work. A marking
// failure is logged rather than returned; the account state already settled.
func (s *AccountService) consumeToken(ctx context.Context, token string) {
	if s.consumed == nil {
		return
	}
	if _, err := s.consumed.Consume(ctx, token); err != nil {
		log := getLoggerFromContext(ctx)
		log.Error().Err(err).Msg("failed to mark verification token consumed")
	}
}

// getLoggerFromContext retrieves logger from context or returns global logger
func getLoggerFromContext(ctx context.Context) zerolog.Logger {
	if log := zerolog.Ctx(ctx); log.GetLevel() != zerolog.Disabled {
		return *log
	}
	// Fallback to global logger
	return logger.Logger
}
