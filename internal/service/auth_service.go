package service

import (
	"context"
	"fmt"

	"github.com/jeff007ali/lendledger/internal/core/ports"
	"github.com/jeff007ali/lendledger/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService. Credentials are compared as
// stored, verbatim; login failures are indistinguishable from each other so
// the endpoint leaks nothing about which accounts exist.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	tokenSvc ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(userRepo ports.UserRepository, tokenSvc ports.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{userRepo: userRepo, tokenSvc: tokenSvc}
}

// Login validates credentials and returns the public profile with a session
// token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperror.ErrInvalidCredentials()
	}

	user, err := s.userRepo.GetByCredentials(ctx, username, password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(user.ID, user.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.LoginResult{
		UserID:  user.ID,
		Name:    user.Name,
		Balance: user.Balance,
		Token:   token,
		Expiry:  expiry,
	}, nil
}

// Profile returns the public fields for an authenticated user id.
func (s *AuthServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*ports.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return &ports.Profile{
		UserID:  user.ID,
		Name:    user.Name,
		Balance: user.Balance,
	}, nil
}
