// Package services contains the application services sitting between the
// HTTP layer and the repositories. Services own the business rules; handlers
// translate sentinel errors to status codes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/calcledger/internal/common"
	"github.com/dmitrijs2005/calcledger/internal/server/auth"
	"github.com/dmitrijs2005/calcledger/internal/server/config"
	"github.com/dmitrijs2005/calcledger/internal/server/models"
	"github.com/dmitrijs2005/calcledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/calcledger/internal/server/revocation"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// RegisterInput carries the fields accepted at registration. Password is
// the plaintext; it is hashed before it reaches a repository.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// UserService implements registration, login, token refresh and bearer
// token resolution.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	codec                       *auth.TokenCodec
	hasher                      *auth.PasswordHasher
	revocations                 revocation.Store
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.TokenCodec,
	hasher *auth.PasswordHasher, revocations revocation.Store, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		codec:                       codec,
		hasher:                      hasher,
		revocations:                 revocations,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an active, unverified user. A duplicate username or
// email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		IsActive:     true,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues a token pair. An unknown
// username and a wrong password both yield common.ErrInvalidCredentials so
// the response does not reveal which part failed. A disabled account is
// reported separately, but only after the password checked out.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, common.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, common.ErrUserInactive
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh exchanges a live refresh token for a fresh pair. The presented
// token is revoked for its remaining lifetime before the new pair is issued,
// so each refresh token is usable exactly once. The revocation is a single
// atomic claim on the jti; two concurrent refreshes of the same token cannot
// both rotate.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken, auth.TokenTypeRefresh, true)
	if err != nil {
		return nil, err
	}

	claimed, err := s.revocations.Claim(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}
	if !claimed {
		return nil, common.ErrTokenRevoked
	}

	user, err := s.resolveSubject(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	return s.issueTokenPair(user.ID)
}

// Resolve authenticates a bearer access token and returns its user.
//
// Failures keep their cause: common.ErrTokenExpired, common.ErrInvalidToken
// and common.ErrTokenRevoked describe the token itself, while
// common.ErrUserNotFound and common.ErrUserInactive describe the account the
// token points at.
func (s *UserService) Resolve(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.codec.Decode(accessToken, auth.TokenTypeAccess, true)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	return s.resolveSubject(ctx, claims.Subject)
}

func (s *UserService) resolveSubject(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsActive {
		return nil, common.ErrUserInactive
	}

	return user, nil
}

func (s *UserService) issueTokenPair(userID string) (*TokenPair, error) {
	access, err := s.codec.Issue(userID, auth.TokenTypeAccess, 0)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refresh, err := s.codec.Issue(userID, auth.TokenTypeRefresh, 0)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: time.Now().UTC().Add(s.accessTokenValidityDuration),
	}, nil
}
