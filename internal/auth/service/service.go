// Package service implements signup, signin and refresh-token rotation.
package service

import (
	"context"
	"errors"
	"time"

	"crm_backend/internal/auth/password"
	"crm_backend/internal/auth/repository"
	"crm_backend/internal/auth/token"
	"crm_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")
var ErrEmailTaken = repository.ErrEmailTaken

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	defaultRole = "user"
)

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

func (s *Service) SignUp(ctx context.Context, email, plainPassword string, firstName, lastName *string) (repository.User, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.User{}, err
	}

	return s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Roles:        []string{defaultRole},
	})
}

func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID, user.Roles)
}

// Refresh rotates the refresh token: the presented token is revoked and
// a fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return "", "", ErrTokenInvalid
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return "", "", ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", ErrTokenInvalid
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)
	return s.issueTokens(ctx, user.ID, user.Roles)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID, roles []string) (string, string, error) {
	accessToken, err := s.signJWT(userID, roles, s.cfg.GetAccessTokenTTL(), accessTokenType, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return "", "", err
	}

	refreshToken, err := token.GenerateRandom(48)
	if err != nil {
		return "", "", err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, hash, expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string, ttl time.Duration, tokenType, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  tokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}
