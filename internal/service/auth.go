package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
)

type AuthService struct {
	repo      repository.Repository
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewAuthService(repo repository.Repository, jwtSecret string, expirationHours int) *AuthService {
	return &AuthService{
		repo:      repo,
		secret:    []byte(jwtSecret),
		expiresIn: time.Duration(expirationHours) * time.Hour,
		now:       time.Now,
	}
}

// Login checks the password against the stored bcrypt hash and issues a
// session token. Unknown emails and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.expiresIn)
	token, err := IssueToken(s.secret, user, issuedAt, s.expiresIn)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      dto.FromUser(user),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (dto.UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.FromUser(user), nil
}

// IssueToken signs an HS256 session token for user.
func IssueToken(secret []byte, user *domain.User, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// HashPassword is exposed for bootstrap and tests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
