package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/mocks"
	"github.com/kingrain94/remote-config-api/internal/repository"
)

const testSecret = "test-secret"

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *mocks.Repository
	mockUser *mocks.UserRepository
	service  *AuthService
	user     *domain.User
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockUser = new(mocks.UserRepository)
	s.mockRepo.On("User").Return(s.mockUser)

	hash, err := HashPassword("remote-config-operator")
	s.Require().NoError(err)
	s.user = &domain.User{
		ID:           "user1",
		Email:        "operator@remote-config.local",
		PasswordHash: hash,
		Role:         domain.RoleOperator,
	}

	s.service = NewAuthService(s.mockRepo, testSecret, 24)
	s.service.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestLogin_IssuesToken() {
	// Arrange
	ctx := context.Background()
	s.mockUser.On("GetByEmail", ctx, s.user.Email).Return(s.user, nil)

	// Act
	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: s.user.Email, Password: "remote-config-operator"})

	// Assert
	s.Require().NoError(err)
	s.Equal("operator", resp.User.Role)
	s.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), resp.ExpiresAt)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithoutClaimsValidation())
	s.Require().NoError(err)
	s.Equal("user1", claims["sub"])
	s.Equal("operator", claims["role"])
	s.Equal(s.user.Email, claims["email"])
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	s.mockUser.On("GetByEmail", ctx, s.user.Email).Return(s.user, nil)

	_, err := s.service.Login(ctx, dto.LoginRequest{Email: s.user.Email, Password: "nope"})

	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownUser() {
	ctx := context.Background()
	s.mockUser.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, err := s.service.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "x"})

	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestMe() {
	ctx := context.Background()
	s.mockUser.On("GetByID", ctx, "user1").Return(s.user, nil)
	s.mockUser.On("GetByID", ctx, "gone").Return(nil, repository.ErrNotFound)

	resp, err := s.service.Me(ctx, "user1")
	s.NoError(err)
	s.Equal(s.user.Email, resp.Email)

	_, err = s.service.Me(ctx, "gone")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestIssueToken_AnonRole() {
	// Arrange
	user := &domain.User{ID: "svc", Email: "ci@example.com", Role: domain.RoleAnon}
	issuedAt := time.Now()

	// Act
	token, err := IssueToken([]byte(testSecret), user, issuedAt, time.Hour)

	// Assert
	s.Require().NoError(err)
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	s.Require().NoError(err)
	s.Equal("anon", claims["role"])
	s.Equal(float64(issuedAt.Add(time.Hour).Unix()), claims["exp"])
}
