package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/hash"
	"github.com/frontandrew/movierental/internal/pkg/jwt"
	"github.com/frontandrew/movierental/internal/pkg/logger"
)

// LoginRequest - запрос на вход
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse - ответ на вход
type LoginResponse struct {
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// Service аутентифицирует сотрудника проката
type Service struct {
	username     string
	passwordHash string
	hasher       *hash.PasswordHasher
	tokenService *jwt.TokenService
	logger       logger.Logger
}

// NewService создает сервис; пароль хешируется один раз при старте
func NewService(username, password string, hasher *hash.PasswordHasher, tokenService *jwt.TokenService, logger logger.Logger) (*Service, error) {
	passwordHash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash staff password: %w", err)
	}

	return &Service{
		username:     username,
		passwordHash: passwordHash,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger.With("component", "auth"),
	}, nil
}

// Login проверяет учетные данные и возвращает JWT токены
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	s.logger.Info("Staff login attempt", map[string]interface{}{
		"username": req.Username,
	})

	validUser := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	// Пароль проверяем всегда, чтобы время ответа не выдавало имя пользователя
	validPassword := s.hasher.Matches(s.passwordHash, req.Password)
	if !validUser || !validPassword {
		s.logger.Warn("Login failed: invalid credentials", map[string]interface{}{
			"username": req.Username,
		})
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(s.username)
}

// Refresh выдает новую пару токенов по refresh токену
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.tokenService.ValidateToken(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		s.logger.Warn("Refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	if claims.Username != s.username {
		return nil, domain.ErrInvalidToken
	}

	return s.issue(claims.Username)
}

// ValidateToken валидирует access токен и возвращает claims
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenService.ValidateToken(tokenString, jwt.TokenTypeAccess)
}

func (s *Service) issue(username string) (*LoginResponse, error) {
	tokenPair, err := s.tokenService.GenerateTokenPair(username)
	if err != nil {
		s.logger.Error("Failed to generate tokens", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Info("Staff logged in successfully", map[string]interface{}{
		"username": username,
	})

	return &LoginResponse{
		Username:     username,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}
