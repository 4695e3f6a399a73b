package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "movierental"

// Типы токенов
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// RoleStaff - единственная роль: сотрудник проката
const RoleStaff = "staff"

// Claims содержит payload JWT токена
type Claims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService управляет созданием и валидацией JWT токенов
type TokenService struct {
	secretKey     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewTokenService создает новый сервис для работы с токенами
func NewTokenService(secretKey string, accessExpiry, refreshExpiry time.Duration) *TokenService {
	return &TokenService{
		secretKey:     secretKey,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

// GenerateTokenPair генерирует пару access и refresh токенов для сотрудника
func (ts *TokenService) GenerateTokenPair(username string) (*TokenPair, error) {
	accessToken, expiresAt, err := ts.generateToken(username, TokenTypeAccess, ts.accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := ts.generateToken(username, TokenTypeRefresh, ts.refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (ts *TokenService) generateToken(username, tokenType string, expiry time.Duration) (string, time.Time, error) {
	issuedAt := ts.now()
	expiresAt := issuedAt.Add(expiry)

	claims := &Claims{
		Username:  username,
		Role:      RoleStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ts.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken валидирует JWT токен указанного типа и возвращает claims
func (ts *TokenService) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.secretKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(ts.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.TokenType != tokenType || claims.Role != RoleStaff {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
