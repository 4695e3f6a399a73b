package jwt

import (
	"testing"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	ts := NewTokenService("test-secret", 15*time.Minute, time.Hour)

	pair, err := ts.GenerateTokenPair("staff")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.ExpiresAt, 5*time.Second)

	claims, err := ts.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "staff", claims.Username)
	assert.Equal(t, RoleStaff, claims.Role)
	assert.Equal(t, "movierental", claims.Issuer)

	claims, err = ts.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestTokenService_ValidateToken_Errors(t *testing.T) {
	ts := NewTokenService("test-secret", 15*time.Minute, time.Hour)
	pair, err := ts.GenerateTokenPair("staff")
	require.NoError(t, err)

	expired := NewTokenService("test-secret", 15*time.Minute, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateTokenPair("staff")
	require.NoError(t, err)

	other := NewTokenService("other-secret", 15*time.Minute, time.Hour)

	tests := []struct {
		name      string
		token     string
		tokenType string
		wantErr   error
	}{
		{"refresh вместо access", pair.RefreshToken, TokenTypeAccess, domain.ErrInvalidToken},
		{"access вместо refresh", pair.AccessToken, TokenTypeRefresh, domain.ErrInvalidToken},
		{"истекший токен", old.AccessToken, TokenTypeAccess, domain.ErrTokenExpired},
		{"чужая подпись", mustAccess(t, other), TokenTypeAccess, domain.ErrInvalidToken},
		{"мусор", "not-a-token", TokenTypeAccess, domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ts.ValidateToken(tt.token, tt.tokenType)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func mustAccess(t *testing.T, ts *TokenService) string {
	t.Helper()
	pair, err := ts.GenerateTokenPair("staff")
	require.NoError(t, err)
	return pair.AccessToken
}
