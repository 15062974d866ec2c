package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-secret-key-for-jwt-tests")

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testKey, 0)
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer(nil, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	issuer, err := NewTokenIssuer(testKey, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, issuer.TTL())

	issuer, err = NewTokenIssuer(testKey, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, issuer.TTL())
}

func TestGenerateToken(t *testing.T) {
	issuer := newTestIssuer(t)

	tests := []struct {
		name    string
		userID  uuid.UUID
		wantErr bool
	}{
		{
			name:    "valid user",
			userID:  uuid.New(),
			wantErr: false,
		},
		{
			name:    "missing user ID",
			userID:  uuid.Nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiry, err := issuer.GenerateToken(tt.userID)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), expiry, time.Minute)

			claims, err := issuer.ValidateToken(token)
			assert.NoError(t, err)
			require.NotNil(t, claims)
			assert.Equal(t, tt.userID.String(), claims.UserID)
		})
	}
}

func TestValidateToken(t *testing.T) {
	issuer := newTestIssuer(t)

	userID := uuid.New()
	validToken, _, err := issuer.GenerateToken(userID)
	require.NoError(t, err)

	other, err := NewTokenIssuer([]byte("another-secret"), 0)
	require.NoError(t, err)
	foreignToken, _, err := other.GenerateToken(userID)
	require.NoError(t, err)

	expired := newTestIssuer(t)
	expired.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expiredToken, _, err := expired.GenerateToken(userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{UserID: userID.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name        string
		tokenString string
		wantErr     bool
	}{
		{
			name:        "valid token",
			tokenString: validToken,
			wantErr:     false,
		},
		{
			name:        "empty token",
			tokenString: "",
			wantErr:     true,
		},
		{
			name:        "invalid token format",
			tokenString: "not.a.valid.jwt.token",
			wantErr:     true,
		},
		{
			name:        "tampered token",
			tokenString: validToken + "tampered",
			wantErr:     true,
		},
		{
			name:        "signed with another secret",
			tokenString: foreignToken,
			wantErr:     true,
		},
		{
			name:        "expired token",
			tokenString: expiredToken,
			wantErr:     true,
		},
		{
			name:        "unsigned token",
			tokenString: noneToken,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.ValidateToken(tt.tokenString)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidToken))
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, userID.String(), claims.UserID)
			}
		})
	}
}

func TestUserIDFromClaims(t *testing.T) {
	issuer := newTestIssuer(t)

	userID := uuid.New()
	validToken, _, err := issuer.GenerateToken(userID)
	require.NoError(t, err)

	validClaims, err := issuer.ValidateToken(validToken)
	require.NoError(t, err)

	tests := []struct {
		name    string
		claims  *JWTClaims
		wantErr bool
	}{
		{
			name:    "valid claims",
			claims:  validClaims,
			wantErr: false,
		},
		{
			name:    "invalid UUID format",
			claims:  &JWTClaims{UserID: "not-a-valid-uuid"},
			wantErr: true,
		},
		{
			name:    "nil claims",
			claims:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserIDFromClaims(tt.claims)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, uuid.Nil, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, userID, got)
			}
		})
	}
}
