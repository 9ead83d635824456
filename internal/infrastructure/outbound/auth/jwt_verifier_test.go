package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	"community-feed-service/internal/infrastructure/logger"
	"community-feed-service/internal/infrastructure/outbound/auth"
)

const secret = "test-secret"

func TestJWTVerifier_Verify(t *testing.T) {
	verifier := auth.NewJWTVerifier(secret, logger.New("test"))
	principal := model.Principal{ID: 7, Username: "alice"}

	valid, err := auth.Sign(secret, principal, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	require.NoError(t, err)
	noExpiry, err := auth.Sign(secret, principal, jwt.RegisteredClaims{})
	require.NoError(t, err)
	expired, err := auth.Sign(secret, principal, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))})
	require.NoError(t, err)
	wrongSecret, err := auth.Sign("other", principal, jwt.RegisteredClaims{})
	require.NoError(t, err)
	anonymous, err := auth.Sign(secret, model.Principal{}, jwt.RegisteredClaims{})
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{ID: 7, Username: "alice"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: valid},
		{name: "no expiry", token: noExpiry},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: wrongSecret, wantErr: true},
		{name: "missing identity", token: anonymous, wantErr: true},
		{name: "unsigned", token: none, wantErr: true},
		{name: "garbage", token: "not.a.token", wantErr: true},
		{name: "empty", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(context.Background(), tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, custom_errors.ErrInvalidCredential)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &principal, got)
		})
	}
}
