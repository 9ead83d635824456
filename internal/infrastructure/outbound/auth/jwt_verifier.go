package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
)

// Claims mirrors what the credential issuer signs into each token.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
	log    ports.Logger
}

func NewJWTVerifier(secret string, log ports.Logger) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		log:    log,
	}
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (*model.Principal, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		v.log.Debug("Rejected credential", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrInvalidCredential, err)
	}
	if claims.ID <= 0 || claims.Username == "" {
		v.log.Debug("Credential is missing identity claims")
		return nil, custom_errors.ErrInvalidCredential
	}

	return &model.Principal{ID: claims.ID, Username: claims.Username}, nil
}

// Sign issues a token for principal. Tokens are normally minted by the
// credential service; this exists for tooling and tests.
func Sign(secret string, principal model.Principal, registered jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:               principal.ID,
		Username:         principal.Username,
		RegisteredClaims: registered,
	})
	return token.SignedString([]byte(secret))
}
