package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkock/brewhub-backend/pkg/config"
	"github.com/pkock/brewhub-backend/pkg/enums"
)

// AccessTokenPayload carries the identity baked into an access token. JTI is
// optional; when empty a fresh uuid is assigned.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	JTI    string
}

// Claims is the decoded access token body.
type Claims struct {
	UserID uuid.UUID      `json:"uid"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// MintAccessToken signs an HS256 access token for the payload. The token ID is
// a fresh uuid used as the session handle.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if payload.UserID == uuid.Nil {
		return "", fmt.Errorf("mint access token: user id is required")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("mint access token: invalid role %q", payload.Role)
	}

	jti := payload.JTI
	if jti == "" {
		jti = uuid.NewString()
	}

	expires := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	claims := Claims{
		UserID: payload.UserID,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("mint access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies the signature, issuer and expiry of a token and
// returns its claims.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("parse access token: token is invalid")
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("parse access token: invalid role %q", claims.Role)
	}
	return claims, nil
}

// ParseAccessTokenAllowExpired verifies everything except expiry. Used by the
// refresh and logout flows, where the access token is usually stale already.
func ParseAccessTokenAllowExpired(cfg config.JWTConfig, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("parse access token: unexpected issuer %q", claims.Issuer)
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("parse access token: invalid role %q", claims.Role)
	}
	return claims, nil
}
