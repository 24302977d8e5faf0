package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"freight-marketplace-service/internal/domain"
)

// Identity is what the bearer middleware extracts from a valid token.
type Identity struct {
	UserID string
	Role   domain.Role
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

const issuer = "freight-marketplace-service"

// GenerateToken mints an HS256 access token for a user.
func GenerateToken(secret, userID string, role domain.Role, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("generate token: secret is empty")
	}
	if userID == "" {
		return "", fmt.Errorf("generate token: user id is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	c := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("generate token: sign: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a bearer token and returns the identity.
func VerifyToken(secret, token string) (Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}
	if !parsed.Valid {
		return Identity{}, fmt.Errorf("verify token: token invalid")
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return Identity{}, fmt.Errorf("verify token: unknown role %q", claims.Role)
	}
	return Identity{UserID: claims.Subject, Role: role}, nil
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
