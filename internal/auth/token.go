package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/admins"
)

const resetAudience = "password_reset"

// Claims are carried by access tokens.
type Claims struct {
	RoleID int64  `json:"role_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

// NewTokenIssuer builds an issuer for access tokens valid for ttl and reset
// tokens valid for resetTTL.
func NewTokenIssuer(secret string, ttl, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, resetTTL: resetTTL, now: time.Now}
}

// TTL is the access token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// ResetTTL is the reset token lifetime.
func (t *TokenIssuer) ResetTTL() time.Duration { return t.resetTTL }

// Issue signs an access token for the admin.
func (t *TokenIssuer) Issue(a admins.Admin) (string, error) {
	now := t.now()
	claims := Claims{
		RoleID: a.RoleID,
		Email:  a.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies an access token and returns the admin id and claims.
func (t *TokenIssuer) Parse(token string) (uuid.UUID, Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if len(claims.Audience) > 0 {
		return uuid.Nil, Claims{}, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, Claims{}, ErrInvalidToken
	}
	return id, claims, nil
}

// IssueReset signs a password reset token. The key includes the current
// password hash, so the token stops verifying once the password changes.
func (t *TokenIssuer) IssueReset(a admins.Admin) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   a.ID.String(),
		Audience:  jwt.ClaimStrings{resetAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.resetTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.resetKey(a))
	if err != nil {
		return "", fmt.Errorf("auth: sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyReset checks a reset token against the admin's current state.
func (t *TokenIssuer) VerifyReset(token string, a admins.Admin) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.resetKey(a), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(resetAudience),
		jwt.WithSubject(a.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

func (t *TokenIssuer) resetKey(a admins.Admin) []byte {
	key := make([]byte, 0, len(t.secret)+len(a.PasswordHash))
	key = append(key, t.secret...)
	return append(key, a.PasswordHash...)
}
