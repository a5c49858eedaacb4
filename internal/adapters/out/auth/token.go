package auth

import (
	"errors"
	"fmt"
	"time"

	"qrcafe/internal/core/domain/model/staff"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	tokenIssuer     = "qrcafe"
)

// ErrSigningKeyIsTooShort is returned by NewTokenService for keys under 32 bytes.
var ErrSigningKeyIsTooShort = errors.New("token signing key must be at least 32 bytes")

// Claims is the payload of a staff bearer token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Principal identifies the staff member behind a verified token.
type Principal struct {
	MemberID string
	Username string
	Role     string
}

// TokenService issues and verifies HS256 tokens. It implements ports.TokenIssuer.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

var _ ports.TokenIssuer = (*TokenService)(nil)

func NewTokenService(key string, ttl time.Duration) (*TokenService, error) {
	if len(key) < 32 {
		return nil, ErrSigningKeyIsTooShort
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

func (s *TokenService) Issue(member *staff.Member) (string, time.Time, error) {
	if member == nil {
		return "", time.Time{}, errs.NewValueIsRequiredError("member")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)
	claims := Claims{
		Username: member.Username(),
		Role:     member.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   member.ID().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token and returns its principal.
// Every failure is reported as CredentialsAreInvalidError.
func (s *TokenService) Verify(token string) (Principal, error) {
	if token == "" {
		return Principal{}, errs.NewCredentialsAreInvalidError(errs.NewValueIsRequiredError("token"))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Principal{}, errs.NewCredentialsAreInvalidError(err)
	}

	return Principal{
		MemberID: claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
