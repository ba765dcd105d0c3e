package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = time.Hour

var (
	// ErrNoSecret is returned when a token manager is built without a signing secret.
	ErrNoSecret = errors.New("token signing secret is empty")
	// ErrInvalidToken covers every verification failure: missing, malformed, bad signature, expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager. An empty secret is rejected.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &TokenManager{secret: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// Claims describes JWT payload. IssuedAtNano keeps the exact issuance instant;
// the registered iat/exp claims only carry whole seconds.
type Claims struct {
	UserID       string      `json:"userId"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	IssuedAtNano int64       `json:"iatNano"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the user.
func (tm *TokenManager) GenerateToken(user *domain.User) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		IssuedAtNano: issuedAt.UnixNano(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(ceilSecond(expiresAt)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns the caller identity.
// A token is accepted up to and including its expiry instant.
func (tm *TokenManager) ParseToken(tokenStr string) (*domain.Identity, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.IssuedAtNano <= 0 || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	issuedAt := time.Unix(0, claims.IssuedAtNano)
	expiresAt := issuedAt.Add(tm.ttl)
	if tm.now().After(expiresAt) {
		return nil, ErrInvalidToken
	}

	return &domain.Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// ceilSecond rounds up so the registered exp claim never precedes the real expiry.
func ceilSecond(t time.Time) time.Time {
	whole := t.Truncate(time.Second)
	if whole.Before(t) {
		return whole.Add(time.Second)
	}
	return whole
}
