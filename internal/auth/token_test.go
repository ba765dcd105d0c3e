package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/report-tracker/internal/domain"
)

func newTestManager(t *testing.T, clock *time.Time) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-secret")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	tm.now = func() time.Time { return *clock }
	return tm
}

func TestNewTokenManagerRejectsEmptySecret(t *testing.T) {
	if _, err := NewTokenManager(""); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := newTestManager(t, &clock)
	user := &domain.User{ID: "u-1", Email: "a@x.com", Role: domain.RoleModerator}

	token, exp, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !exp.Equal(clock.Add(time.Hour)) {
		t.Fatalf("expected expiry one hour after issuance, got %s", exp)
	}

	identity, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if identity.UserID != "u-1" || identity.Email != "a@x.com" || identity.Role != domain.RoleModerator {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if !identity.IssuedAt.Equal(clock) {
		t.Fatalf("expected issued-at %s, got %s", clock, identity.IssuedAt)
	}
}

func TestTokenExpiryBoundary(t *testing.T) {
	for name, issued := range map[string]time.Time{
		"whole second": time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		"sub-second":   time.Date(2026, 3, 1, 12, 0, 10, 700_000_000, time.UTC),
		"nanoseconds":  time.Date(2026, 3, 1, 12, 0, 10, 999_999_999, time.UTC),
	} {
		t.Run(name, func(t *testing.T) {
			clock := issued
			tm := newTestManager(t, &clock)

			token, exp, err := tm.GenerateToken(&domain.User{ID: "u-1", Email: "a@x.com", Role: domain.RoleUser})
			if err != nil {
				t.Fatalf("GenerateToken: %v", err)
			}
			if !exp.Equal(issued.Add(3600 * time.Second)) {
				t.Fatalf("expected expiry at T+3600s, got %s", exp)
			}

			clock = issued.Add(3599*time.Second + 800*time.Millisecond)
			if _, err := tm.ParseToken(token); err != nil {
				t.Fatalf("expected token valid before T+3600s, got %v", err)
			}

			clock = issued.Add(3600 * time.Second)
			identity, err := tm.ParseToken(token)
			if err != nil {
				t.Fatalf("expected token valid at T+3600s, got %v", err)
			}
			if !identity.ExpiresAt.Equal(exp) {
				t.Fatalf("expected identity expiry %s, got %s", exp, identity.ExpiresAt)
			}

			clock = issued.Add(3600*time.Second + time.Nanosecond)
			if _, err := tm.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected token rejected after T+3600s, got %v", err)
			}
		})
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := newTestManager(t, &clock)

	other, err := NewTokenManager("another-secret")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	other.now = tm.now
	foreign, _, err := other.GenerateToken(&domain.User{ID: "u-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           "u-1",
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"wrong secret":   foreign,
		"none algorithm": unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pw", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw" {
		t.Fatalf("expected hash to differ from plaintext")
	}
	again, _ := HashPassword("pw", 4)
	if again == hash {
		t.Fatalf("expected distinct salts per hash")
	}
	if err := ComparePassword(hash, "pw"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := ComparePassword(hash, "nope"); !IsMismatch(err) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}
