package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func fixedIssuer(secret string, ttl time.Duration, at time.Time) *Issuer {
	i := NewIssuer(secret, ttl)
	i.now = func() time.Time { return at }
	return i
}

func TestIssuer_RoundTrip(t *testing.T) {
	i := NewIssuer("test-secret", time.Hour)

	raw, err := i.Issue("jane@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	claims, err := i.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("expected email jane@example.com, got %s", claims.Email)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected 1h lifetime, got %s", got)
	}
}

func TestIssuer_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	raw, err := fixedIssuer("test-secret", time.Hour, issuedAt).Issue("jane@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := NewIssuer("test-secret", time.Hour).Verify(raw); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	raw, err := NewIssuer("secret-a", time.Hour).Issue("jane@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if _, err := NewIssuer("secret-b", time.Hour).Verify(raw); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Email: "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if _, err := NewIssuer("test-secret", time.Hour).Verify(hs512); err == nil {
		t.Error("expected HS512 token to be rejected")
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if _, err := NewIssuer("test-secret", time.Hour).Verify(none); err == nil {
		t.Error("expected unsigned token to be rejected")
	}
}

func TestIssuer_RequiresExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "jane@example.com"}).
		SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if _, err := NewIssuer("test-secret", time.Hour).Verify(raw); err == nil {
		t.Error("expected token without exp to be rejected")
	}
}

func TestIssuer_RequiresEmail(t *testing.T) {
	raw, err := NewIssuer("test-secret", time.Hour).Issue("")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if _, err := NewIssuer("test-secret", time.Hour).Verify(raw); err == nil {
		t.Error("expected token without email to be rejected")
	}
}

func TestIssuer_Garbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := NewIssuer("test-secret", time.Hour).Verify(raw); err == nil {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}
