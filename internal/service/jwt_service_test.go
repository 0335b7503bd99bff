package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTService_IssueParse(t *testing.T) {
	svc, err := NewJWTService("secret")
	if err != nil {
		t.Fatalf("new jwt service: %v", err)
	}

	token, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "u1" || claims.Subject != "u1" || claims.Issuer != tokenIssuer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h validity, got %s", got)
	}
}

func TestJWTService_RejectsEmptySecret(t *testing.T) {
	if _, err := NewJWTService("  "); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestJWTService_RejectsEmptyUserID(t *testing.T) {
	svc, _ := NewJWTService("secret")
	if _, err := svc.Issue(""); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc, _ := NewJWTService("secret")
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := svc.ParseAccessToken(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewJWTService("secret-a")
	verifier, _ := NewJWTService("secret-b")

	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for foreign signature, got %v", err)
	}
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc, _ := NewJWTService("secret")
	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.ParseAccessToken(raw); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", raw, err)
		}
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc, _ := NewJWTService("secret")
	now := time.Now().UTC()
	signed := signTestToken(t, "secret", Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-issuer",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	})

	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for wrong issuer, got %v", err)
	}
}

func TestJWTService_RejectsSubjectMismatch(t *testing.T) {
	svc, _ := NewJWTService("secret")
	now := time.Now().UTC()
	signed := signTestToken(t, "secret", Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u2",
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	})

	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for subject mismatch, got %v", err)
	}
}

func TestJWTService_AcceptsUserIDOnlyToken(t *testing.T) {
	svc, _ := NewJWTService("secret")
	now := time.Now().UTC()
	signed := signTestToken(t, "secret", jwt.MapClaims{
		"userId": "u1",
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	})

	claims, err := svc.ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("expected userId-only token accepted, got %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_RequiresExpiration(t *testing.T) {
	svc, _ := NewJWTService("secret")
	signed := signTestToken(t, "secret", jwt.MapClaims{"userId": "u1"})

	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed without exp, got %v", err)
	}
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc, _ := NewJWTService("secret")
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for HS512, got %v", err)
	}
}
