package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, employeeID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"employeeid": employeeID,
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestResolveEmployee(t *testing.T) {
	svc := NewJWTIdentityService("super-secret")

	t.Run("token válido", func(t *testing.T) {
		token := signToken(t, "super-secret", "3454")
		id, err := svc.ResolveEmployee(token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "3454" {
			t.Fatalf("expected employee 3454, got %q", id)
		}
	})

	t.Run("firma incorrecta", func(t *testing.T) {
		token := signToken(t, "otro-secreto", "3454")
		if _, err := svc.ResolveEmployee(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("sin claim de empleado", func(t *testing.T) {
		claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("super-secret"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.ResolveEmployee(signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("token vacío", func(t *testing.T) {
		if _, err := svc.ResolveEmployee("   "); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("token vencido", func(t *testing.T) {
		claims := jwt.MapClaims{
			"employeeid": "3454",
			"exp":        time.Now().Add(-time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("super-secret"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.ResolveEmployee(signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}
