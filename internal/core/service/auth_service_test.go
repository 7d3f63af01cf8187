package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/user-management/internal/core/domain"
)

func TestAuthService_IssueToken_Success(t *testing.T) {
	repo := newStubUserRepo()
	users := newTestUserService(repo)
	created := mustRegister(t, users, aliceInput())
	svc := NewAuthService(users, "secret", time.Hour)

	token, user, err := svc.IssueToken(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["username"] != "alice" {
		t.Fatalf("expected username alice, got %v", claims["username"])
	}
	if claims["sub"] != "1" {
		t.Fatalf("expected sub 1, got %v", claims["sub"])
	}
}

func TestAuthService_IssueToken_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	users := newTestUserService(repo)
	mustRegister(t, users, aliceInput())
	svc := NewAuthService(users, "secret", time.Hour)

	if _, _, err := svc.IssueToken(context.Background(), "alice", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(nil, "secret", 0)
	if svc.tokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h default ttl, got %s", svc.tokenTTL)
	}
}
