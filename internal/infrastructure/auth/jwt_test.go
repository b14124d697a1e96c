package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/infrastructure/auth"
)

func TestVerifierIssueAndVerify(t *testing.T) {
	t.Parallel()

	verifier := auth.NewVerifier("super-secret")

	actor := &domain.Actor{
		ID:   "staff-1",
		Role: domain.RoleStaff,
	}

	token, err := verifier.Issue(actor, time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.ActorID != actor.ID || claims.Role != actor.Role {
		t.Fatalf("expected claims to match actor, got %+v", claims)
	}
}

func TestVerifierVerifyErrors(t *testing.T) {
	t.Parallel()

	verifier := auth.NewVerifier("secret")

	expired, err := verifier.Issue(&domain.Actor{ID: "staff-1", Role: domain.RoleStaff}, -time.Minute)
	if err != nil {
		t.Fatalf("failed to issue expired token: %v", err)
	}
	if _, err := verifier.Verify(expired); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	other := auth.NewVerifier("other-secret")
	valid, err := other.Issue(&domain.Actor{ID: "staff-1", Role: domain.RoleStaff}, time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := verifier.Verify(valid); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	if _, err := verifier.Verify("not-a-token"); err == nil {
		t.Fatal("expected failure for malformed token")
	}
}

func TestVerifierRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	claims := auth.Claims{
		ActorID: "actor-1",
		Role:    domain.Role("superuser"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	verifier := auth.NewVerifier("secret")
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}
