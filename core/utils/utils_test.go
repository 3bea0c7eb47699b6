package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !ComparePassword(hashed, "hunter2hunter2") {
		t.Fatalf("correct password must match")
	}
	if ComparePassword(hashed, "wrong") {
		t.Fatalf("wrong password must not match")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	claims, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatalf("token must not parse with the wrong secret")
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "secret", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := ParseToken(token, "secret"); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestToUUID(t *testing.T) {
	id := uuid.New()
	if got := ToUUID(id.String()); got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
	if got := ToUUID("not-a-uuid"); got != uuid.Nil {
		t.Fatalf("malformed input must yield uuid.Nil, got %s", got)
	}
}
