package auth

import (
	"testing"
	"time"
)

func TestSignAndParseJWT(t *testing.T) {
	tok, err := SignJWT("user-1", "a@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseJWT(tok, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseJWT_Rejects(t *testing.T) {
	tok, err := SignJWT("user-1", "", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT(tok, "other-secret"); err == nil {
		t.Fatalf("expected signature error")
	}

	expired, err := SignJWT("user-1", "", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT(expired, "secret"); err == nil {
		t.Fatalf("expected expiry error")
	}

	if _, err := ParseJWT("not-a-token", "secret"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected mismatch")
	}
}
