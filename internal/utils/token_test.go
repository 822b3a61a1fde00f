package utils

import (
	"testing"
	"time"
)

func TestNewAuthToken(t *testing.T) {
	a, err := NewAuthToken(24)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if len(a.Raw) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a.Raw))
	}
	if a.Exp.Before(time.Now().UTC().Add(23 * time.Hour)) {
		t.Fatalf("expiry too soon: %v", a.Exp)
	}

	b, err := NewAuthToken(24)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatalf("two tokens came out identical")
	}
}

func TestHashTokenRaw(t *testing.T) {
	h1 := HashTokenRaw("abc")
	h2 := HashTokenRaw("abc")
	if h1 != h2 {
		t.Fatalf("hash not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("expected sha256 hex, got %d chars", len(h1))
	}
	if h1 == "abc" || HashTokenRaw("abd") == h1 {
		t.Fatalf("hash does not separate inputs")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("plaintext stored as hash")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
