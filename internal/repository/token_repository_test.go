package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/todo-list-api/internal/utils"
)

func TestTokenRepo_ReplaceAndResolve(t *testing.T) {
	db := openTestDB(t, "tokenrepo")
	repo := NewTokenRepo(db)
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	hashA := utils.HashTokenRaw("token-a")
	if err := repo.Replace(ctx, 1, hashA, exp); err != nil {
		t.Fatalf("replace: %v", err)
	}
	uid, err := repo.Resolve(ctx, hashA)
	if err != nil || uid != 1 {
		t.Fatalf("resolve: uid=%d err=%v", uid, err)
	}

	// Logging in again replaces the token: the old value must stop
	// resolving the moment the new one is stored.
	hashB := utils.HashTokenRaw("token-b")
	if err := repo.Replace(ctx, 1, hashB, exp); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	if _, err := repo.Resolve(ctx, hashA); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected old token gone, got %v", err)
	}
	if uid, err := repo.Resolve(ctx, hashB); err != nil || uid != 1 {
		t.Fatalf("resolve new token: uid=%d err=%v", uid, err)
	}
}

func TestTokenRepo_Revoke(t *testing.T) {
	db := openTestDB(t, "tokenrevoke")
	repo := NewTokenRepo(db)
	ctx := context.Background()

	hash := utils.HashTokenRaw("token-c")
	if err := repo.Replace(ctx, 7, hash, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repo.RevokeForUser(ctx, 7); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := repo.Resolve(ctx, hash); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected revoked token to be unknown, got %v", err)
	}
	// Revoking again is a no-op, not an error.
	if err := repo.RevokeForUser(ctx, 7); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestTokenRepo_UnknownAndExpired(t *testing.T) {
	db := openTestDB(t, "tokenexpiry")
	repo := NewTokenRepo(db)
	ctx := context.Background()

	if _, err := repo.Resolve(ctx, utils.HashTokenRaw("never-issued")); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected unknown token error, got %v", err)
	}

	expired := utils.HashTokenRaw("token-d")
	if err := repo.Replace(ctx, 2, expired, time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, err := repo.Resolve(ctx, expired); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected expired token to be unknown, got %v", err)
	}
}
