package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists auth tokens (single 'token_hash' column per user).
// A user holds at most one active token at a time: logging in again
// replaces the previous row, logging out deletes it. Only the SHA-256
// hash of the token is stored.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Replace atomically removes any existing token for the user and inserts
// the new one. Running both statements in a transaction means a concurrent
// Resolve sees either the old token or the new one, never both and never a
// half-cycled state.
func (r *TokenRepo) Replace(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM auth_tokens WHERE user_id=?", userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO auth_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Resolve returns the owning userID for a non-expired token hash.
// Unknown and expired tokens both return ErrTokenNotFound.
func (r *TokenRepo) Resolve(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM auth_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTokenNotFound
		}
		return 0, err
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, ErrTokenNotFound
	}
	return userID, nil
}

// RevokeForUser deletes the user's current token. Subsequent Resolve calls
// with the old value fail with ErrTokenNotFound. Deleting zero rows is not
// an error so logout stays idempotent.
func (r *TokenRepo) RevokeForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM auth_tokens WHERE user_id=?", userID)
	return err
}
