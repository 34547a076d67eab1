package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo manages the refresh_tokens table backing staff sessions.
// Rows hold only the SHA-256 hash of a token; expiry and revocation are
// evaluated in SQL against the database clock, so every app instance
// agrees on what is still valid.
type TokenRepo struct{ DB *sql.DB }

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

const (
	insertTokenSQL = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)`

	selectLiveTokenSQL = `SELECT user_id FROM refresh_tokens
	                      WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()
	                      LIMIT 1`

	revokeByHashSQL = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
	                   WHERE token_hash = ? AND revoked_at IS NULL`

	revokeByUserSQL = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
	                   WHERE user_id = ? AND revoked_at IS NULL`
)

// StoreRefresh records a freshly issued token hash for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx, insertTokenSQL, userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its owning user.  Revoked,
// expired and unknown hashes are indistinguishable to the caller: all
// three surface as sql.ErrNoRows.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	if err := r.DB.QueryRowContext(ctx, selectLiveTokenSQL, tokenHash).Scan(&userID); err != nil {
		return 0, err
	}
	return userID, nil
}

// RevokeByHash retires a single token, as on logout or rotation.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, revokeByHashSQL, tokenHash)
	return err
}

// RevokeAllForUser retires every live token a user holds; called when a
// staff account is deleted so its sessions die with it.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, revokeByUserSQL, userID)
	return err
}
