package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveOTP replaces any earlier reset codes for the email with a fresh one.
func (db *DB) SaveOTP(ctx context.Context, email, code string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM otp_tokens WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to clear old otp codes: %w", err)
	}

	query := `INSERT INTO otp_tokens (email, code, created_at) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, email, code, time.Now()); err != nil {
		return fmt.Errorf("failed to save otp code: %w", err)
	}

	return tx.Commit()
}

// ConsumeOTP validates the code for the email and deletes it on success.
// Codes older than ttl count as expired.
func (db *DB) ConsumeOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	query := `SELECT id, created_at FROM otp_tokens WHERE email = ? AND code = ?`

	var id int64
	var createdAt time.Time
	err := db.QueryRowContext(ctx, query, email, code).Scan(&id, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("failed to query otp code: %w", err)
	}

	if time.Since(createdAt) > ttl {
		_, _ = db.ExecContext(ctx, `DELETE FROM otp_tokens WHERE id = ?`, id)
		return ErrInvalidOTP
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM otp_tokens WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to consume otp code: %w", err)
	}
	return nil
}
