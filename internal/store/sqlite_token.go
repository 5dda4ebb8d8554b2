package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) SaveActionToken(ctx context.Context, token ActionToken) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO action_tokens (jti, transaction_id, action, expires_at)
        VALUES (?, ?, ?, ?)
    `, token.JTI, token.TransactionID, token.Action, token.ExpiresAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("action token %s: %w", token.JTI, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to save action token: %w", err)
	}
	return nil
}

// ConsumeActionToken marks the token as used. A token can be consumed once;
// later calls return ErrTokenConsumed.
func (s *Store) ConsumeActionToken(ctx context.Context, jti string, now time.Time) (*ActionToken, error) {
	token := &ActionToken{JTI: jti}
	var expiresAt int64
	var consumedAt sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
        SELECT transaction_id, action, expires_at, consumed_at
        FROM action_tokens
        WHERE jti = ?
    `, jti).Scan(&token.TransactionID, &token.Action, &expiresAt, &consumedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("action token %s: %w", jti, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query action token: %w", err)
	}
	token.ExpiresAt = time.Unix(expiresAt, 0).UTC()

	if consumedAt.Valid {
		return nil, ErrTokenConsumed
	}

	result, err := s.db.ExecContext(ctx, `
        UPDATE action_tokens
        SET consumed_at = ?
        WHERE jti = ? AND consumed_at IS NULL
    `, now.Unix(), jti)
	if err != nil {
		return nil, fmt.Errorf("failed to consume action token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return nil, ErrTokenConsumed
	}

	consumed := now.UTC()
	token.ConsumedAt = &consumed
	return token, nil
}
