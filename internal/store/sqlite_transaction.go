package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hance08/txgate/internal/model"
)

const transactionColumns = `id, sequence_id, requester, payee, amount, amount_words,
        transaction_date, transaction_time, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	tx := &model.Transaction{}
	var status string
	var createdAt int64

	err := row.Scan(
		&tx.InternalID, &tx.SequenceID, &tx.Requester, &tx.Payee,
		&tx.Amount, &tx.AmountWords, &tx.Date, &tx.Time,
		&status, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Status = model.Status(status)
	tx.CreatedAt = time.Unix(0, createdAt).UTC()
	return tx, nil
}

// InsertTransaction stores tx and fills in its InternalID and CreatedAt.
func (s *Store) InsertTransaction(ctx context.Context, tx *model.Transaction) error {
	createdAt := time.Now().UTC()

	var newID int64
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO transactions (sequence_id, requester, payee, amount, amount_words,
                                  transaction_date, transaction_time, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id;
    `, tx.SequenceID, tx.Requester, tx.Payee, tx.Amount.String(), tx.AmountWords,
		tx.Date, tx.Time, string(tx.Status), createdAt.UnixNano()).Scan(&newID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s for %s: %w", tx.SequenceID, tx.Requester, ErrDuplicateSequence)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	tx.InternalID = newID
	tx.CreatedAt = createdAt
	return nil
}

func (s *Store) FindLatestByRequester(ctx context.Context, requester string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+transactionColumns+`
        FROM transactions
        WHERE requester = ?
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `, requester)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to query latest transaction for %s: %w", requester, err)
	}
	return tx, nil
}

func (s *Store) FindByInternalID(ctx context.Context, id int64) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+transactionColumns+`
        FROM transactions
        WHERE id = ?
    `, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return tx, nil
}

// CompareAndSwapStatus moves transaction id from expected to next and reports
// whether this call performed the transition.
func (s *Store) CompareAndSwapStatus(ctx context.Context, id int64, expected, next model.Status) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
        UPDATE transactions
        SET status = ?
        WHERE id = ? AND status = ?
    `, string(next), id, string(expected))
	if err != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows == 1, nil
}

func (s *Store) QueryTransactions(ctx context.Context, filter Filter) ([]*model.Transaction, error) {
	var (
		conds []string
		args  []any
	)

	if filter.Requester != "" {
		conds = append(conds, "requester = ?")
		args = append(args, filter.Requester)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	if filter.Order == OldestFirst {
		query += " ORDER BY created_at ASC, id ASC"
	} else {
		query += " ORDER BY created_at DESC, id DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*model.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (s *Store) QueryStats(ctx context.Context) ([]model.StatRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT transaction_date, status
        FROM transactions
        ORDER BY created_at DESC, id DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := make([]model.StatRow, 0)
	for rows.Next() {
		var row model.StatRow
		var status string
		if err := rows.Scan(&row.Date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan stat row: %w", err)
		}
		row.Status = model.Status(status)
		stats = append(stats, row)
	}

	return stats, rows.Err()
}
