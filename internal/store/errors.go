package store

import (
	"errors"

	sqlite "github.com/mattn/go-sqlite3"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrConstraintViolation = errors.New("database constraint violation")
	ErrDuplicateSequence   = errors.New("sequence id already issued for requester")
	ErrTokenConsumed       = errors.New("action token already consumed")
)

// IsTransient reports whether err is worth retrying in a fresh store transaction:
// a lost race on (requester, sequence_id) or sqlite lock contention.
func IsTransient(err error) bool {
	if errors.Is(err, ErrDuplicateSequence) {
		return true
	}

	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite.ErrBusy || sqliteErr.Code == sqlite.ErrLocked
	}
	return false
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite.ErrConstraintPrimaryKey
	}
	return false
}
