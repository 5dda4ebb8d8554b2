package store

import (
	"context"
	"time"

	"github.com/hance08/txgate/internal/model"
)

type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// Filter selects transactions for the reporting views. Zero values match everything.
type Filter struct {
	Requester string
	Statuses  []model.Status
	Order     Order
	Limit     int
}

// ActionToken is the server-side record of a capability link.
type ActionToken struct {
	JTI           string
	TransactionID int64
	Action        string
	ExpiresAt     time.Time
	ConsumedAt    *time.Time
}

type TransactionRepository interface {
	InsertTransaction(ctx context.Context, tx *model.Transaction) error
	FindLatestByRequester(ctx context.Context, requester string) (*model.Transaction, error)
	FindByInternalID(ctx context.Context, id int64) (*model.Transaction, error)
	CompareAndSwapStatus(ctx context.Context, id int64, expected, next model.Status) (bool, error)
	QueryTransactions(ctx context.Context, filter Filter) ([]*model.Transaction, error)
	QueryStats(ctx context.Context) ([]model.StatRow, error)
}

type TokenRepository interface {
	SaveActionToken(ctx context.Context, token ActionToken) error
	ConsumeActionToken(ctx context.Context, jti string, now time.Time) (*ActionToken, error)
}

type Repository interface {
	TransactionRepository
	TokenRepository

	// ExecTx runs fn inside a single store transaction.
	ExecTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}
