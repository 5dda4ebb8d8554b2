package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/store"
)

// ReportService serves the read-only dashboard projections. Every list is
// newest first and empty, not nil, when nothing matches.
type ReportService struct {
	repo store.TransactionRepository
}

func NewReportService(repo store.TransactionRepository) *ReportService {
	return &ReportService{repo: repo}
}

// ListByRequester returns the full history of one requester.
func (rs *ReportService) ListByRequester(ctx context.Context, requester string) ([]*model.Transaction, error) {
	txs, err := rs.repo.QueryTransactions(ctx, store.Filter{Requester: requester})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", requester, err)
	}
	return txs, nil
}

func (rs *ReportService) ListPending(ctx context.Context) ([]*model.Transaction, error) {
	txs, err := rs.repo.QueryTransactions(ctx, store.Filter{
		Statuses: []model.Status{model.StatusPending},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return txs, nil
}

// ListHistory returns Approved and Rejected transactions, for one requester or,
// when requester is empty, for everyone.
func (rs *ReportService) ListHistory(ctx context.Context, requester string) ([]*model.Transaction, error) {
	txs, err := rs.repo.QueryTransactions(ctx, store.Filter{
		Requester: requester,
		Statuses:  model.TerminalStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction history: %w", err)
	}
	return txs, nil
}

func (rs *ReportService) Stats(ctx context.Context) ([]model.StatRow, error) {
	rows, err := rs.repo.QueryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return rows, nil
}

// Get returns a single transaction by its internal id.
func (rs *ReportService) Get(ctx context.Context, internalID int64) (*model.Transaction, error) {
	tx, err := rs.repo.FindByInternalID(ctx, internalID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, &NotFoundError{Ref: fmt.Sprintf("transaction %d", internalID)}
		}
		return nil, err
	}
	return tx, nil
}

// NextSequence previews the id the requester's next submission would get.
// It is advisory only; Submit allocates again under the write lock.
func (rs *ReportService) NextSequence(ctx context.Context, requester string) (string, error) {
	return Allocate(ctx, rs.repo, requester)
}

// Summarize counts statuses per date, latest date first.
func Summarize(rows []model.StatRow) []DailySummary {
	byDate := make(map[string]*DailySummary)
	for _, row := range rows {
		s, ok := byDate[row.Date]
		if !ok {
			s = &DailySummary{Date: row.Date}
			byDate[row.Date] = s
		}
		switch row.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusApproved:
			s.Approved++
		case model.StatusRejected:
			s.Rejected++
		}
	}

	summaries := make([]DailySummary, 0, len(byDate))
	for _, s := range byDate {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})
	return summaries
}
