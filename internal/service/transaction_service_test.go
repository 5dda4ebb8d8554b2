package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/hance08/txgate/internal/capability"
	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/notify"
	"github.com/hance08/txgate/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmitRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tx, err := env.svc.Transaction.Submit(ctx, validRequest("alice"))
	require.NoError(t, err)
	assert.Equal(t, "TID-001", tx.SequenceID)
	assert.NotZero(t, tx.InternalID)

	list, err := env.svc.Report.ListByRequester(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusPending, list[0].Status)
	assert.Equal(t, "TID-001", list[0].SequenceID)
	assert.Equal(t, "-", list[0].Payee)
	assert.True(t, list[0].Amount.Equal(decimal.NewFromInt(500)))

	second, err := env.svc.Transaction.Submit(ctx, validRequest("alice"))
	require.NoError(t, err)
	assert.Equal(t, "TID-002", second.SequenceID)
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		req    SubmitRequest
		field  string
		reason bool
	}{
		{
			name:  "missing time, amount and amount_words reports time",
			req:   SubmitRequest{Date: "2024-01-01", Requester: "alice"},
			field: "time",
		},
		{
			name:  "empty request reports date",
			req:   SubmitRequest{},
			field: "date",
		},
		{
			name:  "blank requester",
			req:   SubmitRequest{Date: "2024-01-01", Time: "10:00", Requester: "   ", Amount: "1", AmountWords: "one"},
			field: "requester",
		},
		{
			name:  "missing amount_words",
			req:   SubmitRequest{Date: "2024-01-01", Time: "10:00", Requester: "alice", Amount: "1"},
			field: "amount_words",
		},
		{
			name:   "client supplied sequence id",
			req:    func() SubmitRequest { r := validRequest("alice"); r.TransactionID = "TID-900"; return r }(),
			field:  "transaction_id",
			reason: true,
		},
		{
			name:   "requester with path separator",
			req:    validRequest("alice/bob"),
			field:  "requester",
			reason: true,
		},
		{
			name:   "bad date",
			req:    func() SubmitRequest { r := validRequest("alice"); r.Date = "01/01/2024"; return r }(),
			field:  "date",
			reason: true,
		},
		{
			name:   "bad time",
			req:    func() SubmitRequest { r := validRequest("alice"); r.Time = "ten"; return r }(),
			field:  "time",
			reason: true,
		},
		{
			name:   "non numeric amount",
			req:    func() SubmitRequest { r := validRequest("alice"); r.Amount = "lots"; return r }(),
			field:  "amount",
			reason: true,
		},
		{
			name:   "negative amount",
			req:    func() SubmitRequest { r := validRequest("alice"); r.Amount = "-5"; return r }(),
			field:  "amount",
			reason: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Transaction.Submit(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.reason, ve.Reason != "")
		})
	}

	all, err := env.store.QueryTransactions(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all, "rejected submissions must not be stored")
	assert.Empty(t, env.dispatcher.all())
}

func TestSubmitKeepsPayee(t *testing.T) {
	env := newTestEnv(t)

	req := validRequest("alice")
	req.Payee = "ACME Supplies"
	tx, err := env.svc.Transaction.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ACME Supplies", tx.Payee)
}

func TestSubmitIsolationAcrossRequesters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		tx, err := env.svc.Transaction.Submit(ctx, validRequest("alice"))
		require.NoError(t, err)
		assert.Equal(t, FormatSequence(i), tx.SequenceID)
	}

	tx, err := env.svc.Transaction.Submit(ctx, validRequest("bob"))
	require.NoError(t, err)
	assert.Equal(t, "TID-001", tx.SequenceID)

	tx, err = env.svc.Transaction.Submit(ctx, validRequest("alice"))
	require.NoError(t, err)
	assert.Equal(t, "TID-004", tx.SequenceID)
}

func TestSubmitConcurrentMonotonic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		for _, requester := range []string{"alice", "bob"} {
			wg.Add(1)
			go func(requester string) {
				defer wg.Done()
				_, err := env.svc.Transaction.Submit(ctx, validRequest(requester))
				errs <- err
			}(requester)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for _, requester := range []string{"alice", "bob"} {
		list, err := env.svc.Report.ListByRequester(ctx, requester)
		require.NoError(t, err)
		require.Len(t, list, n)

		suffixes := make([]int, 0, n)
		for _, tx := range list {
			s, err := ParseSequence(tx.SequenceID)
			require.NoError(t, err)
			suffixes = append(suffixes, s)
		}
		sort.Ints(suffixes)

		for i, s := range suffixes {
			assert.Equal(t, i+1, s, "suffixes of %s must be exactly 1..%d", requester, n)
		}

		// Newest first must match descending sequence order.
		for i := 1; i < len(list); i++ {
			prev, _ := ParseSequence(list[i-1].SequenceID)
			cur, _ := ParseSequence(list[i].SequenceID)
			assert.Greater(t, prev, cur)
		}
	}
}

func TestSubmitDispatchesOneNotification(t *testing.T) {
	env := newTestEnv(t)

	tx, err := env.svc.Transaction.Submit(context.Background(), validRequest("alice"))
	require.NoError(t, err)

	sent := env.dispatcher.all()
	require.Len(t, sent, 1)
	assert.Equal(t, tx.SequenceID, sent[0].Transaction.SequenceID)
	assert.Equal(t, model.StatusPending, sent[0].Transaction.Status)
	assert.NotEmpty(t, sent[0].ApproveToken)
	assert.NotEmpty(t, sent[0].RejectToken)
	assert.NotEqual(t, sent[0].ApproveToken, sent[0].RejectToken)
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, notify.Notification) error {
	return errors.New("smtp: connection refused")
}

func TestSubmitSurvivesNotifierFailure(t *testing.T) {
	env := newTestEnv(t)
	cfg := testConfig()
	issuer, err := capability.NewIssuer(cfg.Links.Secret, cfg.Links.TTL)
	require.NoError(t, err)

	dispatcher := notify.NewDispatcher(failingNotifier{}, zap.NewNop(), time.Second)
	svc := NewService(Deps{Repo: env.store, Config: cfg, Issuer: issuer, Dispatcher: dispatcher})

	tx, err := svc.Transaction.Submit(context.Background(), validRequest("alice"))
	require.NoError(t, err)
	dispatcher.Close()

	got, err := svc.Report.Get(context.Background(), tx.InternalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestSubmitMalformedExistingSequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.InsertTransaction(ctx, &model.Transaction{
		SequenceID: "legacy", Requester: "alice", Payee: "-", Amount: decimal.NewFromInt(1),
		AmountWords: "one", Date: "2024-01-01", Time: "10:00", Status: model.StatusPending,
	}))

	_, err := env.svc.Transaction.Submit(ctx, validRequest("alice"))
	assert.ErrorIs(t, err, ErrMalformedSequence)
	assert.Empty(t, env.dispatcher.all())
}

// conflictingRepo loses every allocation race.
type conflictingRepo struct {
	store.Repository
	calls int
}

func (r *conflictingRepo) ExecTx(ctx context.Context, fn func(store.Repository) error) error {
	r.calls++
	return fmt.Errorf("insert: %w", store.ErrDuplicateSequence)
}

func TestSubmitAllocationConflict(t *testing.T) {
	env := newTestEnv(t)
	cfg := testConfig()
	cfg.Allocation.MaxAttempts = 3

	issuer, err := capability.NewIssuer(cfg.Links.Secret, cfg.Links.TTL)
	require.NoError(t, err)

	repo := &conflictingRepo{Repository: env.store}
	dispatcher := &recordingDispatcher{}
	svc := NewService(Deps{Repo: repo, Config: cfg, Issuer: issuer, Dispatcher: dispatcher})

	_, err = svc.Transaction.Submit(context.Background(), validRequest("alice"))
	require.ErrorIs(t, err, ErrAllocationConflict)

	var ace *AllocationConflictError
	require.ErrorAs(t, err, &ace)
	assert.Equal(t, 3, ace.Attempts)
	assert.Equal(t, 3, repo.calls)
	assert.Empty(t, dispatcher.all())
}
