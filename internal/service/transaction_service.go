package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hance08/txgate/internal/capability"
	"github.com/hance08/txgate/internal/config"
	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/notify"
	"github.com/hance08/txgate/internal/store"
	"go.uber.org/zap"
)

type TransactionService struct {
	repo       store.Repository
	issuer     *capability.Issuer
	dispatcher Dispatcher
	config     *config.Config
	logger     *zap.Logger
	now        func() time.Time
}

func NewTransactionService(deps Deps) *TransactionService {
	return &TransactionService{
		repo:       deps.Repo,
		issuer:     deps.Issuer,
		dispatcher: deps.Dispatcher,
		config:     deps.Config,
		logger:     deps.Logger.Named("transaction"),
		now:        deps.Now,
	}
}

// Submit validates req, allocates the requester's next sequence id, stores the
// transaction as Pending together with its two action tokens, then hands the
// approval request to the dispatcher. Only the insert decides success.
func (ts *TransactionService) Submit(ctx context.Context, req SubmitRequest) (*model.Transaction, error) {
	amount, err := ValidateSubmitRequest(req)
	if err != nil {
		return nil, err
	}

	payee := strings.TrimSpace(req.Payee)
	if payee == "" {
		payee = constants.DefaultPayee
	}

	var (
		created  *model.Transaction
		tokens   [2]string
		attempts int
	)

	op := func() error {
		attempts++

		tx := &model.Transaction{
			Requester:   strings.TrimSpace(req.Requester),
			Payee:       payee,
			Amount:      amount,
			AmountWords: strings.TrimSpace(req.AmountWords),
			Date:        strings.TrimSpace(req.Date),
			Time:        strings.TrimSpace(req.Time),
			Status:      model.StatusPending,
		}

		var approve, reject string
		err := ts.repo.ExecTx(ctx, func(r store.Repository) error {
			seq, err := Allocate(ctx, r, tx.Requester)
			if err != nil {
				return err
			}
			tx.SequenceID = seq

			if err := r.InsertTransaction(ctx, tx); err != nil {
				return err
			}

			if approve, err = ts.issueToken(ctx, r, tx.InternalID, constants.ActionApprove); err != nil {
				return err
			}
			reject, err = ts.issueToken(ctx, r, tx.InternalID, constants.ActionReject)
			return err
		})
		if err != nil {
			if store.IsTransient(err) {
				ts.logger.Debug("sequence allocation retry",
					zap.String("requester", tx.Requester),
					zap.Int("attempt", attempts),
					zap.Error(err),
				)
				return err
			}
			return backoff.Permanent(err)
		}

		created = tx
		tokens = [2]string{approve, reject}
		return nil
	}

	if err := backoff.Retry(op, ts.retryPolicy(ctx)); err != nil {
		if store.IsTransient(err) {
			return nil, &AllocationConflictError{Requester: req.Requester, Attempts: attempts, Err: err}
		}
		return nil, err
	}

	ts.logger.Info("transaction submitted",
		zap.String("sequence_id", created.SequenceID),
		zap.String("requester", created.Requester),
		zap.Int64("internal_id", created.InternalID),
	)

	ts.dispatcher.Dispatch(notify.Notification{
		Transaction:  *created,
		ApproveToken: tokens[0],
		RejectToken:  tokens[1],
	})

	return created, nil
}

func (ts *TransactionService) issueToken(ctx context.Context, r store.TokenRepository, txID int64, action string) (string, error) {
	signed, claims, err := ts.issuer.Issue(txID, action, ts.now())
	if err != nil {
		return "", err
	}

	err = r.SaveActionToken(ctx, store.ActionToken{
		JTI:           claims.ID,
		TransactionID: txID,
		Action:        action,
		ExpiresAt:     claims.ExpiresAt.Time,
	})
	if err != nil {
		return "", fmt.Errorf("failed to record %s token: %w", action, err)
	}
	return signed, nil
}

func (ts *TransactionService) retryPolicy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = ts.config.Allocation.BaseDelay
	exp.MaxInterval = time.Second
	exp.MaxElapsedTime = 0

	maxRetries := ts.config.Allocation.MaxAttempts - 1
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx)
}
