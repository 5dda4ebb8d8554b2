package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/capability"
	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/store"
	"go.uber.org/zap"
)

// ApprovalService moves Pending transactions to a terminal status, either on an
// authorized admin action or on redemption of an emailed link.
type ApprovalService struct {
	repo       store.Repository
	authorizer auth.Authorizer
	issuer     *capability.Issuer
	logger     *zap.Logger
	now        func() time.Time
}

func NewApprovalService(deps Deps) *ApprovalService {
	return &ApprovalService{
		repo:       deps.Repo,
		authorizer: deps.Authorizer,
		issuer:     deps.Issuer,
		logger:     deps.Logger.Named("approval"),
		now:        deps.Now,
	}
}

func (as *ApprovalService) ApproveAsAdmin(ctx context.Context, p auth.Principal, internalID int64) (*Outcome, error) {
	return as.transitionAsAdmin(ctx, p, internalID, constants.CapApprove, model.StatusApproved)
}

func (as *ApprovalService) RejectAsAdmin(ctx context.Context, p auth.Principal, internalID int64) (*Outcome, error) {
	return as.transitionAsAdmin(ctx, p, internalID, constants.CapReject, model.StatusRejected)
}

func (as *ApprovalService) ApproveViaLink(ctx context.Context, token string) (*Outcome, error) {
	return as.transitionViaLink(ctx, token, constants.ActionApprove, model.StatusApproved)
}

func (as *ApprovalService) RejectViaLink(ctx context.Context, token string) (*Outcome, error) {
	return as.transitionViaLink(ctx, token, constants.ActionReject, model.StatusRejected)
}

func (as *ApprovalService) transitionAsAdmin(ctx context.Context, p auth.Principal, internalID int64, capName string, target model.Status) (*Outcome, error) {
	if err := as.authorizer.Authorize(ctx, p, capName); err != nil {
		return nil, &AuthorizationError{Principal: p.Name, Capability: capName, Err: err}
	}

	outcome, err := SetStatus(ctx, as.repo, internalID, target)
	if err != nil {
		return nil, err
	}

	as.logOutcome(outcome, zap.String("channel", "admin"), zap.String("principal", p.Name))
	return outcome, nil
}

func (as *ApprovalService) transitionViaLink(ctx context.Context, token, action string, target model.Status) (*Outcome, error) {
	now := as.now()

	claims, err := as.issuer.Verify(token, now)
	if err != nil {
		return nil, &NotFoundError{Ref: "approval link", Err: err}
	}
	if claims.Action != action {
		return nil, &NotFoundError{Ref: "approval link", Err: capability.ErrInvalidToken}
	}
	internalID, err := claims.TransactionID()
	if err != nil {
		return nil, &NotFoundError{Ref: "approval link", Err: err}
	}

	var outcome *Outcome
	err = as.repo.ExecTx(ctx, func(r store.Repository) error {
		record, err := r.ConsumeActionToken(ctx, claims.ID, now)
		switch {
		case errors.Is(err, store.ErrTokenConsumed):
			return &NotFoundError{Ref: "approval link", Err: ErrLinkUsed}
		case errors.Is(err, store.ErrRecordNotFound):
			return &NotFoundError{Ref: "approval link", Err: err}
		case err != nil:
			return err
		}

		if record.TransactionID != internalID || record.Action != action {
			return &NotFoundError{Ref: "approval link", Err: capability.ErrInvalidToken}
		}

		outcome, err = SetStatus(ctx, r, internalID, target)
		return err
	})
	if err != nil {
		return nil, err
	}

	as.logOutcome(outcome, zap.String("channel", "link"))
	return outcome, nil
}

func (as *ApprovalService) logOutcome(outcome *Outcome, fields ...zap.Field) {
	fields = append(fields,
		zap.String("sequence_id", outcome.Transaction.SequenceID),
		zap.String("requester", outcome.Transaction.Requester),
		zap.String("result", string(outcome.Result)),
		zap.String("status", outcome.Transaction.Status.String()),
	)
	as.logger.Info("approval action", fields...)
}

// SetStatus moves the transaction from Pending to target. If another action
// got there first the stored status is left untouched and the outcome is
// AlreadyFinalized.
func SetStatus(ctx context.Context, repo store.TransactionRepository, internalID int64, target model.Status) (*Outcome, error) {
	if !target.IsTerminal() {
		return nil, fmt.Errorf("status %q is not a terminal status", target)
	}

	tx, err := repo.FindByInternalID(ctx, internalID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, &NotFoundError{Ref: fmt.Sprintf("transaction %d", internalID)}
		}
		return nil, err
	}

	if tx.Status.IsTerminal() {
		return &Outcome{Result: ResultAlreadyFinalized, Transaction: tx}, nil
	}

	swapped, err := repo.CompareAndSwapStatus(ctx, internalID, model.StatusPending, target)
	if err != nil {
		return nil, err
	}

	if !swapped {
		current, err := repo.FindByInternalID(ctx, internalID)
		if err != nil {
			return nil, err
		}
		return &Outcome{Result: ResultAlreadyFinalized, Transaction: current}, nil
	}

	tx.Status = target
	return &Outcome{Result: resultFor(target), Transaction: tx}, nil
}
