package service

import (
	"time"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/capability"
	"github.com/hance08/txgate/internal/config"
	"github.com/hance08/txgate/internal/notify"
	"github.com/hance08/txgate/internal/store"
	"go.uber.org/zap"
)

// Dispatcher hands a notification off without waiting for delivery.
type Dispatcher interface {
	Dispatch(n notify.Notification)
}

type Deps struct {
	Repo       store.Repository
	Config     *config.Config
	Logger     *zap.Logger
	Authorizer auth.Authorizer
	Issuer     *capability.Issuer
	Dispatcher Dispatcher
	Now        func() time.Time
}

type Service struct {
	Transaction *TransactionService
	Approval    *ApprovalService
	Report      *ReportService
	Config      *config.Config
}

func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Service{
		Transaction: NewTransactionService(deps),
		Approval:    NewApprovalService(deps),
		Report:      NewReportService(deps.Repo),
		Config:      deps.Config,
	}
}
