package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown transaction status: %q", s)
	}
}

// TerminalStatuses lists the statuses shown in history views.
var TerminalStatuses = []Status{StatusApproved, StatusRejected}

// Transaction is a monetary request awaiting (or past) administrator approval.
// InternalID addresses approval links only and is never shown to requesters.
type Transaction struct {
	InternalID  int64           `json:"-"`
	SequenceID  string          `json:"sequence_id"`
	Requester   string          `json:"requester"`
	Payee       string          `json:"payee"`
	Amount      decimal.Decimal `json:"amount"`
	AmountWords string          `json:"amount_words"`
	Date        string          `json:"transaction_date"`
	Time        string          `json:"transaction_time"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StatRow is the (date, status) projection used by dashboards.
type StatRow struct {
	Date   string `json:"transaction_date"`
	Status Status `json:"status"`
}
