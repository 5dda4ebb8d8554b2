package service

import "github.com/hance08/txgate/internal/model"

// SubmitRequest is a new transaction as entered by the requester. The sequence
// id is always derived server-side; TransactionID exists only so a client that
// still sends one gets a clear rejection.
type SubmitRequest struct {
	TransactionID string `json:"transaction_id,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Requester     string `json:"requester"`
	Payee         string `json:"payee,omitempty"`
	Amount        string `json:"amount"`
	AmountWords   string `json:"amount_words"`
}

type Result string

const (
	ResultApproved         Result = "Approved"
	ResultRejected         Result = "Rejected"
	ResultAlreadyFinalized Result = "AlreadyFinalized"
)

// Outcome is what an approval action resolved to. AlreadyFinalized is a
// normal outcome: the transaction carries the status set by the earlier action.
type Outcome struct {
	Result      Result             `json:"result"`
	Transaction *model.Transaction `json:"transaction"`
}

func resultFor(status model.Status) Result {
	if status == model.StatusRejected {
		return ResultRejected
	}
	return ResultApproved
}

// DailySummary aggregates the stats projection per transaction date.
type DailySummary struct {
	Date     string
	Pending  int
	Approved int
	Rejected int
}

func (d DailySummary) Total() int {
	return d.Pending + d.Approved + d.Rejected
}
