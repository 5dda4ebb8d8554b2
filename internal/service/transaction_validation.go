package service

import (
	"strings"
	"time"

	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/validation"
	"github.com/shopspring/decimal"
)

// RequiredFields is the documented order in which submissions are checked;
// the first missing one is reported.
var RequiredFields = []string{"date", "time", "requester", "amount", "amount_words"}

func (r SubmitRequest) field(name string) string {
	switch name {
	case "date":
		return r.Date
	case "time":
		return r.Time
	case "requester":
		return r.Requester
	case "amount":
		return r.Amount
	case "amount_words":
		return r.AmountWords
	}
	return ""
}

// ValidateSubmitRequest checks presence first, then formats, and returns the parsed amount.
func ValidateSubmitRequest(req SubmitRequest) (decimal.Decimal, error) {
	if strings.TrimSpace(req.TransactionID) != "" {
		return decimal.Zero, &ValidationError{
			Field:  "transaction_id",
			Reason: "sequence ids are assigned by the server",
		}
	}

	for _, name := range RequiredFields {
		if strings.TrimSpace(req.field(name)) == "" {
			return decimal.Zero, &ValidationError{Field: name}
		}
	}

	if err := validation.ValidateName(req.Requester); err != nil {
		return decimal.Zero, &ValidationError{Field: "requester", Reason: err.Error()}
	}

	if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(req.Date)); err != nil {
		return decimal.Zero, &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(req.Time)); err != nil {
		return decimal.Zero, &ValidationError{Field: "time", Reason: "expected HH:MM"}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a number"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	return amount, nil
}
