package prompts

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/service"
)

// PromptSubmitRequest walks the requester through a new transaction.
// requester pre-fills the requester field when known.
func PromptSubmitRequest(requester string) (service.SubmitRequest, error) {
	var req service.SubmitRequest
	var err error

	now := time.Now()

	if req.Date, err = PromptDate(
		"Transaction Date (YYYY-MM-DD):",
		now.Format(constants.DateFormat),
		"Press Enter for today",
		layoutValidator(constants.DateFormat, "date"),
	); err != nil {
		return req, err
	}

	if req.Time, err = PromptDate(
		"Transaction Time (HH:MM):",
		now.Format(constants.TimeFormat),
		"Press Enter for now",
		layoutValidator(constants.TimeFormat, "time"),
	); err != nil {
		return req, err
	}

	if req.Requester, err = PromptInput("Requester:", requester, required("requester")); err != nil {
		return req, err
	}

	if req.Payee, err = PromptInput("Payee:", constants.DefaultPayee, nil); err != nil {
		return req, err
	}

	if req.Amount, err = PromptAmount("Amount:", "e.g. 150 or 150.50", ValidateAmount); err != nil {
		return req, err
	}

	if req.AmountWords, err = PromptInput("Amount in words:", "", required("amount in words")); err != nil {
		return req, err
	}

	return req, nil
}

func layoutValidator(layout, field string) func(string) error {
	return func(s string) error {
		if _, err := time.Parse(layout, s); err != nil {
			return fmt.Errorf("invalid %s, expected %s", field, layout)
		}
		return nil
	}
}

// ValidateAmount accepts positive decimal numbers only.
func ValidateAmount(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}
