package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/txgate/internal/service"
)

// RenderOutcome reports the result of an approve or reject action.
func RenderOutcome(outcome *service.Outcome) {
	tx := outcome.Transaction

	switch outcome.Result {
	case service.ResultAlreadyFinalized:
		pterm.Warning.Printf("Transaction %s (%s) was already %s, nothing changed\n",
			tx.SequenceID, tx.Requester, tx.Status)
	case service.ResultRejected:
		pterm.Success.Printf("Transaction %s (%s) rejected\n", tx.SequenceID, tx.Requester)
	default:
		pterm.Success.Printf("Transaction %s (%s) approved\n", tx.SequenceID, tx.Requester)
	}
}
