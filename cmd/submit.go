package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/txgate/internal/service"
	"github.com/hance08/txgate/internal/ui/prompts"
	"github.com/hance08/txgate/internal/ui/views"
)

type submitFlags struct {
	Date        string
	Time        string
	Requester   string
	Payee       string
	Amount      string
	AmountWords string
}

type submitRunner struct {
	svc   *service.Service
	flags *submitFlags
	cmd   *cobra.Command
}

func NewSubmitCmd(svc *service.Service) *cobra.Command {
	flags := &submitFlags{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a transaction for approval",
		Long: `Submit a new transaction. It is stored as Pending with the requester's
next transaction id, and the administrator is notified with approve/reject links.

	Examples:
	# Interactive mode
	txgate submit

	# Quick mode with flags
	txgate submit --requester alice --date 2024-01-01 --time 10:00 --amount 500 --words "five hundred"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &submitRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&flags.Date, "date", "", "Transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.Time, "time", "", "Transaction time (HH:MM)")
	cmd.Flags().StringVarP(&flags.Requester, "requester", "r", "", "Who requests the transaction")
	cmd.Flags().StringVarP(&flags.Payee, "payee", "p", "", "Who receives the money (default \"-\")")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Transaction amount (e.g., 150 or 150.50)")
	cmd.Flags().StringVarP(&flags.AmountWords, "words", "w", "", "Amount written out in words")

	return cmd
}

func (r *submitRunner) Run(ctx context.Context) error {
	req, err := r.request()
	if err != nil {
		return err
	}

	tx, err := r.svc.Transaction.Submit(ctx, req)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Transaction %s submitted, waiting for approval\n", tx.SequenceID)
	return views.RenderTransactionDetail(tx)
}

func (r *submitRunner) request() (service.SubmitRequest, error) {
	hasFlags := false
	for _, name := range []string{"date", "time", "requester", "payee", "amount", "words"} {
		if r.cmd.Flags().Changed(name) {
			hasFlags = true
			break
		}
	}

	if !hasFlags {
		return prompts.PromptSubmitRequest("")
	}

	req := service.SubmitRequest{
		Date:        r.flags.Date,
		Time:        r.flags.Time,
		Requester:   r.flags.Requester,
		Payee:       r.flags.Payee,
		Amount:      r.flags.Amount,
		AmountWords: r.flags.AmountWords,
	}
	if _, err := service.ValidateSubmitRequest(req); err != nil {
		return req, fmt.Errorf("%w (see txgate submit --help)", err)
	}
	return req, nil
}
