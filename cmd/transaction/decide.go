package transaction

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/errhandler"
	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/service"
	"github.com/hance08/txgate/internal/ui"
	"github.com/hance08/txgate/internal/ui/views"
	"github.com/hance08/txgate/internal/utils"
)

type decideFlags struct {
	User string
	Yes  bool
}

type decideRunner struct {
	svc    *service.Service
	authn  *auth.Authenticator
	flags  *decideFlags
	verb   string
	action func(ctx context.Context, p auth.Principal, internalID int64) (*service.Outcome, error)
}

func NewApproveCmd(svc *service.Service, authn *auth.Authenticator) *cobra.Command {
	return newDecideCmd(svc, authn, "approve", svc.Approval.ApproveAsAdmin)
}

func NewRejectCmd(svc *service.Service, authn *auth.Authenticator) *cobra.Command {
	return newDecideCmd(svc, authn, "reject", svc.Approval.RejectAsAdmin)
}

func newDecideCmd(
	svc *service.Service,
	authn *auth.Authenticator,
	verb string,
	action func(ctx context.Context, p auth.Principal, internalID int64) (*service.Outcome, error),
) *cobra.Command {
	flags := &decideFlags{}

	cmd := &cobra.Command{
		Use:   verb + " <transaction-id>",
		Short: fmt.Sprintf("%s a pending transaction as administrator", errhandler.Capitalize(verb)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &decideRunner{
				svc:    svc,
				authn:  authn,
				flags:  flags,
				verb:   verb,
				action: action,
			}
			return runner.Run(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVarP(&flags.User, "user", "u", "", "Configured user performing the action (required)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func (r *decideRunner) Run(ctx context.Context, args []string) error {
	txID, err := parseID(args[0])
	if err != nil {
		return err
	}

	principal, err := r.authn.Lookup(r.flags.User)
	if err != nil {
		return err
	}

	tx, err := r.svc.Report.Get(ctx, txID)
	if err != nil {
		return err
	}

	if tx.Status != model.StatusPending {
		pterm.Warning.Printf("Transaction %s is already %s\n", tx.SequenceID, tx.Status)
	}

	if !r.flags.Yes {
		confirmed, err := r.confirm(tx)
		if err != nil {
			return err
		}
		if !confirmed {
			pterm.Info.Println("Cancelled")
			return nil
		}
	}

	outcome, err := r.action(ctx, principal, txID)
	if err != nil {
		return err
	}

	views.RenderOutcome(outcome)
	return nil
}

func (r *decideRunner) confirm(tx *model.Transaction) (bool, error) {
	summary := pterm.TableData{
		{"Transaction ID", tx.SequenceID},
		{"Requester", tx.Requester},
		{"Payee", tx.Payee},
		{"Amount", utils.FormatAmount(tx.Amount)},
		{"Date", tx.Date + " " + tx.Time},
	}
	if err := pterm.DefaultTable.WithData(summary).Render(); err != nil {
		return false, err
	}

	var confirmation bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Do you want to %s this transaction?", r.verb),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmation, ui.IconOption()); err != nil {
		return false, err
	}
	return confirmation, nil
}
