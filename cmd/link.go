package cmd

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hance08/txgate/internal/service"
	"github.com/hance08/txgate/internal/ui/views"
)

type linkRunner struct {
	svc    *service.Service
	action func(ctx context.Context, token string) (*service.Outcome, error)
}

func NewLinkCmd(svc *service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Redeem an emailed approval link",
		Long: `Redeem an approve or reject link from the administrator notification.
Either the full URL or just the token is accepted. Each link works once.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "approve <url-or-token>",
		Short: "Approve through an emailed link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &linkRunner{svc: svc, action: svc.Approval.ApproveViaLink}
			return runner.Run(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reject <url-or-token>",
		Short: "Reject through an emailed link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &linkRunner{svc: svc, action: svc.Approval.RejectViaLink}
			return runner.Run(cmd.Context(), args[0])
		},
	})

	return cmd
}

func (r *linkRunner) Run(ctx context.Context, arg string) error {
	outcome, err := r.action(ctx, tokenFromArg(arg))
	if err != nil {
		return err
	}

	views.RenderOutcome(outcome)
	return nil
}

// tokenFromArg accepts a bare token or a full approval URL.
func tokenFromArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if !strings.Contains(arg, "://") {
		return arg
	}

	u, err := url.Parse(arg)
	if err != nil {
		return arg
	}
	return path.Base(u.Path)
}
