package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hance08/txgate/internal/service"
	"github.com/hance08/txgate/internal/ui/views"
)

type listRunner struct {
	svc *service.Service
}

func NewListCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "list <requester>",
		Aliases: []string{"ls"},
		Short:   "List all transactions of a requester (alias: ls)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &listRunner{svc: svc}
			return runner.Run(cmd.Context(), args[0])
		},
	}
}

func (r *listRunner) Run(ctx context.Context, requester string) error {
	txs, err := r.svc.Report.ListByRequester(ctx, requester)
	if err != nil {
		return err
	}

	return views.NewTransactionListView(false).Render(fmt.Sprintf("Transactions of %s", requester), txs)
}

type pendingRunner struct {
	svc *service.Service
}

func NewPendingCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List transactions waiting for approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &pendingRunner{svc: svc}
			return runner.Run(cmd.Context())
		},
	}
}

func (r *pendingRunner) Run(ctx context.Context) error {
	txs, err := r.svc.Report.ListPending(ctx)
	if err != nil {
		return err
	}

	return views.NewTransactionListView(true).Render("Pending transactions", txs)
}

type historyFlags struct {
	Requester string
}

type historyRunner struct {
	svc   *service.Service
	flags *historyFlags
}

func NewHistoryCmd(svc *service.Service) *cobra.Command {
	flags := &historyFlags{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List approved and rejected transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &historyRunner{svc: svc, flags: flags}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.Requester, "requester", "r", "", "Only show this requester's history")

	return cmd
}

func (r *historyRunner) Run(ctx context.Context) error {
	txs, err := r.svc.Report.ListHistory(ctx, r.flags.Requester)
	if err != nil {
		return err
	}

	title := "Decided transactions"
	if r.flags.Requester != "" {
		title = fmt.Sprintf("Decided transactions of %s", r.flags.Requester)
	}
	return views.NewTransactionListView(r.flags.Requester == "").Render(title, txs)
}

type statsRunner struct {
	svc *service.Service
}

func NewStatsCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show transaction counts per day and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &statsRunner{svc: svc}
			return runner.Run(cmd.Context())
		},
	}
}

func (r *statsRunner) Run(ctx context.Context) error {
	rows, err := r.svc.Report.Stats(ctx)
	if err != nil {
		return err
	}

	return views.RenderStats(service.Summarize(rows))
}
