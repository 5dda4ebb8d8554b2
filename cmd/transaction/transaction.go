package transaction

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/service"
)

// NewTransactionCmd groups the commands acting on one stored transaction
func NewTransactionCmd(svc *service.Service, authn *auth.Authenticator) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Inspect, approve or reject a transaction",
		Long: `Inspect, approve or reject a single transaction by its internal id.
The internal id is shown in the first column of "txgate pending".`,
	}

	cmd.AddCommand(NewShowCmd(svc))
	cmd.AddCommand(NewApproveCmd(svc, authn))
	cmd.AddCommand(NewRejectCmd(svc, authn))

	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction ID: %s", arg)
	}
	return id, nil
}
