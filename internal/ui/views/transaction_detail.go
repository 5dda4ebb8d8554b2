package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/ui"
	"github.com/hance08/txgate/internal/utils"
)

func RenderTransactionDetail(tx *model.Transaction) error {
	pterm.Println()
	ui.PrintL2Title("Transaction Info")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"Internal ID", fmt.Sprintf("%d", tx.InternalID)},
		{"Transaction ID", tx.SequenceID},
		{"Date", tx.Date},
		{"Time", tx.Time},
		{"Requester", tx.Requester},
		{"Payee", tx.Payee},
		{"Amount", utils.FormatAmount(tx.Amount)},
		{"Amount in Words", tx.AmountWords},
		{"Status", ColorStatus(tx.Status)},
		{"Created At", tx.CreatedAt.Local().Format("2006-01-02 15:04:05")},
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render()
}
