package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/utils"
)

type TransactionListView struct {
	// ShowInternalID adds the id column admins pass to `tx approve|reject`.
	ShowInternalID bool
}

func NewTransactionListView(showInternalID bool) *TransactionListView {
	return &TransactionListView{ShowInternalID: showInternalID}
}

func (v *TransactionListView) Render(title string, txs []*model.Transaction) error {
	if len(txs) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Println(title)

	header := []string{"Transaction ID", "Date", "Time", "Requester", "Payee", "Amount", "Status"}
	if v.ShowInternalID {
		header = append([]string{"#"}, header...)
	}
	tableData := pterm.TableData{header}

	for _, tx := range txs {
		row := []string{
			tx.SequenceID,
			tx.Date,
			tx.Time,
			tx.Requester,
			tx.Payee,
			utils.FormatAmount(tx.Amount),
			ColorStatus(tx.Status),
		}
		if v.ShowInternalID {
			row = append([]string{fmt.Sprintf("%d", tx.InternalID)}, row...)
		}
		tableData = append(tableData, row)
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(txs))
	return nil
}

func ColorStatus(status model.Status) string {
	switch status {
	case model.StatusApproved:
		return pterm.Green(status.String())
	case model.StatusRejected:
		return pterm.Red(status.String())
	default:
		return pterm.Yellow(status.String())
	}
}
