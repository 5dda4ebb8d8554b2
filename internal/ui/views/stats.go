package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/hance08/txgate/internal/service"
)

func RenderStats(summaries []service.DailySummary) error {
	if len(summaries) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Println("Transactions per day")

	tableData := pterm.TableData{
		{"Date", "Pending", "Approved", "Rejected", "Total"},
	}

	var pending, approved, rejected int
	for _, s := range summaries {
		tableData = append(tableData, []string{
			s.Date,
			fmt.Sprint(s.Pending),
			pterm.Green(fmt.Sprint(s.Approved)),
			pterm.Red(fmt.Sprint(s.Rejected)),
			fmt.Sprint(s.Total()),
		})
		pending += s.Pending
		approved += s.Approved
		rejected += s.Rejected
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d pending, %d approved, %d rejected\n", pending, approved, rejected)
	return nil
}
