package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/hance08/txgate/internal/utils"
)

const approvalSubject = "New Transaction Approval Required"

var approvalTemplate = template.Must(template.New("approval").Funcs(template.FuncMap{
	"amount": utils.FormatAmount,
}).Parse(`<h2>New Transaction Pending</h2>
<p><b>Transaction ID:</b> {{.Tx.SequenceID}}</p>
<p><b>Requester:</b> {{.Tx.Requester}}</p>
<p><b>Payee:</b> {{.Tx.Payee}}</p>
<p><b>Amount:</b> {{amount .Tx.Amount}} ({{.Tx.AmountWords}})</p>
<p><b>Date:</b> {{.Tx.Date}} {{.Tx.Time}}</p>
<br>
<a href="{{.ApproveURL}}">Approve</a> |
<a href="{{.RejectURL}}">Reject</a>
`))

// RenderHTML renders the approval email body.
func RenderHTML(n Notification, links Links) (string, error) {
	var buf bytes.Buffer
	err := approvalTemplate.Execute(&buf, map[string]any{
		"Tx":         n.Transaction,
		"ApproveURL": links.Approve(n.ApproveToken),
		"RejectURL":  links.Reject(n.RejectToken),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render approval email: %w", err)
	}
	return buf.String(), nil
}

// RenderText renders a plain-text (markdown friendly) approval message.
func RenderText(n Notification, links Links) string {
	tx := n.Transaction
	return fmt.Sprintf("**New Transaction Pending**\n"+
		"Transaction ID: %s\nRequester: %s\nPayee: %s\nAmount: %s (%s)\nDate: %s %s\n\n"+
		"Approve: %s\nReject: %s",
		tx.SequenceID, tx.Requester, tx.Payee, utils.FormatAmount(tx.Amount), tx.AmountWords,
		tx.Date, tx.Time,
		links.Approve(n.ApproveToken), links.Reject(n.RejectToken))
}
