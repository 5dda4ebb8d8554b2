package web

import (
	"github.com/gin-gonic/gin"

	"github.com/hance08/txgate/internal/service"
)

const linkResultPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ .title }}</title></head>
<body style="font-family: sans-serif;">
  <h2>{{ .title }}</h2>
  {{- with .message }}
  <p>{{ . }}</p>
  {{- end }}
  {{- with .tx }}
  <table>
    <tr><td>Transaction ID</td><td>{{ .SequenceID }}</td></tr>
    <tr><td>Requester</td><td>{{ .Requester }}</td></tr>
    <tr><td>Amount</td><td>{{ .Amount.StringFixed 2 }}</td></tr>
    <tr><td>Status</td><td>{{ .Status }}</td></tr>
  </table>
  {{- end }}
</body>
</html>
`

func linkResultData(outcome *service.Outcome) gin.H {
	switch outcome.Result {
	case service.ResultAlreadyFinalized:
		return gin.H{
			"title":   "Transaction already " + outcome.Transaction.Status.String(),
			"message": "This transaction was decided earlier. Nothing was changed.",
			"tx":      outcome.Transaction,
		}
	case service.ResultRejected:
		return gin.H{"title": "Transaction Rejected", "tx": outcome.Transaction}
	default:
		return gin.H{"title": "Transaction Approved", "tx": outcome.Transaction}
	}
}
