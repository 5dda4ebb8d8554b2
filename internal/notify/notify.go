// Package notify delivers approval requests to the administrator.
package notify

import (
	"context"
	"net/url"
	"strings"

	"github.com/hance08/txgate/internal/model"
)

// Notification asks the administrator to act on a new transaction. The two
// tokens are action references; concrete notifiers turn them into links.
type Notification struct {
	Transaction  model.Transaction
	ApproveToken string
	RejectToken  string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Links builds the approve/reject URLs served by the web package.
type Links struct {
	BaseURL string
}

func (l Links) Approve(token string) string {
	return l.build("email-approve", token)
}

func (l Links) Reject(token string) string {
	return l.build("email-reject", token)
}

func (l Links) build(action, token string) string {
	return strings.TrimRight(l.BaseURL, "/") + "/" + action + "/" + url.PathEscape(token)
}
