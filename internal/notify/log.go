package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes the approval links to the log. Used when no delivery
// channel is configured.
type LogNotifier struct {
	logger *zap.Logger
	links  Links
}

func NewLogNotifier(logger *zap.Logger, links Links) *LogNotifier {
	return &LogNotifier{logger: logger, links: links}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("approval required",
		zap.String("sequence_id", n.Transaction.SequenceID),
		zap.String("requester", n.Transaction.Requester),
		zap.String("amount", n.Transaction.Amount.String()),
		zap.String("approve_url", l.links.Approve(n.ApproveToken)),
		zap.String("reject_url", l.links.Reject(n.RejectToken)),
	)
	return nil
}
