package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher sends notifications in the background. Failures are logged and
// never reach the caller.
type Dispatcher struct {
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, logger *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger, timeout: timeout}
}

// Dispatch starts one delivery attempt for n and returns immediately.
func (d *Dispatcher) Dispatch(n Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.send(n); err != nil {
			d.logger.Warn("approval notification failed",
				zap.String("sequence_id", n.Transaction.SequenceID),
				zap.String("requester", n.Transaction.Requester),
				zap.Error(err),
			)
		}
	}()
}

func (d *Dispatcher) send(n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	return d.notifier.Notify(ctx, n)
}

// Close waits for in-flight notifications.
func (d *Dispatcher) Close() {
	d.wg.Wait()
}
