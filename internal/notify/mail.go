package notify

import (
	"context"
	"fmt"

	"github.com/hance08/txgate/internal/config"
	"github.com/wneessen/go-mail"
)

// MailNotifier sends the approval email to the fixed administrator address.
type MailNotifier struct {
	cfg   config.MailConfig
	to    string
	links Links
}

func NewMailNotifier(cfg config.MailConfig, adminEmail string, links Links) *MailNotifier {
	return &MailNotifier{cfg: cfg, to: adminEmail, links: links}
}

func (m *MailNotifier) Notify(ctx context.Context, n Notification) error {
	msg, err := m.buildMessage(n)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send approval email for %s: %w", n.Transaction.SequenceID, err)
	}
	return nil
}

func (m *MailNotifier) buildMessage(n Notification) (*mail.Msg, error) {
	body, err := RenderHTML(n, m.links)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	from := m.cfg.Username
	if from == "" {
		from = m.to
	}
	if err := msg.FromFormat(m.cfg.From, from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return nil, fmt.Errorf("invalid admin address: %w", err)
	}
	msg.Subject(approvalSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	return msg, nil
}

func (m *MailNotifier) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithPort(m.cfg.Port)}

	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	if m.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	return opts
}
