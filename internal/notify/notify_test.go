package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hance08/txgate/internal/config"
	"github.com/hance08/txgate/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleNotification() Notification {
	return Notification{
		Transaction: model.Transaction{
			InternalID:  7,
			SequenceID:  "TID-001",
			Requester:   "alice",
			Payee:       "<b>ACME</b>",
			Amount:      decimal.NewFromInt(500),
			AmountWords: "five hundred",
			Date:        "2024-01-01",
			Time:        "10:00",
			Status:      model.StatusPending,
		},
		ApproveToken: "approve.token.sig",
		RejectToken:  "reject.token.sig",
	}
}

func TestLinks(t *testing.T) {
	links := Links{BaseURL: "http://127.0.0.1:5000/"}
	assert.Equal(t, "http://127.0.0.1:5000/email-approve/a.b.c", links.Approve("a.b.c"))
	assert.Equal(t, "http://127.0.0.1:5000/email-reject/a.b.c", links.Reject("a.b.c"))
}

func TestRenderHTML(t *testing.T) {
	body, err := RenderHTML(sampleNotification(), Links{BaseURL: "http://host"})
	require.NoError(t, err)

	assert.Contains(t, body, "TID-001")
	assert.Contains(t, body, "500.00")
	assert.Contains(t, body, `href="http://host/email-approve/approve.token.sig"`)
	assert.Contains(t, body, `href="http://host/email-reject/reject.token.sig"`)
	assert.NotContains(t, body, "<b>ACME</b>", "payee must be escaped")
	assert.NotContains(t, body, ">7<", "internal id is not part of the message")
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleNotification(), Links{BaseURL: "http://host"})
	assert.Contains(t, text, "Requester: alice")
	assert.Contains(t, text, "Approve: http://host/email-approve/approve.token.sig")
	assert.Contains(t, text, "Reject: http://host/email-reject/reject.token.sig")
}

func TestMailNotifierBuildMessage(t *testing.T) {
	m := NewMailNotifier(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "Transaction System"},
		"admin@example.com", Links{BaseURL: "http://host"})

	msg, err := m.buildMessage(sampleNotification())
	require.NoError(t, err)
	require.NotNil(t, msg)

	bad := NewMailNotifier(config.MailConfig{}, "not an address", Links{})
	_, err = bad.buildMessage(sampleNotification())
	assert.Error(t, err)
}

type fakeSender struct {
	channelID string
	content   string
	err       error
}

func (f *fakeSender) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.content = content
	return &discordgo.Message{}, f.err
}

func TestDiscordNotifier(t *testing.T) {
	sender := &fakeSender{}
	d := &DiscordNotifier{session: sender, channelID: "chan-1", links: Links{BaseURL: "http://host"}}

	require.NoError(t, d.Notify(context.Background(), sampleNotification()))
	assert.Equal(t, "chan-1", sender.channelID)
	assert.Contains(t, sender.content, "TID-001")

	sender.err = errors.New("rate limited")
	assert.ErrorContains(t, d.Notify(context.Background(), sampleNotification()), "rate limited")
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core), Links{BaseURL: "http://host"})

	require.NoError(t, n.Notify(context.Background(), sampleNotification()))
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "TID-001", fields["sequence_id"])
	assert.Equal(t, "http://host/email-approve/approve.token.sig", fields["approve_url"])
}

type funcNotifier func(ctx context.Context, n Notification) error

func (f funcNotifier) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

func TestDispatcherDelivers(t *testing.T) {
	var mu sync.Mutex
	var got []string

	d := NewDispatcher(funcNotifier(func(ctx context.Context, n Notification) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		mu.Lock()
		got = append(got, n.Transaction.SequenceID)
		mu.Unlock()
		return nil
	}), zap.NewNop(), time.Second)

	d.Dispatch(sampleNotification())
	d.Dispatch(sampleNotification())
	d.Close()

	assert.Equal(t, []string{"TID-001", "TID-001"}, got)
}

func TestDispatcherAbsorbsFailures(t *testing.T) {
	tests := []struct {
		name     string
		notifier Notifier
		contains string
	}{
		{
			name: "error",
			notifier: funcNotifier(func(context.Context, Notification) error {
				return errors.New("smtp down")
			}),
			contains: "smtp down",
		},
		{
			name: "panic",
			notifier: funcNotifier(func(context.Context, Notification) error {
				panic("boom")
			}),
			contains: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			d := NewDispatcher(tt.notifier, zap.New(core), 0)

			d.Dispatch(sampleNotification())
			d.Close()

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, "approval notification failed", entry.Message)
			assert.True(t, strings.Contains(entry.ContextMap()["error"].(string), tt.contains))
		})
	}
}
