package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// channelSender is the part of *discordgo.Session the notifier uses.
type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts approval requests to an admin channel.
type DiscordNotifier struct {
	session   channelSender
	channelID string
	links     Links
}

func NewDiscordNotifier(token, channelID string, links Links) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: channelID, links: links}, nil
}

func (d *DiscordNotifier) Notify(ctx context.Context, n Notification) error {
	content := RenderText(n, d.links)

	if _, err := d.session.ChannelMessageSend(d.channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to post approval request for %s: %w", n.Transaction.SequenceID, err)
	}
	return nil
}
