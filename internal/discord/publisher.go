package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"pollbot/internal/domain/poll"
)

// Publisher pushes the final closed render to the poll message. Votes
// and the initial reply are interaction responses handled by the Bot;
// only the timer-driven close needs an outbound message edit.
type Publisher struct {
	session *discordgo.Session
}

func NewPublisher(session *discordgo.Session) *Publisher {
	return &Publisher{session: session}
}

func (p *Publisher) PublishClosed(ctx context.Context, snap *poll.Snapshot) error {
	content := renderContent(snap)
	components := renderComponents(snap)
	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    snap.ChannelID,
		ID:         snap.MessageID,
		Content:    &content,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit poll message %s: %w", snap.MessageID, err)
	}
	return nil
}
