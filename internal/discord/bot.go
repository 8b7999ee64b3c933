package discord

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"pollbot/internal/domain/poll"
	"pollbot/internal/platform/apperr"
)

// Bot routes gateway interactions to the poll session manager. Handler
// methods are registered on the discordgo session and run on its
// dispatch goroutines.
type Bot struct {
	svc   *poll.Service
	log   zerolog.Logger
	ready atomic.Bool
}

func NewBot(svc *poll.Service, log zerolog.Logger) *Bot {
	return &Bot{svc: svc, log: log.With().Str("component", "discord").Logger()}
}

// Ready reports whether the gateway session has completed its initial
// handshake. Exposed to the ops listener's /ready endpoint.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

func (b *Bot) OnReady(s *discordgo.Session, r *discordgo.Ready) {
	b.ready.Store(true)
	b.log.Info().Str("user", r.User.Username).Msg("gateway session ready")
}

func (b *Bot) OnInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleVote(s, i)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}
	var raw string
	if len(data.Options) > 0 {
		raw = data.Options[0].StringValue()
	}

	ctx := context.Background()
	snap, err := b.svc.StartPoll(ctx, i.ID, i.ChannelID, raw)
	if err != nil {
		b.respondError(s, i, err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    renderContent(snap),
			Components: renderComponents(snap),
		},
	})
	if err != nil {
		// The poll never reached the channel, so drop the session
		// instead of letting it expire into a render of nothing.
		b.svc.Abort(ctx, i.ID)
		b.log.Error().Err(err).Str("session", i.ID).Msg("initial poll reply failed")
		return
	}

	// Read back the created message so the final closed render can
	// edit it after the window ends.
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		b.log.Error().Err(err).Str("session", i.ID).Msg("poll message lookup failed, final render will be skipped")
		return
	}
	if err := b.svc.BindMessage(ctx, i.ID, msg.ID); err != nil {
		b.log.Error().Err(err).Str("session", i.ID).Msg("binding poll message failed")
	}
}

func (b *Bot) handleVote(s *discordgo.Session, i *discordgo.InteractionCreate) {
	option, err := parseVoteCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		// Component from some other feature or a stale message.
		b.log.Debug().Err(err).Msg("ignoring unrecognized component")
		return
	}
	if i.Message == nil || i.Message.Interaction == nil {
		b.respondError(s, i, poll.ErrSessionNotFound)
		return
	}
	sessionID := i.Message.Interaction.ID

	snap, err := b.svc.RecordVote(context.Background(), sessionID, voterID(i), option)
	if err != nil {
		b.respondError(s, i, err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    renderContent(snap),
			Components: renderComponents(snap),
		},
	})
	if err != nil {
		b.log.Error().Err(err).Str("session", sessionID).Msg("vote update failed")
	}
}

// respondError reports a failure to the requester alone, as an
// ephemeral notice. The shared poll message is never touched on error.
func (b *Bot) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	appErr := mapError(err)
	if appErr.Kind() == apperr.KindInternal {
		b.log.Error().Err(err).Msg("interaction failed")
	}

	respondErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: appErr.Message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respondErr != nil {
		b.log.Error().Err(respondErr).Msg("ephemeral error notice failed")
	}
}

// voterID resolves the acting user: Member is set for guild-channel
// interactions, User for direct messages.
func voterID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
