package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const commandName = "poll"

// RegisterCommands upserts the slash command set in the given guild.
// Registration is idempotent on the Discord side: creating a command
// with an existing name overwrites it. A failure here is fatal for the
// caller, the bot must not serve interactions without its commands.
func RegisterCommands(s *discordgo.Session, applicationID, guildID string) error {
	cmd := &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Start a 5 minute poll",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "options",
				Description: "Comma-separated list of options to vote on",
				Required:    true,
			},
		},
	}
	if _, err := s.ApplicationCommandCreate(applicationID, guildID, cmd); err != nil {
		return fmt.Errorf("register %s command: %w", commandName, err)
	}
	return nil
}
