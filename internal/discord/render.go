package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"pollbot/internal/domain/poll"
)

const (
	buttonsPerRow  = 5
	maxLabelRunes  = 80
	customIDPrefix = "vote:"
)

// renderContent builds the poll message body: one numbered line per
// option with its current count, then the window status.
func renderContent(snap *poll.Snapshot) string {
	var b strings.Builder
	b.WriteString("**Poll**\n")
	for i, opt := range snap.Options {
		fmt.Fprintf(&b, "%d. %s: %d\n", i+1, opt, snap.Tally[i])
	}
	if snap.Status == poll.StatusClosed {
		fmt.Fprintf(&b, "\nPoll closed. %d votes cast.", snap.TotalVotes)
	} else {
		fmt.Fprintf(&b, "\nVoting closes <t:%d:R>.", snap.ExpiresAt.Unix())
	}
	return b.String()
}

// renderComponents builds one vote button per option, five per action
// row. Buttons are disabled once the poll is closed.
func renderComponents(snap *poll.Snapshot) []discordgo.MessageComponent {
	disabled := snap.Status == poll.StatusClosed

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for i, opt := range snap.Options {
		row = append(row, discordgo.Button{
			Label:    buttonLabel(opt, snap.Tally[i]),
			Style:    discordgo.PrimaryButton,
			CustomID: voteCustomID(i),
			Disabled: disabled,
		})
		if len(row) == buttonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

func buttonLabel(option string, count int) string {
	label := fmt.Sprintf("%s: %d", option, count)
	runes := []rune(label)
	if len(runes) <= maxLabelRunes {
		return label
	}
	return string(runes[:maxLabelRunes])
}

func voteCustomID(option int) string {
	return customIDPrefix + strconv.Itoa(option)
}

// parseVoteCustomID extracts the option index from a vote button's
// custom ID. The index is validated against the session, not here.
func parseVoteCustomID(id string) (int, error) {
	raw, ok := strings.CutPrefix(id, customIDPrefix)
	if !ok {
		return 0, fmt.Errorf("unrecognized component id %q", id)
	}
	option, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed component id %q: %w", id, err)
	}
	return option, nil
}
