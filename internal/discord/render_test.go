package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"pollbot/internal/domain/poll"
)

func testSnapshot(status poll.Status, options []string, tally []int) *poll.Snapshot {
	total := 0
	for _, c := range tally {
		total += c
	}
	return &poll.Snapshot{
		ID:         "int-1",
		ChannelID:  "chan-1",
		Options:    options,
		Tally:      tally,
		TotalVotes: total,
		ExpiresAt:  time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
		Status:     status,
	}
}

func TestRenderContentOpenPoll(t *testing.T) {
	snap := testSnapshot(poll.StatusOpen, []string{"a", "b", "c", "d"}, []int{0, 2, 0, 0})
	content := renderContent(snap)

	for _, line := range []string{"1. a: 0", "2. b: 2", "3. c: 0", "4. d: 0"} {
		if !strings.Contains(content, line) {
			t.Fatalf("content missing %q:\n%s", line, content)
		}
	}
	if !strings.Contains(content, "<t:1748779500:R>") {
		t.Fatalf("open poll should show a relative closing time:\n%s", content)
	}
	if strings.Contains(content, "Poll closed") {
		t.Fatalf("open poll must not show the closed marker:\n%s", content)
	}
}

func TestRenderContentClosedPoll(t *testing.T) {
	snap := testSnapshot(poll.StatusClosed, []string{"a", "b"}, []int{1, 2})
	content := renderContent(snap)

	if !strings.Contains(content, "Poll closed. 3 votes cast.") {
		t.Fatalf("closed poll should show the final vote count:\n%s", content)
	}
	if strings.Contains(content, "Voting closes") {
		t.Fatalf("closed poll must not show a closing time:\n%s", content)
	}
}

func TestRenderComponentsChunksRows(t *testing.T) {
	options := make([]string, 12)
	tally := make([]int, 12)
	for i := range options {
		options[i] = "opt"
	}
	rows := renderComponents(testSnapshot(poll.StatusOpen, options, tally))

	if len(rows) != 3 {
		t.Fatalf("expected 3 action rows for 12 options, got %d", len(rows))
	}
	wantSizes := []int{5, 5, 2}
	seen := 0
	for r, row := range rows {
		actions, ok := row.(discordgo.ActionsRow)
		if !ok {
			t.Fatalf("row %d is not an actions row", r)
		}
		if len(actions.Components) != wantSizes[r] {
			t.Fatalf("row %d: expected %d buttons, got %d", r, wantSizes[r], len(actions.Components))
		}
		for _, comp := range actions.Components {
			btn, ok := comp.(discordgo.Button)
			if !ok {
				t.Fatalf("component is not a button")
			}
			if want := voteCustomID(seen); btn.CustomID != want {
				t.Fatalf("expected custom id %q, got %q", want, btn.CustomID)
			}
			if btn.Disabled {
				t.Fatalf("open poll buttons must be enabled")
			}
			seen++
		}
	}
}

func TestRenderComponentsDisabledWhenClosed(t *testing.T) {
	rows := renderComponents(testSnapshot(poll.StatusClosed, []string{"a", "b"}, []int{1, 0}))
	row := rows[0].(discordgo.ActionsRow)
	for _, comp := range row.Components {
		if !comp.(discordgo.Button).Disabled {
			t.Fatalf("closed poll buttons must be disabled")
		}
	}
}

func TestButtonLabelTruncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	label := buttonLabel(long, 3)
	if got := len([]rune(label)); got != maxLabelRunes {
		t.Fatalf("expected label capped at %d runes, got %d", maxLabelRunes, got)
	}
	if short := buttonLabel("a", 2); short != "a: 2" {
		t.Fatalf("expected short label untouched, got %q", short)
	}
}

func TestParseVoteCustomID(t *testing.T) {
	option, err := parseVoteCustomID("vote:7")
	if err != nil || option != 7 {
		t.Fatalf("expected option 7, got %d (%v)", option, err)
	}
	for _, id := range []string{"", "vote:", "vote:x", "ticket:3"} {
		if _, err := parseVoteCustomID(id); err == nil {
			t.Fatalf("expected parse failure for %q", id)
		}
	}
}
