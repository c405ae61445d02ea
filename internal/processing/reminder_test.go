package processing

import (
	"strings"
	"testing"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/config"
)

func TestComposeReminder(t *testing.T) {
	day := time.Date(2021, 1, 27, 0, 0, 0, 0, time.UTC)
	dayStats := []app.DayPlayerStats{
		{Name: "Alice", DecksUsed: 100},
		{Name: "Bob", DecksUsed: 50},
	}
	incomplete := []app.IncompletePlayer{
		{Tag: "P3", Name: "Dan", DecksUsed: 2, DiscordID: "333"},
		{Tag: "P4", Name: "Dan's mini", DecksUsed: 0, DiscordID: "333", IsMini: true},
		{Tag: "P2", Name: "Bob", DecksUsed: 1.5, DiscordID: "222"},
		{Tag: "P5", Name: "Eve", DecksUsed: 0},
	}
	live := map[string]*app.PlayerWarStats{
		"P2": {Tag: "P2", Truncated: true},
		"P3": {Tag: "P3"},
	}

	reminder := ComposeReminder(day, dayStats, incomplete, live, config.DefaultLimits)

	expected := strings.Join([]string{
		"War day 2021-01-27: 150 decks used (75.0% participation)",
		"4 members still have decks to play:",
		"Dan's mini: 0/4 (mini)",
		"Eve: 0/4",
		"Bob: 1.5/4 (log truncated)",
		"Dan: 2/4",
	}, "\n")
	if reminder.Message != expected {
		t.Errorf("Unexpected message:\n%s\nexpected:\n%s", reminder.Message, expected)
	}

	if len(reminder.Targets) != 2 || reminder.Targets[0] != "333" || reminder.Targets[1] != "222" {
		t.Errorf("Expected distinct targets [333 222], got %v", reminder.Targets)
	}
}

func TestComposeReminderNothingPlayed(t *testing.T) {
	reminder := ComposeReminder(time.Date(2021, 1, 25, 0, 0, 0, 0, time.UTC), nil,
		[]app.IncompletePlayer{{Tag: "P1", Name: "Alice"}}, nil, config.DefaultLimits)

	if !strings.HasPrefix(reminder.Message, "War day 2021-01-25: 0 decks used (0.0% participation)") {
		t.Errorf("Unexpected header %q", reminder.Message)
	}
	if len(reminder.Targets) != 0 {
		t.Errorf("Expected no targets without Discord ids, got %v", reminder.Targets)
	}
}
