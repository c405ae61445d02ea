package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/domain/warday"
	"cr_war_stats/internal/domain/warstats"
)

// SnapshotFilename is the remote name of the published live snapshot
const SnapshotFilename = "war_day.json"

// Snapshot is the JSON document describing the open war day's live progress
type Snapshot struct {
	Clan         string           `json:"clan"`
	Updated      string           `json:"updated"`
	WarDay       string           `json:"war_day"`
	WarStart     string           `json:"war_start"`
	Played       float64          `json:"played"`
	Won          float64          `json:"won"`
	WinRate      float64          `json:"win_rate"`
	Participants int              `json:"participants"`
	Players      []PlayerProgress `json:"players"`
}

// PlayerProgress is one member's entry in the snapshot
type PlayerProgress struct {
	Tag         string  `json:"tag"`
	Name        string  `json:"name"`
	Played      float64 `json:"played"`
	Won         float64 `json:"won"`
	BoatAttacks int     `json:"boat_attacks,omitempty"`
	Truncated   bool    `json:"truncated,omitempty"`
}

// BuildSnapshot converts the live counters into the published format, players
// ranked the same way as the console output.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func BuildSnapshot(summary warstats.ClanSummary, stats map[string]*app.PlayerWarStats, openDay, warStart, now time.Time) Snapshot {
	ranked := warstats.Ranked(stats)
	players := make([]PlayerProgress, 0, len(ranked))
	for _, s := range ranked {
		players = append(players, PlayerProgress{
			Tag:         s.Tag,
			Name:        s.Name,
			Played:      s.BattlesPlayed,
			Won:         s.BattlesWon,
			BoatAttacks: s.BoatAttacks,
			Truncated:   s.Truncated,
		})
	}

	return Snapshot{
		Clan:         summary.Name,
		Updated:      now.UTC().Format(time.RFC3339),
		WarDay:       warday.Format(openDay),
		WarStart:     warStart.UTC().Format(time.RFC3339),
		Played:       summary.Played,
		Won:          summary.Won,
		WinRate:      summary.WinRate,
		Participants: summary.Participants,
		Players:      players,
	}
}

// Marshal renders the snapshot as indented JSON
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}
