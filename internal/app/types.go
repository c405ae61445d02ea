package app

import (
	"strings"
	"time"
)

// BattleTimeLayout is the timestamp format used by the Clash Royale API
const BattleTimeLayout = "20060102T150405.000Z"

// Battle represents one entry of a player's battle log from the API
type Battle struct {
	Type           string        `json:"type"`
	BattleTime     string        `json:"battleTime"`
	BoatBattleSide string        `json:"boatBattleSide,omitempty"`
	BoatBattleWon  bool          `json:"boatBattleWon,omitempty"`
	Team           []Participant `json:"team"`
	Opponent       []Participant `json:"opponent"`
}

// Time parses the battle timestamp. A malformed timestamp yields the zero time.
func (b Battle) Time() time.Time {
	t, err := time.Parse(BattleTimeLayout, b.BattleTime)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// Participant is one side's player entry in a battle
type Participant struct {
	Tag                     string `json:"tag"`
	Name                    string `json:"name"`
	Crowns                  *int   `json:"crowns,omitempty"`
	KingTowerHitPoints      int    `json:"kingTowerHitPoints,omitempty"`
	PrincessTowersHitPoints []int  `json:"princessTowersHitPoints,omitempty"`
	Clan                    *Clan  `json:"clan,omitempty"`
	Cards                   []Card `json:"cards"`
}

// CrownCount returns the crown count, treating a missing value as zero
func (p Participant) CrownCount() int {
	if p.Crowns == nil {
		return 0
	}
	return *p.Crowns
}

// RemainingTowers counts the defensive structures still standing
func (p Participant) RemainingTowers() int {
	remaining := 0
	if p.KingTowerHitPoints > 0 {
		remaining++
	}
	for _, hp := range p.PrincessTowersHitPoints {
		if hp > 0 {
			remaining++
		}
	}
	return remaining
}

// ClanTag returns the normalized clan tag the participant fought for, or "" when clanless
func (p Participant) ClanTag() string {
	if p.Clan == nil {
		return ""
	}
	return NormalizeTag(p.Clan.Tag)
}

// Card is a card played in a battle; only the count matters here
type Card struct {
	Name  string `json:"name"`
	ID    int    `json:"id"`
	Level int    `json:"level"`
}

// Clan is the clan reference embedded in participants and returned by /clans/{tag}
type Clan struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// Member is a clan roster entry
type Member struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MembersResponse represents the response from /clans/{tag}/members
type MembersResponse struct {
	Items []Member `json:"items"`
}

// PlayerWarStats is the live accumulator for one player during one run
type PlayerWarStats struct {
	Tag           string
	Name          string
	BattlesWon    float64
	BattlesPlayed float64
	BoatAttacks   int
	// Truncated is set when the oldest fetched battle is not older than the war
	// day start, so earlier war battles may have fallen out of the log window.
	Truncated bool
}

// WarBattleRow is the persisted record of one war battle
type WarBattleRow struct {
	PlayerID  int64
	Timestamp time.Time
	WarDay    time.Time
	DecksUsed float64
	DecksWon  float64
	Fame      int
}

// PlayerRecord is a persisted player identity
type PlayerRecord struct {
	ID        int64
	Tag       string
	Name      string
	IsInClan  bool
	DiscordID string
	IsMini    bool
}

// ReportRow is one (player, war day) aggregate read back for reporting.
// WarDay is nil for in-clan players without any battle in the window.
type ReportRow struct {
	PlayerID  int64
	Name      string
	IsInClan  bool
	WarDay    *time.Time
	DecksUsed float64
	DecksWon  float64
}

// DayPlayerStats is one player's totals for a single war day
type DayPlayerStats struct {
	PlayerID  int64
	Name      string
	DecksUsed float64
	DecksWon  float64
}

// IncompletePlayer is an in-clan player who has not used all decks on a war day
type IncompletePlayer struct {
	PlayerID  int64
	Tag       string
	Name      string
	DecksUsed float64
	DiscordID string
	IsMini    bool
}

// NotificationTarget maps a player tag to its notification routing
type NotificationTarget struct {
	Tag       string
	DiscordID string
	IsMini    bool
}

// NormalizeTag upper-cases a player or clan tag and strips the leading '#'
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}
