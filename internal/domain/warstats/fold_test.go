package warstats

import (
	"testing"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/domain/battle"
)

const testClan = "YJCGRV9"

// Wednesday 2021-01-27, war day opens at 10:00 UTC
var warStart = time.Date(2021, 1, 27, 10, 0, 0, 0, time.UTC)

func crowns(n int) *int {
	return &n
}

func warBattle(battleType, clanTag string, at time.Time, cardCount, own, opp int) app.Battle {
	return app.Battle{
		Type:       battleType,
		BattleTime: at.UTC().Format(app.BattleTimeLayout),
		Team: []app.Participant{{
			Tag:    "#P1",
			Name:   "Alice",
			Crowns: crowns(own),
			Clan:   &app.Clan{Tag: "#" + clanTag},
			Cards:  make([]app.Card, cardCount),
		}},
		Opponent: []app.Participant{{
			Tag:    "#P2",
			Crowns: crowns(opp),
			Clan:   &app.Clan{Tag: "#OTHER"},
		}},
	}
}

func TestFoldLiveAndHistorical(t *testing.T) {
	battles := []app.Battle{
		warBattle(battle.TypeRiverRaceDuel, testClan, warStart.Add(3*time.Hour), 16, 2, 0),
		warBattle(battle.TypeRiverRacePvP, testClan, warStart.Add(2*time.Hour), 8, 0, 1),
		warBattle("PvP", testClan, warStart.Add(time.Hour), 8, 3, 0),
		// Yesterday's war day
		warBattle(battle.TypeRiverRacePvP, testClan, warStart.Add(-time.Hour), 8, 1, 0),
	}

	stats := &app.PlayerWarStats{Tag: "P1", Name: "Alice"}
	result := Fold(stats, battles, testClan, warStart, 7)

	if stats.BattlesPlayed != 3 {
		t.Errorf("Expected 3 live battles played, got %v", stats.BattlesPlayed)
	}
	if stats.BattlesWon != 2 {
		t.Errorf("Expected 2 live battles won, got %v", stats.BattlesWon)
	}
	if stats.Truncated {
		t.Error("Expected log reaching before war start not to be truncated")
	}
	if result.Live != 2 {
		t.Errorf("Expected 2 live records, got %d", result.Live)
	}

	if len(result.Rows) != 3 {
		t.Fatalf("Expected 3 rows to persist, got %d", len(result.Rows))
	}

	today := time.Date(2021, 1, 27, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	expectedDays := []time.Time{today, today, yesterday}
	for i, row := range result.Rows {
		if row.PlayerID != 7 {
			t.Errorf("Row %d: expected player id 7, got %d", i, row.PlayerID)
		}
		if !row.WarDay.Equal(expectedDays[i]) {
			t.Errorf("Row %d: expected war day %v, got %v", i, expectedDays[i], row.WarDay)
		}
		if row.Fame != 0 {
			t.Errorf("Row %d: expected fame 0, got %d", i, row.Fame)
		}
	}

	if result.Rows[0].DecksUsed != 2 || result.Rows[0].DecksWon != 2 {
		t.Errorf("Expected duel row 2/2, got %v/%v", result.Rows[0].DecksUsed, result.Rows[0].DecksWon)
	}
	if result.Rows[2].DecksWon != 1 {
		t.Errorf("Expected historical skirmish to be persisted as won, got %v", result.Rows[2].DecksWon)
	}
}

func TestFoldBattleAtBoundaryIsLive(t *testing.T) {
	battles := []app.Battle{
		warBattle(battle.TypeRiverRacePvP, testClan, warStart, 8, 1, 0),
		warBattle(battle.TypeRiverRacePvP, testClan, warStart.Add(-time.Millisecond), 8, 1, 0),
	}

	stats := &app.PlayerWarStats{Tag: "P1"}
	result := Fold(stats, battles, testClan, warStart, 1)

	if stats.BattlesPlayed != 1 {
		t.Errorf("Expected only the boundary battle to be live, got %v played", stats.BattlesPlayed)
	}
	if !result.Rows[0].WarDay.Equal(time.Date(2021, 1, 27, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected boundary battle on the new war day, got %v", result.Rows[0].WarDay)
	}
	if !result.Rows[1].WarDay.Equal(time.Date(2021, 1, 26, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected earlier battle on the previous war day, got %v", result.Rows[1].WarDay)
	}
}

func TestFoldBoatBattles(t *testing.T) {
	attack := warBattle(battle.TypeBoatBattle, testClan, warStart.Add(time.Hour), 8, 0, 0)
	attack.BoatBattleSide = battle.BoatSideAttacker
	attack.BoatBattleWon = true

	defence := warBattle(battle.TypeBoatBattle, testClan, warStart.Add(2*time.Hour), 8, 0, 0)
	defence.BoatBattleSide = battle.BoatSideDefender

	t.Run("AttackCounts", func(t *testing.T) {
		stats := &app.PlayerWarStats{}
		result := Fold(stats, []app.Battle{attack}, testClan, warStart, 1)

		if stats.BoatAttacks != 1 || stats.BattlesPlayed != 1 || stats.BattlesWon != 0 {
			t.Errorf("Unexpected stats after boat attack: %+v", stats)
		}
		if len(result.Rows) != 1 || result.Rows[0].DecksUsed != 1 || result.Rows[0].DecksWon != 0 {
			t.Errorf("Expected one 1/0 row for boat attack, got %+v", result.Rows)
		}
	})

	t.Run("DefenceHasNoSideEffects", func(t *testing.T) {
		stats := &app.PlayerWarStats{}
		older := warBattle("PvP", testClan, warStart.Add(-time.Hour), 8, 0, 0)
		result := Fold(stats, []app.Battle{defence, older}, testClan, warStart, 1)

		if *stats != (app.PlayerWarStats{}) {
			t.Errorf("Expected untouched stats after boat defence, got %+v", stats)
		}
		if len(result.Rows) != 0 || result.Live != 0 {
			t.Errorf("Expected no rows after boat defence, got %+v", result)
		}
	})
}

func TestFoldTruncation(t *testing.T) {
	testCases := []struct {
		name     string
		oldest   time.Time
		expected bool
	}{
		{"OldestAfterWarStart", warStart.Add(time.Minute), true},
		{"OldestAtWarStart", warStart, false},
		{"OldestJustAfterWarStart", warStart.Add(time.Millisecond), true},
		{"OldestBeforeWarStart", warStart.Add(-time.Minute), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			battles := []app.Battle{
				warBattle("PvP", testClan, warStart.Add(5*time.Hour), 8, 0, 0),
				warBattle("PvP", testClan, tc.oldest, 8, 0, 0),
			}
			stats := &app.PlayerWarStats{}
			Fold(stats, battles, testClan, warStart, 1)
			if stats.Truncated != tc.expected {
				t.Errorf("Expected truncated=%v, got %v", tc.expected, stats.Truncated)
			}
		})
	}

	t.Run("EmptyLog", func(t *testing.T) {
		stats := &app.PlayerWarStats{}
		Fold(stats, nil, testClan, warStart, 1)
		if stats.Truncated {
			t.Error("Expected empty log not to be truncated")
		}
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		// Oldest first this time
		battles := []app.Battle{
			warBattle("PvP", testClan, warStart.Add(-time.Hour), 8, 0, 0),
			warBattle("PvP", testClan, warStart.Add(5*time.Hour), 8, 0, 0),
		}
		if IsTruncated(battles, warStart) {
			t.Error("Expected truncation to use the oldest battle regardless of order")
		}
	})
}

func TestFoldClanSwitch(t *testing.T) {
	const oldClan = "2Q9JYY9J"
	battles := []app.Battle{
		warBattle(battle.TypeRiverRaceDuel, testClan, warStart.Add(4*time.Hour), 16, 2, 0),
		warBattle(battle.TypeRiverRacePvP, testClan, warStart.Add(3*time.Hour), 8, 1, 0),
		// Before the switch
		warBattle(battle.TypeRiverRacePvP, oldClan, warStart.Add(2*time.Hour), 8, 1, 0),
		warBattle(battle.TypeRiverRaceDuel, oldClan, warStart.Add(time.Hour), 24, 0, 2),
	}

	newStats := &app.PlayerWarStats{}
	newResult := Fold(newStats, battles, testClan, warStart, 1)
	if newStats.BattlesPlayed != 3 || newStats.BattlesWon != 3 {
		t.Errorf("Expected new clan to see 3/3, got %v/%v", newStats.BattlesPlayed, newStats.BattlesWon)
	}
	if len(newResult.Rows) != 2 {
		t.Errorf("Expected 2 rows for the new clan, got %d", len(newResult.Rows))
	}

	oldStats := &app.PlayerWarStats{}
	oldResult := Fold(oldStats, battles, "#"+oldClan, warStart, 1)
	if oldStats.BattlesPlayed != 4 || oldStats.BattlesWon != 1 {
		t.Errorf("Expected old clan to see 4 played and 1 won, got %v/%v", oldStats.BattlesPlayed, oldStats.BattlesWon)
	}
	if len(oldResult.Rows) != 2 {
		t.Errorf("Expected 2 rows for the old clan, got %d", len(oldResult.Rows))
	}
}

func TestOldestBattleTimeSkipsMalformed(t *testing.T) {
	battles := []app.Battle{
		{BattleTime: "garbage"},
		{BattleTime: "20210127T120000.000Z"},
	}
	oldest, ok := OldestBattleTime(battles)
	if !ok {
		t.Fatal("Expected a parseable timestamp")
	}
	if !oldest.Equal(time.Date(2021, 1, 27, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected oldest time %v", oldest)
	}

	if _, ok := OldestBattleTime([]app.Battle{{BattleTime: ""}}); ok {
		t.Error("Expected no timestamp from a log without parseable times")
	}
}

func TestFoldSkipsUnparseableTimestamps(t *testing.T) {
	broken := warBattle(battle.TypeRiverRacePvP, testClan, warStart.Add(time.Hour), 8, 1, 0)
	broken.BattleTime = "garbage"
	battles := []app.Battle{
		broken,
		warBattle(battle.TypeRiverRacePvP, testClan, warStart.Add(-time.Hour), 8, 1, 0),
	}

	stats := &app.PlayerWarStats{Tag: "P1"}
	result := Fold(stats, battles, testClan, warStart, 7)

	if len(result.Rows) != 1 || result.Rows[0].Timestamp.IsZero() {
		t.Errorf("Expected only the parseable battle to produce a row, got %+v", result.Rows)
	}
	if stats.BattlesPlayed != 0 {
		t.Errorf("Expected no live battles, got %v", stats.BattlesPlayed)
	}
}
