package app

import (
	"testing"
	"time"
)

func TestBattleTime(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{"ApiFormat", "20210125T093000.000Z", time.Date(2021, 1, 25, 9, 30, 0, 0, time.UTC)},
		{"Milliseconds", "20210127T100000.123Z", time.Date(2021, 1, 27, 10, 0, 0, 123000000, time.UTC)},
		{"Malformed", "2021-01-25 09:30", time.Time{}},
		{"Empty", "", time.Time{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Battle{BattleTime: tc.raw}.Time()
			if !got.Equal(tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestParticipantCounters(t *testing.T) {
	three := 3
	p := Participant{
		Crowns:                  &three,
		KingTowerHitPoints:      4824,
		PrincessTowersHitPoints: []int{0, 1200},
	}

	if p.CrownCount() != 3 {
		t.Errorf("Expected 3 crowns, got %d", p.CrownCount())
	}
	if p.RemainingTowers() != 2 {
		t.Errorf("Expected 2 remaining towers, got %d", p.RemainingTowers())
	}

	empty := Participant{}
	if empty.CrownCount() != 0 {
		t.Errorf("Expected missing crowns to count as 0, got %d", empty.CrownCount())
	}
	if empty.RemainingTowers() != 0 {
		t.Errorf("Expected no tower data to count as 0, got %d", empty.RemainingTowers())
	}
	if empty.ClanTag() != "" {
		t.Errorf("Expected clanless participant to have empty clan tag, got %q", empty.ClanTag())
	}
}

func TestNormalizeTag(t *testing.T) {
	testCases := map[string]string{
		"#yjcgrv9":   "YJCGRV9",
		"YJCGRV9":    "YJCGRV9",
		" #2q9jyy9j": "2Q9JYY9J",
		"":           "",
	}

	for input, expected := range testCases {
		if got := NormalizeTag(input); got != expected {
			t.Errorf("NormalizeTag(%q) = %q, expected %q", input, got, expected)
		}
	}
}
