package battle

import (
	"cr_war_stats/internal/app"
	"cr_war_stats/internal/config"
)

// Category is the war relevance of a battle type
type Category int

const (
	// Unclassified covers every battle type that does not count for the war,
	// including types the API may introduce later.
	Unclassified Category = iota
	Duel
	ColosseumDuel
	TeamSkirmish
	BoatAssist
)

// Battle type tags as sent by the API
const (
	TypeRiverRaceDuel          = "riverRaceDuel"
	TypeRiverRaceDuelColosseum = "riverRaceDuelColosseum"
	TypeRiverRacePvP           = "riverRacePvP"
	TypeBoatBattle             = "boatBattle"
	BoatSideAttacker           = "attacker"
	BoatSideDefender           = "defender"
)

var categoryNames = map[Category]string{
	Unclassified:  "unclassified",
	Duel:          "duel",
	ColosseumDuel: "colosseum_duel",
	TeamSkirmish:  "team_skirmish",
	BoatAssist:    "boat_assist",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unclassified"
}

// Outcome is the classification of one war-relevant battle
type Outcome struct {
	Category   Category
	SubBattles float64
	Won        bool
	ClanTag    string
}

// DecksWon is the number of sub-battles credited as won
func (o Outcome) DecksWon() float64 {
	if o.Won {
		return o.SubBattles
	}
	return 0
}

// CategoryOf maps an API battle type tag to its category
//
// Pure function: No I/O operations, fully testable with direct inputs.
func CategoryOf(battleType string) Category {
	switch battleType {
	case TypeRiverRaceDuel:
		return Duel
	case TypeRiverRaceDuelColosseum:
		return ColosseumDuel
	case TypeRiverRacePvP:
		return TeamSkirmish
	case TypeBoatBattle:
		return BoatAssist
	default:
		return Unclassified
	}
}

// Classify determines whether a battle counts toward clanTag's war statistics
// and, if so, its sub-battle count and outcome. The second return value is
// false for unclassified types, for battles the player fought for another
// clan, and for boat battles on the defending side.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func Classify(b app.Battle, clanTag string) (Outcome, bool) {
	category := CategoryOf(b.Type)
	if category == Unclassified || len(b.Team) == 0 {
		return Outcome{}, false
	}

	own := b.Team[0]
	if own.ClanTag() == "" || own.ClanTag() != app.NormalizeTag(clanTag) {
		return Outcome{}, false
	}

	outcome := Outcome{Category: category, ClanTag: own.ClanTag()}

	switch category {
	case Duel, ColosseumDuel:
		outcome.SubBattles = float64(len(own.Cards)) / config.CardsPerDeck
		outcome.Won = duelWon(own, firstOpponent(b))
	case TeamSkirmish:
		outcome.SubBattles = 1
		outcome.Won = own.CrownCount() > firstOpponent(b).CrownCount()
	case BoatAssist:
		if b.BoatBattleSide != BoatSideAttacker {
			return Outcome{}, false
		}
		outcome.SubBattles = 1
		outcome.Won = false
	}

	return outcome, true
}

// duelWon compares remaining towers when either side reports them and falls
// back to crowns when the tower counts are equal or absent. Ties never win.
func duelWon(own, opponent app.Participant) bool {
	ownTowers := own.RemainingTowers()
	opponentTowers := opponent.RemainingTowers()
	if ownTowers != opponentTowers {
		return ownTowers > opponentTowers
	}
	return own.CrownCount() > opponent.CrownCount()
}

func firstOpponent(b app.Battle) app.Participant {
	if len(b.Opponent) == 0 {
		return app.Participant{}
	}
	return b.Opponent[0]
}
