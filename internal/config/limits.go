package config

import "time"

// War and API limit constants
const (
	// The API only exposes the trailing window of a player's battle log
	BattleLogLimit = 100

	// A player may use at most this many decks on one war day
	DecksPerPlayerPerDay = 4

	// Clan-wide deck cap for one war day (50 members x 4 decks)
	MaxClanDecksPerDay = 200

	// Cards played per sub-battle of a duel
	CardsPerDeck = 8

	// HTTP timeouts for the external adapters
	APIRequestTimeout     = 30 * time.Second
	SheetRequestTimeout   = 30 * time.Second
	WebhookRequestTimeout = 10 * time.Second
	PublishRequestTimeout = 30 * time.Second

	// Names change rarely; a day is plenty
	NameCacheTTL = 24 * time.Hour
)

// RequestConfig bounds one class of outbound request
type RequestConfig struct {
	Timeout time.Duration
}

// Limits collects the per-run limits handed to the processor
type Limits struct {
	BattleLogLimit       int
	DecksPerPlayerPerDay int
	MaxClanDecksPerDay   int
	APIRequest           RequestConfig
	SheetRequest         RequestConfig
	WebhookRequest       RequestConfig
	PublishRequest       RequestConfig
}

// DefaultLimits provides the production values
var DefaultLimits = Limits{
	BattleLogLimit:       BattleLogLimit,
	DecksPerPlayerPerDay: DecksPerPlayerPerDay,
	MaxClanDecksPerDay:   MaxClanDecksPerDay,
	APIRequest:           RequestConfig{Timeout: APIRequestTimeout},
	SheetRequest:         RequestConfig{Timeout: SheetRequestTimeout},
	WebhookRequest:       RequestConfig{Timeout: WebhookRequestTimeout},
	PublishRequest:       RequestConfig{Timeout: PublishRequestTimeout},
}
