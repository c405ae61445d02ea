package processing

import (
	"context"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/store"
)

// RoyaleClientInterface defines the Clash Royale API methods used by WarDayProcessor
type RoyaleClientInterface interface {
	GetClanMembers(ctx context.Context, clanTag string) (*app.MembersResponse, error)
	GetBattleLog(ctx context.Context, playerTag string) ([]app.Battle, error)
	GetAPICallCount() int64
}

// ClanNameResolverInterface looks up clan display names
type ClanNameResolverInterface interface {
	ClanName(ctx context.Context, clanTag string) (string, error)
}

// StoreInterface defines the persistence methods used by WarDayProcessor.
// A disabled store answers every call with an empty result.
type StoreInterface interface {
	Enabled() bool
	UpsertPlayer(ctx context.Context, tag, name string) (*int64, error)
	InsertBattle(ctx context.Context, row app.WarBattleRow) (store.InsertResult, error)
	MarkLeavers(ctx context.Context, activeIDs []int64) (int64, error)
	SetNotificationTarget(ctx context.Context, target app.NotificationTarget) (bool, error)
	FetchReportRows(ctx context.Context, cutout time.Time) ([]app.ReportRow, error)
	FetchOpenWarDayStats(ctx context.Context, day time.Time) ([]app.DayPlayerStats, error)
	FetchIncompletePlayers(ctx context.Context, day time.Time, maxDecks int) ([]app.IncompletePlayer, error)
}

// ReportExporterInterface writes the rendered report table somewhere
type ReportExporterInterface interface {
	Export(ctx context.Context, table [][]string) error
}

// MappingReaderInterface reads the tag to notification target mapping
type MappingReaderInterface interface {
	Read(ctx context.Context) ([]app.NotificationTarget, error)
}

// NotifierInterface delivers a message to a set of recipients
type NotifierInterface interface {
	Send(ctx context.Context, message string, targets []string) error
}

// PublisherInterface uploads a named file
type PublisherInterface interface {
	Publish(ctx context.Context, filename string, data []byte) error
}
