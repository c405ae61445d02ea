package processing

import (
	"context"
	"fmt"
	"io"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/config"
	"cr_war_stats/internal/domain/report"
	"cr_war_stats/internal/domain/warday"
	"cr_war_stats/internal/domain/warstats"
	"cr_war_stats/internal/publish"
	"cr_war_stats/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators of a WarDayProcessor. Exporter, Mapping,
// Notifier and Publisher are optional; leave them nil to skip that step.
type Dependencies struct {
	API       RoyaleClientInterface
	Names     ClanNameResolverInterface
	Store     StoreInterface
	Exporter  ReportExporterInterface
	Mapping   MappingReaderInterface
	Notifier  NotifierInterface
	Publisher PublisherInterface
}

// WarDayProcessor runs one aggregation pass over a clan's roster
type WarDayProcessor struct {
	deps   Dependencies
	config *app.Config
	limits config.Limits
	out    io.Writer
	now    func() time.Time
}

// RunResult describes what a run did. Err holds the fatal error, if any.
type RunResult struct {
	RunID      string
	ClanName   string
	OpenDay    time.Time
	WarStart   time.Time
	Stats      map[string]*app.PlayerWarStats
	Summary    warstats.ClanSummary
	Inserted   int
	Duplicates int
	Failed     int
	Report     [][]string
	Err        error

	activeIDs []int64
}

// NewWarDayProcessor creates a processor. A nil Store is replaced by a disabled one.
func NewWarDayProcessor(deps Dependencies, cfg *app.Config, limits config.Limits, out io.Writer) *WarDayProcessor {
	if deps.Store == nil {
		deps.Store = store.Disabled()
	}
	return &WarDayProcessor{
		deps:   deps,
		config: cfg,
		limits: limits,
		out:    out,
		now:    time.Now,
	}
}

// Run performs one full pass. It is the error boundary for the whole run:
// every failure is logged and recorded in the result, nothing is returned as
// an error and nothing panics past this point.
func (p *WarDayProcessor) Run(ctx context.Context) *RunResult {
	result := &RunResult{
		RunID: uuid.NewString(),
		Stats: make(map[string]*app.PlayerWarStats),
	}
	logger := log.With().
		Str("run_id", result.RunID).
		Str("clan_tag", p.config.ClanTag).
		Logger()

	now := p.now().UTC()
	result.OpenDay = warday.Day(now)
	result.WarStart = warday.OpenDayStart(now)

	logger.Info().
		Str("war_day", warday.Format(result.OpenDay)).
		Time("war_start", result.WarStart).
		Bool("persistent", p.deps.Store.Enabled()).
		Msg("Starting war day run")

	if err := p.aggregate(ctx, logger, result); err != nil {
		result.Err = err
		logger.Error().Err(err).Msg("War day run aborted")
		return result
	}

	p.printConsole(result)
	p.publishSnapshot(ctx, logger, result, now)

	if p.deps.Store.Enabled() {
		p.markLeavers(ctx, logger, result)
		p.exportReport(ctx, logger, result, now)
		p.syncMapping(ctx, logger)
		p.sendReminder(ctx, logger, result)
	}

	logger.Info().
		Int("players", len(result.Stats)).
		Int("inserted", result.Inserted).
		Int("duplicates", result.Duplicates).
		Int("failed", result.Failed).
		Int64("api_calls", p.deps.API.GetAPICallCount()).
		Msg("War day run completed")

	return result
}

// aggregate fetches the roster and folds every member's battle log. Fetch
// failures abort the run; individual write failures do not.
func (p *WarDayProcessor) aggregate(ctx context.Context, logger zerolog.Logger, result *RunResult) error {
	members, err := p.deps.API.GetClanMembers(ctx, p.config.ClanTag)
	if err != nil {
		return fmt.Errorf("failed to fetch clan roster: %w", err)
	}

	clanName, err := p.deps.Names.ClanName(ctx, p.config.ClanTag)
	if err != nil {
		return fmt.Errorf("failed to look up clan name: %w", err)
	}
	result.ClanName = clanName

	logger.Info().
		Str("clan_name", clanName).
		Int("members", len(members.Items)).
		Msg("Fetched clan roster")

	activeIDs := make([]int64, 0, len(members.Items))
	allUpserted := true
	collected := make(map[string]*app.PlayerWarStats, len(members.Items))

	for _, member := range members.Items {
		tag := app.NormalizeTag(member.Tag)

		id, err := p.deps.Store.UpsertPlayer(ctx, tag, member.Name)
		if err != nil {
			logger.Error().Err(err).Str("player_tag", tag).Msg("Failed to upsert player")
			allUpserted = false
		}
		if id != nil {
			activeIDs = append(activeIDs, *id)
		}

		battles, err := p.deps.API.GetBattleLog(ctx, tag)
		if err != nil {
			return fmt.Errorf("failed to fetch battle log for %s: %w", tag, err)
		}

		stats := &app.PlayerWarStats{Tag: tag, Name: member.Name}
		collected[tag] = stats

		var playerID int64
		if id != nil {
			playerID = *id
		}
		folded := warstats.Fold(stats, battles, p.config.ClanTag, result.WarStart, playerID)

		logger.Debug().
			Str("player_tag", tag).
			Int("battles", len(battles)).
			Int("war_battles", len(folded.Rows)).
			Int("live", folded.Live).
			Bool("truncated", stats.Truncated).
			Msg("Folded battle log")

		if id != nil {
			p.persistRows(ctx, logger, result, tag, folded.Rows)
		}
	}

	// Stats are only published once every battle log has been fetched
	result.Stats = collected
	result.Summary = warstats.Summarize(clanName, result.Stats)
	if !allUpserted {
		// Without every member's id, leaver detection would flag current members
		activeIDs = nil
	}
	result.activeIDs = activeIDs
	return nil
}

func (p *WarDayProcessor) persistRows(ctx context.Context, logger zerolog.Logger, result *RunResult, tag string, rows []app.WarBattleRow) {
	for _, row := range rows {
		outcome, err := p.deps.Store.InsertBattle(ctx, row)
		if err != nil {
			result.Failed++
			logger.Error().
				Err(err).
				Str("player_tag", tag).
				Time("battle_time", row.Timestamp).
				Msg("Failed to store war battle")
			continue
		}

		switch outcome {
		case store.InsertInserted:
			result.Inserted++
		case store.InsertDuplicate:
			result.Duplicates++
		}
	}
}

// publishSnapshot uploads the live progress. It only needs the fetched data,
// so it also runs without a database.
func (p *WarDayProcessor) publishSnapshot(ctx context.Context, logger zerolog.Logger, result *RunResult, now time.Time) {
	if p.deps.Publisher == nil {
		return
	}

	data, err := publish.BuildSnapshot(result.Summary, result.Stats, result.OpenDay, result.WarStart, now).Marshal()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build live snapshot")
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.limits.PublishRequest.Timeout)
	defer cancel()

	if err := p.deps.Publisher.Publish(publishCtx, publish.SnapshotFilename, data); err != nil {
		logger.Error().Err(err).Msg("Failed to publish live snapshot")
		return
	}

	logger.Debug().Int("bytes", len(data)).Msg("Published live snapshot")
}

func (p *WarDayProcessor) markLeavers(ctx context.Context, logger zerolog.Logger, result *RunResult) {
	if result.activeIDs == nil {
		logger.Warn().Msg("Skipping leaver detection, roster ids are incomplete")
		return
	}

	left, err := p.deps.Store.MarkLeavers(ctx, result.activeIDs)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to mark leavers")
		return
	}
	if left > 0 {
		logger.Info().Int64("leavers", left).Msg("Marked players who left the clan")
	}
}

func (p *WarDayProcessor) exportReport(ctx context.Context, logger zerolog.Logger, result *RunResult, now time.Time) {
	if p.deps.Exporter == nil {
		return
	}

	cutout := warday.ReportCutout(result.OpenDay, p.config.ReportWeeks)
	rows, err := p.deps.Store.FetchReportRows(ctx, cutout)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load report rows")
		return
	}

	result.Report = report.Project(rows, report.Window{Cutout: cutout, OpenDay: result.OpenDay}, p.limits.MaxClanDecksPerDay, now)

	exportCtx, cancel := context.WithTimeout(ctx, p.limits.SheetRequest.Timeout)
	defer cancel()

	if err := p.deps.Exporter.Export(exportCtx, result.Report); err != nil {
		logger.Error().Err(err).Msg("Failed to export war report")
		return
	}

	logger.Info().
		Str("cutout", warday.Format(cutout)).
		Int("rows", len(result.Report)).
		Msg("Exported war report")
}

func (p *WarDayProcessor) syncMapping(ctx context.Context, logger zerolog.Logger) {
	if p.deps.Mapping == nil {
		return
	}

	readCtx, cancel := context.WithTimeout(ctx, p.limits.SheetRequest.Timeout)
	defer cancel()

	targets, err := p.deps.Mapping.Read(readCtx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read notification mapping")
		return
	}

	updated := 0
	for _, target := range targets {
		found, err := p.deps.Store.SetNotificationTarget(ctx, target)
		if err != nil {
			logger.Error().Err(err).Str("player_tag", target.Tag).Msg("Failed to store notification target")
			continue
		}
		if found {
			updated++
		}
	}

	logger.Debug().
		Int("mapped", len(targets)).
		Int("updated", updated).
		Msg("Synced notification mapping")
}

func (p *WarDayProcessor) sendReminder(ctx context.Context, logger zerolog.Logger, result *RunResult) {
	if p.deps.Notifier == nil {
		return
	}

	incomplete, err := p.deps.Store.FetchIncompletePlayers(ctx, result.OpenDay, p.limits.DecksPerPlayerPerDay)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load incomplete players")
		return
	}
	if len(incomplete) == 0 {
		logger.Info().Msg("Every member has used all decks, no reminder sent")
		return
	}

	dayStats, err := p.deps.Store.FetchOpenWarDayStats(ctx, result.OpenDay)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load war day totals")
		return
	}

	reminder := ComposeReminder(result.OpenDay, dayStats, incomplete, result.Stats, p.limits)
	if err := p.deps.Notifier.Send(ctx, reminder.Message, reminder.Targets); err != nil {
		logger.Error().Err(err).Msg("Failed to send reminder")
		return
	}

	logger.Info().
		Int("players", len(incomplete)).
		Int("targets", len(reminder.Targets)).
		Msg("Sent war day reminder")
}
