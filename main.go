package main

import (
	"context"
	"flag"
	"os"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/cache"
	"cr_war_stats/internal/config"
	"cr_war_stats/internal/notify"
	"cr_war_stats/internal/processing"
	"cr_war_stats/internal/publish"
	"cr_war_stats/internal/royale"
	"cr_war_stats/internal/sheets"
	"cr_war_stats/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	notifyFlag := flag.Bool("notify", false, "Send the reminder for members with unused decks")
	exportFlag := flag.Bool("export", true, "Push the war report to Google Sheets")
	flag.Parse()

	cfg, err := app.LoadConfig(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return
	}
	cfg.Notify = *notifyFlag
	cfg.Export = *exportFlag

	log.Info().
		Str("clan_tag", cfg.ClanTag).
		Bool("ad_hoc", cfg.AdHoc).
		Bool("persistent", cfg.Persistent()).
		Bool("export", cfg.ExportEnabled()).
		Bool("notify", cfg.NotifyEnabled()).
		Bool("publish", cfg.PublishEnabled()).
		Msg("Starting CR war stats")

	ctx := context.Background()
	limits := config.DefaultLimits

	royaleClient := royale.NewClient(cfg.APIToken, cfg.APIBaseURL, limits.BattleLogLimit, limits.APIRequest.Timeout)
	deps := processing.Dependencies{
		API:   royaleClient,
		Names: newNameResolver(ctx, cfg, royaleClient),
		Store: store.Disabled(),
	}

	if cfg.Persistent() {
		db, err := store.Open(ctx, cfg.DatabaseURL, cfg.DBPath)
		if err != nil {
			// Fall back to the print-only run rather than losing the live summary
			log.Error().Err(err).Msg("Failed to open database, continuing without persistence")
		} else {
			defer db.Close()
			deps.Store = db
		}
	}

	if cfg.ExportEnabled() {
		sheetsClient, err := sheets.NewClient(ctx, cfg.CredentialsFile)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create sheets client, export disabled")
		} else {
			deps.Exporter = sheets.NewReportExporter(sheetsClient, cfg.SpreadsheetID, cfg.ExportRange)
			deps.Mapping = sheets.NewMappingReader(sheetsClient, cfg.SpreadsheetID, cfg.MappingRange)
		}
	}

	if cfg.NotifyEnabled() {
		deps.Notifier = notify.NewDiscordWebhook(cfg.WebhookURL, limits.WebhookRequest.Timeout)
	}

	if cfg.PublishEnabled() {
		publisher, err := publish.NewSSHPublisher(cfg.PublishURL, cfg.PublishKeyFile, cfg.KnownHostsFile, limits.PublishRequest.Timeout)
		if err != nil {
			log.Error().Err(err).Msg("Invalid PUBLISH_URL, snapshot publishing disabled")
		} else {
			deps.Publisher = publisher
		}
	}

	processor := processing.NewWarDayProcessor(deps, cfg, limits, os.Stdout)
	result := processor.Run(ctx)

	log.Info().
		Str("run_id", result.RunID).
		Bool("failed", result.Err != nil).
		Msg("Exiting")
}

// newNameResolver uses Redis as the name cache when configured
func newNameResolver(ctx context.Context, cfg *app.Config, api cache.ClanFetcher) *cache.NameResolver {
	if cfg.RedisURL == "" {
		return cache.NewNameResolver(api, nil, config.NameCacheTTL)
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, clan names will not be cached")
		return cache.NewNameResolver(api, nil, config.NameCacheTTL)
	}
	return cache.NewNameResolver(api, redisCache, config.NameCacheTTL)
}
