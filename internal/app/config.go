package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	APIToken        string
	APIBaseURL      string
	ClanTag         string
	DatabaseURL     string
	DBPath          string
	RedisURL        string
	SpreadsheetID   string
	CredentialsFile string
	ExportRange     string
	MappingRange    string
	WebhookURL      string
	PublishURL      string
	PublishKeyFile  string
	KnownHostsFile  string
	ReportWeeks     int

	// Set from the command line, not the environment
	AdHoc  bool
	Notify bool
	Export bool
}

// Persistent reports whether the run writes to the database
func (c *Config) Persistent() bool {
	return !c.AdHoc && (c.DatabaseURL != "" || c.DBPath != "")
}

// ExportEnabled reports whether the report should be pushed to Google Sheets
func (c *Config) ExportEnabled() bool {
	return !c.AdHoc && c.Export && c.SpreadsheetID != ""
}

// NotifyEnabled reports whether the reminder notification should be sent
func (c *Config) NotifyEnabled() bool {
	return !c.AdHoc && c.Notify && c.WebhookURL != ""
}

// PublishEnabled reports whether the live snapshot should be uploaded over SSH
func (c *Config) PublishEnabled() bool {
	return !c.AdHoc && c.PublishURL != ""
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	zerolog.SetGlobalLevel(parseLevel(os.Getenv("LOGLEVEL"), os.Getenv("ENV") == "production"))

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

func parseLevel(value string, production bool) zerolog.Level {
	levelStr := strings.ToLower(value)
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	case "":
		if production {
			return zerolog.WarnLevel
		}
		return zerolog.InfoLevel
	default:
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
		return zerolog.InfoLevel
	}
}

// LoadConfig loads configuration from environment variables.
// adHocClan, when non-empty, replaces CLAN_TAG and switches the run to print-only mode.
func LoadConfig(adHocClan string) (*Config, error) {
	token := os.Getenv("CR_API_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("CR_API_TOKEN environment variable is required")
	}

	clanTag := NormalizeTag(os.Getenv("CLAN_TAG"))
	adHoc := false
	if adHocClan != "" {
		clanTag = NormalizeTag(adHocClan)
		adHoc = true
	}
	if clanTag == "" {
		return nil, fmt.Errorf("CLAN_TAG environment variable is required when no clan tag argument is given")
	}

	reportWeeks := 1
	if raw := os.Getenv("REPORT_WEEKS"); raw != "" {
		weeks, err := strconv.Atoi(raw)
		if err != nil || weeks < 0 {
			return nil, fmt.Errorf("REPORT_WEEKS must be a non-negative integer, got %q", raw)
		}
		reportWeeks = weeks
	}

	return &Config{
		APIToken:        token,
		APIBaseURL:      getEnv("CR_API_BASE_URL", "https://api.clashroyale.com/v1"),
		ClanTag:         clanTag,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBPath:          os.Getenv("DB_PATH"),
		RedisURL:        os.Getenv("REDIS_URL"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		ExportRange:     getEnv("EXPORT_RANGE", "Stats"),
		MappingRange:    getEnv("MAPPING_RANGE", "Players!A:D"),
		WebhookURL:      os.Getenv("DISCORD_WEBHOOK_URL"),
		PublishURL:      os.Getenv("PUBLISH_URL"),
		PublishKeyFile:  getEnv("PUBLISH_KEY_FILE", "deploy.pem"),
		KnownHostsFile:  os.Getenv("PUBLISH_KNOWN_HOSTS"),
		ReportWeeks:     reportWeeks,
		AdHoc:           adHoc,
		Export:          true,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
