package sheets

import (
	"context"
	"fmt"
	"strings"

	"cr_war_stats/internal/app"
)

// Notification mapping columns: tag, name, discord id, optional mini flag
const (
	mappingTagCol     = 0
	mappingDiscordCol = 2
	mappingMiniCol    = 3
)

// ReadNotificationMapping reads the player tag to Discord routing table.
// Rows without a tag or a Discord id are skipped, as is a header row.
func ReadNotificationMapping(ctx context.Context, api SheetsAPI, spreadsheetID, range_ string) ([]app.NotificationTarget, error) {
	rows, err := api.ReadSheet(ctx, spreadsheetID, range_)
	if err != nil {
		return nil, fmt.Errorf("failed to read notification mapping: %w", err)
	}

	return ParseNotificationMapping(rows), nil
}

// ParseNotificationMapping converts raw mapping rows into targets
func ParseNotificationMapping(rows [][]interface{}) []app.NotificationTarget {
	var targets []app.NotificationTarget
	seen := make(map[string]bool)

	for _, row := range rows {
		rawTag := CellAt(row, mappingTagCol).String()
		tag := app.NormalizeTag(rawTag)
		discordID := CellAt(row, mappingDiscordCol).String()

		if tag == "" || discordID == "" || strings.EqualFold(rawTag, "tag") || seen[tag] {
			continue
		}
		seen[tag] = true

		targets = append(targets, app.NotificationTarget{
			Tag:       tag,
			DiscordID: discordID,
			IsMini:    CellAt(row, mappingMiniCol).Bool(),
		})
	}

	return targets
}

// MappingReader reads the notification mapping from a fixed spreadsheet range
type MappingReader struct {
	api           SheetsAPI
	spreadsheetID string
	range_        string
}

// NewMappingReader creates a reader for the given range
func NewMappingReader(api SheetsAPI, spreadsheetID, range_ string) *MappingReader {
	return &MappingReader{api: api, spreadsheetID: spreadsheetID, range_: range_}
}

// Read fetches and parses the mapping
func (m *MappingReader) Read(ctx context.Context) ([]app.NotificationTarget, error) {
	return ReadNotificationMapping(ctx, m.api, m.spreadsheetID, m.range_)
}
