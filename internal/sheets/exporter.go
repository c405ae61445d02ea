package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ReportExporter overwrites one sheet with a rendered report table
type ReportExporter struct {
	api           SheetsAPI
	spreadsheetID string
	sheetName     string
}

// NewReportExporter creates an exporter writing to sheetName
func NewReportExporter(api SheetsAPI, spreadsheetID, sheetName string) *ReportExporter {
	return &ReportExporter{api: api, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

// SheetRange quotes a sheet name for A1 notation, optionally followed by a cell range
func SheetRange(sheetName, cells string) string {
	quoted := "'" + strings.ReplaceAll(sheetName, "'", "''") + "'"
	if cells == "" {
		return quoted
	}
	return quoted + "!" + cells
}

// ColumnLetter converts a zero-based column index to its A1 letters (0 -> A, 26 -> AA)
func ColumnLetter(col int) string {
	letters := ""
	for col >= 0 {
		letters = string(rune('A'+col%26)) + letters
		col = col/26 - 1
	}
	return letters
}

// ToValues converts a string table to the API's value type at the boundary
func ToValues(table [][]string) [][]interface{} {
	values := make([][]interface{}, len(table))
	for r, row := range table {
		values[r] = make([]interface{}, len(row))
		for c, v := range row {
			values[r][c] = v
		}
	}
	return values
}

// Export replaces the sheet contents with table, creating and growing the sheet as needed
func (e *ReportExporter) Export(ctx context.Context, table [][]string) error {
	if len(table) == 0 {
		return fmt.Errorf("refusing to export an empty report")
	}
	cols := len(table[0])

	exists, err := e.api.SheetExists(ctx, e.spreadsheetID, e.sheetName)
	if err != nil {
		return fmt.Errorf("failed to check report sheet: %w", err)
	}
	if !exists {
		log.Info().Str("sheet_name", e.sheetName).Msg("Creating report sheet")
		if err := e.api.CreateSheet(ctx, e.spreadsheetID, e.sheetName); err != nil {
			return err
		}
	}

	if err := e.api.EnsureSheetCapacity(ctx, e.spreadsheetID, e.sheetName, len(table), cols); err != nil {
		return err
	}

	if err := e.api.ClearRange(ctx, e.spreadsheetID, SheetRange(e.sheetName, "")); err != nil {
		return err
	}

	target := SheetRange(e.sheetName, fmt.Sprintf("A1:%s%d", ColumnLetter(cols-1), len(table)))
	if err := e.api.UpdateRange(ctx, e.spreadsheetID, target, ToValues(table)); err != nil {
		return err
	}

	log.Info().
		Str("sheet_name", e.sheetName).
		Int("rows", len(table)).
		Int("cols", cols).
		Msg("Exported war report")

	return nil
}
