package sheets

import (
	"fmt"
	"strings"
)

// Cell provides type-safe access to Google Sheets cell values
type Cell struct {
	raw interface{}
}

// NewCell creates a Cell from a raw interface{} value from Google Sheets API
func NewCell(raw interface{}) Cell {
	return Cell{raw: raw}
}

// CellAt returns the cell at index i of a row, or an empty cell when the row is short.
// The API omits trailing empty cells.
func CellAt(row []interface{}, i int) Cell {
	if i < 0 || i >= len(row) {
		return Cell{}
	}
	return NewCell(row[i])
}

// String returns the cell value as a trimmed string
func (c Cell) String() string {
	if c.raw == nil {
		return ""
	}
	if s, ok := c.raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", c.raw))
}

// Bool interprets checkbox and free-text flags
func (c Cell) Bool() bool {
	switch v := c.raw.(type) {
	case bool:
		return v
	case nil:
		return false
	}
	switch strings.ToLower(c.String()) {
	case "true", "yes", "y", "x", "1", "mini":
		return true
	}
	return false
}

// IsEmpty returns true if the cell contains nil or blank text
func (c Cell) IsEmpty() bool {
	return c.String() == ""
}
