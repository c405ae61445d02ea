package report

type cell struct {
	row, col int
}

// Grid is a sparse table of string cells. Unset cells read as blank.
type Grid struct {
	cells map[cell]string
	rows  int
	cols  int
}

// NewGrid creates an empty grid
func NewGrid() *Grid {
	return &Grid{cells: make(map[cell]string)}
}

// Set stores a value and grows the grid bounds to include it
func (g *Grid) Set(row, col int, value string) {
	if row < 0 || col < 0 {
		return
	}
	g.cells[cell{row, col}] = value
	if row >= g.rows {
		g.rows = row + 1
	}
	if col >= g.cols {
		g.cols = col + 1
	}
}

// Get returns the value at (row, col), or "" when unset
func (g *Grid) Get(row, col int) string {
	return g.cells[cell{row, col}]
}

// Size returns the bounding rows and columns
func (g *Grid) Size() (int, int) {
	return g.rows, g.cols
}

// Dense materializes the grid into a rectangular array, blanks filled with ""
func (g *Grid) Dense() [][]string {
	out := make([][]string, g.rows)
	for r := range out {
		out[r] = make([]string, g.cols)
	}
	for c, v := range g.cells {
		out[c.row][c.col] = v
	}
	return out
}
