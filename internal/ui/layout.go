package ui

// maxColumns caps the grid width; beyond three agents the grid grows rows.
const maxColumns = 3

// Grid derives the card grid dimensions from the number of tracked agents.
// Layout is a function of cardinality only, so agents appearing or
// vanishing resize the grid without a restart.
func Grid(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = n
	if cols > maxColumns {
		cols = maxColumns
	}
	rows = (n + cols - 1) / cols
	return cols, rows
}
