package model

// Board dimensions are fixed by the rules
const (
	BoardRows = 6
	BoardCols = 7

	// WinLength is the number of consecutive same-color cells needed to win
	WinLength = 4
)

// Cell is the content of a single board cell
type Cell byte

const (
	CellEmpty  Cell = ' '
	CellRed    Cell = 'R'
	CellYellow Cell = 'Y'
)

// Move records a piece placement
type Move struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Board is the 6x7 grid for one session. Rows are 0-indexed top to bottom
// (row 5 is the gravity target), columns 0-indexed left to right. The board
// is an owned value inside a session; callers only ever see copies.
type Board struct {
	cells [BoardRows][BoardCols]Cell
}

// NewBoard returns an empty board
func NewBoard() Board {
	var b Board
	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardCols; col++ {
			b.cells[row][col] = CellEmpty
		}
	}
	return b
}

// At returns the cell at the given position, or CellEmpty if out of bounds
func (b *Board) At(row, col int) Cell {
	if row < 0 || row >= BoardRows || col < 0 || col >= BoardCols {
		return CellEmpty
	}
	return b.cells[row][col]
}

// Drop places a piece in the lowest empty row of the column and returns the
// row it landed in. The board is unchanged on error.
func (b *Board) Drop(col int, piece Cell) (int, error) {
	if col < 0 || col >= BoardCols {
		return 0, ErrInvalidColumn
	}
	if b.cells[0][col] != CellEmpty {
		return 0, ErrColumnFull
	}
	for row := BoardRows - 1; row >= 0; row-- {
		if b.cells[row][col] == CellEmpty {
			b.cells[row][col] = piece
			return row, nil
		}
	}
	// Unreachable: the top cell was empty
	return 0, ErrColumnFull
}

// Full returns true if every cell is occupied
func (b *Board) Full() bool {
	for col := 0; col < BoardCols; col++ {
		if b.cells[0][col] == CellEmpty {
			return false
		}
	}
	return true
}

// PieceCount returns the number of non-empty cells
func (b *Board) PieceCount() int {
	count := 0
	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardCols; col++ {
			if b.cells[row][col] != CellEmpty {
				count++
			}
		}
	}
	return count
}

// ConnectsFour reports whether the piece at (row, col) completes a line of
// four. It counts consecutive same-color cells extending in both directions
// from the placed cell along each of the four axes: vertical, horizontal,
// and the two diagonals.
func (b *Board) ConnectsFour(row, col int) bool {
	piece := b.At(row, col)
	if piece == CellEmpty {
		return false
	}

	axes := [4][2]int{
		{1, 0},  // vertical
		{0, 1},  // horizontal
		{1, 1},  // diagonal down-right
		{1, -1}, // diagonal down-left
	}

	for _, axis := range axes {
		count := 1
		count += b.runLength(row, col, axis[0], axis[1], piece)
		count += b.runLength(row, col, -axis[0], -axis[1], piece)
		if count >= WinLength {
			return true
		}
	}
	return false
}

// runLength counts consecutive cells of the given piece starting one step
// away from (row, col) in direction (dr, dc).
func (b *Board) runLength(row, col, dr, dc int, piece Cell) int {
	count := 0
	for r, c := row+dr, col+dc; r >= 0 && r < BoardRows && c >= 0 && c < BoardCols; r, c = r+dr, c+dc {
		if b.cells[r][c] != piece {
			break
		}
		count++
	}
	return count
}

// Grid returns the board as 6 rows of 7 single-character strings in
// {" ", "R", "Y"}, the wire representation.
func (b *Board) Grid() [][]string {
	grid := make([][]string, BoardRows)
	for row := 0; row < BoardRows; row++ {
		grid[row] = make([]string, BoardCols)
		for col := 0; col < BoardCols; col++ {
			grid[row][col] = string(b.cells[row][col])
		}
	}
	return grid
}
