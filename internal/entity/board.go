package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tris-server/internal/apperror"
)

const (
	Size         = 3
	RowSeparator = ","
)

// Cell is the occupancy of a single board square.
type Cell int8

const (
	CellEmpty Cell = iota
	CellA
	CellB
)

const (
	SymbolA     = 'X'
	SymbolB     = 'O'
	SymbolEmpty = '-'
)

// Symbol - returns the wire symbol of the cell.
func (that Cell) Symbol() byte {
	switch that {
	case CellA:
		return SymbolA
	case CellB:
		return SymbolB
	default:
		return SymbolEmpty
	}
}

// CellFromSymbol - maps a wire symbol back to a cell.
func CellFromSymbol(symbol byte) (Cell, bool) {
	switch symbol {
	case SymbolA:
		return CellA, true
	case SymbolB:
		return CellB, true
	case SymbolEmpty:
		return CellEmpty, true
	default:
		return CellEmpty, false
	}
}

// WinLines lists the 3 rows, 3 columns and 2 diagonals as {row, col} triples.
var WinLines = [][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is the 3x3 grid. Cells never go back to CellEmpty once placed.
type Board struct {
	cells  [Size][Size]Cell
	filled int
}

func NewBoard() *Board {
	return &Board{}
}

// Place - marks the cell for the player if it is inside the grid and still empty.
func (that *Board) Place(row, col int, player Player) error {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfRange, row, col)
	}

	if that.cells[row][col] != CellEmpty {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrCellOccupied, row, col)
	}

	that.cells[row][col] = player.Cell()
	that.filled++

	return nil
}

// HasWon - reports whether any line is fully held by the player.
func (that *Board) HasWon(player Player) bool {
	mark := player.Cell()

	for _, line := range WinLines {
		if that.cells[line[0][0]][line[0][1]] == mark &&
			that.cells[line[1][0]][line[1][1]] == mark &&
			that.cells[line[2][0]][line[2][1]] == mark {
			return true
		}
	}

	return false
}

func (that *Board) IsFull() bool {
	return that.filled == Size*Size
}

func (that *Board) Filled() int {
	return that.filled
}

// Cells - returns a copy of the grid.
func (that *Board) Cells() [Size][Size]Cell {
	return that.cells
}

// Serialize - renders the grid row-major, every row as " s s s" followed by RowSeparator.
func (that *Board) Serialize() string {
	return SerializeCells(that.cells)
}

func SerializeCells(cells [Size][Size]Cell) string {
	var sb strings.Builder

	for _, row := range cells {
		for _, cell := range row {
			sb.WriteByte(' ')
			sb.WriteByte(cell.Symbol())
		}
		sb.WriteString(RowSeparator)
	}

	return sb.String()
}
