package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 3

const cellCount = BoardSize * BoardSize

// Cell is the occupancy of a single square.
type Cell uint8

const (
	CellEmpty Cell = iota
	PlayerA
	PlayerB
)

const (
	markEmpty = ""
	markA     = "X"
	markB     = "O"
)

func (that Cell) String() string {
	switch that {
	case PlayerA:
		return markA
	case PlayerB:
		return markB
	default:
		return markEmpty
	}
}

// Opponent returns the other player; CellEmpty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return CellEmpty
	}
}

func (that Cell) IsPlayer() bool {
	return that == PlayerA || that == PlayerB
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

func ParseCell(mark string) (Cell, error) {
	switch mark {
	case markEmpty:
		return CellEmpty, nil
	case markA:
		return PlayerA, nil
	case markB:
		return PlayerB, nil
	default:
		return CellEmpty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}
}

// Move addresses one square of the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) InRange() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Line is three squares that win when owned by the same player.
type Line [BoardSize]Move

// lines are scanned in this order: columns, rows, main diagonal, anti-diagonal.
var lines = [...]Line{
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{2, 0}, {1, 1}, {0, 2}},
}

// Board is the 3x3 grid. The zero value is an empty board.
type Board struct {
	grid   [BoardSize][BoardSize]Cell
	filled int
}

func NewBoard() Board {
	return Board{}
}

// BoardFromGrid builds a board from a row-major grid, counting filled cells.
func BoardFromGrid(grid [BoardSize][BoardSize]Cell) (Board, error) {
	board := Board{}

	for row := range grid {
		for col, cell := range grid[row] {
			if cell == CellEmpty {
				continue
			}

			if err := board.Mark(row, col, cell); err != nil {
				return Board{}, fmt.Errorf("failed to mark %s: %w", Move{row, col}, err)
			}
		}
	}

	return board, nil
}

// Mark places player on an empty square. A failed call leaves the board untouched.
func (that *Board) Mark(row, col int, player Cell) error {
	if !(Move{row, col}).InRange() {
		return fmt.Errorf("%w: %s", apperror.ErrOutOfRange, Move{row, col})
	}

	if !player.IsPlayer() {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidMark, player)
	}

	if that.grid[row][col] != CellEmpty {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, Move{row, col})
	}

	that.grid[row][col] = player
	that.filled++

	return nil
}

func (that *Board) Cell(row, col int) (Cell, error) {
	if !(Move{row, col}).InRange() {
		return CellEmpty, fmt.Errorf("%w: %s", apperror.ErrOutOfRange, Move{row, col})
	}

	return that.grid[row][col], nil
}

func (that *Board) IsEmptyCell(row, col int) (bool, error) {
	cell, err := that.Cell(row, col)
	if err != nil {
		return false, err
	}

	return cell == CellEmpty, nil
}

func (that *Board) IsFull() bool {
	return that.filled == cellCount
}

func (that *Board) Filled() int {
	return that.filled
}

// EmptyCells lists free squares in row-major order.
func (that *Board) EmptyCells() []Move {
	moves := make([]Move, 0, cellCount-that.filled)

	for row := range that.grid {
		for col, cell := range that.grid[row] {
			if cell == CellEmpty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

func (that *Board) Outcome() Outcome {
	if line, ok := that.WinningLine(); ok {
		if that.at(line[0]) == PlayerA {
			return WinA
		}
		return WinB
	}

	if that.IsFull() {
		return Draw
	}

	return InProgress
}

// WinningLine returns the first completed line in scan order.
func (that *Board) WinningLine() (Line, bool) {
	for _, line := range lines {
		first := that.at(line[0])
		if first != CellEmpty && first == that.at(line[1]) && first == that.at(line[2]) {
			return line, true
		}
	}

	return Line{}, false
}

// ValidateTurn checks that the position can arise in play with turn to move.
// X moves first, so X has as many marks as O or one more.
func (that *Board) ValidateTurn(turn Cell) error {
	if !turn.IsPlayer() {
		return fmt.Errorf("%w: turn %q", apperror.ErrInvalidMark, turn)
	}

	marksA, marksB := that.count(PlayerA), that.count(PlayerB)
	if marksA != marksB && marksA != marksB+1 {
		return fmt.Errorf("%w: X has %d marks, O has %d", apperror.ErrUnreachable, marksA, marksB)
	}

	next := PlayerA
	if marksA > marksB {
		next = PlayerB
	}

	if turn != next {
		return fmt.Errorf("%w: %s to move, not %s", apperror.ErrUnreachable, next, turn)
	}

	winsA, winsB := that.hasLine(PlayerA), that.hasLine(PlayerB)

	switch {
	case winsA && winsB:
		return fmt.Errorf("%w: both players have a line", apperror.ErrUnreachable)
	case winsA && next != PlayerB:
		return fmt.Errorf("%w: O moved after X won", apperror.ErrUnreachable)
	case winsB && next != PlayerA:
		return fmt.Errorf("%w: X moved after O won", apperror.ErrUnreachable)
	}

	return nil
}

func (that *Board) count(player Cell) int {
	n := 0

	for row := range that.grid {
		for _, cell := range that.grid[row] {
			if cell == player {
				n++
			}
		}
	}

	return n
}

func (that *Board) hasLine(player Cell) bool {
	for _, line := range lines {
		if that.at(line[0]) == player && that.at(line[1]) == player && that.at(line[2]) == player {
			return true
		}
	}

	return false
}

func (that *Board) Clone() Board {
	return *that
}

func (that *Board) Grid() [BoardSize][BoardSize]Cell {
	return that.grid
}

func (that *Board) at(move Move) Cell {
	return that.grid[move.Row][move.Col]
}

func (that Board) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(that.grid)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}

	return data, nil
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var grid [BoardSize][BoardSize]Cell
	if err := json.Unmarshal(data, &grid); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	board, err := BoardFromGrid(grid)
	if err != nil {
		return err
	}

	*that = board

	return nil
}
