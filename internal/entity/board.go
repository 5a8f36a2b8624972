package entity

import (
	"fmt"
	"strings"
)

// Cell is the content of one square of the board.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

const (
	BoardSize = 9
	rowSize   = 3
)

// WinningLine is a triple of board indexes that wins when uniformly marked.
type WinningLine [3]int

// WinningLines is scanned in this order; the first complete line decides the winner.
var WinningLines = [8]WinningLine{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Player - returns the owner of the mark. ok is false for an empty cell.
func (that Cell) Player() (Player, bool) {
	switch that {
	case MarkX:
		return PlayerX, true
	case MarkO:
		return PlayerO, true
	default:
		return "", false
	}
}

func (that Cell) String() string {
	if p, ok := that.Player(); ok {
		return string(p)
	}
	return ""
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = Empty
	case string(PlayerX):
		*that = MarkX
	case string(PlayerO):
		*that = MarkO
	default:
		return fmt.Errorf("unknown cell value %q", text)
	}
	return nil
}

// Board is the 3x3 grid in row-major order (index = row*3 + col).
// It is an array, so every assignment is a copy.
type Board [BoardSize]Cell

// NewBoard returns a board of empty cells.
func NewBoard() Board {
	return Board{}
}

// ValidIndex reports whether index addresses a cell.
func ValidIndex(index int) bool {
	return index >= 0 && index < BoardSize
}

// Get - returns the cell at index. The index must be in 0..8.
func (that Board) Get(index int) Cell {
	return that[index]
}

// WithMove - returns a copy of the board with the player's mark at index.
// It does not check that the cell is empty or that the round is still running.
func (that Board) WithMove(index int, player Player) Board {
	next := that
	next[index] = player.Mark()
	return next
}

func (that Board) IsFull() bool {
	return that.Count(Empty) == 0
}

func (that Board) Count(cell Cell) int {
	n := 0
	for _, c := range that {
		if c == cell {
			n++
		}
	}
	return n
}

// String renders the board as three rows, "." marking empty cells.
func (that Board) String() string {
	var sb strings.Builder
	for i, c := range that {
		if c == Empty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(c.String())
		}

		switch {
		case i == BoardSize-1:
		case (i+1)%rowSize == 0:
			sb.WriteByte('\n')
		default:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
