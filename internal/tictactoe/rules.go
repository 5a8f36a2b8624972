package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
)

var (
	ErrConflictingWinners  = errors.New("both players own a complete line")
	ErrImpossibleMarkCount = errors.New("mark counts cannot result from alternating turns")
)

// FindWinner - scans entity.WinningLines in order and returns the owner of the first complete line.
//
// Legal play cannot produce complete lines for both players, so the scan order only decides
// boards built out-of-band; CheckBoard rejects those.
func FindWinner(board entity.Board) (entity.Player, entity.WinningLine, bool) {
	for _, line := range entity.WinningLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.Empty && a == b && b == c {
			winner, _ := a.Player()
			return winner, line, true
		}
	}

	return "", entity.WinningLine{}, false
}

// IsDraw - a full board without a winner. A full board with a winner is not a draw.
func IsDraw(board entity.Board) bool {
	if !board.IsFull() {
		return false
	}

	_, _, won := FindWinner(board)
	return !won
}

// ComputeStatus - derives the round status. Win is checked before draw.
func ComputeStatus(board entity.Board, next entity.Player) entity.Status {
	if winner, line, ok := FindWinner(board); ok {
		return entity.Won{Winner: winner, Line: line}
	}

	if IsDraw(board) {
		return entity.Draw{}
	}

	return entity.Playing{Next: next}
}

// CheckBoard - reports boards that alternating play starting from either mark cannot reach.
func CheckBoard(board entity.Board) error {
	var xLine, oLine bool
	for _, line := range entity.WinningLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a == entity.Empty || a != b || b != c {
			continue
		}

		if a == entity.MarkX {
			xLine = true
		} else {
			oLine = true
		}
	}

	if xLine && oLine {
		return ErrConflictingWinners
	}

	diff := board.Count(entity.MarkX) - board.Count(entity.MarkO)
	if diff < -1 || diff > 1 {
		return fmt.Errorf("%w: X-O difference %d", ErrImpossibleMarkCount, diff)
	}

	return nil
}
