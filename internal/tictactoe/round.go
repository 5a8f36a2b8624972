package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
)

// ApplyMove - plays session.Next at index and returns the new aggregate.
//
// The move is rejected, and the session returned unchanged with accepted=false, when the round
// is already won or drawn or when the cell is taken. Scores change only on the move that ends the
// round. Next advances even when the move ends the round.
func ApplyMove(session entity.Session, index int) (entity.Session, bool, error) {
	if !entity.ValidIndex(index) {
		return session, false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, index)
	}

	if entity.IsTerminal(ComputeStatus(session.Board, session.Next)) {
		return session, false, nil
	}

	if session.Board.Get(index) != entity.Empty {
		return session, false, nil
	}

	mover := session.Next
	board := session.Board.WithMove(index, mover)
	status := ComputeStatus(board, mover.Opponent())

	session.Board = board
	session.Next = mover.Opponent()
	session.Scores = session.Scores.Record(status)
	session.UpdatedAt = time.Now()

	return session, true, nil
}

// RestartRound - empties the board and hands the first move to starting. Scores are kept.
// Anything other than X or O starts the round with X.
func RestartRound(session entity.Session, starting entity.Player) entity.Session {
	if !starting.Valid() {
		starting = entity.PlayerX
	}

	session.Board = entity.NewBoard()
	session.Next = starting
	session.UpdatedAt = time.Now()

	return session
}

// ResetScoresAndRestart - zeroes the scores and starts a new round with X.
func ResetScoresAndRestart(session entity.Session) entity.Session {
	session.Scores = entity.ScoreBoard{}

	return RestartRound(session, entity.PlayerX)
}
