package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.MarkX
	o = entity.MarkO
	e = entity.Empty
)

func TestFindWinner(t *testing.T) {
	t.Run("Winner X on a column", func(t *testing.T) {
		// Given: X owns the left column
		board := entity.Board{x, o, e, x, o, e, x, e, e}

		// When: looking for a winner
		winner, line, ok := FindWinner(board)

		// Then: X wins with the column line
		require.True(t, ok)
		assert.Equal(t, entity.PlayerX, winner)
		assert.Equal(t, entity.WinningLine{0, 3, 6}, line)
	})

	t.Run("Winner O on the anti-diagonal", func(t *testing.T) {
		// Given: O owns 2, 4 and 6
		board := entity.Board{x, x, o, e, o, x, o, e, e}

		// When: looking for a winner
		winner, line, ok := FindWinner(board)

		// Then: O wins with the anti-diagonal
		require.True(t, ok)
		assert.Equal(t, entity.PlayerO, winner)
		assert.Equal(t, entity.WinningLine{2, 4, 6}, line)
	})

	t.Run("No winner without a uniform line", func(t *testing.T) {
		// Given: every line mixes marks or has a gap
		board := entity.Board{x, o, x, e, o, e, x, e, e}

		// When: looking for a winner
		_, _, ok := FindWinner(board)

		// Then: nobody wins
		assert.False(t, ok)
	})

	t.Run("Empty lines never win", func(t *testing.T) {
		// When: looking for a winner on an empty board
		_, _, ok := FindWinner(entity.NewBoard())

		// Then: nobody wins
		assert.False(t, ok)
	})

	t.Run("First line in scan order wins on a constructed board", func(t *testing.T) {
		// Given: a board nobody can reach where X owns the top row and O the middle row
		board := entity.Board{x, x, x, o, o, o, e, e, e}

		// When: looking for a winner
		winner, line, ok := FindWinner(board)

		// Then: the top row is found first
		require.True(t, ok)
		assert.Equal(t, entity.PlayerX, winner)
		assert.Equal(t, entity.WinningLine{0, 1, 2}, line)
	})
}

func TestFindWinner_OnlyUniformLines(t *testing.T) {
	// Every board over {e, x, o} in the 3^9 space.
	for code := 0; code < 19683; code++ {
		var board entity.Board
		rest := code
		for i := range board {
			board[i] = entity.Cell(rest % 3)
			rest /= 3
		}

		winner, line, ok := FindWinner(board)
		if !ok {
			for _, l := range entity.WinningLines {
				a, b, c := board[l[0]], board[l[1]], board[l[2]]
				require.False(t, a != e && a == b && b == c, "missed line %v on %v", l, board)
			}
			require.Equal(t, board.IsFull(), IsDraw(board))
			continue
		}

		mark := winner.Mark()
		require.Equal(t, mark, board[line[0]])
		require.Equal(t, mark, board[line[1]])
		require.Equal(t, mark, board[line[2]])
		require.False(t, IsDraw(board))
	}
}

func TestIsDraw(t *testing.T) {
	t.Run("Full board without a line is a draw", func(t *testing.T) {
		board := entity.Board{x, x, o, o, o, x, x, o, x}

		assert.True(t, IsDraw(board))
	})

	t.Run("Full board with a line is not a draw", func(t *testing.T) {
		board := entity.Board{x, x, x, o, o, x, o, x, o}

		assert.False(t, IsDraw(board))
	})

	t.Run("Board with an empty cell is not a draw", func(t *testing.T) {
		board := entity.Board{x, x, o, o, o, x, x, o, e}

		assert.False(t, IsDraw(board))
	})
}

func TestComputeStatus(t *testing.T) {
	t.Run("Win takes precedence over a full board", func(t *testing.T) {
		// Given: a full board with X on the top row
		board := entity.Board{x, x, x, o, o, x, o, x, o}

		// When: computing the status
		status := ComputeStatus(board, entity.PlayerO)

		// Then: the round is won, not drawn
		assert.Equal(t, entity.Won{Winner: entity.PlayerX, Line: entity.WinningLine{0, 1, 2}}, status)
	})

	t.Run("Draw", func(t *testing.T) {
		status := ComputeStatus(entity.Board{x, x, o, o, o, x, x, o, x}, entity.PlayerO)

		assert.Equal(t, entity.Draw{}, status)
	})

	t.Run("Playing carries the next player", func(t *testing.T) {
		status := ComputeStatus(entity.Board{x, e, e, e, e, e, e, e, e}, entity.PlayerO)

		assert.Equal(t, entity.Playing{Next: entity.PlayerO}, status)
		assert.Equal(t, entity.StatusPlaying, status.Kind())
	})
}

func TestCheckBoard(t *testing.T) {
	t.Run("Reachable board passes", func(t *testing.T) {
		require.NoError(t, CheckBoard(entity.Board{x, o, e, e, x, e, e, e, e}))
	})

	t.Run("O ahead by one passes after a round started with O", func(t *testing.T) {
		require.NoError(t, CheckBoard(entity.Board{o, e, e, e, e, e, e, e, e}))
	})

	t.Run("Two winners are rejected", func(t *testing.T) {
		err := CheckBoard(entity.Board{x, x, x, o, o, o, e, e, e})

		assert.ErrorIs(t, err, ErrConflictingWinners)
	})

	t.Run("Unbalanced marks are rejected", func(t *testing.T) {
		err := CheckBoard(entity.Board{x, x, e, x, e, e, e, e, e})

		assert.ErrorIs(t, err, ErrImpossibleMarkCount)
	})
}
