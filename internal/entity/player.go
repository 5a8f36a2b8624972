package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
)

// Player is a mark owner and the turn indicator of a round.
type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"
)

// ParsePlayer converts "X" or "O" into a Player. An empty string falls back to X.
func ParsePlayer(value string) (Player, error) {
	switch value {
	case "", string(PlayerX):
		return PlayerX, nil
	case string(PlayerO):
		return PlayerO, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, value)
	}
}

// Valid reports whether the player is X or O.
func (that Player) Valid() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent - returns the player who moves after this one.
func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Mark - returns the cell value this player places.
func (that Player) Mark() Cell {
	if that == PlayerO {
		return MarkO
	}
	return MarkX
}

func (that Player) String() string {
	return string(that)
}
