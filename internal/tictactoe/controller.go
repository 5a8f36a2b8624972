package tictactoe

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
)

// Controller owns a single in-process session. Every method is one critical section, so a move
// that ends the round is scored once and no move lands after the end.
type Controller struct {
	mu      sync.Mutex
	session entity.Session
}

func NewController() *Controller {
	return &Controller{
		session: *entity.NewSession(""),
	}
}

func (that *Controller) Status() entity.Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return ComputeStatus(that.session.Board, that.session.Next)
}

func (that *Controller) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Board
}

func (that *Controller) Scores() entity.ScoreBoard {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Scores
}

// Snapshot - returns a copy of the whole session.
func (that *Controller) Snapshot() entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session
}

// ApplyMove - plays the current player's mark at index. See ApplyMove for the rejection rules.
func (that *Controller) ApplyMove(index int) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	next, accepted, err := ApplyMove(that.session, index)
	if err != nil {
		return false, err
	}

	that.session = next

	return accepted, nil
}

func (that *Controller) RestartRound(starting entity.Player) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.session = RestartRound(that.session, starting)
}

func (that *Controller) ResetScoresAndRestart() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.session = ResetScoresAndRestart(that.session)
}
