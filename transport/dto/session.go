package dto

import (
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/tictactoe"
)

// SessionView is what clients render: the board, the derived status and the scores.
type SessionView struct {
	ID       string            `json:"id"`
	Board    entity.Board      `json:"board"`
	Status   StatusView        `json:"status"`
	Scores   entity.ScoreBoard `json:"scores"`
	Accepted *bool             `json:"accepted,omitempty"`
}

type StatusView struct {
	State      string `json:"state"`
	NextPlayer string `json:"next_player,omitempty"`
	Winner     string `json:"winner,omitempty"`
	Line       []int  `json:"line,omitempty"`
}

type TurnRequest struct {
	Cell *int `json:"cell"`
}

type RestartRequest struct {
	StartingPlayer string `json:"starting_player"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewSessionView(session *entity.Session) SessionView {
	return SessionView{
		ID:     session.ID,
		Board:  session.Board,
		Status: NewStatusView(tictactoe.ComputeStatus(session.Board, session.Next)),
		Scores: session.Scores,
	}
}

// NewTurnView - a session view that also tells whether the move was taken.
func NewTurnView(session *entity.Session, accepted bool) SessionView {
	view := NewSessionView(session)
	view.Accepted = &accepted

	return view
}

func NewStatusView(status entity.Status) StatusView {
	view := StatusView{State: status.Kind()}

	switch s := status.(type) {
	case entity.Playing:
		view.NextPlayer = s.Next.String()
	case entity.Won:
		view.Winner = s.Winner.String()
		view.Line = s.Line[:]
	}

	return view
}
