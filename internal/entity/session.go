package entity

import "time"

// Session is the live aggregate of one table: the current board, whose turn it is and the
// scores accumulated over its rounds. The round status is never stored, it is derived from
// Board and Next.
type Session struct {
	ID        string     `json:"id"`
	Board     Board      `json:"board"`
	Next      Player     `json:"next_player"`
	Scores    ScoreBoard `json:"scores"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Board:     NewBoard(),
		Next:      PlayerX,
		UpdatedAt: time.Now(),
	}
}
