package entity

const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

// Status is the derived state of a round. Exactly one of Playing, Won or Draw.
type Status interface {
	Kind() string
	isStatus()
}

// Playing - the round is running and Next moves.
type Playing struct {
	Next Player
}

// Won - Winner completed Line.
type Won struct {
	Winner Player
	Line   WinningLine
}

// Draw - every cell is taken and no line is complete.
type Draw struct{}

func (Playing) Kind() string { return StatusPlaying }
func (Won) Kind() string     { return StatusWon }
func (Draw) Kind() string    { return StatusDraw }

func (Playing) isStatus() {}
func (Won) isStatus()     {}
func (Draw) isStatus()    {}

// IsTerminal reports whether no further move can change the round.
func IsTerminal(status Status) bool {
	_, playing := status.(Playing)
	return !playing
}
