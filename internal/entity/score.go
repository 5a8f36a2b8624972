package entity

// ScoreBoard counts finished rounds of a session.
type ScoreBoard struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Record - returns the scores after a round reached status.
// Playing leaves the scores unchanged.
func (that ScoreBoard) Record(status Status) ScoreBoard {
	switch s := status.(type) {
	case Won:
		if s.Winner == PlayerX {
			that.X++
		} else {
			that.O++
		}
	case Draw:
		that.Draws++
	}
	return that
}
