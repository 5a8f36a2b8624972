package apperror

import "errors"

var (
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrSessionNotFound = errors.New("session not found")
	ErrCorruptSession  = errors.New("session board is not reachable by legal play")
)
