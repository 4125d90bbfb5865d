package game

import "errors"

var (
	ErrMalformedMove = errors.New("malformed move")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrIllegalMove   = errors.New("illegal move")
)
