package room

import "errors"

var (
	ErrRoomFull   = errors.New("room is full")
	ErrNotStarted = errors.New("game has not started")
	ErrClosed     = errors.New("room is closed")
)
