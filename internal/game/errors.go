package game

import "errors"

// All intent rejections are recoverable and leave session state untouched.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrInvalidTurn      = errors.New("not your turn")
	ErrInvalidCardIndex = errors.New("card index out of range")
)
