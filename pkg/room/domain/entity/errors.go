package entity

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrBadRequest    = errors.New("roomId and token required")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyJoined = errors.New("already in a room")
	ErrRoomTypeCast  = errors.New("unexpected value type in room repository")
)
