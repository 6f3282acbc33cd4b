package game

import "errors"

// Rejections. None of these leave a partial mutation behind.
var (
	ErrNotStarted     = errors.New("game has not started")
	ErrAlreadyStarted = errors.New("game has already started")
	ErrGameFull       = errors.New("no empty corner left")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrBoardTooLarge  = errors.New("board is too large")

	ErrInvalidMove = errors.New("invalid move")
	ErrOutOfBounds = errors.New("tile is out of bounds")
	ErrNotOwned    = errors.New("tile is not owned by the acting player")
	ErrNotAdjacent = errors.New("tiles are not adjacent")
	ErrLocked      = errors.New("building is not unlocked")

	ErrInsufficientResources = errors.New("insufficient resources")
	ErrTypeMismatch          = errors.New("resource kinds do not match")
	ErrNegativeAmount        = errors.New("amount must not be negative")

	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrResidentMismatch = errors.New("building does not house this kind of resident")
)
