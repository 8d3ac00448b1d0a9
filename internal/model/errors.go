package model

import "errors"

// Sentinel errors returned (or wrapped) by the board, the coordinate layer
// and the game. Check them with errors.Is.
var (
	// ErrOutOfRange means a file or rank was built from a value outside the board.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrEmptyOrigin means moves were requested for a square with no piece on it.
	ErrEmptyOrigin = errors.New("no piece at origin square")

	// ErrInvalidNotation means square text was not a file letter followed by a rank digit.
	ErrInvalidNotation = errors.New("invalid square notation")

	// ErrInvalidFEN means a FEN string could not be decoded into a board.
	ErrInvalidFEN = errors.New("invalid FEN string")

	ErrIllegalMove   = errors.New("illegal move")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameFull      = errors.New("game is full")
	ErrGameNotReady  = errors.New("game is waiting for players")
	ErrGameOver      = errors.New("game is over")
	ErrFlagFell      = errors.New("time ran out")
	ErrNotInGame     = errors.New("player not in game")
	ErrInvalidColor  = errors.New("invalid color")
	ErrAlreadyQueued = errors.New("player already in queue")

	ErrAlreadyConnected = errors.New("player already has a connection")
)
