package apperror

import "errors"

var (
	ErrOutOfRange        = errors.New("cell coordinates out of range")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidMark       = errors.New("invalid player mark")
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrGameIsFull        = errors.New("game is full")
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrUnknownGameType   = errors.New("unknown game type")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrAlreadyInGame     = errors.New("player is already in a game")
	ErrUnreachable       = errors.New("position cannot arise in play")
)
