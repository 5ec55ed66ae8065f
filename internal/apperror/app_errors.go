package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrMatchAborted = errors.New("match aborted")

	ErrInvalidCoordinate = fmt.Errorf("%w: coordinate is not a number", ErrInvalidMove)
	ErrOutOfRange        = fmt.Errorf("%w: coordinate out of range", ErrInvalidMove)
	ErrCellOccupied      = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)

	ErrStreamFailure = errors.New("player stream failure")
	ErrNotFound      = errors.New("not found")
)
