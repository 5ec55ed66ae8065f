package entity

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
)

var ErrUnknownPlayer = errors.New("unknown player")

// Player is one of the two symmetric seats. The value doubles as the wire index.
type Player int

const (
	PlayerA Player = 0
	PlayerB Player = 1
)

func (that Player) Opponent() Player {
	if that == PlayerA {
		return PlayerB
	}
	return PlayerA
}

func (that Player) Cell() Cell {
	if that == PlayerA {
		return CellA
	}
	return CellB
}

func (that Player) Index() int {
	return int(that)
}

func (that Player) String() string {
	return strconv.Itoa(int(that))
}

func (that Player) Valid() bool {
	return that == PlayerA || that == PlayerB
}

// ParsePlayer - accepts "0" or "1".
func ParsePlayer(value string) (Player, error) {
	switch value {
	case "0":
		return PlayerA, nil
	case "1":
		return PlayerB, nil
	default:
		return PlayerA, fmt.Errorf("%w: %q", ErrUnknownPlayer, value)
	}
}

// RandomPlayer - picks the first mover with even odds.
func RandomPlayer() Player {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerA
	}
	return PlayerB
}
