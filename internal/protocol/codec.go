package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tris-server/internal/apperror"
	"github.com/rocketscienceinc/tris-server/internal/entity"
)

const rowSeparator = entity.RowSeparator

var (
	ErrMalformedBoard = errors.New("malformed board line")
	ErrUnknownMessage = errors.New("unknown message")
)

// EncodeBoard - renders the grid as " s s s," per row.
func EncodeBoard(cells [entity.Size][entity.Size]entity.Cell) string {
	return entity.SerializeCells(cells)
}

// DecodeBoard - parses a board line, with or without the trailing row separator.
func DecodeBoard(line string) ([entity.Size][entity.Size]entity.Cell, error) {
	var cells [entity.Size][entity.Size]entity.Cell

	rows := strings.Split(strings.TrimSuffix(line, rowSeparator), rowSeparator)
	if len(rows) != entity.Size {
		return cells, fmt.Errorf("%w: %d rows", ErrMalformedBoard, len(rows))
	}

	for i, row := range rows {
		symbols := strings.Fields(row)
		if len(symbols) != entity.Size {
			return cells, fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, i, len(symbols))
		}

		for j, symbol := range symbols {
			if len(symbol) != 1 {
				return cells, fmt.Errorf("%w: symbol %q", ErrMalformedBoard, symbol)
			}

			cell, ok := entity.CellFromSymbol(symbol[0])
			if !ok {
				return cells, fmt.Errorf("%w: symbol %q", ErrMalformedBoard, symbol)
			}
			cells[i][j] = cell
		}
	}

	return cells, nil
}

// ParseCoordinate - turns a client token into an integer. Range is checked by the board.
func ParseCoordinate(token string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidCoordinate, token)
	}

	return value, nil
}

// Decode - maps a server line back to its message variant.
func Decode(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")

	switch {
	case line == validityValid:
		return ValidityResult{Valid: true}, nil
	case line == validityInvalid:
		return ValidityResult{Valid: false}, nil
	case line == rowPrompt:
		return CoordinatePrompt{Axis: AxisRow}, nil
	case line == colPrompt:
		return CoordinatePrompt{Axis: AxisColumn}, nil
	case strings.HasPrefix(line, turnPrefix):
		player, err := entity.ParsePlayer(strings.TrimPrefix(line, turnPrefix))
		if err != nil {
			return nil, fmt.Errorf("failed to decode turn announcement: %w", err)
		}
		return TurnAnnouncement{Player: player}, nil
	case strings.HasPrefix(line, terminalPrefix):
		return decodeTerminal(strings.TrimPrefix(line, terminalPrefix))
	case strings.Contains(line, rowSeparator):
		cells, err := DecodeBoard(line)
		if err != nil {
			return nil, err
		}
		return BoardSnapshot{Cells: cells}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, line)
	}
}

func decodeTerminal(text string) (Message, error) {
	switch text {
	case winText:
		return Terminal{Result: ResultWin}, nil
	case lossText:
		return Terminal{Result: ResultLoss}, nil
	case drawText:
		return Terminal{Result: ResultDraw}, nil
	default:
		return nil, fmt.Errorf("%w: terminal %q", ErrUnknownMessage, text)
	}
}
