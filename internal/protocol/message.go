// Package protocol encodes the line protocol spoken between the referee and the player clients.
//
// Every server line belongs to one of a closed set of variants; Decode maps a line back to its
// variant so clients never have to sniff substrings.
package protocol

import (
	"strconv"

	"github.com/rocketscienceinc/tris-server/internal/entity"
)

const (
	turnPrefix      = "Tocca al giocatore "
	rowPrompt       = "Inserisci la riga (0,1,2): "
	colPrompt       = "Inserisci la colonna (0,1,2): "
	terminalPrefix  = "Partita conclusa. "
	winText         = "Hai vinto!"
	lossText        = "Hai perso."
	drawText        = "Pareggio."
	validityValid   = "1"
	validityInvalid = "0"
)

// Message is a server to client line.
type Message interface {
	Encode() string
}

// TurnAnnouncement tells both players whose turn it is.
type TurnAnnouncement struct {
	Player entity.Player
}

func (that TurnAnnouncement) Encode() string {
	return turnPrefix + strconv.Itoa(that.Player.Index())
}

// BoardSnapshot carries the grid to the active player.
type BoardSnapshot struct {
	Cells [entity.Size][entity.Size]entity.Cell
}

func SnapshotOf(board *entity.Board) BoardSnapshot {
	return BoardSnapshot{Cells: board.Cells()}
}

func (that BoardSnapshot) Encode() string {
	return EncodeBoard(that.Cells)
}

type Axis int

const (
	AxisRow Axis = iota
	AxisColumn
)

// CoordinatePrompt asks the active player for one coordinate.
type CoordinatePrompt struct {
	Axis Axis
}

func (that CoordinatePrompt) Encode() string {
	if that.Axis == AxisColumn {
		return colPrompt
	}
	return rowPrompt
}

// ValidityResult acknowledges a move attempt.
type ValidityResult struct {
	Valid bool
}

func (that ValidityResult) Encode() string {
	if that.Valid {
		return validityValid
	}
	return validityInvalid
}

type Result int

const (
	ResultWin Result = iota
	ResultLoss
	ResultDraw
)

// Terminal is the per-recipient end of game line.
type Terminal struct {
	Result Result
}

func (that Terminal) Encode() string {
	switch that.Result {
	case ResultWin:
		return terminalPrefix + winText
	case ResultLoss:
		return terminalPrefix + lossText
	default:
		return terminalPrefix + drawText
	}
}
