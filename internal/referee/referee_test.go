package referee

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/rocketscienceinc/tris-server/internal/apperror"
	"github.com/rocketscienceinc/tris-server/internal/entity"
	"github.com/rocketscienceinc/tris-server/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	rowPrompt = "Inserisci la riga (0,1,2): "
	colPrompt = "Inserisci la colonna (0,1,2): "
)

// scriptedSession replays canned client lines and records everything sent to it.
type scriptedSession struct {
	inputs []string
	sent   []string
	closed int
}

func (that *scriptedSession) Send(msg protocol.Message) error {
	that.sent = append(that.sent, msg.Encode())
	return nil
}

func (that *scriptedSession) ReceiveLine() (string, error) {
	if len(that.inputs) == 0 {
		return "", apperror.ErrStreamFailure
	}

	line := that.inputs[0]
	that.inputs = that.inputs[1:]

	return line, nil
}

func (that *scriptedSession) Close() error {
	that.closed++
	return nil
}

func (that *scriptedSession) last() string {
	return that.sent[len(that.sent)-1]
}

func (that *scriptedSession) count(line string) int {
	n := 0
	for _, sent := range that.sent {
		if sent == line {
			n++
		}
	}
	return n
}

type recorderMock struct {
	mock.Mock
}

func (that *recorderMock) MoveAccepted(player entity.Player) {
	that.Called(player)
}

func (that *recorderMock) MoveRejected(player entity.Player, reason error) {
	that.Called(player, reason)
}

func coords(moves ...[2]int) []string {
	lines := make([]string, 0, len(moves)*2)
	for _, move := range moves {
		lines = append(lines, strconv.Itoa(move[0]), strconv.Itoa(move[1]))
	}
	return lines
}

func newReferee(a, b *scriptedSession, opts ...Option) *Referee {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), a, b, opts...)
}

func TestReferee_Win(t *testing.T) {
	t.Run("Player A completes row 0", func(t *testing.T) {
		// Given: A plays the top row while B plays the middle row
		a := &scriptedSession{inputs: coords([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2})}
		b := &scriptedSession{inputs: coords([2]int{1, 0}, [2]int{1, 1})}

		// When: the game is played with A first
		result, err := newReferee(a, b).Play(entity.PlayerA)

		// Then: A wins at move 5
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeWinA, result.Outcome)
		assert.Len(t, result.Moves, 5)
		assert.Equal(t, " X X X, O O -, - - -,", result.Board)

		// Then: each player gets its own framing and both sessions are closed
		assert.Equal(t, "Partita conclusa. Hai vinto!", a.last())
		assert.Equal(t, "Partita conclusa. Hai perso.", b.last())
		assert.Equal(t, 1, a.closed)
		assert.Equal(t, 1, b.closed)
	})

	t.Run("Winning ninth move is a win, not a draw", func(t *testing.T) {
		// Given: a sequence where A completes the main diagonal on the last free cell
		a := &scriptedSession{inputs: coords([2]int{0, 0}, [2]int{0, 2}, [2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2})}
		b := &scriptedSession{inputs: coords([2]int{0, 1}, [2]int{1, 0}, [2]int{1, 2}, [2]int{2, 0})}

		// When: playing
		result, err := newReferee(a, b).Play(entity.PlayerA)

		// Then: the outcome is a win for A
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeWinA, result.Outcome)
		assert.Len(t, result.Moves, 9)
		assert.Zero(t, a.count("Partita conclusa. Pareggio."))
		assert.Equal(t, "Partita conclusa. Hai perso.", b.last())
	})

	t.Run("Player B can win when moving first", func(t *testing.T) {
		a := &scriptedSession{inputs: coords([2]int{0, 0}, [2]int{0, 1})}
		b := &scriptedSession{inputs: coords([2]int{0, 2}, [2]int{1, 1}, [2]int{2, 0})}

		result, err := newReferee(a, b).Play(entity.PlayerB)

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeWinB, result.Outcome)
		assert.Equal(t, "Partita conclusa. Hai vinto!", b.last())
		assert.Equal(t, "Partita conclusa. Hai perso.", a.last())
	})
}

func TestReferee_Draw(t *testing.T) {
	// Given: nine alternating placements that complete no line
	a := &scriptedSession{inputs: coords([2]int{0, 0}, [2]int{0, 2}, [2]int{1, 0}, [2]int{2, 1}, [2]int{2, 2})}
	b := &scriptedSession{inputs: coords([2]int{0, 1}, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 0})}

	// When: playing
	result, err := newReferee(a, b).Play(entity.PlayerA)

	// Then: the draw is announced once, after the ninth move
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeDraw, result.Outcome)
	assert.Len(t, result.Moves, 9)
	assert.Equal(t, "Partita conclusa. Pareggio.", a.last())
	assert.Equal(t, "Partita conclusa. Pareggio.", b.last())
	assert.Equal(t, 1, a.count("Partita conclusa. Pareggio."))

	// Then: the last line before the draw is the full board sent to A
	assert.Equal(t, " X O X, X O O, O X X,", a.sent[len(a.sent)-2])
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)
}

func TestReferee_TurnAlternation(t *testing.T) {
	for _, first := range []entity.Player{entity.PlayerA, entity.PlayerB} {
		// Given: a drawn game started by either player
		inputs := map[entity.Player][]string{
			first:            coords([2]int{0, 0}, [2]int{0, 2}, [2]int{1, 0}, [2]int{2, 1}, [2]int{2, 2}),
			first.Opponent(): coords([2]int{0, 1}, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 0}),
		}
		a := &scriptedSession{inputs: inputs[entity.PlayerA]}
		b := &scriptedSession{inputs: inputs[entity.PlayerB]}

		// When: playing
		result, err := newReferee(a, b).Play(first)
		require.NoError(t, err)

		// Then: placing players strictly alternate from the configured first mover
		expected := first
		for _, move := range result.Moves {
			assert.Equal(t, expected, move.Player)
			expected = expected.Opponent()
		}

		// Then: both players observed all nine turn announcements in the same order
		var turnsA, turnsB []string
		for _, line := range a.sent {
			if msg, _ := protocol.Decode(line); msg != nil {
				if _, ok := msg.(protocol.TurnAnnouncement); ok {
					turnsA = append(turnsA, line)
				}
			}
		}
		for _, line := range b.sent {
			if msg, _ := protocol.Decode(line); msg != nil {
				if _, ok := msg.(protocol.TurnAnnouncement); ok {
					turnsB = append(turnsB, line)
				}
			}
		}
		assert.Len(t, turnsA, 9)
		assert.Equal(t, turnsA, turnsB)
		assert.Equal(t, "Tocca al giocatore "+first.String(), turnsA[0])
	}
}

func TestReferee_InvalidMoves(t *testing.T) {
	t.Run("Out of range coordinates are re-prompted", func(t *testing.T) {
		// Given: A first tries (5,5) then (0,0); B has nothing to say
		a := &scriptedSession{inputs: []string{"5", "5", "0", "0"}}
		b := &scriptedSession{}
		recorder := &recorderMock{}
		recorder.On("MoveRejected", entity.PlayerA, mock.MatchedBy(func(err error) bool {
			return errors.Is(err, apperror.ErrOutOfRange)
		})).Once()
		recorder.On("MoveAccepted", entity.PlayerA).Once()

		// When: playing until B's stream fails
		result, err := newReferee(a, b, WithRecorder(recorder)).Play(entity.PlayerA)
		require.Error(t, err)

		// Then: A saw the rejection, a fresh prompt, then the acceptance
		assert.Equal(t, []string{
			"Tocca al giocatore 0",
			" - - -, - - -, - - -,",
			rowPrompt,
			colPrompt,
			"0",
			rowPrompt,
			colPrompt,
			"1",
			" X - -, - - -, - - -,",
			"Tocca al giocatore 1",
		}, a.sent)

		// Then: only the valid move was recorded
		assert.Equal(t, []entity.Move{{Player: entity.PlayerA, Row: 0, Col: 0}}, result.Moves)
		recorder.AssertExpectations(t)
	})

	t.Run("Occupied cell is rejected", func(t *testing.T) {
		// Given: A holds the center and B tries it too before picking a corner
		a := &scriptedSession{inputs: coords([2]int{1, 1})}
		b := &scriptedSession{inputs: coords([2]int{1, 1}, [2]int{0, 0})}
		recorder := &recorderMock{}
		recorder.On("MoveAccepted", entity.PlayerA).Once()
		recorder.On("MoveRejected", entity.PlayerB, mock.MatchedBy(func(err error) bool {
			return errors.Is(err, apperror.ErrCellOccupied)
		})).Once()
		recorder.On("MoveAccepted", entity.PlayerB).Once()

		// When: playing until A runs out of input
		result, err := newReferee(a, b, WithRecorder(recorder)).Play(entity.PlayerA)
		require.ErrorIs(t, err, apperror.ErrStreamFailure)

		// Then: the board holds A's center and B's corner only
		assert.Equal(t, " O - -, - X -, - - -,", result.Board)
		assert.Equal(t, 1, b.count("0"))
		assert.Equal(t, 1, b.count("1"))
		recorder.AssertExpectations(t)
	})

	t.Run("Non numeric row still asks for the column", func(t *testing.T) {
		// Given: A answers "abc" for the row
		a := &scriptedSession{inputs: []string{"abc", "1", "2", "2"}}
		b := &scriptedSession{}

		// When: playing
		result, err := newReferee(a, b).Play(entity.PlayerA)
		require.Error(t, err)

		// Then: both prompts were issued before the rejection
		assert.Equal(t, []string{rowPrompt, colPrompt, "0", rowPrompt, colPrompt, "1"}, a.sent[2:8])
		assert.Equal(t, []entity.Move{{Player: entity.PlayerA, Row: 2, Col: 2}}, result.Moves)
	})

	t.Run("Invalid attempts do not advance the turn", func(t *testing.T) {
		// Given: A makes three invalid attempts in a row
		a := &scriptedSession{inputs: []string{"-1", "0", "x", "y", "3", "3", "0", "0"}}
		b := &scriptedSession{}

		// When: playing
		_, err := newReferee(a, b).Play(entity.PlayerA)
		require.Error(t, err)

		// Then: B saw only one turn change to itself, after A's single valid move
		assert.Equal(t, 1, b.count("Tocca al giocatore 1"))
		assert.Equal(t, 3, a.count("0"))
		assert.Equal(t, 1, a.count("1"))
	})
}

func TestReferee_StreamFailure(t *testing.T) {
	// Given: A disconnects after sending a row
	a := &scriptedSession{inputs: []string{"0"}}
	b := &scriptedSession{inputs: coords([2]int{1, 1})}

	// When: playing
	result, err := newReferee(a, b).Play(entity.PlayerA)

	// Then: the game is aborted without an outcome and both sessions are closed
	require.ErrorIs(t, err, apperror.ErrMatchAborted)
	require.ErrorIs(t, err, apperror.ErrStreamFailure)
	assert.Equal(t, entity.OutcomeInProgress, result.Outcome)
	assert.Empty(t, result.Moves)
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)
}

func TestReferee_UnknownFirstPlayer(t *testing.T) {
	_, err := newReferee(&scriptedSession{}, &scriptedSession{}).Play(entity.Player(7))

	assert.ErrorIs(t, err, entity.ErrUnknownPlayer)
}
